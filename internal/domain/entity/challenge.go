package entity

import "time"

// Статусы участника челленджа
const (
	ChallengeStatusPending   = "pending"
	ChallengeStatusCompleted = "completed"
)

// Challenge представляет матч 1 на 1 между двумя пользователями по одной теме.
// Инвариант: ChallengerID и OpponentID всегда различны.
type Challenge struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	ChallengerID     uint       `gorm:"not null;index" json:"challenger_id"`
	OpponentID       uint       `gorm:"not null;index" json:"opponent_id"`
	TopicID          uint       `gorm:"not null;index" json:"topic_id"`
	ChallengerStatus string     `gorm:"size:20;not null;default:'pending'" json:"challenger_status"`
	OpponentStatus   string     `gorm:"size:20;not null;default:'pending'" json:"opponent_status"`
	WinnerID         *uint      `json:"winner_id,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Challenge) TableName() string {
	return "challenges"
}

// IsParticipant проверяет, является ли пользователь участником челленджа
func (c *Challenge) IsParticipant(userID uint) bool {
	return userID == c.ChallengerID || userID == c.OpponentID
}

// OpponentOf возвращает ID второго участника для данного пользователя.
// Для не-участника возвращает 0.
func (c *Challenge) OpponentOf(userID uint) uint {
	switch userID {
	case c.ChallengerID:
		return c.OpponentID
	case c.OpponentID:
		return c.ChallengerID
	}
	return 0
}

// StatusFor возвращает статус прохождения челленджа для данного участника
func (c *Challenge) StatusFor(userID uint) string {
	switch userID {
	case c.ChallengerID:
		return c.ChallengerStatus
	case c.OpponentID:
		return c.OpponentStatus
	}
	return ""
}

// StatusColumnFor возвращает имя колонки статуса для данного участника.
// Используется репозиторием для точечного обновления половины статуса.
func (c *Challenge) StatusColumnFor(userID uint) string {
	switch userID {
	case c.ChallengerID:
		return "challenger_status"
	case c.OpponentID:
		return "opponent_status"
	}
	return ""
}

// IsFinishedByBoth возвращает true, когда оба участника завершили прохождение
func (c *Challenge) IsFinishedByBoth() bool {
	return c.ChallengerStatus == ChallengeStatusCompleted &&
		c.OpponentStatus == ChallengeStatusCompleted
}

// HasStoredOutcome возвращает true, если итог (победитель или ничья) уже зафиксирован.
// Признаком служит CompletedAt: при ничье WinnerID остаётся NULL.
func (c *Challenge) HasStoredOutcome() bool {
	return c.CompletedAt != nil
}
