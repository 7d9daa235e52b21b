package entity

import "time"

// Answer представляет ответ (или таймаут) одного игрока на один вопрос челленджа.
// Уникальный индекс по (challenge_id, question_id, user_id) закрывает гонку
// одновременных дублирующих отправок на уровне БД.
type Answer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ChallengeID  uint      `gorm:"not null;index;uniqueIndex:idx_challenge_question_user" json:"challenge_id"`
	QuestionID   uint      `gorm:"not null;uniqueIndex:idx_challenge_question_user" json:"question_id"`
	UserID       uint      `gorm:"not null;index;uniqueIndex:idx_challenge_question_user" json:"user_id"`
	ChoiceID     *uint     `json:"choice_id"` // NULL означает "нет ответа" (таймаут)
	IsCorrect    bool      `gorm:"not null" json:"is_correct"`
	TimeTaken    float64   `gorm:"not null" json:"time_taken"` // Секунды, в пределах [0, лимит вопроса]
	PointsScored int       `gorm:"not null;default:0" json:"points_scored"`
	AnsweredAt   time.Time `gorm:"not null" json:"answered_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Answer) TableName() string {
	return "answers"
}

// IsTimeout возвращает true, если ответ является таймаутом (вариант не выбран)
func (a *Answer) IsTimeout() bool {
	return a.ChoiceID == nil
}
