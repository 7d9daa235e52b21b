package entity

import "time"

// ChallengeResult представляет итоговый счёт одного игрока в челлендже.
// Создаётся ровно один раз — после ответа на последний вопрос.
type ChallengeResult struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChallengeID uint      `gorm:"not null;index;uniqueIndex:idx_challenge_user" json:"challenge_id"`
	UserID      uint      `gorm:"not null;index;uniqueIndex:idx_challenge_user" json:"user_id"`
	TotalScore  int       `gorm:"not null;default:0" json:"total_score"`
	TotalTime   float64   `gorm:"not null;default:0" json:"total_time"` // Сумма времени ответов, секунды
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (ChallengeResult) TableName() string {
	return "challenge_results"
}
