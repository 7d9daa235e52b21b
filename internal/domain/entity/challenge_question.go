package entity

import "time"

// ChallengeQuestion связывает челлендж с вопросом и фиксирует порядок показа.
// OrderIndex нумеруется с 1 и уникален в рамках челленджа.
type ChallengeQuestion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChallengeID uint      `gorm:"not null;index;uniqueIndex:idx_challenge_order;uniqueIndex:idx_challenge_question" json:"challenge_id"`
	QuestionID  uint      `gorm:"not null;uniqueIndex:idx_challenge_question" json:"question_id"`
	OrderIndex  int       `gorm:"not null;uniqueIndex:idx_challenge_order" json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (ChallengeQuestion) TableName() string {
	return "challenge_questions"
}
