package entity

import "time"

// Question представляет вопрос с вариантами ответа
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TopicID   uint      `gorm:"not null;index" json:"topic_id"`
	Text      string    `gorm:"size:500;not null" json:"text"`
	Choices   []Choice  `gorm:"foreignKey:QuestionID" json:"choices,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// CorrectChoice возвращает правильный вариант ответа (или nil, если варианты не загружены)
func (q *Question) CorrectChoice() *Choice {
	for i := range q.Choices {
		if q.Choices[i].IsCorrect {
			return &q.Choices[i]
		}
	}
	return nil
}

// HasChoice проверяет, принадлежит ли вариант с данным ID этому вопросу
func (q *Question) HasChoice(choiceID uint) bool {
	for i := range q.Choices {
		if q.Choices[i].ID == choiceID {
			return true
		}
	}
	return false
}

// Choice представляет один вариант ответа на вопрос.
// Флаг IsCorrect никогда не сериализуется клиенту: правильность ответа
// определяется только на сервере.
type Choice struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Text       string    `gorm:"size:255;not null" json:"text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"-"` // Скрыто от клиента
	CreatedAt  time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Choice) TableName() string {
	return "choices"
}
