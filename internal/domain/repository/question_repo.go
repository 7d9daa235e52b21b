package repository

import (
	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами и вариантами
type QuestionRepository interface {
	GetByID(id uint) (*entity.Question, error)
	// GetWithChoices возвращает вопрос вместе с вариантами ответа
	GetWithChoices(id uint) (*entity.Question, error)
	// GetManyWithChoices возвращает вопросы с вариантами по списку ID
	GetManyWithChoices(ids []uint) ([]entity.Question, error)
	// GetRandomByTopic возвращает случайные вопросы темы для формирования челленджа
	GetRandomByTopic(topicID uint, limit int) ([]entity.Question, error)
	CountByTopic(topicID uint) (int64, error)
}
