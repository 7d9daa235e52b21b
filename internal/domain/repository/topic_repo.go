package repository

import (
	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
)

// TopicRepository определяет методы для работы с темами
type TopicRepository interface {
	GetByID(id uint) (*entity.Topic, error)
	List() ([]entity.Topic, error)
}
