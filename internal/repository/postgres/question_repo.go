package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// GetByID возвращает вопрос без вариантов ответа
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetWithChoices возвращает вопрос вместе с вариантами ответа
func (r *QuestionRepo) GetWithChoices(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.Preload("Choices").First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetManyWithChoices возвращает вопросы с вариантами по списку ID
func (r *QuestionRepo) GetManyWithChoices(ids []uint) ([]entity.Question, error) {
	var questions []entity.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := r.db.Preload("Choices").
		Where("id IN ?", ids).
		Find(&questions).Error
	return questions, err
}

// GetRandomByTopic возвращает случайные вопросы темы.
// Используется при формировании набора вопросов нового челленджа.
func (r *QuestionRepo) GetRandomByTopic(topicID uint, limit int) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Preload("Choices").
		Where("topic_id = ?", topicID).
		Order("RANDOM()").
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

// CountByTopic возвращает количество вопросов в теме
func (r *QuestionRepo) CountByTopic(topicID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Question{}).
		Where("topic_id = ?", topicID).
		Count(&count).Error
	return count, err
}
