package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
)

// AnswerRepo реализует repository.AnswerRepository
type AnswerRepo struct {
	db *gorm.DB
}

// NewAnswerRepo создает новый репозиторий ответов
func NewAnswerRepo(db *gorm.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

// Save вставляет новую запись ответа.
// Нарушение уникального индекса (challenge_id, question_id, user_id)
// возвращается вызывающему как есть — сервис отличает дубликат от прочих ошибок БД.
func (r *AnswerRepo) Save(answer *entity.Answer) error {
	return r.db.Create(answer).Error
}

// Exists проверяет наличие ответа по тройке (челлендж, вопрос, пользователь)
func (r *AnswerRepo) Exists(challengeID, questionID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Answer{}).
		Where("challenge_id = ? AND question_id = ? AND user_id = ?", challengeID, questionID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserAnswers возвращает ответы пользователя в челлендже в порядке отправки
func (r *AnswerRepo) GetUserAnswers(challengeID, userID uint) ([]entity.Answer, error) {
	var answers []entity.Answer
	err := r.db.Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Order("answered_at ASC").
		Find(&answers).Error
	return answers, err
}

// GetChallengeAnswers возвращает все ответы обоих игроков в челлендже
func (r *AnswerRepo) GetChallengeAnswers(challengeID uint) ([]entity.Answer, error) {
	var answers []entity.Answer
	err := r.db.Where("challenge_id = ?", challengeID).
		Order("answered_at ASC").
		Find(&answers).Error
	return answers, err
}

// GetLatest возвращает последний по времени ответ пользователя в челлендже
func (r *AnswerRepo) GetLatest(challengeID, userID uint) (*entity.Answer, error) {
	var answer entity.Answer
	err := r.db.Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Order("answered_at DESC").
		First(&answer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &answer, nil
}

// CountUserAnswers возвращает количество ответов пользователя в челлендже
func (r *AnswerRepo) CountUserAnswers(challengeID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Answer{}).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Count(&count).Error
	return count, err
}
