package postgres

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
)

// ChallengeRepo реализует repository.ChallengeRepository
type ChallengeRepo struct {
	db *gorm.DB
}

// NewChallengeRepo создает новый репозиторий челленджей
func NewChallengeRepo(db *gorm.DB) *ChallengeRepo {
	return &ChallengeRepo{db: db}
}

// Create сохраняет новый челлендж
func (r *ChallengeRepo) Create(challenge *entity.Challenge) error {
	if challenge.ChallengerID == challenge.OpponentID {
		return fmt.Errorf("%w: challenger and opponent must be distinct", apperrors.ErrValidation)
	}
	return r.db.Create(challenge).Error
}

// GetByID возвращает челлендж по ID
func (r *ChallengeRepo) GetByID(id uint) (*entity.Challenge, error) {
	var challenge entity.Challenge
	err := r.db.First(&challenge, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

// ListForUser возвращает челленджи пользователя с пагинацией
func (r *ChallengeRepo) ListForUser(userID uint, limit, offset int) ([]entity.Challenge, int64, error) {
	var challenges []entity.Challenge
	var total int64

	query := r.db.Model(&entity.Challenge{}).
		Where("challenger_id = ? OR opponent_id = ?", userID, userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&challenges).Error
	if err != nil {
		return nil, 0, err
	}

	return challenges, total, nil
}

// UpdateParticipantStatus точечно обновляет половину статуса одного участника.
// statusColumn задаётся только из entity.Challenge.StatusColumnFor, не из пользовательского ввода.
func (r *ChallengeRepo) UpdateParticipantStatus(challengeID uint, statusColumn string, status string) error {
	if statusColumn != "challenger_status" && statusColumn != "opponent_status" {
		return fmt.Errorf("%w: unknown status column %q", apperrors.ErrValidation, statusColumn)
	}
	return r.db.Model(&entity.Challenge{}).
		Where("id = ?", challengeID).
		Update(statusColumn, status).Error
}

// SetOutcomeIfUnset атомарно записывает итог челленджа через условный UPDATE.
// Guard-колонкой служит completed_at, а не winner_id: при ничьей победитель
// остаётся NULL, но итог считается зафиксированным.
func (r *ChallengeRepo) SetOutcomeIfUnset(challengeID uint, winnerID *uint, completedAt time.Time) (bool, error) {
	result := r.db.Model(&entity.Challenge{}).
		Where("id = ? AND completed_at IS NULL", challengeID).
		Updates(map[string]interface{}{
			"winner_id":    winnerID,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		log.Printf("[ChallengeRepo] Ошибка при записи итога челленджа #%d: %v", challengeID, result.Error)
		return false, result.Error
	}

	// RowsAffected == 0 означает, что итог уже был записан конкурентным запросом
	return result.RowsAffected > 0, nil
}

// CreateQuestionSet сохраняет упорядоченный набор вопросов челленджа одной вставкой
func (r *ChallengeRepo) CreateQuestionSet(links []entity.ChallengeQuestion) error {
	if len(links) == 0 {
		return fmt.Errorf("%w: question set is empty", apperrors.ErrValidation)
	}
	return r.db.Create(&links).Error
}

// GetQuestionSet возвращает связи челлендж-вопрос в порядке показа
func (r *ChallengeRepo) GetQuestionSet(challengeID uint) ([]entity.ChallengeQuestion, error) {
	var links []entity.ChallengeQuestion
	err := r.db.Where("challenge_id = ?", challengeID).
		Order("order_index ASC").
		Find(&links).Error
	return links, err
}
