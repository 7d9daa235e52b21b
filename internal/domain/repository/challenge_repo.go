package repository

import (
	"time"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
)

// ChallengeRepository определяет методы для работы с челленджами
type ChallengeRepository interface {
	Create(challenge *entity.Challenge) error
	GetByID(id uint) (*entity.Challenge, error)
	// ListForUser возвращает все челленджи, где пользователь является участником,
	// сначала новые.
	ListForUser(userID uint, limit, offset int) ([]entity.Challenge, int64, error)
	// UpdateParticipantStatus точечно обновляет половину статуса одного участника
	UpdateParticipantStatus(challengeID uint, statusColumn string, status string) error
	// SetOutcomeIfUnset атомарно записывает итог челленджа (победитель и время
	// завершения) только если итог ещё не зафиксирован (completed_at IS NULL).
	// Возвращает true, если запись выполнил этот вызов; false, если итог уже был
	// сохранён ранее.
	SetOutcomeIfUnset(challengeID uint, winnerID *uint, completedAt time.Time) (bool, error)

	// CreateQuestionSet сохраняет упорядоченный набор вопросов челленджа
	CreateQuestionSet(links []entity.ChallengeQuestion) error
	// GetQuestionSet возвращает связи челлендж-вопрос, отсортированные по порядку показа
	GetQuestionSet(challengeID uint) ([]entity.ChallengeQuestion, error)
}
