package duel

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
)

// Submission описывает входящий ответ игрока до каких-либо проверок
type Submission struct {
	ChallengeID   uint
	UserID        uint
	QuestionID    uint
	ChoiceID      *uint // nil означает тайм-аут (вариант не выбран)
	TimeTaken     float64
	QuestionOrder int
}

// AnswerValidator выполняет проверки входящего ответа перед подсчетом очков
type AnswerValidator struct {
	config *Config
	deps   *Dependencies
}

// NewAnswerValidator создает новый валидатор ответов
func NewAnswerValidator(config *Config, deps *Dependencies) *AnswerValidator {
	return &AnswerValidator{
		config: config,
		deps:   deps,
	}
}

// Validate прогоняет ответ через цепочку проверок и возвращает челлендж,
// чтобы вызывающий не перечитывал его повторно.
//
// Порядок проверок фиксирован: существование челленджа, участие, границы
// времени, дубликат, минимальный интервал между ответами. Дубликат и
// нарушение интервала дополнительно фиксируются в журнале безопасности.
func (v *AnswerValidator) Validate(ctx context.Context, sub Submission) (*entity.Challenge, error) {
	challenge, err := v.deps.ChallengeRepo.GetByID(sub.ChallengeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	if !challenge.IsParticipant(sub.UserID) {
		log.Printf("[AnswerValidator] Пользователь #%d не является участником челленджа #%d", sub.UserID, sub.ChallengeID)
		return nil, apperrors.ErrForbidden
	}

	if sub.TimeTaken < 0 || sub.TimeTaken > float64(v.config.QuestionTimeLimitSec) {
		return nil, fmt.Errorf("%w: time_taken %.3f is outside [0, %d]",
			apperrors.ErrValidation, sub.TimeTaken, v.config.QuestionTimeLimitSec)
	}

	if sub.QuestionOrder < 1 || sub.QuestionOrder > v.config.QuestionsPerChallenge {
		return nil, fmt.Errorf("%w: question_order %d is outside [1, %d]",
			apperrors.ErrValidation, sub.QuestionOrder, v.config.QuestionsPerChallenge)
	}

	// Предварительная проверка дубликата. Гонку двух одновременных запросов
	// она не закрывает — это делает уникальный индекс при вставке.
	exists, err := v.deps.AnswerRepo.Exists(sub.ChallengeID, sub.QuestionID, sub.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if exists {
		log.Printf("[AnswerValidator] Повторный ответ пользователя #%d на вопрос #%d челленджа #%d",
			sub.UserID, sub.QuestionID, sub.ChallengeID)
		v.deps.Audit.RecordEvent(sub.UserID, sub.ChallengeID,
			entity.AuditEventDuplicateSubmission, entity.AuditSeverityMedium,
			entity.AuditDetails{
				"question_id": sub.QuestionID,
				"time_taken":  sub.TimeTaken,
			})
		return nil, apperrors.ErrDuplicateSubmission
	}

	// Минимальный интервал между ответами одного игрока в рамках челленджа
	latest, err := v.deps.AnswerRepo.GetLatest(sub.ChallengeID, sub.UserID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if latest != nil {
		gap := time.Since(latest.AnsweredAt)
		if gap < v.config.MinSubmissionGap {
			log.Printf("[AnswerValidator] Слишком частые ответы пользователя #%d в челлендже #%d (интервал %v)",
				sub.UserID, sub.ChallengeID, gap)
			v.deps.Audit.RecordEvent(sub.UserID, sub.ChallengeID,
				entity.AuditEventRateLimitViolation, entity.AuditSeverityHigh,
				entity.AuditDetails{
					"question_id": sub.QuestionID,
					"gap_ms":      gap.Milliseconds(),
				})
			return nil, apperrors.ErrRateLimited
		}
	}

	return challenge, nil
}
