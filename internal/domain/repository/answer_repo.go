package repository

import (
	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
)

// AnswerRepository определяет методы для работы с ответами игроков
type AnswerRepository interface {
	// Save вставляет новую запись ответа. Нарушение уникального индекса
	// (challenge_id, question_id, user_id) возвращается как есть — маппинг
	// на ErrDuplicateSubmission выполняет сервисный слой.
	Save(answer *entity.Answer) error
	// Exists проверяет наличие ответа по тройке (челлендж, вопрос, пользователь)
	Exists(challengeID, questionID, userID uint) (bool, error)
	// GetUserAnswers возвращает ответы пользователя в челлендже в порядке отправки
	GetUserAnswers(challengeID, userID uint) ([]entity.Answer, error)
	// GetChallengeAnswers возвращает все ответы обоих игроков в челлендже
	GetChallengeAnswers(challengeID uint) ([]entity.Answer, error)
	// GetLatest возвращает последний по времени ответ пользователя в челлендже.
	// Если ответов ещё нет, возвращает apperrors.ErrNotFound.
	GetLatest(challengeID, userID uint) (*entity.Answer, error)
	// CountUserAnswers возвращает количество ответов пользователя в челлендже
	CountUserAnswers(challengeID, userID uint) (int64, error)
}
