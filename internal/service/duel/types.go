package duel

import (
	"time"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	"github.com/yourusername/trivia-duel-api/internal/domain/repository"
)

// Constants for default values
const (
	DefaultQuestionsPerChallenge = 7
	DefaultQuestionTimeLimitSec  = 10
	DefaultCorrectAnswerPoints   = 10
	DefaultLastQuestionMultiplier = 2
)

// Config содержит настройки дуэльного режима
type Config struct {
	// Параметры раунда
	QuestionsPerChallenge int // Количество вопросов в челлендже
	QuestionTimeLimitSec  int // Лимит времени на вопрос в секундах

	// Параметры подсчета очков
	CorrectAnswerPoints    int // Базовые очки за правильный ответ
	LastQuestionMultiplier int // Множитель очков на последнем вопросе

	// Антифрод
	MinSubmissionGap time.Duration // Минимальный интервал между ответами одного игрока

	// TTL кеша
	ProfileCacheTTL   time.Duration
	TopicCacheTTL     time.Duration
	ChallengeCacheTTL time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		QuestionsPerChallenge:  DefaultQuestionsPerChallenge,
		QuestionTimeLimitSec:   DefaultQuestionTimeLimitSec,
		CorrectAnswerPoints:    DefaultCorrectAnswerPoints,
		LastQuestionMultiplier: DefaultLastQuestionMultiplier,
		MinSubmissionGap:       500 * time.Millisecond,
		ProfileCacheTTL:        5 * time.Minute,
		TopicCacheTTL:          60 * time.Minute,
		ChallengeCacheTTL:      2 * time.Minute,
	}
}

// AuditRecorder определяет интерфейс журнала безопасности,
// необходимый компонентам дуэльного режима.
type AuditRecorder interface {
	RecordEvent(userID, challengeID uint, eventType, severity string, details entity.AuditDetails)
}

// Dependencies содержит зависимости компонентов дуэльного режима
type Dependencies struct {
	ChallengeRepo repository.ChallengeRepository
	AnswerRepo    repository.AnswerRepository
	Audit         AuditRecorder
	Config        *Config
}
