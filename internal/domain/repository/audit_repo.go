package repository

import (
	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
)

// AuditRepository определяет методы для append-only журнала событий безопасности
type AuditRepository interface {
	Save(event *entity.SecurityAuditEvent) error
	// ListByChallenge возвращает события челленджа, сначала новые
	ListByChallenge(challengeID uint, limit int) ([]entity.SecurityAuditEvent, error)
}
