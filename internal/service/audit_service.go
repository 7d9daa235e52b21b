package service

import (
	"log"

	"github.com/google/uuid"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	"github.com/yourusername/trivia-duel-api/internal/domain/repository"
)

// AuditService ведет append-only журнал событий безопасности
type AuditService struct {
	auditRepo repository.AuditRepository
}

// NewAuditService создает новый сервис журнала безопасности
func NewAuditService(auditRepo repository.AuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// RecordEvent записывает событие в журнал. Ошибка записи логируется,
// но никогда не прерывает обработку ответа игрока.
func (s *AuditService) RecordEvent(userID, challengeID uint, eventType, severity string, details entity.AuditDetails) {
	event := &entity.SecurityAuditEvent{
		EventID:     uuid.New().String(),
		UserID:      userID,
		ChallengeID: challengeID,
		EventType:   eventType,
		Severity:    severity,
		Details:     details,
	}

	if err := s.auditRepo.Save(event); err != nil {
		log.Printf("[AuditService] WARNING: Не удалось записать событие %s для пользователя #%d (челлендж #%d): %v",
			eventType, userID, challengeID, err)
	}
}

// ListChallengeEvents возвращает события безопасности челленджа
func (s *AuditService) ListChallengeEvents(challengeID uint, limit int) ([]entity.SecurityAuditEvent, error) {
	return s.auditRepo.ListByChallenge(challengeID, limit)
}
