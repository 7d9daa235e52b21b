package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
)

func TestAuditService_RecordEvent_SwallowsStorageError(t *testing.T) {
	// Arrange
	auditRepo := new(MockAuditRepo)
	service := NewAuditService(auditRepo)

	auditRepo.On("Save", mock.MatchedBy(func(e *entity.SecurityAuditEvent) bool {
		return e.UserID == 42 && e.ChallengeID == 1 &&
			e.EventType == entity.AuditEventDuplicateSubmission &&
			e.EventID != ""
	})).Return(assert.AnError)

	// Act: запись события никогда не прерывает обработку
	service.RecordEvent(42, 1, entity.AuditEventDuplicateSubmission, entity.AuditSeverityMedium, entity.AuditDetails{})

	// Assert
	auditRepo.AssertExpectations(t)
}

func TestAuditService_ListChallengeEvents(t *testing.T) {
	// Arrange
	auditRepo := new(MockAuditRepo)
	service := NewAuditService(auditRepo)

	events := []entity.SecurityAuditEvent{
		{EventID: "e-2", UserID: 42, ChallengeID: 1, EventType: entity.AuditEventDuplicateSubmission},
		{EventID: "e-1", UserID: 77, ChallengeID: 1, EventType: entity.AuditEventRateLimitViolation},
	}
	auditRepo.On("ListByChallenge", uint(1), 50).Return(events, nil)

	// Act
	got, err := service.ListChallengeEvents(1, 50)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "e-2", got[0].EventID, "События отдаются от новых к старым")
}
