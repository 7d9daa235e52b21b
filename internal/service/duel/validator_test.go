package duel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
)

// ============================================================================
// Моки для AnswerValidator
// ============================================================================

// MockChallengeRepoForValidator реализует repository.ChallengeRepository
type MockChallengeRepoForValidator struct {
	mock.Mock
}

func (m *MockChallengeRepoForValidator) Create(challenge *entity.Challenge) error {
	return nil
}

func (m *MockChallengeRepoForValidator) GetByID(id uint) (*entity.Challenge, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Challenge), args.Error(1)
}

// Остальные методы не используются в Validate, но нужны для интерфейса
func (m *MockChallengeRepoForValidator) ListForUser(userID uint, limit, offset int) ([]entity.Challenge, int64, error) {
	return nil, 0, nil
}
func (m *MockChallengeRepoForValidator) UpdateParticipantStatus(challengeID uint, statusColumn string, status string) error {
	return nil
}
func (m *MockChallengeRepoForValidator) SetOutcomeIfUnset(challengeID uint, winnerID *uint, completedAt time.Time) (bool, error) {
	return false, nil
}
func (m *MockChallengeRepoForValidator) CreateQuestionSet(links []entity.ChallengeQuestion) error {
	return nil
}
func (m *MockChallengeRepoForValidator) GetQuestionSet(challengeID uint) ([]entity.ChallengeQuestion, error) {
	return nil, nil
}

// MockAnswerRepoForValidator реализует repository.AnswerRepository
type MockAnswerRepoForValidator struct {
	mock.Mock
}

func (m *MockAnswerRepoForValidator) Save(answer *entity.Answer) error {
	args := m.Called(answer)
	return args.Error(0)
}

func (m *MockAnswerRepoForValidator) Exists(challengeID, questionID, userID uint) (bool, error) {
	args := m.Called(challengeID, questionID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAnswerRepoForValidator) GetLatest(challengeID, userID uint) (*entity.Answer, error) {
	args := m.Called(challengeID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Answer), args.Error(1)
}

func (m *MockAnswerRepoForValidator) GetUserAnswers(challengeID, userID uint) ([]entity.Answer, error) {
	return nil, nil
}
func (m *MockAnswerRepoForValidator) GetChallengeAnswers(challengeID uint) ([]entity.Answer, error) {
	return nil, nil
}
func (m *MockAnswerRepoForValidator) CountUserAnswers(challengeID, userID uint) (int64, error) {
	return 0, nil
}

// MockAuditRecorder реализует AuditRecorder
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) RecordEvent(userID, challengeID uint, eventType, severity string, details entity.AuditDetails) {
	m.Called(userID, challengeID, eventType, severity, details)
}

func newValidatorFixture() (*AnswerValidator, *MockChallengeRepoForValidator, *MockAnswerRepoForValidator, *MockAuditRecorder) {
	mockChallengeRepo := new(MockChallengeRepoForValidator)
	mockAnswerRepo := new(MockAnswerRepoForValidator)
	mockAudit := new(MockAuditRecorder)

	config := DefaultConfig()
	deps := &Dependencies{
		ChallengeRepo: mockChallengeRepo,
		AnswerRepo:    mockAnswerRepo,
		Audit:         mockAudit,
		Config:        config,
	}
	return NewAnswerValidator(config, deps), mockChallengeRepo, mockAnswerRepo, mockAudit
}

func validChallenge() *entity.Challenge {
	return &entity.Challenge{
		ID:           1,
		ChallengerID: 42,
		OpponentID:   77,
	}
}

// ============================================================================
// Тесты для AnswerValidator
// ============================================================================

func TestAnswerValidator_Validate_Success(t *testing.T) {
	// Arrange
	validator, mockChallengeRepo, mockAnswerRepo, _ := newValidatorFixture()

	mockChallengeRepo.On("GetByID", uint(1)).Return(validChallenge(), nil)
	mockAnswerRepo.On("Exists", uint(1), uint(10), uint(42)).Return(false, nil)
	mockAnswerRepo.On("GetLatest", uint(1), uint(42)).Return(nil, apperrors.ErrNotFound)

	choiceID := uint(3)
	sub := Submission{
		ChallengeID:   1,
		UserID:        42,
		QuestionID:    10,
		ChoiceID:      &choiceID,
		TimeTaken:     4.5,
		QuestionOrder: 2,
	}

	// Act
	challenge, err := validator.Validate(context.Background(), sub)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, challenge)
	assert.Equal(t, uint(1), challenge.ID)
	mockChallengeRepo.AssertExpectations(t)
	mockAnswerRepo.AssertExpectations(t)
}

func TestAnswerValidator_Validate_ChallengeNotFound(t *testing.T) {
	// Arrange
	validator, mockChallengeRepo, _, _ := newValidatorFixture()

	mockChallengeRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	sub := Submission{ChallengeID: 99, UserID: 42, QuestionID: 10, TimeTaken: 1, QuestionOrder: 1}

	// Act
	_, err := validator.Validate(context.Background(), sub)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAnswerValidator_Validate_NotParticipant(t *testing.T) {
	// Arrange
	validator, mockChallengeRepo, _, _ := newValidatorFixture()

	mockChallengeRepo.On("GetByID", uint(1)).Return(validChallenge(), nil)

	// Пользователь #500 не участвует в челлендже
	sub := Submission{ChallengeID: 1, UserID: 500, QuestionID: 10, TimeTaken: 1, QuestionOrder: 1}

	// Act
	_, err := validator.Validate(context.Background(), sub)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAnswerValidator_Validate_TimeOutOfBounds(t *testing.T) {
	// Arrange
	validator, mockChallengeRepo, _, _ := newValidatorFixture()

	mockChallengeRepo.On("GetByID", uint(1)).Return(validChallenge(), nil)

	tests := []struct {
		name      string
		timeTaken float64
	}{
		{"отрицательное время", -0.5},
		{"время больше лимита", 10.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := Submission{ChallengeID: 1, UserID: 42, QuestionID: 10, TimeTaken: tt.timeTaken, QuestionOrder: 1}

			// Act
			_, err := validator.Validate(context.Background(), sub)

			// Assert
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestAnswerValidator_Validate_OrderOutOfBounds(t *testing.T) {
	// Arrange
	validator, mockChallengeRepo, _, _ := newValidatorFixture()

	mockChallengeRepo.On("GetByID", uint(1)).Return(validChallenge(), nil)

	sub := Submission{ChallengeID: 1, UserID: 42, QuestionID: 10, TimeTaken: 1, QuestionOrder: 8}

	// Act
	_, err := validator.Validate(context.Background(), sub)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAnswerValidator_Validate_DuplicateRecordsAuditEvent(t *testing.T) {
	// Arrange
	validator, mockChallengeRepo, mockAnswerRepo, mockAudit := newValidatorFixture()

	mockChallengeRepo.On("GetByID", uint(1)).Return(validChallenge(), nil)
	mockAnswerRepo.On("Exists", uint(1), uint(10), uint(42)).Return(true, nil)
	mockAudit.On("RecordEvent", uint(42), uint(1),
		entity.AuditEventDuplicateSubmission, entity.AuditSeverityMedium,
		mock.AnythingOfType("entity.AuditDetails")).Return()

	sub := Submission{ChallengeID: 1, UserID: 42, QuestionID: 10, TimeTaken: 1, QuestionOrder: 1}

	// Act
	_, err := validator.Validate(context.Background(), sub)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrDuplicateSubmission)
	mockAudit.AssertExpectations(t)
}

func TestAnswerValidator_Validate_RateLimitRecordsAuditEvent(t *testing.T) {
	// Arrange
	validator, mockChallengeRepo, mockAnswerRepo, mockAudit := newValidatorFixture()

	mockChallengeRepo.On("GetByID", uint(1)).Return(validChallenge(), nil)
	mockAnswerRepo.On("Exists", uint(1), uint(10), uint(42)).Return(false, nil)

	// Предыдущий ответ отправлен 100 мс назад — меньше минимального интервала
	latest := &entity.Answer{
		ChallengeID: 1,
		UserID:      42,
		AnsweredAt:  time.Now().Add(-100 * time.Millisecond),
	}
	mockAnswerRepo.On("GetLatest", uint(1), uint(42)).Return(latest, nil)
	mockAudit.On("RecordEvent", uint(42), uint(1),
		entity.AuditEventRateLimitViolation, entity.AuditSeverityHigh,
		mock.AnythingOfType("entity.AuditDetails")).Return()

	sub := Submission{ChallengeID: 1, UserID: 42, QuestionID: 10, TimeTaken: 1, QuestionOrder: 2}

	// Act
	_, err := validator.Validate(context.Background(), sub)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrRateLimited)
	mockAudit.AssertExpectations(t)
}

func TestAnswerValidator_Validate_OldAnswerDoesNotRateLimit(t *testing.T) {
	// Arrange
	validator, mockChallengeRepo, mockAnswerRepo, _ := newValidatorFixture()

	mockChallengeRepo.On("GetByID", uint(1)).Return(validChallenge(), nil)
	mockAnswerRepo.On("Exists", uint(1), uint(10), uint(42)).Return(false, nil)

	// Предыдущий ответ отправлен 3 секунды назад — интервал соблюден
	latest := &entity.Answer{
		ChallengeID: 1,
		UserID:      42,
		AnsweredAt:  time.Now().Add(-3 * time.Second),
	}
	mockAnswerRepo.On("GetLatest", uint(1), uint(42)).Return(latest, nil)

	sub := Submission{ChallengeID: 1, UserID: 42, QuestionID: 10, TimeTaken: 1, QuestionOrder: 2}

	// Act
	challenge, err := validator.Validate(context.Background(), sub)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, challenge)
}
