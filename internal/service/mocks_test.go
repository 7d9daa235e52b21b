package service

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
)

// ============================================================================
// Общие моки репозиториев для тестов сервисного слоя
// ============================================================================

// MockChallengeRepo реализует repository.ChallengeRepository
type MockChallengeRepo struct {
	mock.Mock
}

func (m *MockChallengeRepo) Create(challenge *entity.Challenge) error {
	args := m.Called(challenge)
	return args.Error(0)
}

func (m *MockChallengeRepo) GetByID(id uint) (*entity.Challenge, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Challenge), args.Error(1)
}

func (m *MockChallengeRepo) ListForUser(userID uint, limit, offset int) ([]entity.Challenge, int64, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Challenge), args.Get(1).(int64), args.Error(2)
}

func (m *MockChallengeRepo) UpdateParticipantStatus(challengeID uint, statusColumn string, status string) error {
	args := m.Called(challengeID, statusColumn, status)
	return args.Error(0)
}

func (m *MockChallengeRepo) SetOutcomeIfUnset(challengeID uint, winnerID *uint, completedAt time.Time) (bool, error) {
	args := m.Called(challengeID, winnerID, completedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockChallengeRepo) CreateQuestionSet(links []entity.ChallengeQuestion) error {
	args := m.Called(links)
	return args.Error(0)
}

func (m *MockChallengeRepo) GetQuestionSet(challengeID uint) ([]entity.ChallengeQuestion, error) {
	args := m.Called(challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ChallengeQuestion), args.Error(1)
}

// MockQuestionRepo реализует repository.QuestionRepository
type MockQuestionRepo struct {
	mock.Mock
}

func (m *MockQuestionRepo) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) GetWithChoices(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) GetManyWithChoices(ids []uint) ([]entity.Question, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) GetRandomByTopic(topicID uint, limit int) ([]entity.Question, error) {
	args := m.Called(topicID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) CountByTopic(topicID uint) (int64, error) {
	args := m.Called(topicID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAnswerRepo реализует repository.AnswerRepository
type MockAnswerRepo struct {
	mock.Mock
}

func (m *MockAnswerRepo) Save(answer *entity.Answer) error {
	args := m.Called(answer)
	return args.Error(0)
}

func (m *MockAnswerRepo) Exists(challengeID, questionID, userID uint) (bool, error) {
	args := m.Called(challengeID, questionID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAnswerRepo) GetUserAnswers(challengeID, userID uint) ([]entity.Answer, error) {
	args := m.Called(challengeID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Answer), args.Error(1)
}

func (m *MockAnswerRepo) GetChallengeAnswers(challengeID uint) ([]entity.Answer, error) {
	args := m.Called(challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Answer), args.Error(1)
}

func (m *MockAnswerRepo) GetLatest(challengeID, userID uint) (*entity.Answer, error) {
	args := m.Called(challengeID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Answer), args.Error(1)
}

func (m *MockAnswerRepo) CountUserAnswers(challengeID, userID uint) (int64, error) {
	args := m.Called(challengeID, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockResultRepo реализует repository.ResultRepository
type MockResultRepo struct {
	mock.Mock
}

func (m *MockResultRepo) Save(result *entity.ChallengeResult) error {
	args := m.Called(result)
	return args.Error(0)
}

func (m *MockResultRepo) GetByChallengeAndUser(challengeID, userID uint) (*entity.ChallengeResult, error) {
	args := m.Called(challengeID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChallengeResult), args.Error(1)
}

func (m *MockResultRepo) GetByChallenge(challengeID uint) ([]entity.ChallengeResult, error) {
	args := m.Called(challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ChallengeResult), args.Error(1)
}

// MockUserRepo реализует repository.UserRepository
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) IncrementStats(userID uint, wins int, score int) error {
	args := m.Called(userID, wins, score)
	return args.Error(0)
}

func (m *MockUserRepo) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.User), args.Get(1).(int64), args.Error(2)
}

// MockCacheRepo реализует repository.CacheRepository
type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepo) Increment(key string) (int64, error) {
	args := m.Called(key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepo) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepo) SetNX(key string, value interface{}, expiration time.Duration) (bool, error) {
	args := m.Called(key, value, expiration)
	return args.Bool(0), args.Error(1)
}

// MockAuditRecorder реализует duel.AuditRecorder
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) RecordEvent(userID, challengeID uint, eventType, severity string, details entity.AuditDetails) {
	m.Called(userID, challengeID, eventType, severity, details)
}

// MockAuditRepo реализует repository.AuditRepository
type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Save(event *entity.SecurityAuditEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockAuditRepo) ListByChallenge(challengeID uint, limit int) ([]entity.SecurityAuditEvent, error) {
	args := m.Called(challengeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SecurityAuditEvent), args.Error(1)
}

// MockTopicRepo реализует repository.TopicRepository
type MockTopicRepo struct {
	mock.Mock
}

func (m *MockTopicRepo) GetByID(id uint) (*entity.Topic, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Topic), args.Error(1)
}

func (m *MockTopicRepo) List() ([]entity.Topic, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Topic), args.Error(1)
}

// MockFriendshipRepo реализует repository.FriendshipRepository
type MockFriendshipRepo struct {
	mock.Mock
}

func (m *MockFriendshipRepo) Create(friendship *entity.Friendship) error {
	args := m.Called(friendship)
	return args.Error(0)
}

func (m *MockFriendshipRepo) GetByID(id uint) (*entity.Friendship, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Friendship), args.Error(1)
}

func (m *MockFriendshipRepo) GetBetween(userA, userB uint) (*entity.Friendship, error) {
	args := m.Called(userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Friendship), args.Error(1)
}

func (m *MockFriendshipRepo) UpdateStatus(id uint, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockFriendshipRepo) ListAcceptedForUser(userID uint) ([]entity.Friendship, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Friendship), args.Error(1)
}

func (m *MockFriendshipRepo) ListPendingForUser(userID uint) ([]entity.Friendship, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Friendship), args.Error(1)
}
