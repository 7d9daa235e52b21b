package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
	"github.com/yourusername/trivia-duel-api/internal/service/duel"
)

func TestTopicService_ListTopics_CacheHit(t *testing.T) {
	// Arrange
	mockTopicRepo := new(MockTopicRepo)
	mockCacheRepo := new(MockCacheRepo)

	mockCacheRepo.On("GetJSON", "topics:all", mock.Anything).Run(func(args mock.Arguments) {
		dest := args.Get(1).(*[]entity.Topic)
		*dest = []entity.Topic{{ID: 5, Name: "История"}}
	}).Return(nil)

	topicService := NewTopicService(mockTopicRepo, mockCacheRepo, duel.DefaultConfig())

	// Act
	topics, err := topicService.ListTopics()

	// Assert
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "История", topics[0].Name)
	mockTopicRepo.AssertNotCalled(t, "List")
}

func TestTopicService_ListTopics_CacheMissReadsStorage(t *testing.T) {
	// Arrange
	mockTopicRepo := new(MockTopicRepo)
	mockCacheRepo := new(MockCacheRepo)

	stored := []entity.Topic{{ID: 5, Name: "История"}, {ID: 6, Name: "Наука"}}
	mockCacheRepo.On("GetJSON", "topics:all", mock.Anything).Return(apperrors.ErrNotFound)
	mockTopicRepo.On("List").Return(stored, nil)
	mockCacheRepo.On("SetJSON", "topics:all", stored, mock.Anything).Return(nil)

	topicService := NewTopicService(mockTopicRepo, mockCacheRepo, duel.DefaultConfig())

	// Act
	topics, err := topicService.ListTopics()

	// Assert
	require.NoError(t, err)
	assert.Len(t, topics, 2)
	mockCacheRepo.AssertExpectations(t)
}

func TestTopicService_ListTopics_CacheWriteFailureIsNotFatal(t *testing.T) {
	// Arrange: сбой записи в кеш не должен ломать ответ
	mockTopicRepo := new(MockTopicRepo)
	mockCacheRepo := new(MockCacheRepo)

	stored := []entity.Topic{{ID: 5, Name: "История"}}
	mockCacheRepo.On("GetJSON", "topics:all", mock.Anything).Return(apperrors.ErrNotFound)
	mockTopicRepo.On("List").Return(stored, nil)
	mockCacheRepo.On("SetJSON", "topics:all", stored, mock.Anything).Return(assert.AnError)

	topicService := NewTopicService(mockTopicRepo, mockCacheRepo, duel.DefaultConfig())

	// Act
	topics, err := topicService.ListTopics()

	// Assert
	require.NoError(t, err)
	assert.Len(t, topics, 1)
}
