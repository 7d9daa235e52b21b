package service

import (
	"fmt"
	"log"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	"github.com/yourusername/trivia-duel-api/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
	"github.com/yourusername/trivia-duel-api/internal/service/duel"
)

// TopicService предоставляет методы для работы с темами
type TopicService struct {
	topicRepo repository.TopicRepository
	cacheRepo repository.CacheRepository
	config    *duel.Config
}

// NewTopicService создает новый сервис тем
func NewTopicService(topicRepo repository.TopicRepository, cacheRepo repository.CacheRepository, config *duel.Config) *TopicService {
	return &TopicService{
		topicRepo: topicRepo,
		cacheRepo: cacheRepo,
		config:    config,
	}
}

// ListTopics возвращает все темы, используя read-through кеш.
// Промах или ошибка кеша всегда приводят к живому чтению из хранилища.
func (s *TopicService) ListTopics() ([]entity.Topic, error) {
	var cached []entity.Topic
	if err := s.cacheRepo.GetJSON(topicsCacheKey, &cached); err == nil {
		return cached, nil
	}

	topics, err := s.topicRepo.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	if err := s.cacheRepo.SetJSON(topicsCacheKey, topics, s.config.TopicCacheTTL); err != nil {
		log.Printf("[TopicService] WARNING: Не удалось закешировать список тем: %v", err)
	}
	return topics, nil
}
