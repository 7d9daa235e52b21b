package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/trivia-duel-api/internal/service"
)

// TopicHandler обрабатывает запросы, связанные с темами викторин
type TopicHandler struct {
	topicService *service.TopicService
}

// NewTopicHandler создает новый обработчик тем
func NewTopicHandler(topicService *service.TopicService) *TopicHandler {
	return &TopicHandler{topicService: topicService}
}

// ListTopics возвращает все темы
func (h *TopicHandler) ListTopics(c *gin.Context) {
	topics, err := h.topicService.ListTopics()
	if err != nil {
		log.Printf("ERROR: Internal server error in TopicHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"topics": topics})
}
