package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
	"github.com/yourusername/trivia-duel-api/internal/service"
)

// FriendHandler обрабатывает запросы, связанные с друзьями
type FriendHandler struct {
	friendService *service.FriendService
}

// NewFriendHandler создает новый обработчик друзей
func NewFriendHandler(friendService *service.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

// SendRequestRequest представляет запрос на добавление в друзья
type SendRequestRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// SendRequest отправляет заявку в друзья
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req SendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	friendship, err := h.friendService.SendRequest(userID, req.UserID)
	if err != nil {
		h.handleFriendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"request_id": friendship.ID,
		"status":     friendship.Status,
	})
}

// RespondRequest представляет решение по входящей заявке
type RespondRequest struct {
	Action string `json:"action" binding:"required,oneof=accept decline"`
}

// RespondToRequest принимает или отклоняет заявку
func (h *FriendHandler) RespondToRequest(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	requestID := c.MustGet("requestID").(uint)

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	friendship, err := h.friendService.RespondToRequest(requestID, userID, req.Action == "accept")
	if err != nil {
		h.handleFriendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id": friendship.ID,
		"status":     friendship.Status,
	})
}

// ListFriends возвращает принятых друзей пользователя
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	friends, err := h.friendService.ListFriends(userID)
	if err != nil {
		h.handleFriendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// ListPendingRequests возвращает входящие заявки пользователя
func (h *FriendHandler) ListPendingRequests(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	requests, err := h.friendService.ListPendingRequests(userID)
	if err != nil {
		h.handleFriendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// handleFriendError преобразует ошибки сервиса в HTTP-статусы
func (h *FriendHandler) handleFriendError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in FriendHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
