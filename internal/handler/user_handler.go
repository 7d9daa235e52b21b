package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/trivia-duel-api/internal/handler/dto"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
	"github.com/yourusername/trivia-duel-api/internal/service"
)

// UserHandler обрабатывает запросы, связанные с пользователями
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe возвращает профиль текущего пользователя
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// GetLeaderboard возвращает лидерборд с пагинацией
func (h *UserHandler) GetLeaderboard(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	users, total, err := h.userService.GetLeaderboard(perPage, (page-1)*perPage)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewLeaderboardResponse(users, total, page, perPage))
}

// handleUserError преобразует ошибки сервиса в HTTP-статусы
func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in UserHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
