package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/trivia-duel-api/internal/handler/dto"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
	"github.com/yourusername/trivia-duel-api/internal/service"
	"github.com/yourusername/trivia-duel-api/internal/service/duel"
)

// ChallengeHandler обрабатывает запросы, связанные с челленджами
type ChallengeHandler struct {
	challengeService  *service.ChallengeService
	submissionService *service.SubmissionService
	resultService     *service.ResultService
	auditService      *service.AuditService
}

// NewChallengeHandler создает новый обработчик челленджей
func NewChallengeHandler(
	challengeService *service.ChallengeService,
	submissionService *service.SubmissionService,
	resultService *service.ResultService,
	auditService *service.AuditService,
) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService:  challengeService,
		submissionService: submissionService,
		resultService:     resultService,
		auditService:      auditService,
	}
}

// CreateChallengeRequest представляет запрос на создание челленджа
type CreateChallengeRequest struct {
	OpponentID uint `json:"opponent_id" binding:"required"`
	TopicID    uint `json:"topic_id" binding:"required"`
}

// CreateChallenge обрабатывает запрос на создание челленджа
func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	challenge, err := h.challengeService.CreateChallenge(c.Request.Context(), userID, req.OpponentID, req.TopicID)
	if err != nil {
		h.handleChallengeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewChallengeResponse(challenge))
}

// ListChallenges возвращает челленджи текущего пользователя
func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	items, total, err := h.challengeService.ListChallenges(c.Request.Context(), userID, perPage, (page-1)*perPage)
	if err != nil {
		h.handleChallengeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"challenges": items,
		"total":      total,
		"page":       page,
		"per_page":   perPage,
	})
}

// GetQuestions возвращает упорядоченный набор вопросов челленджа
func (h *ChallengeHandler) GetQuestions(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	challengeID := c.MustGet("challengeID").(uint)

	questions, err := h.challengeService.GetQuestions(c.Request.Context(), challengeID, userID)
	if err != nil {
		h.handleChallengeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// SubmitAnswerRequest представляет отправку ответа на вопрос
type SubmitAnswerRequest struct {
	QuestionID    uint    `json:"question_id" binding:"required"`
	ChoiceID      *uint   `json:"choice_id"` // null = тайм-аут
	TimeTaken     float64 `json:"time_taken"`
	QuestionOrder int     `json:"question_order" binding:"required,min=1"`
}

// SubmitAnswer принимает ответ игрока на вопрос челленджа
func (h *ChallengeHandler) SubmitAnswer(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	challengeID := c.MustGet("challengeID").(uint)

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.submissionService.SubmitAnswer(c.Request.Context(), duel.Submission{
		ChallengeID:   challengeID,
		UserID:        userID,
		QuestionID:    req.QuestionID,
		ChoiceID:      req.ChoiceID,
		TimeTaken:     req.TimeTaken,
		QuestionOrder: req.QuestionOrder,
	})
	if err != nil {
		h.handleChallengeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProgress возвращает собственный прогресс игрока в челлендже
func (h *ChallengeHandler) GetProgress(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	challengeID := c.MustGet("challengeID").(uint)

	view, err := h.submissionService.GetProgress(c.Request.Context(), challengeID, userID)
	if err != nil {
		h.handleChallengeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetResults возвращает представление результатов челленджа
func (h *ChallengeHandler) GetResults(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	challengeID := c.MustGet("challengeID").(uint)

	view, err := h.resultService.GetResults(c.Request.Context(), challengeID, userID)
	if err != nil {
		h.handleChallengeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetAuditEvents возвращает журнал событий безопасности челленджа.
// Доступен только участникам
func (h *ChallengeHandler) GetAuditEvents(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	challengeID := c.MustGet("challengeID").(uint)

	// Проверка участия до чтения журнала
	if _, err := h.challengeService.GetChallenge(c.Request.Context(), challengeID, userID); err != nil {
		h.handleChallengeError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	events, err := h.auditService.ListChallengeEvents(challengeID, limit)
	if err != nil {
		h.handleChallengeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// ExportResults выгружает результаты завершенного челленджа в CSV или XLSX
func (h *ChallengeHandler) ExportResults(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	challengeID := c.MustGet("challengeID").(uint)

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}

	view, err := h.resultService.GetResults(c.Request.Context(), challengeID, userID)
	if err != nil {
		h.handleChallengeError(c, err)
		return
	}
	if view.Status != service.ResultsStatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "challenge is not completed yet"})
		return
	}

	filename := fmt.Sprintf("challenge_%d_results", challengeID)
	switch format {
	case "csv":
		h.exportCSV(c, view, filename)
	case "xlsx":
		h.exportXLSX(c, view, filename)
	}
}

// exportRows собирает плоские строки выгрузки: по строке на ответ каждого игрока
func exportRows(view *service.ResultsView) [][]string {
	rows := make([][]string, 0)
	for _, player := range []*service.PlayerResult{view.You, view.Opponent} {
		winner := "Нет"
		if view.WinnerID != nil && *view.WinnerID == player.UserID {
			winner = "Да"
		}
		for _, a := range player.Answers {
			correct := "Нет"
			if a.IsCorrect {
				correct = "Да"
			}
			rows = append(rows, []string{
				sanitizeForExcel(player.Username),
				strconv.Itoa(a.QuestionOrder),
				sanitizeForExcel(a.QuestionText),
				correct,
				fmt.Sprintf("%.2f", a.TimeTaken),
				strconv.Itoa(a.PointsScored),
				strconv.Itoa(player.TotalScore),
				winner,
			})
		}
	}
	return rows
}

// exportCSV экспортирует результаты в CSV
func (h *ChallengeHandler) exportCSV(c *gin.Context, view *service.ResultsView, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// BOM для корректного открытия кириллицы в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write([]string{"Игрок", "Вопрос №", "Вопрос", "Верно", "Время (с)", "Очки", "Итог игрока", "Победитель"})
	for _, row := range exportRows(view) {
		writer.Write(row)
	}
}

// exportXLSX экспортирует результаты в Excel
func (h *ChallengeHandler) exportXLSX(c *gin.Context, view *service.ResultsView, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Результаты"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ChallengeHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Игрок", "Вопрос №", "Вопрос", "Верно", "Время (с)", "Очки", "Итог игрока", "Победитель"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ChallengeHandler] Ошибка записи заголовков: %v", err)
	}

	for i, row := range exportRows(view) {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := sw.SetRow(fmt.Sprintf("A%d", rowNum), cells); err != nil {
			log.Printf("[ChallengeHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ChallengeHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ChallengeHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// handleChallengeError преобразует ошибки сервиса в HTTP-статусы.
// Дубликат и нарушение интервала отдаются как 429.
func (h *ChallengeHandler) handleChallengeError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrDuplicateSubmission) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Answer already submitted for this question", "error_type": "duplicate_submission"})
	} else if errors.Is(err, apperrors.ErrRateLimited) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Submissions are too frequent", "error_type": "rate_limited"})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in ChallengeHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
