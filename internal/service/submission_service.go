package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	"github.com/yourusername/trivia-duel-api/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
	"github.com/yourusername/trivia-duel-api/internal/service/duel"
)

// SubmissionResult — односторонний ответ игроку на его собственный ответ.
// Правильный вариант и состояние соперника сюда никогда не попадают.
type SubmissionResult struct {
	IsCorrect         bool                `json:"is_correct"`
	PointsScored      int                 `json:"points_scored"`
	Breakdown         duel.ScoreBreakdown `json:"breakdown"`
	QuestionsAnswered int                 `json:"questions_answered"`
	TotalQuestions    int                 `json:"total_questions"`
	Finished          bool                `json:"finished"`
}

// AnswerView — один ответ в истории игрока
type AnswerView struct {
	QuestionID    uint      `json:"question_id"`
	QuestionOrder int       `json:"question_order"`
	ChoiceID      *uint     `json:"choice_id"`
	IsCorrect     bool      `json:"is_correct"`
	TimeTaken     float64   `json:"time_taken"`
	PointsScored  int       `json:"points_scored"`
	AnsweredAt    time.Time `json:"answered_at"`
}

// ProgressView — текущий прогресс игрока в челлендже (только его сторона)
type ProgressView struct {
	ChallengeID       uint         `json:"challenge_id"`
	TotalScore        int          `json:"total_score"`
	QuestionsAnswered int          `json:"questions_answered"`
	TotalQuestions    int          `json:"total_questions"`
	Answers           []AnswerView `json:"answers"`
}

// SubmissionService координирует прием ответов игроков
type SubmissionService struct {
	validator     *duel.AnswerValidator
	challengeRepo repository.ChallengeRepository
	questionRepo  repository.QuestionRepository
	answerRepo    repository.AnswerRepository
	resultRepo    repository.ResultRepository
	cacheRepo     repository.CacheRepository
	audit         duel.AuditRecorder
	config        *duel.Config
}

// NewSubmissionService создает новый сервис приема ответов
func NewSubmissionService(
	validator *duel.AnswerValidator,
	challengeRepo repository.ChallengeRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	resultRepo repository.ResultRepository,
	cacheRepo repository.CacheRepository,
	audit duel.AuditRecorder,
	config *duel.Config,
) *SubmissionService {
	return &SubmissionService{
		validator:     validator,
		challengeRepo: challengeRepo,
		questionRepo:  questionRepo,
		answerRepo:    answerRepo,
		resultRepo:    resultRepo,
		cacheRepo:     cacheRepo,
		audit:         audit,
		config:        config,
	}
}

// SubmitAnswer принимает ответ игрока: валидация, каноническая проверка
// правильности, подсчет очков, сохранение. Правильность никогда не берется
// из клиентских данных — только из хранилища вопросов.
func (s *SubmissionService) SubmitAnswer(ctx context.Context, sub duel.Submission) (*SubmissionResult, error) {
	challenge, err := s.validator.Validate(ctx, sub)
	if err != nil {
		return nil, err
	}

	// Вопрос должен принадлежать набору челленджа и стоять на заявленной позиции
	links, err := s.challengeRepo.GetQuestionSet(sub.ChallengeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	var link *entity.ChallengeQuestion
	for i := range links {
		if links[i].QuestionID == sub.QuestionID {
			link = &links[i]
			break
		}
	}
	if link == nil {
		return nil, apperrors.ErrNotFound
	}
	if link.OrderIndex != sub.QuestionOrder {
		return nil, fmt.Errorf("%w: question #%d has order %d, got %d",
			apperrors.ErrValidation, sub.QuestionID, link.OrderIndex, sub.QuestionOrder)
	}

	question, err := s.questionRepo.GetWithChoices(sub.QuestionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	// nil ChoiceID — тайм-аут, всегда неправильно. Чужой вариант — ошибка валидации.
	isCorrect := false
	if sub.ChoiceID != nil {
		if !question.HasChoice(*sub.ChoiceID) {
			return nil, fmt.Errorf("%w: choice #%d does not belong to question #%d",
				apperrors.ErrValidation, *sub.ChoiceID, sub.QuestionID)
		}
		if correct := question.CorrectChoice(); correct != nil && correct.ID == *sub.ChoiceID {
			isCorrect = true
		}
	}

	breakdown := duel.CalculateScore(isCorrect, sub.TimeTaken, sub.QuestionOrder, s.config.QuestionsPerChallenge, s.config)

	answer := &entity.Answer{
		ChallengeID:  sub.ChallengeID,
		QuestionID:   sub.QuestionID,
		UserID:       sub.UserID,
		ChoiceID:     sub.ChoiceID,
		IsCorrect:    isCorrect,
		TimeTaken:    sub.TimeTaken,
		PointsScored: breakdown.TotalScore,
		AnsweredAt:   time.Now(),
	}

	if err := s.answerRepo.Save(answer); err != nil {
		// Гонку двух одновременных запросов закрывает уникальный индекс
		// (challenge_id, question_id, user_id)
		if isUniqueViolation(err) {
			log.Printf("[SubmissionService] Дубликат ответа пользователя #%d на вопрос #%d челленджа #%d (определено по DB unique constraint)",
				sub.UserID, sub.QuestionID, sub.ChallengeID)
			s.audit.RecordEvent(sub.UserID, sub.ChallengeID,
				entity.AuditEventDuplicateSubmission, entity.AuditSeverityMedium,
				entity.AuditDetails{
					"question_id": sub.QuestionID,
					"source":      "unique_constraint",
				})
			return nil, apperrors.ErrDuplicateSubmission
		}
		log.Printf("[SubmissionService] CRITICAL: Ошибка при сохранении ответа пользователя #%d на вопрос #%d: %v",
			sub.UserID, sub.QuestionID, err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	// Штатное событие журнала: ошибки записи не прерывают обработку
	s.audit.RecordEvent(sub.UserID, sub.ChallengeID,
		entity.AuditEventAnswerSubmitted, entity.AuditSeverityLow,
		entity.AuditDetails{
			"question_id":    sub.QuestionID,
			"question_order": sub.QuestionOrder,
			"is_correct":     isCorrect,
			"points_scored":  breakdown.TotalScore,
			"time_taken":     sub.TimeTaken,
		})

	count, err := s.answerRepo.CountUserAnswers(sub.ChallengeID, sub.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	finished := int(count) >= s.config.QuestionsPerChallenge
	if finished {
		if err := s.finishSide(challenge, sub.UserID); err != nil {
			return nil, err
		}
	}

	return &SubmissionResult{
		IsCorrect:         isCorrect,
		PointsScored:      breakdown.TotalScore,
		Breakdown:         breakdown,
		QuestionsAnswered: int(count),
		TotalQuestions:    s.config.QuestionsPerChallenge,
		Finished:          finished,
	}, nil
}

// finishSide фиксирует завершение половины челленджа игроком: итоговый счет,
// статус участника, инвалидация кеша челленджа.
func (s *SubmissionService) finishSide(challenge *entity.Challenge, userID uint) error {
	answers, err := s.answerRepo.GetUserAnswers(challenge.ID, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	totalScore := 0
	totalTime := 0.0
	for _, a := range answers {
		totalScore += a.PointsScored
		totalTime += a.TimeTaken
	}

	result := &entity.ChallengeResult{
		ChallengeID: challenge.ID,
		UserID:      userID,
		TotalScore:  totalScore,
		TotalTime:   totalTime,
	}
	if err := s.resultRepo.Save(result); err != nil {
		// Повторная вставка при гонке последних ответов: итог уже записан
		if isUniqueViolation(err) {
			log.Printf("[SubmissionService] Итог пользователя #%d в челлендже #%d уже зафиксирован", userID, challenge.ID)
		} else {
			return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
		}
	}

	statusColumn := challenge.StatusColumnFor(userID)
	if err := s.challengeRepo.UpdateParticipantStatus(challenge.ID, statusColumn, entity.ChallengeStatusCompleted); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	log.Printf("[SubmissionService] Пользователь #%d завершил свою часть челленджа #%d со счетом %d",
		userID, challenge.ID, totalScore)

	if err := s.cacheRepo.Delete(challengeCacheKey(challenge.ID)); err != nil {
		log.Printf("[SubmissionService] WARNING: Не удалось инвалидировать кеш челленджа #%d: %v", challenge.ID, err)
	}
	return nil
}

// GetProgress возвращает собственный прогресс игрока в челлендже
func (s *SubmissionService) GetProgress(ctx context.Context, challengeID, userID uint) (*ProgressView, error) {
	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if !challenge.IsParticipant(userID) {
		return nil, apperrors.ErrForbidden
	}

	answers, err := s.answerRepo.GetUserAnswers(challengeID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	links, err := s.challengeRepo.GetQuestionSet(challengeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	orderByQuestion := make(map[uint]int, len(links))
	for _, l := range links {
		orderByQuestion[l.QuestionID] = l.OrderIndex
	}

	view := &ProgressView{
		ChallengeID:       challengeID,
		QuestionsAnswered: len(answers),
		TotalQuestions:    s.config.QuestionsPerChallenge,
		Answers:           make([]AnswerView, 0, len(answers)),
	}
	for _, a := range answers {
		view.TotalScore += a.PointsScored
		view.Answers = append(view.Answers, AnswerView{
			QuestionID:    a.QuestionID,
			QuestionOrder: orderByQuestion[a.QuestionID],
			ChoiceID:      a.ChoiceID,
			IsCorrect:     a.IsCorrect,
			TimeTaken:     a.TimeTaken,
			PointsScored:  a.PointsScored,
			AnsweredAt:    a.AnsweredAt,
		})
	}
	return view, nil
}
