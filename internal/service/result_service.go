package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	"github.com/yourusername/trivia-duel-api/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
	"github.com/yourusername/trivia-duel-api/internal/service/duel"
)

// Статусы представления результатов
const (
	ResultsStatusWaiting   = "waiting"
	ResultsStatusCompleted = "completed"
)

// ResultAnswerView — один ответ в итоговой истории игрока.
// Правильный вариант раскрывается только в завершенном челлендже.
type ResultAnswerView struct {
	QuestionID      uint    `json:"question_id"`
	QuestionOrder   int     `json:"question_order"`
	QuestionText    string  `json:"question_text"`
	ChoiceID        *uint   `json:"choice_id"`
	CorrectChoiceID uint    `json:"correct_choice_id"`
	IsCorrect       bool    `json:"is_correct"`
	TimeTaken       float64 `json:"time_taken"`
	PointsScored    int     `json:"points_scored"`
}

// PlayerResult — итог одного игрока
type PlayerResult struct {
	UserID     uint               `json:"user_id"`
	Username   string             `json:"username"`
	TotalScore int                `json:"total_score"`
	TotalTime  float64            `json:"total_time"`
	Answers    []ResultAnswerView `json:"answers,omitempty"`
}

// ResultsView — представление результатов челленджа для участника
type ResultsView struct {
	ChallengeID uint          `json:"challenge_id"`
	Status      string        `json:"status"`
	Resume      bool          `json:"resume"`
	WinnerID    *uint         `json:"winner_id,omitempty"`
	IsTie       bool          `json:"is_tie"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	You         *PlayerResult `json:"you,omitempty"`
	Opponent    *PlayerResult `json:"opponent,omitempty"`
}

// cachedProfile — минимальный профиль для кеша
type cachedProfile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// ResultService собирает представление результатов челленджа и фиксирует итог
type ResultService struct {
	challengeRepo repository.ChallengeRepository
	questionRepo  repository.QuestionRepository
	answerRepo    repository.AnswerRepository
	resultRepo    repository.ResultRepository
	userRepo      repository.UserRepository
	cacheRepo     repository.CacheRepository
	config        *duel.Config
}

// NewResultService создает новый сервис результатов
func NewResultService(
	challengeRepo repository.ChallengeRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	resultRepo repository.ResultRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	config *duel.Config,
) *ResultService {
	return &ResultService{
		challengeRepo: challengeRepo,
		questionRepo:  questionRepo,
		answerRepo:    answerRepo,
		resultRepo:    resultRepo,
		userRepo:      userRepo,
		cacheRepo:     cacheRepo,
		config:        config,
	}
}

// GetResults возвращает представление результатов для участника.
//
// Решение о записи итога всегда принимается по живому чтению из хранилища:
// кеш используется только для метаданных профилей и вопросов, а не для
// guard-проверок.
func (s *ResultService) GetResults(ctx context.Context, challengeID, userID uint) (*ResultsView, error) {
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

	results, err := s.resultRepo.GetByChallenge(challengeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	// Ответ на последний вопрос мог сохраниться без итоговой строки
	// (сбой на шаге завершения): достраиваем итог из сохраненных ответов,
	// иначе игрок навсегда застрянет между resume и отказом-дубликатом
	if len(results) < 2 && !hasResultFor(results, userID) {
		repaired, err := s.repairFinishedSide(challenge, userID)
		if err != nil {
			return nil, err
		}
		if repaired != nil {
			results = append(results, *repaired)
		}
	}

	if len(results) < 2 {
		return s.buildWaitingView(challenge, userID, results)
	}
	return s.buildCompletedView(challenge, userID, results)
}

// hasResultFor проверяет наличие итоговой строки игрока
func hasResultFor(results []entity.ChallengeResult, userID uint) bool {
	for i := range results {
		if results[i].UserID == userID {
			return true
		}
	}
	return false
}

// repairFinishedSide дозаписывает итог игрока, у которого сохранены все
// ответы, но нет строки результата. Возвращает nil без ошибки, если игрок
// действительно еще не доиграл.
func (s *ResultService) repairFinishedSide(challenge *entity.Challenge, userID uint) (*entity.ChallengeResult, error) {
	count, err := s.answerRepo.CountUserAnswers(challenge.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if int(count) < s.config.QuestionsPerChallenge {
		return nil, nil
	}

	answers, err := s.answerRepo.GetUserAnswers(challenge.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
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
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
		}
		// Итог дозаписал конкурентный запрос: перечитываем сохраненную строку
		stored, errGet := s.resultRepo.GetByChallengeAndUser(challenge.ID, userID)
		if errGet != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, errGet)
		}
		result = stored
	}

	log.Printf("[ResultService] Дозаписан итог пользователя #%d в челлендже #%d со счетом %d",
		userID, challenge.ID, result.TotalScore)

	statusColumn := challenge.StatusColumnFor(userID)
	if err := s.challengeRepo.UpdateParticipantStatus(challenge.ID, statusColumn, entity.ChallengeStatusCompleted); err != nil {
		log.Printf("[ResultService] WARNING: Не удалось обновить статус участника #%d в челлендже #%d: %v",
			userID, challenge.ID, err)
	}
	if err := s.cacheRepo.Delete(challengeCacheKey(challenge.ID)); err != nil {
		log.Printf("[ResultService] WARNING: Не удалось инвалидировать кеш челленджа #%d: %v", challenge.ID, err)
	}
	return result, nil
}

// buildWaitingView возвращает промежуточное представление: соперник еще играет
// либо сам вызывающий не завершил свою часть (resume).
func (s *ResultService) buildWaitingView(challenge *entity.Challenge, userID uint, results []entity.ChallengeResult) (*ResultsView, error) {
	view := &ResultsView{
		ChallengeID: challenge.ID,
		Status:      ResultsStatusWaiting,
	}

	var own *entity.ChallengeResult
	for i := range results {
		if results[i].UserID == userID {
			own = &results[i]
			break
		}
	}

	if own == nil {
		// Вызывающий еще не завершил свою часть: сигнал продолжить игру
		view.Resume = true
		return view, nil
	}

	profile, err := s.profileFor(userID)
	if err != nil {
		return nil, err
	}
	view.You = &PlayerResult{
		UserID:     userID,
		Username:   profile.Username,
		TotalScore: own.TotalScore,
		TotalTime:  own.TotalTime,
	}
	return view, nil
}

// buildCompletedView собирает полное представление и фиксирует итог челленджа
func (s *ResultService) buildCompletedView(challenge *entity.Challenge, userID uint, results []entity.ChallengeResult) (*ResultsView, error) {
	byUser := make(map[uint]*entity.ChallengeResult, 2)
	for i := range results {
		byUser[results[i].UserID] = &results[i]
	}
	opponentID := challenge.OpponentOf(userID)
	ownResult, opponentResult := byUser[userID], byUser[opponentID]
	if ownResult == nil || opponentResult == nil {
		return nil, fmt.Errorf("%w: inconsistent result rows for challenge #%d", apperrors.ErrStorage, challenge.ID)
	}

	winnerID := determineWinner(results)

	if !challenge.HasStoredOutcome() {
		completedAt := time.Now()
		wrote, err := s.challengeRepo.SetOutcomeIfUnset(challenge.ID, winnerID, completedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
		}
		if wrote {
			challenge.WinnerID = winnerID
			challenge.CompletedAt = &completedAt

			// Инвалидация кеша выполняется синхронно, до ответа клиенту
			if errCache := s.cacheRepo.Delete(challengeCacheKey(challenge.ID)); errCache != nil {
				log.Printf("[ResultService] WARNING: Не удалось инвалидировать кеш челленджа #%d: %v", challenge.ID, errCache)
			}
			s.applyUserStats(results, winnerID)
		} else {
			// Итог записал конкурентный запрос: перечитываем сохраненную строку
			stored, err := s.challengeRepo.GetByID(challenge.ID)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
			}
			challenge = stored
		}
	}

	histories, err := s.answerHistories(challenge.ID)
	if err != nil {
		return nil, err
	}
	ownAnswers, opponentAnswers := histories[userID], histories[opponentID]

	ownProfile, err := s.profileFor(userID)
	if err != nil {
		return nil, err
	}
	opponentProfile, err := s.profileFor(opponentID)
	if err != nil {
		return nil, err
	}

	return &ResultsView{
		ChallengeID: challenge.ID,
		Status:      ResultsStatusCompleted,
		WinnerID:    challenge.WinnerID,
		IsTie:       challenge.WinnerID == nil,
		CompletedAt: challenge.CompletedAt,
		You: &PlayerResult{
			UserID:     userID,
			Username:   ownProfile.Username,
			TotalScore: ownResult.TotalScore,
			TotalTime:  ownResult.TotalTime,
			Answers:    ownAnswers,
		},
		Opponent: &PlayerResult{
			UserID:     opponentID,
			Username:   opponentProfile.Username,
			TotalScore: opponentResult.TotalScore,
			TotalTime:  opponentResult.TotalTime,
			Answers:    opponentAnswers,
		},
	}, nil
}

// determineWinner возвращает ID победителя либо nil при ничьей.
// Победа засчитывается только при строго большем счете.
func determineWinner(results []entity.ChallengeResult) *uint {
	if len(results) != 2 {
		return nil
	}
	a, b := results[0], results[1]
	switch {
	case a.TotalScore > b.TotalScore:
		id := a.UserID
		return &id
	case b.TotalScore > a.TotalScore:
		id := b.UserID
		return &id
	}
	return nil
}

// applyUserStats обновляет статистику обоих игроков. Выполняется только тем
// запросом, который первым зафиксировал итог, поэтому инкременты не дублируются.
func (s *ResultService) applyUserStats(results []entity.ChallengeResult, winnerID *uint) {
	for _, r := range results {
		wins := 0
		if winnerID != nil && *winnerID == r.UserID {
			wins = 1
		}
		if err := s.userRepo.IncrementStats(r.UserID, wins, r.TotalScore); err != nil {
			log.Printf("[ResultService] WARNING: Не удалось обновить статистику пользователя #%d: %v", r.UserID, err)
		}
		// Профиль в кеше устарел вместе со статистикой
		if err := s.cacheRepo.Delete(profileCacheKey(r.UserID)); err != nil {
			log.Printf("[ResultService] WARNING: Не удалось инвалидировать кеш профиля #%d: %v", r.UserID, err)
		}
	}
}

// answerHistories собирает упорядоченные истории ответов обоих игроков
// одним чтением, дополняя их метаданными вопросов
func (s *ResultService) answerHistories(challengeID uint) (map[uint][]ResultAnswerView, error) {
	answers, err := s.answerRepo.GetChallengeAnswers(challengeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	links, err := s.challengeRepo.GetQuestionSet(challengeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	orderByQuestion := make(map[uint]int, len(links))
	questionIDs := make([]uint, 0, len(links))
	for _, l := range links {
		orderByQuestion[l.QuestionID] = l.OrderIndex
		questionIDs = append(questionIDs, l.QuestionID)
	}

	questions, err := s.questionRepo.GetManyWithChoices(questionIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	questionByID := make(map[uint]*entity.Question, len(questions))
	for i := range questions {
		questionByID[questions[i].ID] = &questions[i]
	}

	byUser := make(map[uint][]ResultAnswerView, 2)
	for _, a := range answers {
		view := ResultAnswerView{
			QuestionID:    a.QuestionID,
			QuestionOrder: orderByQuestion[a.QuestionID],
			ChoiceID:      a.ChoiceID,
			IsCorrect:     a.IsCorrect,
			TimeTaken:     a.TimeTaken,
			PointsScored:  a.PointsScored,
		}
		if q := questionByID[a.QuestionID]; q != nil {
			view.QuestionText = q.Text
			if correct := q.CorrectChoice(); correct != nil {
				view.CorrectChoiceID = correct.ID
			}
		}
		byUser[a.UserID] = append(byUser[a.UserID], view)
	}

	for userID := range byUser {
		views := byUser[userID]
		sort.Slice(views, func(i, j int) bool {
			return views[i].QuestionOrder < views[j].QuestionOrder
		})
	}
	return byUser, nil
}

// profileFor возвращает профиль игрока, используя read-through кеш.
// Промах или ошибка кеша всегда приводят к живому чтению из хранилища.
func (s *ResultService) profileFor(userID uint) (*cachedProfile, error) {
	key := profileCacheKey(userID)

	var cached cachedProfile
	if err := s.cacheRepo.GetJSON(key, &cached); err == nil {
		return &cached, nil
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	profile := &cachedProfile{ID: user.ID, Username: user.Username}
	if err := s.cacheRepo.SetJSON(key, profile, s.config.ProfileCacheTTL); err != nil {
		log.Printf("[ResultService] WARNING: Не удалось закешировать профиль #%d: %v", userID, err)
	}
	return profile, nil
}
