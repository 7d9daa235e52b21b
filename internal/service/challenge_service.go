package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	"github.com/yourusername/trivia-duel-api/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
	"github.com/yourusername/trivia-duel-api/internal/service/duel"
)

// ChoiceView — вариант ответа без признака правильности
type ChoiceView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// QuestionView — вопрос челленджа в том виде, в котором его видит игрок.
// Правильный вариант сюда не попадает.
type QuestionView struct {
	QuestionID    uint         `json:"question_id"`
	QuestionOrder int          `json:"question_order"`
	Text          string       `json:"text"`
	TimeLimitSec  int          `json:"time_limit_sec"`
	Choices       []ChoiceView `json:"choices"`
}

// ChallengeListItem — элемент списка челленджей пользователя
type ChallengeListItem struct {
	ID          uint   `json:"id"`
	TopicID     uint   `json:"topic_id"`
	OpponentID  uint   `json:"opponent_id"`
	YourStatus  string `json:"your_status"`
	TheirStatus string `json:"their_status"`
	Completed   bool   `json:"completed"`
	WinnerID    *uint  `json:"winner_id,omitempty"`
}

// ChallengeService управляет жизненным циклом челленджей
type ChallengeService struct {
	challengeRepo  repository.ChallengeRepository
	questionRepo   repository.QuestionRepository
	topicRepo      repository.TopicRepository
	userRepo       repository.UserRepository
	friendshipRepo repository.FriendshipRepository
	cacheRepo      repository.CacheRepository
	emailService   EmailService
	config         *duel.Config
}

// NewChallengeService создает новый сервис челленджей
func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	questionRepo repository.QuestionRepository,
	topicRepo repository.TopicRepository,
	userRepo repository.UserRepository,
	friendshipRepo repository.FriendshipRepository,
	cacheRepo repository.CacheRepository,
	emailService EmailService,
	config *duel.Config,
) *ChallengeService {
	return &ChallengeService{
		challengeRepo:  challengeRepo,
		questionRepo:   questionRepo,
		topicRepo:      topicRepo,
		userRepo:       userRepo,
		friendshipRepo: friendshipRepo,
		cacheRepo:      cacheRepo,
		emailService:   emailService,
		config:         config,
	}
}

// CreateChallenge создает челлендж между двумя друзьями и формирует
// его набор вопросов. Письмо-приглашение отправляется после создания;
// сбой отправки не отменяет челлендж.
func (s *ChallengeService) CreateChallenge(ctx context.Context, challengerID, opponentID, topicID uint) (*entity.Challenge, error) {
	if challengerID == opponentID {
		return nil, fmt.Errorf("%w: cannot challenge yourself", apperrors.ErrValidation)
	}

	opponent, err := s.userRepo.GetByID(opponentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: opponent not found", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	// Вызвать на дуэль можно только принятого друга
	friendship, err := s.friendshipRepo.GetBetween(challengerID, opponentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: opponent is not your friend", apperrors.ErrForbidden)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if friendship.Status != entity.FriendshipStatusAccepted {
		return nil, fmt.Errorf("%w: friend request is not accepted", apperrors.ErrForbidden)
	}

	topic, err := s.topicRepo.GetByID(topicID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: topic not found", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	count, err := s.questionRepo.CountByTopic(topicID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if int(count) < s.config.QuestionsPerChallenge {
		return nil, fmt.Errorf("%w: topic %q has %d questions, %d required",
			apperrors.ErrValidation, topic.Name, count, s.config.QuestionsPerChallenge)
	}

	questions, err := s.questionRepo.GetRandomByTopic(topicID, s.config.QuestionsPerChallenge)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if len(questions) < s.config.QuestionsPerChallenge {
		return nil, fmt.Errorf("%w: could not pick %d questions for topic %q",
			apperrors.ErrStorage, s.config.QuestionsPerChallenge, topic.Name)
	}

	challenge := &entity.Challenge{
		ChallengerID:     challengerID,
		OpponentID:       opponentID,
		TopicID:          topicID,
		ChallengerStatus: entity.ChallengeStatusPending,
		OpponentStatus:   entity.ChallengeStatusPending,
	}
	if err := s.challengeRepo.Create(challenge); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	// Порядок показа сплошной, от 1 до N
	links := make([]entity.ChallengeQuestion, 0, len(questions))
	for i, q := range questions {
		links = append(links, entity.ChallengeQuestion{
			ChallengeID: challenge.ID,
			QuestionID:  q.ID,
			OrderIndex:  i + 1,
		})
	}
	if err := s.challengeRepo.CreateQuestionSet(links); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	log.Printf("[ChallengeService] Создан челлендж #%d: пользователь #%d против #%d, тема %q",
		challenge.ID, challengerID, opponentID, topic.Name)

	s.sendInvite(ctx, challenge, opponent, topic)

	return challenge, nil
}

// sendInvite отправляет приглашение сопернику. Любой сбой только логируется.
func (s *ChallengeService) sendInvite(ctx context.Context, challenge *entity.Challenge, opponent *entity.User, topic *entity.Topic) {
	challenger, err := s.userRepo.GetByID(challenge.ChallengerID)
	if err != nil {
		log.Printf("[ChallengeService] WARNING: Не удалось загрузить профиль инициатора #%d для приглашения: %v",
			challenge.ChallengerID, err)
		return
	}
	if err := s.emailService.SendChallengeInvite(ctx, opponent.Email, challenger.Username, topic.Name, challenge.ID); err != nil {
		log.Printf("[ChallengeService] WARNING: Не удалось отправить приглашение на челлендж #%d: %v", challenge.ID, err)
	}
}

// ListChallenges возвращает челленджи пользователя с пагинацией
func (s *ChallengeService) ListChallenges(ctx context.Context, userID uint, limit, offset int) ([]ChallengeListItem, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	challenges, total, err := s.challengeRepo.ListForUser(userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	items := make([]ChallengeListItem, 0, len(challenges))
	for _, c := range challenges {
		items = append(items, ChallengeListItem{
			ID:          c.ID,
			TopicID:     c.TopicID,
			OpponentID:  c.OpponentOf(userID),
			YourStatus:  c.StatusFor(userID),
			TheirStatus: c.StatusFor(c.OpponentOf(userID)),
			Completed:   c.HasStoredOutcome(),
			WinnerID:    c.WinnerID,
		})
	}
	return items, total, nil
}

// GetChallenge возвращает челлендж участнику, используя read-through кеш.
// Кеш не применяется для guard-решений — только для отображения.
func (s *ChallengeService) GetChallenge(ctx context.Context, challengeID, userID uint) (*entity.Challenge, error) {
	key := challengeCacheKey(challengeID)

	var cached entity.Challenge
	if err := s.cacheRepo.GetJSON(key, &cached); err == nil {
		if !cached.IsParticipant(userID) {
			return nil, apperrors.ErrForbidden
		}
		return &cached, nil
	}

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

	if err := s.cacheRepo.SetJSON(key, challenge, s.config.ChallengeCacheTTL); err != nil {
		log.Printf("[ChallengeService] WARNING: Не удалось закешировать челлендж #%d: %v", challengeID, err)
	}
	return challenge, nil
}

// GetQuestions возвращает упорядоченный набор вопросов челленджа без
// каких-либо сведений о правильных вариантах
func (s *ChallengeService) GetQuestions(ctx context.Context, challengeID, userID uint) ([]QuestionView, error) {
	if _, err := s.GetChallenge(ctx, challengeID, userID); err != nil {
		return nil, err
	}

	links, err := s.challengeRepo.GetQuestionSet(challengeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	questionIDs := make([]uint, 0, len(links))
	for _, l := range links {
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

	views := make([]QuestionView, 0, len(links))
	for _, l := range links {
		q := questionByID[l.QuestionID]
		if q == nil {
			return nil, fmt.Errorf("%w: question #%d missing for challenge #%d",
				apperrors.ErrStorage, l.QuestionID, challengeID)
		}
		view := QuestionView{
			QuestionID:    q.ID,
			QuestionOrder: l.OrderIndex,
			Text:          q.Text,
			TimeLimitSec:  s.config.QuestionTimeLimitSec,
			Choices:       make([]ChoiceView, 0, len(q.Choices)),
		}
		for _, choice := range q.Choices {
			view.Choices = append(view.Choices, ChoiceView{ID: choice.ID, Text: choice.Text})
		}
		views = append(views, view)
	}
	return views, nil
}
