package service

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
	"github.com/yourusername/trivia-duel-api/internal/service/duel"
)

type submissionFixture struct {
	service       *SubmissionService
	challengeRepo *MockChallengeRepo
	questionRepo  *MockQuestionRepo
	answerRepo    *MockAnswerRepo
	resultRepo    *MockResultRepo
	cacheRepo     *MockCacheRepo
	audit         *MockAuditRecorder
	config        *duel.Config
}

func newSubmissionFixture() *submissionFixture {
	f := &submissionFixture{
		challengeRepo: new(MockChallengeRepo),
		questionRepo:  new(MockQuestionRepo),
		answerRepo:    new(MockAnswerRepo),
		resultRepo:    new(MockResultRepo),
		cacheRepo:     new(MockCacheRepo),
		audit:         new(MockAuditRecorder),
		config:        duel.DefaultConfig(),
	}
	validator := duel.NewAnswerValidator(f.config, &duel.Dependencies{
		ChallengeRepo: f.challengeRepo,
		AnswerRepo:    f.answerRepo,
		Audit:         f.audit,
		Config:        f.config,
	})
	f.service = NewSubmissionService(
		validator, f.challengeRepo, f.questionRepo, f.answerRepo,
		f.resultRepo, f.cacheRepo, f.audit, f.config,
	)
	return f
}

func testChallenge() *entity.Challenge {
	return &entity.Challenge{
		ID:           1,
		ChallengerID: 42,
		OpponentID:   77,
		TopicID:      5,
	}
}

func testQuestionSet() []entity.ChallengeQuestion {
	links := make([]entity.ChallengeQuestion, 0, 7)
	for i := 1; i <= 7; i++ {
		links = append(links, entity.ChallengeQuestion{
			ChallengeID: 1,
			QuestionID:  uint(100 + i),
			OrderIndex:  i,
		})
	}
	return links
}

func testQuestion(id uint) *entity.Question {
	return &entity.Question{
		ID:   id,
		Text: "Вопрос",
		Choices: []entity.Choice{
			{ID: 1000, QuestionID: id, Text: "А", IsCorrect: false},
			{ID: 1001, QuestionID: id, Text: "Б", IsCorrect: true},
			{ID: 1002, QuestionID: id, Text: "В", IsCorrect: false},
			{ID: 1003, QuestionID: id, Text: "Г", IsCorrect: false},
		},
	}
}

func (f *submissionFixture) expectValidationPasses() {
	f.challengeRepo.On("GetByID", uint(1)).Return(testChallenge(), nil)
	f.answerRepo.On("Exists", uint(1), mock.AnythingOfType("uint"), uint(42)).Return(false, nil)
	f.answerRepo.On("GetLatest", uint(1), uint(42)).Return(nil, apperrors.ErrNotFound)
}

func TestSubmissionService_SubmitAnswer_Correct(t *testing.T) {
	// Arrange
	f := newSubmissionFixture()
	f.expectValidationPasses()
	f.challengeRepo.On("GetQuestionSet", uint(1)).Return(testQuestionSet(), nil)
	f.questionRepo.On("GetWithChoices", uint(103)).Return(testQuestion(103), nil)
	f.answerRepo.On("Save", mock.AnythingOfType("*entity.Answer")).Return(nil)
	f.audit.On("RecordEvent", uint(42), uint(1),
		entity.AuditEventAnswerSubmitted, entity.AuditSeverityLow,
		mock.AnythingOfType("entity.AuditDetails")).Return()
	f.answerRepo.On("CountUserAnswers", uint(1), uint(42)).Return(int64(3), nil)

	correctChoice := uint(1001)
	sub := duel.Submission{
		ChallengeID:   1,
		UserID:        42,
		QuestionID:    103,
		ChoiceID:      &correctChoice,
		TimeTaken:     4,
		QuestionOrder: 3,
	}

	// Act
	result, err := f.service.SubmitAnswer(context.Background(), sub)

	// Assert
	assert.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 16, result.PointsScored, "10 базовых + 6 бонуса за время")
	assert.Equal(t, 3, result.QuestionsAnswered)
	assert.False(t, result.Finished)
	f.answerRepo.AssertExpectations(t)
	f.audit.AssertExpectations(t)
}

func TestSubmissionService_SubmitAnswer_TimeoutForcesIncorrect(t *testing.T) {
	// Arrange
	f := newSubmissionFixture()
	f.expectValidationPasses()
	f.challengeRepo.On("GetQuestionSet", uint(1)).Return(testQuestionSet(), nil)
	f.questionRepo.On("GetWithChoices", uint(101)).Return(testQuestion(101), nil)
	f.answerRepo.On("Save", mock.MatchedBy(func(a *entity.Answer) bool {
		return a.ChoiceID == nil && !a.IsCorrect && a.PointsScored == 0
	})).Return(nil)
	f.audit.On("RecordEvent", uint(42), uint(1),
		entity.AuditEventAnswerSubmitted, entity.AuditSeverityLow,
		mock.AnythingOfType("entity.AuditDetails")).Return()
	f.answerRepo.On("CountUserAnswers", uint(1), uint(42)).Return(int64(1), nil)

	// ChoiceID = nil: игрок не успел выбрать вариант
	sub := duel.Submission{
		ChallengeID:   1,
		UserID:        42,
		QuestionID:    101,
		ChoiceID:      nil,
		TimeTaken:     10,
		QuestionOrder: 1,
	}

	// Act
	result, err := f.service.SubmitAnswer(context.Background(), sub)

	// Assert
	assert.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.PointsScored)
	f.answerRepo.AssertExpectations(t)
}

func TestSubmissionService_SubmitAnswer_ForeignChoiceRejected(t *testing.T) {
	// Arrange
	f := newSubmissionFixture()
	f.expectValidationPasses()
	f.challengeRepo.On("GetQuestionSet", uint(1)).Return(testQuestionSet(), nil)
	f.questionRepo.On("GetWithChoices", uint(101)).Return(testQuestion(101), nil)

	// Вариант #9999 не принадлежит вопросу #101
	foreignChoice := uint(9999)
	sub := duel.Submission{
		ChallengeID:   1,
		UserID:        42,
		QuestionID:    101,
		ChoiceID:      &foreignChoice,
		TimeTaken:     2,
		QuestionOrder: 1,
	}

	// Act
	_, err := f.service.SubmitAnswer(context.Background(), sub)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSubmissionService_SubmitAnswer_WrongOrderRejected(t *testing.T) {
	// Arrange
	f := newSubmissionFixture()
	f.expectValidationPasses()
	f.challengeRepo.On("GetQuestionSet", uint(1)).Return(testQuestionSet(), nil)

	// Вопрос #103 стоит на позиции 3, а заявлена позиция 5
	choice := uint(1001)
	sub := duel.Submission{
		ChallengeID:   1,
		UserID:        42,
		QuestionID:    103,
		ChoiceID:      &choice,
		TimeTaken:     2,
		QuestionOrder: 5,
	}

	// Act
	_, err := f.service.SubmitAnswer(context.Background(), sub)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSubmissionService_SubmitAnswer_UnknownQuestionRejected(t *testing.T) {
	// Arrange
	f := newSubmissionFixture()
	f.expectValidationPasses()
	f.challengeRepo.On("GetQuestionSet", uint(1)).Return(testQuestionSet(), nil)

	// Вопрос #999 не входит в набор челленджа
	sub := duel.Submission{
		ChallengeID:   1,
		UserID:        42,
		QuestionID:    999,
		TimeTaken:     2,
		QuestionOrder: 1,
	}

	// Act
	_, err := f.service.SubmitAnswer(context.Background(), sub)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSubmissionService_SubmitAnswer_DuplicateByUniqueConstraint(t *testing.T) {
	// Arrange
	f := newSubmissionFixture()
	f.expectValidationPasses()
	f.challengeRepo.On("GetQuestionSet", uint(1)).Return(testQuestionSet(), nil)
	f.questionRepo.On("GetWithChoices", uint(101)).Return(testQuestion(101), nil)

	// Дубликат пойман не пред-проверкой, а уникальным индексом при вставке
	duplicateErr := &pq.Error{Code: "23505"}
	f.answerRepo.On("Save", mock.AnythingOfType("*entity.Answer")).Return(duplicateErr)
	f.audit.On("RecordEvent", uint(42), uint(1),
		entity.AuditEventDuplicateSubmission, entity.AuditSeverityMedium,
		mock.AnythingOfType("entity.AuditDetails")).Return()

	choice := uint(1001)
	sub := duel.Submission{
		ChallengeID:   1,
		UserID:        42,
		QuestionID:    101,
		ChoiceID:      &choice,
		TimeTaken:     2,
		QuestionOrder: 1,
	}

	// Act
	_, err := f.service.SubmitAnswer(context.Background(), sub)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrDuplicateSubmission)
	f.audit.AssertExpectations(t)
}

func TestSubmissionService_SubmitAnswer_LastAnswerFinishesSide(t *testing.T) {
	// Arrange
	f := newSubmissionFixture()
	f.expectValidationPasses()
	f.challengeRepo.On("GetQuestionSet", uint(1)).Return(testQuestionSet(), nil)
	f.questionRepo.On("GetWithChoices", uint(107)).Return(testQuestion(107), nil)
	f.answerRepo.On("Save", mock.AnythingOfType("*entity.Answer")).Return(nil)
	f.audit.On("RecordEvent", uint(42), uint(1),
		entity.AuditEventAnswerSubmitted, entity.AuditSeverityLow,
		mock.AnythingOfType("entity.AuditDetails")).Return()
	f.answerRepo.On("CountUserAnswers", uint(1), uint(42)).Return(int64(7), nil)

	// История игрока для подсчета итогового счета
	answers := []entity.Answer{
		{QuestionID: 101, PointsScored: 20, TimeTaken: 0},
		{QuestionID: 102, PointsScored: 20, TimeTaken: 0},
		{QuestionID: 103, PointsScored: 20, TimeTaken: 0},
		{QuestionID: 104, PointsScored: 20, TimeTaken: 0},
		{QuestionID: 105, PointsScored: 20, TimeTaken: 0},
		{QuestionID: 106, PointsScored: 20, TimeTaken: 0},
		{QuestionID: 107, PointsScored: 30, TimeTaken: 5},
	}
	f.answerRepo.On("GetUserAnswers", uint(1), uint(42)).Return(answers, nil)
	f.resultRepo.On("Save", mock.MatchedBy(func(r *entity.ChallengeResult) bool {
		return r.ChallengeID == 1 && r.UserID == 42 && r.TotalScore == 150 && r.TotalTime == 5
	})).Return(nil)
	f.challengeRepo.On("UpdateParticipantStatus", uint(1), "challenger_status", entity.ChallengeStatusCompleted).Return(nil)
	f.cacheRepo.On("Delete", "challenge:1").Return(nil)

	correctChoice := uint(1001)
	sub := duel.Submission{
		ChallengeID:   1,
		UserID:        42,
		QuestionID:    107,
		ChoiceID:      &correctChoice,
		TimeTaken:     5,
		QuestionOrder: 7,
	}

	// Act
	result, err := f.service.SubmitAnswer(context.Background(), sub)

	// Assert
	assert.NoError(t, err)
	assert.True(t, result.Finished)
	assert.Equal(t, 30, result.PointsScored, "Последний вопрос удваивается: 2×(10+5)")
	f.resultRepo.AssertExpectations(t)
	f.challengeRepo.AssertExpectations(t)
	f.cacheRepo.AssertExpectations(t)
}

func TestSubmissionService_SubmitAnswer_StorageFailure(t *testing.T) {
	// Arrange
	f := newSubmissionFixture()
	f.expectValidationPasses()
	f.challengeRepo.On("GetQuestionSet", uint(1)).Return(testQuestionSet(), nil)
	f.questionRepo.On("GetWithChoices", uint(101)).Return(testQuestion(101), nil)
	f.answerRepo.On("Save", mock.AnythingOfType("*entity.Answer")).Return(assert.AnError)

	choice := uint(1001)
	sub := duel.Submission{
		ChallengeID:   1,
		UserID:        42,
		QuestionID:    101,
		ChoiceID:      &choice,
		TimeTaken:     2,
		QuestionOrder: 1,
	}

	// Act
	_, err := f.service.SubmitAnswer(context.Background(), sub)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrStorage)
}

func TestSubmissionService_GetProgress(t *testing.T) {
	// Arrange
	f := newSubmissionFixture()
	f.challengeRepo.On("GetByID", uint(1)).Return(testChallenge(), nil)
	answers := []entity.Answer{
		{QuestionID: 101, PointsScored: 20, TimeTaken: 1, AnsweredAt: time.Now().Add(-time.Minute)},
		{QuestionID: 102, PointsScored: 13, TimeTaken: 7, AnsweredAt: time.Now()},
	}
	f.answerRepo.On("GetUserAnswers", uint(1), uint(42)).Return(answers, nil)
	f.challengeRepo.On("GetQuestionSet", uint(1)).Return(testQuestionSet(), nil)

	// Act
	view, err := f.service.GetProgress(context.Background(), 1, 42)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 33, view.TotalScore)
	assert.Equal(t, 2, view.QuestionsAnswered)
	assert.Equal(t, 7, view.TotalQuestions)
	assert.Len(t, view.Answers, 2)
	assert.Equal(t, 1, view.Answers[0].QuestionOrder)
	assert.Equal(t, 2, view.Answers[1].QuestionOrder)
}

func TestSubmissionService_GetProgress_NotParticipant(t *testing.T) {
	// Arrange
	f := newSubmissionFixture()
	f.challengeRepo.On("GetByID", uint(1)).Return(testChallenge(), nil)

	// Act
	_, err := f.service.GetProgress(context.Background(), 1, 500)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
