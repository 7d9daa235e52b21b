package duel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateScore_IncorrectAnswerGivesZero(t *testing.T) {
	cfg := DefaultConfig()

	breakdown := CalculateScore(false, 2.5, 3, 7, cfg)

	assert.Equal(t, 0, breakdown.TotalScore, "Неправильный ответ не должен приносить очков")
	assert.Equal(t, float64(0), breakdown.TimeBonus)
	assert.Equal(t, float64(0), breakdown.BaseScore)
}

func TestCalculateScore_InstantCorrectAnswer(t *testing.T) {
	cfg := DefaultConfig()

	// Мгновенный ответ: полный бонус времени
	breakdown := CalculateScore(true, 0, 1, 7, cfg)

	assert.Equal(t, float64(10), breakdown.TimeBonus)
	assert.Equal(t, float64(20), breakdown.BaseScore)
	assert.Equal(t, 1, breakdown.Multiplier)
	assert.Equal(t, 20, breakdown.TotalScore)
}

func TestCalculateScore_BonusShrinksWithTime(t *testing.T) {
	cfg := DefaultConfig()

	breakdown := CalculateScore(true, 7, 2, 7, cfg)

	assert.Equal(t, float64(3), breakdown.TimeBonus)
	assert.Equal(t, 13, breakdown.TotalScore)
}

func TestCalculateScore_NoNegativeBonus(t *testing.T) {
	cfg := DefaultConfig()

	// Ответ ровно на границе лимита: бонус нулевой, но не отрицательный
	breakdown := CalculateScore(true, 10, 2, 7, cfg)

	assert.Equal(t, float64(0), breakdown.TimeBonus)
	assert.Equal(t, 10, breakdown.TotalScore)
}

func TestCalculateScore_LastQuestionDoubled(t *testing.T) {
	cfg := DefaultConfig()

	breakdown := CalculateScore(true, 5, 7, 7, cfg)

	assert.Equal(t, 2, breakdown.Multiplier)
	assert.Equal(t, float64(15), breakdown.BaseScore)
	assert.Equal(t, 30, breakdown.TotalScore)
}

func TestCalculateScore_FractionalTimeRoundedOnce(t *testing.T) {
	cfg := DefaultConfig()

	// timeTaken = 2.3 → бонус 7.7, база 17.7; на последнем вопросе 35.4 → 35.
	// Округление выполняется после множителя, а не до него.
	breakdown := CalculateScore(true, 2.3, 7, 7, cfg)

	assert.InDelta(t, 7.7, breakdown.TimeBonus, 1e-9)
	assert.Equal(t, 35, breakdown.TotalScore)
}

func TestCalculateScore_FullChallengeScenario(t *testing.T) {
	cfg := DefaultConfig()

	// Игрок отвечает на первые 6 вопросов мгновенно, на седьмой — за 5 секунд
	total := 0
	for position := 1; position <= 6; position++ {
		total += CalculateScore(true, 0, position, 7, cfg).TotalScore
	}
	total += CalculateScore(true, 5, 7, 7, cfg).TotalScore

	assert.Equal(t, 150, total, "Итог сценария: 6×(10+10) + 2×(10+5) = 150")
}

func TestCalculateScore_Pure(t *testing.T) {
	cfg := DefaultConfig()

	first := CalculateScore(true, 4.2, 3, 7, cfg)
	second := CalculateScore(true, 4.2, 3, 7, cfg)

	assert.Equal(t, first, second, "Повторный вызов с теми же аргументами должен давать тот же результат")
}
