package duel

import "math"

// ScoreBreakdown описывает разбивку очков за один ответ
type ScoreBreakdown struct {
	BaseScore  float64 `json:"base_score"`
	TimeBonus  float64 `json:"time_bonus"`
	Multiplier int     `json:"multiplier"`
	TotalScore int     `json:"total_score"`
}

// CalculateScore вычисляет очки за ответ. Чистая функция без побочных эффектов.
//
// Неправильный ответ (или тайм-аут) всегда дает ноль. Для правильного ответа
// бонус равен остатку лимита времени (max(0, limit - timeTaken)), на последнем
// вопросе сумма удваивается. Округление выполняется один раз, после множителя:
// промежуточные значения остаются дробными.
func CalculateScore(isCorrect bool, timeTaken float64, position, totalQuestions int, cfg *Config) ScoreBreakdown {
	if !isCorrect {
		return ScoreBreakdown{Multiplier: 1}
	}

	timeBonus := float64(cfg.QuestionTimeLimitSec) - timeTaken
	if timeBonus < 0 {
		timeBonus = 0
	}

	baseScore := float64(cfg.CorrectAnswerPoints) + timeBonus

	multiplier := 1
	if position == totalQuestions {
		multiplier = cfg.LastQuestionMultiplier
	}

	return ScoreBreakdown{
		BaseScore:  baseScore,
		TimeBonus:  timeBonus,
		Multiplier: multiplier,
		TotalScore: int(math.Round(baseScore * float64(multiplier))),
	}
}
