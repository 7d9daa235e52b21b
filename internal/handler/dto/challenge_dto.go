package dto

import (
	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
)

// ChallengeResponse представляет челлендж в ответах API
type ChallengeResponse struct {
	ID               uint   `json:"id"`
	ChallengerID     uint   `json:"challenger_id"`
	OpponentID       uint   `json:"opponent_id"`
	TopicID          uint   `json:"topic_id"`
	ChallengerStatus string `json:"challenger_status"`
	OpponentStatus   string `json:"opponent_status"`
	WinnerID         *uint  `json:"winner_id,omitempty"`
	Completed        bool   `json:"completed"`
}

// NewChallengeResponse создает DTO из сущности челленджа
func NewChallengeResponse(challenge *entity.Challenge) *ChallengeResponse {
	return &ChallengeResponse{
		ID:               challenge.ID,
		ChallengerID:     challenge.ChallengerID,
		OpponentID:       challenge.OpponentID,
		TopicID:          challenge.TopicID,
		ChallengerStatus: challenge.ChallengerStatus,
		OpponentStatus:   challenge.OpponentStatus,
		WinnerID:         challenge.WinnerID,
		Completed:        challenge.CompletedAt != nil,
	}
}
