package dto

import (
	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
)

// UserResponse представляет пользователя в ответах API
type UserResponse struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	GamesPlayed    int64  `json:"games_played"`
	WinsCount      int64  `json:"wins_count"`
	TotalScore     int64  `json:"total_score"`
}

// NewUserResponse создает DTO из сущности пользователя
func NewUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
		GamesPlayed:    user.GamesPlayed,
		WinsCount:      user.WinsCount,
		TotalScore:     user.TotalScore,
	}
}

// AuthResponse представляет ответ на регистрацию или вход
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// LeaderboardUserDTO представляет одного пользователя в лидерборде
type LeaderboardUserDTO struct {
	Rank        int    `json:"rank"`
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	GamesPlayed int64  `json:"games_played"`
	WinsCount   int64  `json:"wins_count"`
	TotalScore  int64  `json:"total_score"`
}

// PaginatedLeaderboardResponse представляет пагинированный ответ для лидерборда
type PaginatedLeaderboardResponse struct {
	Users   []*LeaderboardUserDTO `json:"users"`
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
}

// NewLeaderboardResponse собирает пагинированный лидерборд
func NewLeaderboardResponse(users []entity.User, total int64, page, perPage int) *PaginatedLeaderboardResponse {
	items := make([]*LeaderboardUserDTO, 0, len(users))
	for i := range users {
		items = append(items, &LeaderboardUserDTO{
			Rank:        (page-1)*perPage + i + 1,
			UserID:      users[i].ID,
			Username:    users[i].Username,
			GamesPlayed: users[i].GamesPlayed,
			WinsCount:   users[i].WinsCount,
			TotalScore:  users[i].TotalScore,
		})
	}
	return &PaginatedLeaderboardResponse{
		Users:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}
