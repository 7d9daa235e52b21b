package entity

import "time"

// Статусы заявки в друзья
const (
	FriendshipStatusPending  = "pending"
	FriendshipStatusAccepted = "accepted"
	FriendshipStatusDeclined = "declined"
)

// Friendship представляет заявку в друзья и её состояние
type Friendship struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RequesterID uint      `gorm:"not null;index;uniqueIndex:idx_friend_pair" json:"requester_id"`
	AddresseeID uint      `gorm:"not null;index;uniqueIndex:idx_friend_pair" json:"addressee_id"`
	Status      string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Friendship) TableName() string {
	return "friendships"
}

// Involves проверяет, участвует ли пользователь в этой заявке
func (f *Friendship) Involves(userID uint) bool {
	return userID == f.RequesterID || userID == f.AddresseeID
}
