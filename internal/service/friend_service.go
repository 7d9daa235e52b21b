package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	"github.com/yourusername/trivia-duel-api/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
)

// FriendView — друг в списке пользователя
type FriendView struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// FriendRequestView — входящая заявка в друзья
type FriendRequestView struct {
	RequestID uint   `json:"request_id"`
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
}

// FriendService управляет графом друзей
type FriendService struct {
	friendshipRepo repository.FriendshipRepository
	userRepo       repository.UserRepository
}

// NewFriendService создает новый сервис друзей
func NewFriendService(friendshipRepo repository.FriendshipRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
	}
}

// SendRequest отправляет заявку в друзья
func (s *FriendService) SendRequest(requesterID, addresseeID uint) (*entity.Friendship, error) {
	if requesterID == addresseeID {
		return nil, fmt.Errorf("%w: cannot befriend yourself", apperrors.ErrValidation)
	}

	if _, err := s.userRepo.GetByID(addresseeID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	// Связь между парой пользователей может существовать только одна,
	// независимо от направления заявки
	existing, err := s.friendshipRepo.GetBetween(requesterID, addresseeID)
	if err == nil {
		if existing.Status == entity.FriendshipStatusDeclined {
			// Отклоненную заявку можно отправить заново
			if err := s.friendshipRepo.UpdateStatus(existing.ID, entity.FriendshipStatusPending); err != nil {
				return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
			}
			existing.Status = entity.FriendshipStatusPending
			return existing, nil
		}
		return nil, fmt.Errorf("%w: friendship already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	friendship := &entity.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      entity.FriendshipStatusPending,
	}
	if err := s.friendshipRepo.Create(friendship); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: friendship already exists", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	log.Printf("[FriendService] Пользователь #%d отправил заявку в друзья пользователю #%d", requesterID, addresseeID)
	return friendship, nil
}

// RespondToRequest принимает или отклоняет входящую заявку.
// Решение может принять только адресат заявки, пока она в статусе pending.
func (s *FriendService) RespondToRequest(requestID, userID uint, accept bool) (*entity.Friendship, error) {
	friendship, err := s.friendshipRepo.GetByID(requestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	if friendship.AddresseeID != userID {
		return nil, apperrors.ErrForbidden
	}
	if friendship.Status != entity.FriendshipStatusPending {
		return nil, fmt.Errorf("%w: request already resolved", apperrors.ErrConflict)
	}

	status := entity.FriendshipStatusDeclined
	if accept {
		status = entity.FriendshipStatusAccepted
	}
	if err := s.friendshipRepo.UpdateStatus(requestID, status); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	friendship.Status = status
	return friendship, nil
}

// ListFriends возвращает принятых друзей пользователя
func (s *FriendService) ListFriends(userID uint) ([]FriendView, error) {
	friendships, err := s.friendshipRepo.ListAcceptedForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	friends := make([]FriendView, 0, len(friendships))
	for _, f := range friendships {
		friendID := f.RequesterID
		if friendID == userID {
			friendID = f.AddresseeID
		}
		user, err := s.userRepo.GetByID(friendID)
		if err != nil {
			log.Printf("[FriendService] WARNING: Не удалось загрузить профиль друга #%d: %v", friendID, err)
			continue
		}
		friends = append(friends, FriendView{UserID: user.ID, Username: user.Username})
	}
	return friends, nil
}

// ListPendingRequests возвращает входящие заявки пользователя
func (s *FriendService) ListPendingRequests(userID uint) ([]FriendRequestView, error) {
	friendships, err := s.friendshipRepo.ListPendingForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	requests := make([]FriendRequestView, 0, len(friendships))
	for _, f := range friendships {
		user, err := s.userRepo.GetByID(f.RequesterID)
		if err != nil {
			log.Printf("[FriendService] WARNING: Не удалось загрузить профиль пользователя #%d: %v", f.RequesterID, err)
			continue
		}
		requests = append(requests, FriendRequestView{
			RequestID: f.ID,
			UserID:    user.ID,
			Username:  user.Username,
		})
	}
	return requests, nil
}
