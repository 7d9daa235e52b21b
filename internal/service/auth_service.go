package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	"github.com/yourusername/trivia-duel-api/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
	"github.com/yourusername/trivia-duel-api/pkg/auth"
)

// AuthService предоставляет методы для работы с аутентификацией
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// RegisterInput содержит все данные для регистрации
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}, nil
}

// RegisterUser регистрирует нового пользователя и возвращает его вместе с токеном
func (s *AuthService) RegisterUser(input RegisterInput) (*entity.User, string, error) {
	input.Email = normalizeEmail(input.Email)
	input.Username = strings.TrimSpace(input.Username)

	if input.Username == "" || input.Email == "" {
		return nil, "", fmt.Errorf("%w: username and email are required", apperrors.ErrValidation)
	}
	if len(input.Password) < 8 {
		return nil, "", fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidation)
	}

	// Проверяем, существует ли пользователь с таким email
	_, err := s.userRepo.GetByEmail(input.Email)
	if err == nil {
		return nil, "", fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check email existence: %w", err)
	}

	// Проверяем, существует ли пользователь с таким username
	_, err = s.userRepo.GetByUsername(input.Username)
	if err == nil {
		return nil, "", fmt.Errorf("%w: user with this username already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check username existence: %w", err)
	}

	user := &entity.User{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password, // Хешируется в BeforeSave
	}
	if err := s.userRepo.Create(user); err != nil {
		// Гонка двух одновременных регистраций закрывается уникальными индексами
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, "", fmt.Errorf("%w: user already exists", apperrors.ErrConflict)
		}
		return nil, "", fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	log.Printf("[AuthService] Зарегистрирован пользователь #%d (%s)", user.ID, user.Username)

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// LoginUser проверяет учетные данные и возвращает пользователя вместе с токеном
func (s *AuthService) LoginUser(email, password string) (*entity.User, string, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Не раскрываем, что именно неверно - email или пароль
			return nil, "", apperrors.ErrUnauthorized
		}
		return nil, "", fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	if !user.CheckPassword(password) {
		return nil, "", apperrors.ErrUnauthorized
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// normalizeEmail приводит email к каноническому виду
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
