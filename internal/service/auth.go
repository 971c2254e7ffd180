package service

import (
	"context"
	"errors"
	"strings"

	"chat_console/internal/config"
	"chat_console/internal/domain"
	"chat_console/internal/repository"
	apperrors "chat_console/pkg/errors"
	"chat_console/pkg/jwt"
	"chat_console/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*domain.Identity, error)
}

type LoginResponse struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

type authService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
	log      logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig, log logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		log:      log,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		// Не раскрываем, существует ли пользователь
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := jwt.GenerateAccessToken(user.ID, user.Username, user.Role, s.jwtCfg.Secret, s.jwtCfg.TTL)
	if err != nil {
		s.log.Error("Failed to generate access token", "error", err, "user_id", user.ID)
		return nil, errors.New("failed to generate access token")
	}

	return &LoginResponse{
		Token:    token,
		Role:     user.Role,
		Username: user.Username,
	}, nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*domain.Identity, error) {
	claims, err := jwt.ValidateAccessToken(tokenString, s.jwtCfg.Secret)
	if err != nil {
		return nil, err
	}

	// Подтверждаем, что пользователь все еще существует
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	return &domain.Identity{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}
