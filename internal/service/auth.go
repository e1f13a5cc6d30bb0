package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/calendarapi/calendar-api/internal/crypto"
	"github.com/calendarapi/calendar-api/internal/model"
	"github.com/calendarapi/calendar-api/internal/repository"
)

const minPasswordLength = 6

// AuthService handles registration, login and token resolution.
type AuthService struct {
	repo      *repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.UserRepository, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		repo:      repo,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Register creates a new user account. Password rules are checked before the
// store is touched.
func (s *AuthService) Register(ctx context.Context, req model.CreateUserRequest) (model.UserResponse, error) {
	if len(req.Password) > crypto.MaxPasswordBytes {
		return model.UserResponse{}, ErrPasswordTooLong
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return model.UserResponse{}, ErrPasswordTooShort
	}
	if err := validateStruct(req); err != nil {
		return model.UserResponse{}, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.UserResponse{}, ErrEmailTaken
		}
		return model.UserResponse{}, err
	}

	return model.UserResponse{ID: user.ID, Email: user.Email}, nil
}

// Login authenticates a user and issues an access token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenResponse, error) {
	if err := validateStruct(req); err != nil {
		return model.TokenResponse{}, err
	}
	if len(req.Password) > crypto.MaxPasswordBytes {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			crypto.RejectPassword(req.Password)
			return model.TokenResponse{}, ErrInvalidCredentials
		}
		return model.TokenResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return model.TokenResponse{}, err
	}
	if !match {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	token, err := crypto.GenerateToken(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// ResolveToken returns the user ID a bearer token was issued for.
func (s *AuthService) ResolveToken(token string) (string, error) {
	userID, err := crypto.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// Me returns the profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID string) (model.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return model.UserResponse{ID: user.ID, Email: user.Email}, nil
}
