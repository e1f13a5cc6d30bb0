package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calendarapi/calendar-api/internal/model"
	"github.com/calendarapi/calendar-api/internal/repository"
	"github.com/calendarapi/calendar-api/internal/repository/repotest"
)

func newTestAuthService(t *testing.T) *AuthService {
	return NewAuthService(
		repository.NewUserRepository(repotest.Open(t)),
		"test-secret",
		time.Hour,
	)
}

// Password rules are checked before the store is used, so a nil pool is fine.
func newStorelessAuthService() *AuthService {
	return NewAuthService(repository.NewUserRepository(nil), "test-secret", time.Hour)
}

func TestRegister_PasswordTooShort(t *testing.T) {
	svc := newStorelessAuthService()

	_, err := svc.Register(context.Background(), model.CreateUserRequest{
		Email:    "test@example.com",
		Password: "12345",
	})

	assert.ErrorIs(t, err, ErrPasswordTooShort)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	svc := newStorelessAuthService()

	_, err := svc.Register(context.Background(), model.CreateUserRequest{
		Email:    "test@example.com",
		Password: strings.Repeat("é", 37), // 74 bytes
	})

	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestRegister_InvalidEmail(t *testing.T) {
	svc := newStorelessAuthService()

	for _, email := range []string{"", "not-an-email"} {
		_, err := svc.Register(context.Background(), model.CreateUserRequest{
			Email:    email,
			Password: "password123",
		})
		assert.ErrorIs(t, err, ErrValidation, "email %q", email)
	}
}

func TestRegister_Success(t *testing.T) {
	svc := newTestAuthService(t)

	user, err := svc.Register(context.Background(), model.CreateUserRequest{
		Email:    "ada@example.com",
		Password: "sekret",
	})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", user.Email)
	_, err = uuid.Parse(user.ID)
	assert.NoError(t, err)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()
	req := model.CreateUserRequest{Email: "ada@example.com", Password: "sekret"}

	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLogin_EmptyFields(t *testing.T) {
	svc := newStorelessAuthService()

	_, err := svc.Login(context.Background(), model.LoginRequest{Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogin_RoundTrip(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, model.CreateUserRequest{Email: "ada@example.com", Password: "sekret"})
	require.NoError(t, err)

	token, err := svc.Login(ctx, model.LoginRequest{Email: "ada@example.com", Password: "sekret"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)

	userID, err := svc.ResolveToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)

	me, err := svc.Me(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, registered, me)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, model.CreateUserRequest{Email: "ada@example.com", Password: "sekret"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  model.LoginRequest
	}{
		{"wrong password", model.LoginRequest{Email: "ada@example.com", Password: "wrong!"}},
		{"unknown email", model.LoginRequest{Email: "bob@example.com", Password: "sekret"}},
		{"email case differs", model.LoginRequest{Email: "ADA@example.com", Password: "sekret"}},
		{"oversized password", model.LoginRequest{Email: "ada@example.com", Password: strings.Repeat("x", 80)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.req)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestLogin_UnknownEmailCostsAsMuchAsWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, model.CreateUserRequest{Email: "known@example.com", Password: "sekret1"})
	require.NoError(t, err)

	timeLogin := func(email string) time.Duration {
		start := time.Now()
		_, err := svc.Login(ctx, model.LoginRequest{Email: email, Password: "wrong-password"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
		return time.Since(start)
	}

	timeLogin("warmup@example.com")
	wrongPassword := timeLogin("known@example.com")
	unknownEmail := timeLogin("nobody@example.com")

	assert.GreaterOrEqual(t, unknownEmail, wrongPassword/4,
		"unknown email took %v, wrong password took %v", unknownEmail, wrongPassword)
}

func TestResolveToken_Invalid(t *testing.T) {
	svc := newStorelessAuthService()

	_, err := svc.ResolveToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMe_UserVanished(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Me(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestError_MessageIsClientSafe(t *testing.T) {
	var svcErr *Error
	require.True(t, errors.As(error(ErrEmailTaken), &svcErr))
	assert.Equal(t, "Email already registered", svcErr.Error())
	assert.False(t, errors.Is(ErrEmailTaken, ErrNotFound))
}
