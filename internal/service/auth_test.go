package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"chat_console/internal/config"
	"chat_console/internal/domain"
	apperrors "chat_console/pkg/errors"
	"chat_console/pkg/logger"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = int64(len(r.users) + 1)
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) UpdatePasswordHash(_ context.Context, id int64, passwordHash string) error {
	for _, user := range r.users {
		if user.ID == id {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[string]*domain.User{
		"bob": {ID: 2, Username: "bob", PasswordHash: string(hash), Role: domain.RoleOperator},
	}}

	cfg := config.JWTConfig{Secret: "test-secret", TTL: time.Hour}
	return NewAuthService(repo, cfg, logger.New("error"))
}

func TestLoginAndValidateToken(t *testing.T) {
	auth := newAuthFixture(t)

	response, err := auth.Login(context.Background(), "bob", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "bob", response.Username)
	assert.Equal(t, domain.RoleOperator, response.Role)
	assert.NotEmpty(t, response.Token)

	identity, err := auth.ValidateToken(context.Background(), response.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(2), identity.ID)
	assert.Equal(t, "bob", identity.Username)
	assert.Equal(t, domain.RoleOperator, identity.Role)
}

func TestLoginInvalidCredentials(t *testing.T) {
	auth := newAuthFixture(t)

	_, err := auth.Login(context.Background(), "bob", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Несуществующий пользователь неотличим от неверного пароля
	_, err = auth.Login(context.Background(), "nobody", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = auth.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	auth := newAuthFixture(t)

	_, err := auth.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
