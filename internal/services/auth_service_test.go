package services

import (
	"context"
	"testing"
	"time"

	"fleetdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo, *models.User) {
	t.Helper()

	userRepo := newFakeUserRepo()
	service := NewAuthService(userRepo, "test-secret", time.Hour)

	user, err := service.Register(context.Background(), &RegisterInput{
		Email:    "Maria.Dimova@Example.com",
		Password: "long-enough-secret",
		FullName: "Maria Dimova",
		Role:     models.RoleManager,
	})
	require.NoError(t, err)

	return service, userRepo, user
}

func TestLoginIssuesValidatableToken(t *testing.T) {
	service, _, user := newAuthFixture(t)

	result, err := service.Login(context.Background(), "maria.dimova@example.com", "long-enough-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	claims, err := service.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, models.RoleManager, claims.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	service, userRepo, user := newAuthFixture(t)

	_, err := service.Login(context.Background(), "maria.dimova@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(context.Background(), "nobody@example.com", "long-enough-secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	userRepo.mu.Lock()
	userRepo.users[user.ID].IsActive = false
	userRepo.mu.Unlock()

	_, err = service.Login(context.Background(), "maria.dimova@example.com", "long-enough-secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	service, _, _ := newAuthFixture(t)

	_, err := service.Register(context.Background(), &RegisterInput{
		Email:    "maria.dimova@example.com",
		Password: "another-long-secret",
		FullName: "Impostor",
		Role:     models.RoleManager,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	service, _, _ := newAuthFixture(t)

	_, err := service.Register(context.Background(), &RegisterInput{
		Email:    "short@example.com",
		Password: "short",
		FullName: "Short Pass",
		Role:     models.RoleDriver,
	})
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	service, _, user := newAuthFixture(t)

	err := service.ChangePassword(context.Background(), user.ID, "guess", "new-long-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, service.ChangePassword(context.Background(), user.ID, "long-enough-secret", "new-long-password"))

	_, err = service.Login(context.Background(), "maria.dimova@example.com", "new-long-password")
	assert.NoError(t, err)
	_, err = service.Login(context.Background(), "maria.dimova@example.com", "long-enough-secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	service, _, _ := newAuthFixture(t)

	other := NewAuthService(newFakeUserRepo(), "different-secret", time.Hour)
	_, err := other.Register(context.Background(), &RegisterInput{
		Email:    "forger@example.com",
		Password: "long-enough-secret",
		FullName: "Forger",
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)
	result, err := other.Login(context.Background(), "forger@example.com", "long-enough-secret")
	require.NoError(t, err)

	_, err = service.ValidateToken(result.Token)
	assert.Error(t, err, "a token signed with another secret must not validate")
}
