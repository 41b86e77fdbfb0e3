package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/models"
	"github.com/tourismoam/backoffice/internal/repository"
)

func newAuthService(t *testing.T) (*authService, *testStack) {
	t.Helper()
	s := newTestStack(t)
	svc := NewAuthService(repository.NewUserRepository(s.db), "test-secret", time.Hour, nil).(*authService)
	return svc, s
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Username: "maria_ops",
		Email:    "maria@example.com",
		Password: "s3cret-pass",
		FullName: "Maria Ops",
	}
}

func TestRegister_DefaultsToStaff(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	req := registerRequest()
	req.Username = "someone_else"
	_, err = svc.Register(ctx, req)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Username or email already exists", ve.Message)
}

func TestRegister_ValidatesInput(t *testing.T) {
	svc, _ := newAuthService(t)

	req := registerRequest()
	req.Username = "no spaces allowed"
	_, err := svc.Register(context.Background(), req)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Message, "Username must be 3-20 characters")

	req = registerRequest()
	req.Password = "short"
	_, err = svc.Register(context.Background(), req)
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Password must be at least 8 characters long", ve.Message)
}

func TestLogin_IssuesTokenResolvedByMe(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	result, err := svc.Login(ctx, &dto.LoginRequest{Username: "maria_ops", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.NotNil(t, result.User.LastLogin)

	me, err := svc.Me(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, me.ID)
	assert.NotNil(t, me.LastLogin)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "maria_ops", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMe_RejectsBadTokens(t *testing.T) {
	svc, s := newAuthService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.Me(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// expired
	expired, err := svc.issue(user, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = svc.Me(ctx, expired)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// signed with another key
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.Me(ctx, forged)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// deactivated
	valid, err := svc.issue(user, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	_, err = svc.Me(ctx, valid)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestEnsureAdmin_OnlyOnEmptyTable(t *testing.T) {
	svc, s := newAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "", ""))
	assert.Zero(t, s.count(t, &models.User{}))

	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "admin-pass"))
	require.NoError(t, svc.EnsureAdmin(ctx, "admin2", "admin-pass"))
	assert.Equal(t, int64(1), s.count(t, &models.User{}))

	result, err := svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "admin-pass"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, result.User.Role)
}
