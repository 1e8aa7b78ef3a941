package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/revoke"
	"github.com/Skotchmaster/furniture_shop/internal/tokens"
)

func newTestAuthService(t *testing.T) (*AuthService, *recorder) {
	store := newTestStore(t)
	mr := miniredis.RunT(t)
	rec := &recorder{}
	return &AuthService{
		Repo:        store,
		Tokens:      tokens.NewIssuer([]byte("test-jwt-secret"), time.Hour),
		Revoked:     revoke.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()})),
		Events:      rec,
		AdminEmails: []string{"boss@example.com"},
	}, rec
}

func TestAuthService_Register_IssuesToken(t *testing.T) {
	svc, rec := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{
		Name:     "  Ann  ",
		Email:    " Ann@Example.COM ",
		Password: "secret1",
		Phone:    "+1 555 0100",
		Address:  "1 Main St",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ann", res.User.Name)
	assert.Equal(t, "ann@example.com", res.User.Email)
	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.NotEqual(t, "secret1", res.User.PasswordHash)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, 5*time.Second)

	claims, err := tokens.AccessClaimsFromToken(res.Token, svc.Tokens.Secret)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims.Subject)

	assert.Equal(t, []string{"user_registered"}, rec.types())
}

func TestAuthService_Register_AdminEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	res, err := svc.Register(context.Background(), RegisterInput{Name: "Boss", Email: "BOSS@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	in := RegisterInput{Name: "Dup", Email: "dup@example.com", Password: "secret1"}

	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	in.Email = "DUP@example.com"
	res, err := svc.Register(ctx, in)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{name: "empty name", in: RegisterInput{Email: "a@b.c", Password: "secret1"}},
		{name: "empty email", in: RegisterInput{Name: "a", Password: "secret1"}},
		{name: "short password", in: RegisterInput{Name: "a", Email: "a@b.c", Password: "12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Register(ctx, tt.in)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Name: "Lee", Email: "lee@example.com", Password: "secret1"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, "LEE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, "lee@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: "Out", Email: "out@example.com", Password: "secret1"})
	require.NoError(t, err)
	claims, err := tokens.AccessClaimsFromToken(res.Token, svc.Tokens.Secret)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))

	revoked, err := svc.Revoked.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.ErrorIs(t, svc.Logout(ctx, nil), ErrUnauthorized)
}

func TestAuthService_Me(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: "Me", Email: "me@example.com", Password: "secret1"})
	require.NoError(t, err)

	user, err := svc.Me(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", user.Email)

	_, err = svc.Me(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
