package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rspo-readiness/internal/model"
)

func newAuthService(users *memUsers) *AuthService {
	svc := NewAuthService(users, "test-secret", time.Hour)
	svc.SetHashCost(bcrypt.MinCost)
	return svc
}

func TestAuthRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	svc := newAuthService(users)

	resp, err := svc.Register(ctx, model.RegisterRequest{
		Email:    "  Petani@Example.com ",
		Password: "password123",
		Name:     " Pak Budi ",
		Role:     model.RolePetani,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "petani@example.com", resp.User.Email)
	assert.Equal(t, "Pak Budi", resp.User.Name)
	assert.NotEqual(t, "password123", resp.User.PasswordHash)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, model.RolePetani, claims.Role)

	login, err := svc.Login(ctx, model.LoginRequest{Email: "PETANI@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "petani@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, model.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Register(ctx, model.RegisterRequest{Email: "petani@example.com", Password: "password123", Role: model.RoleManajer})
	assert.ErrorIs(t, err, ErrEmailTaken)

	user, err := svc.GetUser(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "petani@example.com", user.Email)
}

func TestAuthRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		req  model.RegisterRequest
	}{
		{"bad email", model.RegisterRequest{Email: "not-an-email", Password: "password123", Role: model.RolePetani}},
		{"short password", model.RegisterRequest{Email: "a@example.com", Password: "short", Role: model.RolePetani}},
		{"unknown role", model.RegisterRequest{Email: "a@example.com", Password: "password123", Role: "pembeli"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMemUsers()
			_, err := newAuthService(users).Register(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, users.byID)
		})
	}
}

func TestAuthRegisterLookupFailure(t *testing.T) {
	users := newMemUsers()
	users.fetch = errBackend
	_, err := newAuthService(users).Register(context.Background(), model.RegisterRequest{
		Email: "a@example.com", Password: "password123", Role: model.RolePetani,
	})
	assert.ErrorIs(t, err, errBackend)
}

func TestAuthValidateToken(t *testing.T) {
	svc := newAuthService(newMemUsers())
	user := &model.User{ID: "u1", Role: model.RoleManajer}

	valid, err := svc.GenerateToken(user)
	require.NoError(t, err)

	expired := NewAuthService(newMemUsers(), "test-secret", -time.Minute)
	expiredToken, err := expired.GenerateToken(user)
	require.NoError(t, err)

	otherSecret, err := NewAuthService(newMemUsers(), "other-secret", time.Hour).GenerateToken(user)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &model.UserClaims{UserID: "u1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	anonymous, err := svc.GenerateToken(&model.User{})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		ok    bool
	}{
		{"valid", valid, true},
		{"expired", expiredToken, false},
		{"wrong secret", otherSecret, false},
		{"unsigned", noneToken, false},
		{"no user id", anonymous, false},
		{"garbage", "abc.def.ghi", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", claims.UserID)
			assert.Equal(t, model.RoleManajer, claims.Role)
		})
	}
}
