package service

import (
	"context"
	"testing"

	"fertilabel/internal/config"
	"fertilabel/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCfg() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret-key-for-unit-tests-only",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func TestAuthLogin(t *testing.T) {
	repo := newStubOperatorRepo()
	svc := NewAuthService(repo, newTestCfg())
	ctx := context.Background()

	op, err := svc.EnsureOperator(ctx, "balanca", "Operador Balança", "senha123", RoleOperator)
	require.NoError(t, err)
	assert.Equal(t, RoleOperator, op.Role)

	resp, err := svc.Login(ctx, dto.LoginRequest{Username: "balanca", Password: "senha123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "balanca", resp.Operator.Username)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(newTestCfg().JWTSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, op.ID, claims["user_id"])
	assert.Equal(t, RoleOperator, claims["role"])
}

func TestAuthLogin_InvalidCredentials(t *testing.T) {
	repo := newStubOperatorRepo()
	svc := NewAuthService(repo, newTestCfg())
	ctx := context.Background()
	_, err := svc.EnsureOperator(ctx, "balanca", "Operador", "senha123", RoleOperator)
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "balanca", Password: "errada"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "ninguem", Password: "senha123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthEnsureOperator_RefreshesExisting(t *testing.T) {
	repo := newStubOperatorRepo()
	svc := NewAuthService(repo, newTestCfg())
	ctx := context.Background()

	first, err := svc.EnsureOperator(ctx, "admin", "Admin", "primeira", RoleAdmin)
	require.NoError(t, err)
	second, err := svc.EnsureOperator(ctx, "admin", "Admin", "segunda", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "primeira"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "segunda"})
	assert.NoError(t, err)
}

func TestAuthRefresh(t *testing.T) {
	repo := newStubOperatorRepo()
	svc := NewAuthService(repo, newTestCfg())
	ctx := context.Background()
	_, err := svc.EnsureOperator(ctx, "balanca", "Operador", "senha123", RoleOperator)
	require.NoError(t, err)
	login, err := svc.Login(ctx, dto.LoginRequest{Username: "balanca", Password: "senha123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	repo.byUsername["balanca"].Active = false
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
