package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cobranca/internal/auth"
	"cobranca/internal/config"
	"cobranca/internal/domain"
	"cobranca/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret: "test-secret-key-for-unit-tests",
		Issuer: "cobranca-test",
		Leeway: time.Second,
	}
}

func signToken(t *testing.T, secret string, claims *auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(tenantID uuid.UUID) *auth.Claims {
	now := time.Now()
	return &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "cobranca-test",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
			Audience:  jwt.ClaimStrings{auth.AccessAudience},
		},
		TenantID: tenantID,
		UserID:   uuid.New(),
	}
}

func TestTenantResolver_CurrentTenant_Success(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	cfg := testJWTConfig()
	resolver := auth.NewTenantResolver(tenantRepo, cfg)

	tenantID := uuid.New()
	tenant := &domain.Tenant{ID: tenantID, Name: "Cobra Bem"}
	tenantRepo.On("GetByID", mock.Anything, tenantID).Return(tenant, nil)

	got, err := resolver.CurrentTenant(context.Background(), signToken(t, cfg.Secret, validClaims(tenantID)))

	require.NoError(t, err)
	assert.Equal(t, tenantID, got.ID)
	tenantRepo.AssertExpectations(t)
}

func TestTenantResolver_CurrentTenant_Rejections(t *testing.T) {
	cfg := testJWTConfig()
	tenantID := uuid.New()

	expired := validClaims(tenantID)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongAudience := validClaims(tenantID)
	wrongAudience.Audience = jwt.ClaimStrings{"refresh"}

	wrongIssuer := validClaims(tenantID)
	wrongIssuer.Issuer = "someone-else"

	noTenant := validClaims(uuid.Nil)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage", "not-a-jwt"},
		{"bad signature", signToken(t, "another-secret", validClaims(tenantID))},
		{"expired", signToken(t, cfg.Secret, expired)},
		{"wrong audience", signToken(t, cfg.Secret, wrongAudience)},
		{"wrong issuer", signToken(t, cfg.Secret, wrongIssuer)},
		{"no tenant", signToken(t, cfg.Secret, noTenant)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenantRepo := new(mocks.MockTenantRepo)
			resolver := auth.NewTenantResolver(tenantRepo, cfg)

			_, err := resolver.CurrentTenant(context.Background(), tt.token)

			assert.ErrorIs(t, err, domain.ErrUnauthorized)
			tenantRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}

func TestTenantResolver_CurrentTenant_UnknownTenant(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	cfg := testJWTConfig()
	resolver := auth.NewTenantResolver(tenantRepo, cfg)

	tenantID := uuid.New()
	tenantRepo.On("GetByID", mock.Anything, tenantID).Return(nil, domain.ErrNotFound)

	_, err := resolver.CurrentTenant(context.Background(), signToken(t, cfg.Secret, validClaims(tenantID)))

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	tenantRepo.AssertExpectations(t)
}

func TestTenantResolver_CurrentTenant_StoreFailureIsNotUnauthorized(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	cfg := testJWTConfig()
	resolver := auth.NewTenantResolver(tenantRepo, cfg)

	tenantID := uuid.New()
	tenantRepo.On("GetByID", mock.Anything, tenantID).Return(nil, assert.AnError)

	_, err := resolver.CurrentTenant(context.Background(), signToken(t, cfg.Secret, validClaims(tenantID)))

	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}
