package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"cobranca/internal/config"
	"cobranca/internal/domain"
	"cobranca/internal/port"
)

// AccessAudience is the audience every caller token must carry.
const AccessAudience = "access"

// Claims represents the JWT claims with tenant context.
type Claims struct {
	jwt.RegisteredClaims
	TenantID uuid.UUID `json:"tenant_id"`
	UserID   uuid.UUID `json:"user_id"`
}

// TenantResolver turns a caller's bearer token into the tenant it acts for.
type TenantResolver interface {
	CurrentTenant(ctx context.Context, token string) (*domain.Tenant, error)
}

type tenantResolver struct {
	tenantRepo port.TenantRepository
	cfg        config.JWTConfig
}

// NewTenantResolver creates a TenantResolver that verifies HS256 tokens signed
// with the configured secret.
func NewTenantResolver(tenantRepo port.TenantRepository, cfg config.JWTConfig) TenantResolver {
	return &tenantResolver{tenantRepo: tenantRepo, cfg: cfg}
}

// CurrentTenant fails with domain.ErrUnauthorized unless the token is valid and
// names an existing tenant.
func (r *tenantResolver) CurrentTenant(ctx context.Context, token string) (*domain.Tenant, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	claims, err := r.parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.TenantID == uuid.Nil {
		return nil, fmt.Errorf("%w: token has no tenant", domain.ErrUnauthorized)
	}

	tenant, err := r.tenantRepo.GetByID(ctx, claims.TenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown tenant", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("auth.CurrentTenant: %w", err)
	}
	return tenant, nil
}

func (r *tenantResolver) parse(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(AccessAudience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(r.cfg.Leeway),
	}
	if r.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.cfg.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(r.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
