package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cobranca/internal/domain"
	"cobranca/internal/port"
)

// CreateTenantInput is the DTO for registering a collecting company.
type CreateTenantInput struct {
	Name  string `json:"name"`
	CNPJ  string `json:"cnpj"`
	Phone string `json:"phone"`
}

// TenantService defines the tenant management contract.
type TenantService interface {
	Create(ctx context.Context, input CreateTenantInput) (*domain.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
}

type tenantService struct {
	repo port.TenantRepository
	log  *zap.Logger
}

// NewTenantService creates a new TenantService implementation.
func NewTenantService(repo port.TenantRepository, log *zap.Logger) TenantService {
	if log == nil {
		log = zap.NewNop()
	}
	return &tenantService{repo: repo, log: log.Named("tenant")}
}

func (s *tenantService) Create(ctx context.Context, input CreateTenantInput) (*domain.Tenant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}

	tenant := &domain.Tenant{
		Name:  name,
		CNPJ:  strings.TrimSpace(input.CNPJ),
		Phone: strings.TrimSpace(input.Phone),
	}
	if err := s.repo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	s.log.Info("tenant created", zap.Stringer("tenant_id", tenant.ID))
	return tenant, nil
}

func (s *tenantService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return s.repo.GetByID(ctx, id)
}
