package port

import (
	"context"

	"github.com/google/uuid"

	"cobranca/internal/domain"
)

// ReportRepository persists report snapshots. GetByID and ListByTenant resolve
// AccountTenantID through the linked account's debtor.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Report, error)
	Update(ctx context.Context, report *domain.Report) error
	Delete(ctx context.Context, id uuid.UUID) error
}
