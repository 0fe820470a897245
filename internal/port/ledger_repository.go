package port

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cobranca/internal/domain"
)

// LedgerRepository provides read-only aggregate queries over a tenant's debts and
// payments within an inclusive time window. Sums and counts are invalid (NULL)
// when no rows match; callers coerce them to zero.
type LedgerRepository interface {
	SumDebtValueByPeriod(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (decimal.NullDecimal, error)
	SumPaymentValueByPeriod(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (decimal.NullDecimal, error)
	CountPaymentsByPeriod(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (sql.NullInt64, error)
	ListDebtsByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Debt, error)
}
