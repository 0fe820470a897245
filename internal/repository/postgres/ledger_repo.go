package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"cobranca/internal/domain"
	"cobranca/internal/port"
)

type ledgerRepo struct {
	db *sqlx.DB
}

// NewLedgerRepo creates a new PostgreSQL-backed LedgerRepository.
func NewLedgerRepo(db *sqlx.DB) port.LedgerRepository {
	return &ledgerRepo{db: db}
}

const sumDebtValueByPeriodQuery = `SELECT SUM(value) FROM debts
WHERE tenant_id = $1 AND created_at >= $2 AND created_at <= $3`

const sumPaymentValueByPeriodQuery = `SELECT SUM(p.value) FROM payments p
JOIN debtors dv ON dv.id = p.account_id
WHERE dv.tenant_id = $1 AND p.paid_at >= $2 AND p.paid_at <= $3`

const countPaymentsByPeriodQuery = `SELECT COUNT(*) FROM payments p
JOIN debtors dv ON dv.id = p.account_id
WHERE dv.tenant_id = $1 AND p.paid_at >= $2 AND p.paid_at <= $3`

func (r *ledgerRepo) SumDebtValueByPeriod(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (decimal.NullDecimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.GetContext(ctx, &sum, sumDebtValueByPeriodQuery, tenantID, start, end); err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("ledgerRepo.SumDebtValueByPeriod: %w", err)
	}
	return sum, nil
}

func (r *ledgerRepo) SumPaymentValueByPeriod(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (decimal.NullDecimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.GetContext(ctx, &sum, sumPaymentValueByPeriodQuery, tenantID, start, end); err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("ledgerRepo.SumPaymentValueByPeriod: %w", err)
	}
	return sum, nil
}

func (r *ledgerRepo) CountPaymentsByPeriod(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (sql.NullInt64, error) {
	var count sql.NullInt64
	if err := r.db.GetContext(ctx, &count, countPaymentsByPeriodQuery, tenantID, start, end); err != nil {
		return sql.NullInt64{}, fmt.Errorf("ledgerRepo.CountPaymentsByPeriod: %w", err)
	}
	return count, nil
}

func (r *ledgerRepo) ListDebtsByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Debt, error) {
	var debts []domain.Debt
	if err := r.db.SelectContext(ctx, &debts,
		"SELECT * FROM debts WHERE tenant_id = $1 ORDER BY created_at", tenantID); err != nil {
		return nil, fmt.Errorf("ledgerRepo.ListDebtsByTenant: %w", err)
	}
	return debts, nil
}
