package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cobranca/internal/domain"
	"cobranca/internal/port"
)

type reportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a new PostgreSQL-backed ReportRepository.
func NewReportRepo(db *sqlx.DB) port.ReportRepository {
	return &reportRepo{db: db}
}

// reportSelect resolves the linked account's tenant through its debtor. The
// account may have been deleted, in which case account_id is already NULL.
const reportSelect = `SELECT r.*, dv.tenant_id AS account_tenant_id
FROM reports r
LEFT JOIN debtors dv ON dv.id = r.account_id`

func (r *reportRepo) Create(ctx context.Context, report *domain.Report) error {
	report.ID = uuid.New()
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now().UTC()
	}

	query := `INSERT INTO reports (id, tenant_id, type, account_id, moved_value, total_debts,
		total_payments, debt_count, payment_count, account_count, description,
		generated_at, period_start, period_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.TenantID, report.Type, report.AccountID,
		report.MovedValue, report.TotalDebts, report.TotalPayments,
		report.DebtCount, report.PaymentCount, report.AccountCount,
		report.Description, report.GeneratedAt, report.PeriodStart, report.PeriodEnd)
	if err != nil {
		return fmt.Errorf("reportRepo.Create: %w", err)
	}
	return nil
}

func (r *reportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	var report domain.Report
	if err := r.db.GetContext(ctx, &report, reportSelect+" WHERE r.id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reportRepo.GetByID: %w", err)
	}
	return &report, nil
}

// ListByTenant returns the reports linked to the tenant's accounts plus the
// unlinked reports the tenant created, newest first.
func (r *reportRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Report, error) {
	var reports []domain.Report
	query := reportSelect + `
WHERE (r.account_id IS NULL AND r.tenant_id = $1) OR dv.tenant_id = $1
ORDER BY r.generated_at DESC`
	if err := r.db.SelectContext(ctx, &reports, query, tenantID); err != nil {
		return nil, fmt.Errorf("reportRepo.ListByTenant: %w", err)
	}
	return reports, nil
}

func (r *reportRepo) Update(ctx context.Context, report *domain.Report) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE reports SET description = $1, moved_value = $2 WHERE id = $3",
		report.Description, report.MovedValue, report.ID)
	if err != nil {
		return fmt.Errorf("reportRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reportRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM reports WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("reportRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
