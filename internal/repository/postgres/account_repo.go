package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cobranca/internal/domain"
	"cobranca/internal/port"
)

const accountColumns = `a.id, dv.tenant_id, dv.name AS debtor_name`

const paymentColumns = `p.debt_id, p.account_id, dv.tenant_id, p.method, p.value, p.paid_at`

type accountRepo struct {
	db *sqlx.DB
}

// NewAccountRepo creates a new PostgreSQL-backed AccountRepository.
func NewAccountRepo(db *sqlx.DB) port.AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT ` + accountColumns + `
		FROM accounts a JOIN debtors dv ON dv.id = a.id
		WHERE a.id = $1`
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("accountRepo.GetByID: %w", err)
	}

	if err := r.db.SelectContext(ctx, &account.Debts,
		"SELECT * FROM debts WHERE account_id = $1 ORDER BY created_at", id); err != nil {
		return nil, fmt.Errorf("accountRepo.GetByID debts: %w", err)
	}
	if err := r.db.SelectContext(ctx, &account.Payments,
		`SELECT `+paymentColumns+`
		FROM payments p JOIN debtors dv ON dv.id = p.account_id
		WHERE p.account_id = $1 ORDER BY p.paid_at`, id); err != nil {
		return nil, fmt.Errorf("accountRepo.GetByID payments: %w", err)
	}
	return &account, nil
}

// ListByTenant loads every account of the tenant with three queries and groups
// the debts and payments in memory.
func (r *accountRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Account, error) {
	var accounts []domain.Account
	query := `SELECT ` + accountColumns + `
		FROM accounts a JOIN debtors dv ON dv.id = a.id
		WHERE dv.tenant_id = $1 ORDER BY dv.name`
	if err := r.db.SelectContext(ctx, &accounts, query, tenantID); err != nil {
		return nil, fmt.Errorf("accountRepo.ListByTenant: %w", err)
	}
	if len(accounts) == 0 {
		return accounts, nil
	}

	var debts []domain.Debt
	if err := r.db.SelectContext(ctx, &debts,
		`SELECT d.* FROM debts d JOIN debtors dv ON dv.id = d.account_id
		WHERE dv.tenant_id = $1 ORDER BY d.created_at`, tenantID); err != nil {
		return nil, fmt.Errorf("accountRepo.ListByTenant debts: %w", err)
	}

	var payments []domain.Payment
	if err := r.db.SelectContext(ctx, &payments,
		`SELECT `+paymentColumns+`
		FROM payments p JOIN debtors dv ON dv.id = p.account_id
		WHERE dv.tenant_id = $1 ORDER BY p.paid_at`, tenantID); err != nil {
		return nil, fmt.Errorf("accountRepo.ListByTenant payments: %w", err)
	}

	index := make(map[uuid.UUID]int, len(accounts))
	for i := range accounts {
		index[accounts[i].ID] = i
	}
	for i := range debts {
		if debts[i].AccountID == nil {
			continue
		}
		if pos, ok := index[*debts[i].AccountID]; ok {
			accounts[pos].Debts = append(accounts[pos].Debts, debts[i])
		}
	}
	for i := range payments {
		if pos, ok := index[payments[i].AccountID]; ok {
			accounts[pos].Payments = append(accounts[pos].Payments, payments[i])
		}
	}
	return accounts, nil
}
