package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cobranca/internal/domain"
	"cobranca/internal/port"
)

func TestBuildDebtWhereClause(t *testing.T) {
	tenantID := uuid.New()
	accountID := uuid.New()
	minValue := decimal.NewFromInt(10)
	maxValue := decimal.NewFromInt(500)

	tests := []struct {
		name       string
		filters    port.DebtFilters
		wantClause string
		wantArgs   int
	}{
		{
			name:       "tenant only",
			filters:    port.DebtFilters{},
			wantClause: "WHERE tenant_id = $1",
			wantArgs:   1,
		},
		{
			name:       "value range",
			filters:    port.DebtFilters{MinValue: &minValue, MaxValue: &maxValue},
			wantClause: "WHERE tenant_id = $1 AND value >= $2 AND value <= $3",
			wantArgs:   3,
		},
		{
			name:       "all filters",
			filters:    port.DebtFilters{MinValue: &minValue, MaxValue: &maxValue, AccountID: &accountID},
			wantClause: "WHERE tenant_id = $1 AND value >= $2 AND value <= $3 AND account_id = $4",
			wantArgs:   4,
		},
		{
			name:       "account only",
			filters:    port.DebtFilters{AccountID: &accountID},
			wantClause: "WHERE tenant_id = $1 AND account_id = $2",
			wantArgs:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := buildDebtWhereClause(tenantID, tt.filters)
			assert.Equal(t, tt.wantClause, clause)
			assert.Len(t, args, tt.wantArgs)
			assert.Equal(t, tenantID, args[0])
		})
	}
}

func TestDebtRepo_Create_DefaultsCreatedAt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDebtRepo(db)

	debt := &domain.Debt{TenantID: uuid.New(), Value: decimal.NewNullDecimal(decimal.RequireFromString("99.90"))}

	mock.ExpectExec(`INSERT INTO debts`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), debt.TenantID, "99.9", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), debt)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, debt.ID)
	assert.Equal(t, domain.Location(), debt.CreatedAt.Location())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtRepo_Update_ResyncsPayment(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDebtRepo(db)

	accountID := uuid.New()
	debt := &domain.Debt{ID: uuid.New(), AccountID: &accountID, Value: decimal.NewNullDecimal(decimal.NewFromInt(250))}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE debts SET account_id = \$1, value = \$2 WHERE id = \$3`).
		WithArgs(sqlmock.AnyArg(), "250", debt.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE payments SET value = \$1 WHERE debt_id = \$2`).
		WithArgs("250", debt.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), debt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtRepo_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDebtRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE debts`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &domain.Debt{ID: uuid.New()})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtRepo_Delete_RemovesPaymentFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDebtRepo(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM payments WHERE debt_id = \$1`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM debts WHERE id = \$1`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtRepo_Search(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDebtRepo(db)
	tenantID := uuid.New()
	minValue := decimal.NewFromInt(100)

	mock.ExpectQuery(`SELECT \* FROM debts WHERE tenant_id = \$1 AND value >= \$2 ORDER BY created_at DESC`).
		WithArgs(tenantID, "100").
		WillReturnRows(sqlmock.NewRows(debtColumns).
			AddRow(uuid.NewString(), nil, tenantID.String(), "150.00", fixedCreatedAt))

	debts, err := repo.Search(context.Background(), tenantID, port.DebtFilters{MinValue: &minValue})

	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Nil(t, debts[0].AccountID)
	assert.True(t, debts[0].Value.Decimal.Equal(decimal.NewFromInt(150)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtRepo_SumValueByAccount_NullWhenEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDebtRepo(db)

	mock.ExpectQuery(`SELECT SUM\(value\) FROM debts`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(nil))

	sum, err := repo.SumValueByAccount(context.Background(), uuid.New(), uuid.New())

	require.NoError(t, err)
	assert.False(t, sum.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtRepo_CountByTenant(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDebtRepo(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM debts WHERE tenant_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))

	count, err := repo.CountByTenant(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
