package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cobranca/internal/domain"
)

func TestDebtorRepo_Create_InsertsDebtorAndAccount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDebtorRepo(db)

	debtor := &domain.Debtor{TenantID: uuid.New(), Name: "Maria", CPF: "123.456.789-00", Email: "maria@example.com"}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO debtors`).
		WithArgs(sqlmock.AnyArg(), debtor.TenantID, "Maria", debtor.CPF, debtor.Email, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO accounts`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), debtor)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, debtor.ID)
	assert.False(t, debtor.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtorRepo_Create_AccountFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDebtorRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO debtors`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO accounts`).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &domain.Debtor{TenantID: uuid.New(), Name: "Maria"})

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtorRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDebtorRepo(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM debtors WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtorRepo_Delete_CascadesInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDebtorRepo(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM contracts WHERE debtor_id = \$1`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM payments WHERE account_id = \$1`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM debts WHERE account_id = \$1`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM accounts WHERE id = \$1`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM debtors WHERE id = \$1`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), id)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtorRepo_Delete_MissingDebtorRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDebtorRepo(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM contracts`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM payments`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM debts`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM accounts`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM debtors`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtorRepo_Delete_ContractFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDebtorRepo(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM contracts WHERE debtor_id = \$1`).WithArgs(id).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), id)

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}
