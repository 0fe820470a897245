package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"cobranca/internal/domain"
)

// MockLedgerRepo is a mock implementation of port.LedgerRepository.
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) SumDebtValueByPeriod(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (decimal.NullDecimal, error) {
	args := m.Called(ctx, tenantID, start, end)
	return args.Get(0).(decimal.NullDecimal), args.Error(1)
}

func (m *MockLedgerRepo) SumPaymentValueByPeriod(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (decimal.NullDecimal, error) {
	args := m.Called(ctx, tenantID, start, end)
	return args.Get(0).(decimal.NullDecimal), args.Error(1)
}

func (m *MockLedgerRepo) CountPaymentsByPeriod(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (sql.NullInt64, error) {
	args := m.Called(ctx, tenantID, start, end)
	return args.Get(0).(sql.NullInt64), args.Error(1)
}

func (m *MockLedgerRepo) ListDebtsByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Debt, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}
