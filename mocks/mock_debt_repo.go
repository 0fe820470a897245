package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"cobranca/internal/domain"
	"cobranca/internal/port"
)

// MockDebtRepo is a mock implementation of port.DebtRepository.
type MockDebtRepo struct {
	mock.Mock
}

func (m *MockDebtRepo) Create(ctx context.Context, debt *domain.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Debt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Debt, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

func (m *MockDebtRepo) Search(ctx context.Context, tenantID uuid.UUID, filters port.DebtFilters) ([]domain.Debt, error) {
	args := m.Called(ctx, tenantID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

func (m *MockDebtRepo) Update(ctx context.Context, debt *domain.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDebtRepo) SumValueByAccount(ctx context.Context, tenantID, accountID uuid.UUID) (decimal.NullDecimal, error) {
	args := m.Called(ctx, tenantID, accountID)
	return args.Get(0).(decimal.NullDecimal), args.Error(1)
}

func (m *MockDebtRepo) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}
