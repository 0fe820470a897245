package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cobranca/internal/domain"
)

// MockDebtorRepo is a mock implementation of port.DebtorRepository.
type MockDebtorRepo struct {
	mock.Mock
}

func (m *MockDebtorRepo) Create(ctx context.Context, debtor *domain.Debtor) error {
	args := m.Called(ctx, debtor)
	return args.Error(0)
}

func (m *MockDebtorRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Debtor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debtor), args.Error(1)
}

func (m *MockDebtorRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Debtor, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debtor), args.Error(1)
}

func (m *MockDebtorRepo) Update(ctx context.Context, debtor *domain.Debtor) error {
	args := m.Called(ctx, debtor)
	return args.Error(0)
}

func (m *MockDebtorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
