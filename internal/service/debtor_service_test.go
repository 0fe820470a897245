package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cobranca/internal/domain"
	"cobranca/internal/service"
	"cobranca/mocks"
)

func TestDebtorService_Create(t *testing.T) {
	debtorRepo := new(mocks.MockDebtorRepo)
	svc := service.NewDebtorService(debtorRepo, new(mocks.MockAccountRepo), nil)
	tenantID := uuid.New()

	debtorRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.Debtor) bool {
		return d.TenantID == tenantID && d.Name == "João Silva" && d.CPF == "123.456.789-00"
	})).Return(nil)

	debtor, err := svc.Create(context.Background(), tenantID, &service.CreateDebtorInput{
		Name: "  João Silva ",
		CPF:  "123.456.789-00",
	})

	require.NoError(t, err)
	assert.Equal(t, "João Silva", debtor.Name)
	debtorRepo.AssertExpectations(t)
}

func TestDebtorService_Create_NameRequired(t *testing.T) {
	debtorRepo := new(mocks.MockDebtorRepo)
	svc := service.NewDebtorService(debtorRepo, new(mocks.MockAccountRepo), nil)

	_, err := svc.Create(context.Background(), uuid.New(), &service.CreateDebtorInput{Name: "   "})

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	debtorRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDebtorService_List_WithBalances(t *testing.T) {
	debtorRepo := new(mocks.MockDebtorRepo)
	accountRepo := new(mocks.MockAccountRepo)
	svc := service.NewDebtorService(debtorRepo, accountRepo, nil)
	tenantID := uuid.New()
	paying := domain.Debtor{ID: uuid.New(), TenantID: tenantID, Name: "Ana"}
	fresh := domain.Debtor{ID: uuid.New(), TenantID: tenantID, Name: "Bruno"}

	debtorRepo.On("ListByTenant", mock.Anything, tenantID).Return([]domain.Debtor{paying, fresh}, nil)
	accountRepo.On("ListByTenant", mock.Anything, tenantID).Return([]domain.Account{
		{
			ID:       paying.ID,
			TenantID: tenantID,
			Debts:    []domain.Debt{debtOf("300")},
			Payments: []domain.Payment{paymentOf("120")},
		},
	}, nil)

	summaries, err := svc.List(context.Background(), tenantID)

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.True(t, summaries[0].Balance.Equal(money("180")))
	assert.True(t, summaries[1].Balance.IsZero())
}

func TestDebtorService_GetByID_OtherTenant(t *testing.T) {
	debtorRepo := new(mocks.MockDebtorRepo)
	svc := service.NewDebtorService(debtorRepo, new(mocks.MockAccountRepo), nil)
	debtor := &domain.Debtor{ID: uuid.New(), TenantID: uuid.New()}

	debtorRepo.On("GetByID", mock.Anything, debtor.ID).Return(debtor, nil)

	_, err := svc.GetByID(context.Background(), uuid.New(), debtor.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDebtorService_GetAccount(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepo)
	svc := service.NewDebtorService(new(mocks.MockDebtorRepo), accountRepo, nil)
	tenantID := uuid.New()
	account := &domain.Account{ID: uuid.New(), TenantID: tenantID, Debts: []domain.Debt{debtOf("40")}}

	accountRepo.On("GetByID", mock.Anything, account.ID).Return(account, nil)

	got, err := svc.GetAccount(context.Background(), tenantID, account.ID)

	require.NoError(t, err)
	assert.True(t, got.Balance().Equal(money("40")))

	_, err = svc.GetAccount(context.Background(), uuid.New(), account.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDebtorService_Update(t *testing.T) {
	debtorRepo := new(mocks.MockDebtorRepo)
	svc := service.NewDebtorService(debtorRepo, new(mocks.MockAccountRepo), nil)
	tenantID := uuid.New()
	debtor := &domain.Debtor{ID: uuid.New(), TenantID: tenantID, Name: "Ana", Email: "ana@old.com"}
	email := "ana@new.com"

	debtorRepo.On("GetByID", mock.Anything, debtor.ID).Return(debtor, nil)
	debtorRepo.On("Update", mock.Anything, debtor).Return(nil)

	got, err := svc.Update(context.Background(), tenantID, debtor.ID, &service.UpdateDebtorInput{Email: &email})

	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, email, got.Email)
	debtorRepo.AssertExpectations(t)
}

func TestDebtorService_Update_EmptyName(t *testing.T) {
	debtorRepo := new(mocks.MockDebtorRepo)
	svc := service.NewDebtorService(debtorRepo, new(mocks.MockAccountRepo), nil)
	tenantID := uuid.New()
	debtor := &domain.Debtor{ID: uuid.New(), TenantID: tenantID, Name: "Ana"}
	empty := ""

	debtorRepo.On("GetByID", mock.Anything, debtor.ID).Return(debtor, nil)

	_, err := svc.Update(context.Background(), tenantID, debtor.ID, &service.UpdateDebtorInput{Name: &empty})

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	debtorRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDebtorService_Delete(t *testing.T) {
	debtorRepo := new(mocks.MockDebtorRepo)
	svc := service.NewDebtorService(debtorRepo, new(mocks.MockAccountRepo), nil)
	tenantID := uuid.New()
	debtor := &domain.Debtor{ID: uuid.New(), TenantID: tenantID}

	debtorRepo.On("GetByID", mock.Anything, debtor.ID).Return(debtor, nil)
	debtorRepo.On("Delete", mock.Anything, debtor.ID).Return(nil)

	err := svc.Delete(context.Background(), tenantID, debtor.ID)

	assert.NoError(t, err)
	debtorRepo.AssertExpectations(t)
}

func TestDebtorService_Delete_OtherTenant(t *testing.T) {
	debtorRepo := new(mocks.MockDebtorRepo)
	svc := service.NewDebtorService(debtorRepo, new(mocks.MockAccountRepo), nil)
	debtor := &domain.Debtor{ID: uuid.New(), TenantID: uuid.New()}

	debtorRepo.On("GetByID", mock.Anything, debtor.ID).Return(debtor, nil)

	err := svc.Delete(context.Background(), uuid.New(), debtor.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
	debtorRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
