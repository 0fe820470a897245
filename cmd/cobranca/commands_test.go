package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cobranca/internal/config"
	"cobranca/internal/csvexport"
	"cobranca/internal/domain"
	"cobranca/internal/service"
	"cobranca/mocks"
)

type fakeResolver struct {
	tokens map[string]*domain.Tenant
}

func (r fakeResolver) CurrentTenant(_ context.Context, token string) (*domain.Tenant, error) {
	if t, ok := r.tokens[token]; ok {
		return t, nil
	}
	return nil, domain.ErrUnauthorized
}

type cliFixture struct {
	tenant   *domain.Tenant
	reports  *mocks.MockReportRepo
	ledger   *mocks.MockLedgerRepo
	tenants  *mocks.MockTenantRepo
	debtors  *mocks.MockDebtorRepo
	accounts *mocks.MockAccountRepo
	debts    *mocks.MockDebtRepo
	payments *mocks.MockPaymentRepo

	contracts     *mocks.MockContractRepo
	notifications *mocks.MockNotificationRepo
	sender        *mocks.MockEmailSender

	out *bytes.Buffer
	app *app
}

func newCLIFixture() *cliFixture {
	f := &cliFixture{
		tenant:   &domain.Tenant{ID: uuid.New(), Name: "Empresa Teste"},
		reports:  new(mocks.MockReportRepo),
		ledger:   new(mocks.MockLedgerRepo),
		tenants:  new(mocks.MockTenantRepo),
		debtors:  new(mocks.MockDebtorRepo),
		accounts: new(mocks.MockAccountRepo),
		debts:    new(mocks.MockDebtRepo),
		payments: new(mocks.MockPaymentRepo),

		contracts:     new(mocks.MockContractRepo),
		notifications: new(mocks.MockNotificationRepo),
		sender:        new(mocks.MockEmailSender),

		out: new(bytes.Buffer),
	}
	reportSvc := service.NewReportService(f.reports, f.accounts, f.ledger, nil)
	f.app = &app{
		resolver: fakeResolver{tokens: map[string]*domain.Tenant{"good": f.tenant}},
		reports:  reportSvc,
		exports: service.NewReportExportService(reportSvc, f.tenants, nil,
			config.ExportConfig{Format: "csv"}, config.S3Config{}, nil),
		tenants:  service.NewTenantService(f.tenants, nil),
		debtors:  service.NewDebtorService(f.debtors, f.accounts, nil),
		debts:    service.NewDebtService(f.debts, f.accounts, f.payments, nil),
		payments: service.NewPaymentService(f.payments, f.debts, nil),

		contracts:     service.NewContractService(f.contracts, f.debtors, nil),
		notifications: service.NewNotificationService(f.notifications, f.tenants, f.sender, nil),

		out:    f.out,
		getenv: func(string) string { return "" },
	}
	return f
}

func TestDispatch_Usage(t *testing.T) {
	f := newCLIFixture()

	for _, args := range [][]string{nil, {"reports"}, {"reports", "archive"}, {"bogus"}, {"debts"}, {"tenant", "drop"}, {"contracts"}, {"notifications", "purge"}} {
		err := f.app.dispatch(context.Background(), args)
		assert.ErrorIs(t, err, errUsage, "args %v", args)
		assert.Equal(t, 64, exitCode(err))
	}
}

func TestDispatch_ReportsList(t *testing.T) {
	f := newCLIFixture()
	reports := []domain.Report{{ID: uuid.New(), Type: domain.ReportTypeManual}}
	f.reports.On("ListByTenant", mock.Anything, f.tenant.ID).Return(reports, nil)

	err := f.app.dispatch(context.Background(), []string{"reports", "list", "--token", "good"})

	require.NoError(t, err)
	var got []domain.Report
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, reports[0].ID, got[0].ID)
}

func TestDispatch_TokenFromEnvironment(t *testing.T) {
	f := newCLIFixture()
	f.app.getenv = func(key string) string {
		if key == "COBRANCA_TOKEN" {
			return "good"
		}
		return ""
	}
	f.reports.On("ListByTenant", mock.Anything, f.tenant.ID).Return([]domain.Report{}, nil)

	err := f.app.dispatch(context.Background(), []string{"reports", "list"})

	assert.NoError(t, err)
}

func TestDispatch_BadToken(t *testing.T) {
	f := newCLIFixture()

	err := f.app.dispatch(context.Background(), []string{"reports", "list", "--token", "forged"})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, 3, exitCode(err))
	f.reports.AssertNotCalled(t, "ListByTenant", mock.Anything, mock.Anything)
}

func TestDispatch_ReportsCreateManual(t *testing.T) {
	f := newCLIFixture()
	f.reports.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Report) bool {
		return r.Type == domain.ReportTypeManual &&
			r.MovedValue.Decimal.Equal(decimal.RequireFromString("1000")) &&
			r.Description != nil && *r.Description == "ajuste"
	})).Return(nil)

	err := f.app.dispatch(context.Background(), []string{
		"reports", "create", "--token", "good", "--type", "MANUAL", "--value", "1000", "--description", "ajuste",
	})

	require.NoError(t, err)
	f.reports.AssertExpectations(t)
}

func TestDispatch_ReportsCreateInvalidValue(t *testing.T) {
	f := newCLIFixture()

	err := f.app.dispatch(context.Background(), []string{"reports", "create", "--token", "good", "--value", "mil"})

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Equal(t, 2, exitCode(err))
}

func TestDispatch_ReportsGetRequiresID(t *testing.T) {
	f := newCLIFixture()

	err := f.app.dispatch(context.Background(), []string{"reports", "get", "--token", "good"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	err = f.app.dispatch(context.Background(), []string{"reports", "get", "--token", "good", "--id", "42"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestDispatch_ReportsDeleteForbidden(t *testing.T) {
	f := newCLIFixture()
	accountID := uuid.New()
	owner := uuid.New()
	report := &domain.Report{ID: uuid.New(), AccountID: &accountID, AccountTenantID: &owner}
	f.reports.On("GetByID", mock.Anything, report.ID).Return(report, nil)

	err := f.app.dispatch(context.Background(), []string{"reports", "delete", "--token", "good", "--id", report.ID.String()})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 4, exitCode(err))
}

func TestDispatch_Audit(t *testing.T) {
	f := newCLIFixture()
	f.ledger.On("SumDebtValueByPeriod", mock.Anything, f.tenant.ID, mock.Anything, mock.Anything).
		Return(decimal.NewNullDecimal(decimal.RequireFromString("120.50")), nil)
	f.ledger.On("CountPaymentsByPeriod", mock.Anything, f.tenant.ID, mock.Anything, mock.Anything).
		Return(sql.NullInt64{Int64: 2, Valid: true}, nil)

	err := f.app.dispatch(context.Background(), []string{
		"audit", "--token", "good", "--start", "2024-01-01", "--end", "2024-01-31",
	})

	require.NoError(t, err)
	var got domain.AuditResult
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
	assert.True(t, got.TotalDebtValue.Equal(decimal.RequireFromString("120.50")))
	assert.Equal(t, int64(2), got.TotalPayments)
	assert.Equal(t, "2024-01-01", got.PeriodStart)
}

func TestDispatch_AuditCSVToFile(t *testing.T) {
	f := newCLIFixture()
	f.ledger.On("SumDebtValueByPeriod", mock.Anything, f.tenant.ID, mock.Anything, mock.Anything).
		Return(decimal.NewNullDecimal(decimal.RequireFromString("120.5")), nil)
	f.ledger.On("CountPaymentsByPeriod", mock.Anything, f.tenant.ID, mock.Anything, mock.Anything).
		Return(sql.NullInt64{Int64: 2, Valid: true}, nil)
	path := filepath.Join(t.TempDir(), "audit.csv")

	err := f.app.dispatch(context.Background(), []string{
		"audit", "--token", "good", "--start", "2024-01-01", "--end", "2024-01-31", "--format", "csv", "--out", path,
	})

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, csvexport.BOM))
	assert.Equal(t, "Inicio,Fim,Valor Total Dividas,Total Pagamentos\n2024-01-01,2024-01-31,120.50,2\n",
		string(data[len(csvexport.BOM):]))
	assert.Contains(t, f.out.String(), path)
}

func TestDispatch_AuditCSVToStdout(t *testing.T) {
	f := newCLIFixture()
	f.ledger.On("SumDebtValueByPeriod", mock.Anything, f.tenant.ID, mock.Anything, mock.Anything).
		Return(decimal.NullDecimal{}, nil)
	f.ledger.On("CountPaymentsByPeriod", mock.Anything, f.tenant.ID, mock.Anything, mock.Anything).
		Return(sql.NullInt64{Int64: 0, Valid: true}, nil)

	err := f.app.dispatch(context.Background(), []string{
		"audit", "--token", "good", "--start", "2024-02-01", "--end", "2024-01-01", "--format", "csv",
	})

	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "2024-02-01,2024-01-01,0.00,0")
}

func TestDispatch_AuditUnknownFormat(t *testing.T) {
	f := newCLIFixture()

	err := f.app.dispatch(context.Background(), []string{
		"audit", "--token", "good", "--start", "2024-01-01", "--end", "2024-01-31", "--format", "pdf",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	f.ledger.AssertNotCalled(t, "SumDebtValueByPeriod", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_Export(t *testing.T) {
	f := newCLIFixture()
	f.tenants.On("GetByID", mock.Anything, f.tenant.ID).Return(f.tenant, nil)
	f.reports.On("ListByTenant", mock.Anything, f.tenant.ID).Return([]domain.Report{}, nil)
	path := filepath.Join(t.TempDir(), "out.csv")

	err := f.app.dispatch(context.Background(), []string{"export", "--token", "good", "--out", path})

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Tipo")
	assert.Contains(t, f.out.String(), `"path"`)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", domain.ErrNotFound), 5},
		{domain.ErrPaymentExists, 6},
		{errors.New("boom"), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err))
	}
}
