package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cobranca/internal/domain"
	"cobranca/internal/port"
)

// CreateReportInput is the DTO for creating a report. Which fields are required
// depends on Type; an empty Type means MANUAL.
type CreateReportInput struct {
	Type        domain.ReportType `json:"type"`
	AccountID   *uuid.UUID        `json:"account_id"`
	MovedValue  *decimal.Decimal  `json:"moved_value"`
	Description *string           `json:"description"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
}

// UpdateReportInput is the DTO for updating a report. Nil fields are left unchanged.
type UpdateReportInput struct {
	Description *string          `json:"description"`
	MovedValue  *decimal.Decimal `json:"moved_value"`
}

// reportSources are the read-only collaborators the generators draw from.
type reportSources struct {
	accounts port.AccountRepository
	ledger   port.LedgerRepository
}

// reportVariant is one report type with exactly the fields it needs. generate
// fills the type-specific fields of a new report and never persists anything.
type reportVariant interface {
	generate(ctx context.Context, src reportSources, tenantID uuid.UUID) (*domain.Report, error)
}

type manualReport struct {
	movedValue decimal.Decimal
	accountID  *uuid.UUID
}

type accountReport struct {
	accountID uuid.UUID
}

type consolidatedReport struct{}

type periodReport struct {
	period domain.Period
}

type receiptsReport struct {
	period domain.Period
}

// parseReportVariant checks the required fields of the requested type before
// anything is looked up.
func parseReportVariant(input *CreateReportInput) (reportVariant, error) {
	reportType := input.Type
	if reportType == "" {
		reportType = domain.ReportTypeManual
	}

	switch reportType {
	case domain.ReportTypeManual:
		if input.MovedValue == nil {
			return nil, fmt.Errorf("%w: moved_value is required for a %s report", domain.ErrInvalidRequest, reportType)
		}
		return manualReport{movedValue: *input.MovedValue, accountID: input.AccountID}, nil
	case domain.ReportTypeAccount:
		if input.AccountID == nil {
			return nil, fmt.Errorf("%w: account_id is required for a %s report", domain.ErrInvalidRequest, reportType)
		}
		return accountReport{accountID: *input.AccountID}, nil
	case domain.ReportTypeConsolidated:
		return consolidatedReport{}, nil
	case domain.ReportTypePeriod:
		period, err := requirePeriod(string(reportType), input.StartDate, input.EndDate)
		if err != nil {
			return nil, err
		}
		return periodReport{period: period}, nil
	case domain.ReportTypeReceipts:
		period, err := requirePeriod(string(reportType), input.StartDate, input.EndDate)
		if err != nil {
			return nil, err
		}
		return receiptsReport{period: period}, nil
	default:
		return nil, fmt.Errorf("%w: unknown report type %q", domain.ErrInvalidRequest, input.Type)
	}
}

func requirePeriod(operation, startDate, endDate string) (domain.Period, error) {
	if startDate == "" || endDate == "" {
		return domain.Period{}, fmt.Errorf("%w: start_date and end_date are required (%s)",
			domain.ErrInvalidRequest, operation)
	}
	return domain.NewPeriod(startDate, endDate)
}

// ownedAccount loads an account and checks it belongs to tenantID.
func ownedAccount(ctx context.Context, accounts port.AccountRepository, tenantID, accountID uuid.UUID) (*domain.Account, error) {
	account, err := accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := assertOwnedBy(account, tenantID); err != nil {
		return nil, err
	}
	return account, nil
}

func (v manualReport) generate(ctx context.Context, src reportSources, tenantID uuid.UUID) (*domain.Report, error) {
	report := &domain.Report{Type: domain.ReportTypeManual}
	report.MovedValue = decimal.NewNullDecimal(v.movedValue)
	if v.accountID != nil {
		account, err := ownedAccount(ctx, src.accounts, tenantID, *v.accountID)
		if err != nil {
			return nil, err
		}
		report.AccountID = &account.ID
		report.AccountTenantID = &account.TenantID
	}
	return report, nil
}

func (v accountReport) generate(ctx context.Context, src reportSources, tenantID uuid.UUID) (*domain.Report, error) {
	account, err := ownedAccount(ctx, src.accounts, tenantID, v.accountID)
	if err != nil {
		return nil, err
	}

	balance := account.Balance()
	report := &domain.Report{
		Type:            domain.ReportTypeAccount,
		AccountID:       &account.ID,
		AccountTenantID: &account.TenantID,
		ReportFields: domain.ReportFields{
			TotalDebts:    decimal.NewNullDecimal(account.TotalDebts()),
			TotalPayments: decimal.NewNullDecimal(account.TotalPayments()),
			DebtCount:     intPtr(len(account.Debts)),
			PaymentCount:  intPtr(len(account.Payments)),
			MovedValue:    decimal.NewNullDecimal(balance),
		},
		Description: strPtr(fmt.Sprintf("Relatório da conta de %s - Saldo: R$ %s",
			account.DebtorName, balance.StringFixed(2))),
	}
	return report, nil
}

func (v consolidatedReport) generate(ctx context.Context, src reportSources, tenantID uuid.UUID) (*domain.Report, error) {
	accounts, err := src.accounts.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	c := domain.Consolidate(accounts)
	report := &domain.Report{
		Type: domain.ReportTypeConsolidated,
		ReportFields: domain.ReportFields{
			TotalDebts:    decimal.NewNullDecimal(c.TotalDebts),
			TotalPayments: decimal.NewNullDecimal(c.TotalPayments),
			DebtCount:     intPtr(c.DebtCount),
			PaymentCount:  intPtr(c.PaymentCount),
			AccountCount:  intPtr(c.AccountCount),
			MovedValue:    decimal.NewNullDecimal(c.Balance),
		},
		Description: strPtr(fmt.Sprintf("Relatório consolidado - %d contas - Saldo total: R$ %s",
			c.AccountCount, c.Balance.StringFixed(2))),
	}
	return report, nil
}

func (v periodReport) generate(ctx context.Context, src reportSources, tenantID uuid.UUID) (*domain.Report, error) {
	p := v.period
	totalDebts, err := src.ledger.SumDebtValueByPeriod(ctx, tenantID, p.Start, p.End)
	if err != nil {
		return nil, err
	}
	totalPayments, err := src.ledger.SumPaymentValueByPeriod(ctx, tenantID, p.Start, p.End)
	if err != nil {
		return nil, err
	}
	paymentCount, err := src.ledger.CountPaymentsByPeriod(ctx, tenantID, p.Start, p.End)
	if err != nil {
		return nil, err
	}
	debts, err := src.ledger.ListDebtsByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	debtCount := 0
	for i := range debts {
		if !debts[i].CreatedAt.IsZero() && p.Contains(debts[i].CreatedAt) {
			debtCount++
		}
	}

	debtSum := orZero(totalDebts)
	paymentSum := orZero(totalPayments)
	report := &domain.Report{
		Type: domain.ReportTypePeriod,
		ReportFields: domain.ReportFields{
			TotalDebts:    decimal.NewNullDecimal(debtSum),
			TotalPayments: decimal.NewNullDecimal(paymentSum),
			DebtCount:     intPtr(debtCount),
			PaymentCount:  intPtr(int(paymentCount.Int64)),
			MovedValue:    decimal.NewNullDecimal(debtSum.Sub(paymentSum)),
		},
		Description: strPtr(fmt.Sprintf("Relatório de período %s a %s", formatDay(p.Start), formatDay(p.End))),
		PeriodStart: &p.Start,
		PeriodEnd:   &p.End,
	}
	return report, nil
}

func (v receiptsReport) generate(ctx context.Context, src reportSources, tenantID uuid.UUID) (*domain.Report, error) {
	p := v.period
	totalReceived, err := src.ledger.SumPaymentValueByPeriod(ctx, tenantID, p.Start, p.End)
	if err != nil {
		return nil, err
	}
	paymentCount, err := src.ledger.CountPaymentsByPeriod(ctx, tenantID, p.Start, p.End)
	if err != nil {
		return nil, err
	}

	received := orZero(totalReceived)
	report := &domain.Report{
		Type: domain.ReportTypeReceipts,
		ReportFields: domain.ReportFields{
			TotalPayments: decimal.NewNullDecimal(received),
			PaymentCount:  intPtr(int(paymentCount.Int64)),
			MovedValue:    decimal.NewNullDecimal(received),
		},
		Description: strPtr(fmt.Sprintf("Relatório de recebimentos - Período: %s a %s - Total recebido: R$ %s",
			formatDay(p.Start), formatDay(p.End), received.StringFixed(2))),
		PeriodStart: &p.Start,
		PeriodEnd:   &p.End,
	}
	return report, nil
}

func orZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}

func formatDay(t time.Time) string {
	return t.In(domain.Location()).Format(domain.DateLayout)
}

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }
