package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cobranca/internal/domain"
	"cobranca/internal/port"
)

// ReportService defines the report management and audit contract. Every
// operation acts on behalf of tenantID.
type ReportService interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]domain.Report, error)
	GetByID(ctx context.Context, tenantID, reportID uuid.UUID) (*domain.Report, error)
	Create(ctx context.Context, tenantID uuid.UUID, input *CreateReportInput) (*domain.Report, error)
	Update(ctx context.Context, tenantID, reportID uuid.UUID, input *UpdateReportInput) (*domain.Report, error)
	Delete(ctx context.Context, tenantID, reportID uuid.UUID) error
	GenerateAudit(ctx context.Context, tenantID uuid.UUID, startDate, endDate string) (*domain.AuditResult, error)
}

type reportService struct {
	reportRepo port.ReportRepository
	sources    reportSources
	log        *zap.Logger
}

// NewReportService creates a new ReportService implementation.
func NewReportService(
	reportRepo port.ReportRepository,
	accountRepo port.AccountRepository,
	ledgerRepo port.LedgerRepository,
	log *zap.Logger,
) ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &reportService{
		reportRepo: reportRepo,
		sources:    reportSources{accounts: accountRepo, ledger: ledgerRepo},
		log:        log.Named("report"),
	}
}

func (s *reportService) List(ctx context.Context, tenantID uuid.UUID) ([]domain.Report, error) {
	reports, err := s.reportRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("reportService.List: %w", err)
	}
	return reports, nil
}

func (s *reportService) GetByID(ctx context.Context, tenantID, reportID uuid.UUID) (*domain.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := assertOwnedBy(report, tenantID); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) Create(ctx context.Context, tenantID uuid.UUID, input *CreateReportInput) (*domain.Report, error) {
	variant, err := parseReportVariant(input)
	if err != nil {
		return nil, err
	}

	report, err := variant.generate(ctx, s.sources, tenantID)
	if err != nil {
		return nil, err
	}
	report.TenantID = tenantID
	if input.Description != nil {
		report.Description = input.Description
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		s.log.Error("failed to persist report",
			zap.Stringer("tenant_id", tenantID), zap.String("type", string(report.Type)), zap.Error(err))
		return nil, fmt.Errorf("reportService.Create: %w", err)
	}

	s.log.Info("report created",
		zap.Stringer("tenant_id", tenantID),
		zap.Stringer("report_id", report.ID),
		zap.String("type", string(report.Type)))
	return report, nil
}

// Update changes the description and, for MANUAL reports only, the moved value.
// A moved value sent for any other type is ignored.
func (s *reportService) Update(ctx context.Context, tenantID, reportID uuid.UUID, input *UpdateReportInput) (*domain.Report, error) {
	report, err := s.GetByID(ctx, tenantID, reportID)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		report.Description = input.Description
	}
	if report.Type == domain.ReportTypeManual && input.MovedValue != nil {
		report.MovedValue.Decimal = *input.MovedValue
		report.MovedValue.Valid = true
	}

	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, fmt.Errorf("reportService.Update: %w", err)
	}
	return report, nil
}

func (s *reportService) Delete(ctx context.Context, tenantID, reportID uuid.UUID) error {
	if _, err := s.GetByID(ctx, tenantID, reportID); err != nil {
		return err
	}
	if err := s.reportRepo.Delete(ctx, reportID); err != nil {
		return fmt.Errorf("reportService.Delete: %w", err)
	}
	s.log.Info("report deleted", zap.Stringer("tenant_id", tenantID), zap.Stringer("report_id", reportID))
	return nil
}

// GenerateAudit sums the debt value and counts the payments of the tenant inside
// [startDate, endDate]. Nothing is persisted; a reversed range yields zeros.
func (s *reportService) GenerateAudit(ctx context.Context, tenantID uuid.UUID, startDate, endDate string) (*domain.AuditResult, error) {
	period, err := requirePeriod("audit", startDate, endDate)
	if err != nil {
		return nil, err
	}

	totalDebts, err := s.sources.ledger.SumDebtValueByPeriod(ctx, tenantID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("reportService.GenerateAudit: %w", err)
	}
	paymentCount, err := s.sources.ledger.CountPaymentsByPeriod(ctx, tenantID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("reportService.GenerateAudit: %w", err)
	}

	return &domain.AuditResult{
		TotalDebtValue: orZero(totalDebts),
		TotalPayments:  paymentCount.Int64,
		PeriodStart:    startDate,
		PeriodEnd:      endDate,
	}, nil
}
