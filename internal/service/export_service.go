package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cobranca/internal/config"
	"cobranca/internal/csvexport"
	"cobranca/internal/domain"
	"cobranca/internal/port"
	"cobranca/internal/xlsxexport"
)

// Export formats.
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

var exportContentTypes = map[string]string{
	ExportFormatCSV:  "text/csv; charset=utf-8",
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ExportResult is a rendered report export. Key and URL are set only when the
// export was archived in object storage.
type ExportResult struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Reports     int    `json:"reports"`
	Data        []byte `json:"-"`
	Key         string `json:"key,omitempty"`
	URL         string `json:"url,omitempty"`
}

// ReportExportService renders the caller's reports as CSV or XLSX.
type ReportExportService interface {
	Export(ctx context.Context, tenantID uuid.UUID, format string) (*ExportResult, error)
}

type reportExportService struct {
	reports    ReportService
	tenantRepo port.TenantRepository
	storage    port.ObjectStorage
	exportCfg  config.ExportConfig
	s3Cfg      config.S3Config
	now        func() time.Time
	log        *zap.Logger
}

// NewReportExportService creates a new ReportExportService. A nil storage
// disables archiving.
func NewReportExportService(
	reports ReportService,
	tenantRepo port.TenantRepository,
	storage port.ObjectStorage,
	exportCfg config.ExportConfig,
	s3Cfg config.S3Config,
	log *zap.Logger,
) ReportExportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &reportExportService{
		reports:    reports,
		tenantRepo: tenantRepo,
		storage:    storage,
		exportCfg:  exportCfg,
		s3Cfg:      s3Cfg,
		now:        domain.Now,
		log:        log.Named("export"),
	}
}

// Export renders every report visible to the tenant. An empty format uses the
// configured default.
func (s *reportExportService) Export(ctx context.Context, tenantID uuid.UUID, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = s.exportCfg.Format
	}
	contentType, ok := exportContentTypes[format]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidRequest, format)
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("reportExportService.Export tenant: %w", err)
	}
	reports, err := s.reports.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	data, err := render(format, reports)
	if err != nil {
		return nil, fmt.Errorf("reportExportService.Export render: %w", err)
	}

	now := s.now()
	result := &ExportResult{
		Filename:    csvexport.BuildFilename(tenant.Name, format, now),
		ContentType: contentType,
		Reports:     len(reports),
		Data:        data,
	}

	if s.storage == nil || !s.s3Cfg.Enabled() {
		return result, nil
	}

	key := archiveKey(tenantID, s.exportCfg.KeyPrefix, now, format)
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
	}); err != nil {
		s.log.Error("failed to archive export", zap.Stringer("tenant_id", tenantID), zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("reportExportService.Export upload: %w", err)
	}

	url, err := s.storage.GetPresignedURL(ctx, s.s3Cfg.Bucket, key, s.s3Cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("reportExportService.Export presign: %w", err)
	}
	result.Key = key
	result.URL = url

	s.log.Info("export archived",
		zap.Stringer("tenant_id", tenantID), zap.String("key", key), zap.Int("reports", len(reports)))
	return result, nil
}

func render(format string, reports []domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case ExportFormatXLSX:
		if err := xlsxexport.Write(&buf, reports); err != nil {
			return nil, err
		}
	default:
		if err := csvexport.WriteBOM(&buf); err != nil {
			return nil, err
		}
		w := csvexport.NewWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			return nil, err
		}
		if err := w.WriteReports(reports); err != nil {
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// archiveKey lays exports out as <tenant>/<prefix>/<timestamp>.<ext>.
func archiveKey(tenantID uuid.UUID, prefix string, now time.Time, ext string) string {
	name := now.UTC().Format("20060102T150405Z") + "." + ext
	return path.Join(tenantID.String(), prefix, name)
}
