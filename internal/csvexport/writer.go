package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cobranca/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns defines the report header row (12 columns).
var Columns = []string{
	"Tipo",
	"Conta",
	"Valor Movimentado",
	"Total Dividas",
	"Total Pagamentos",
	"Qtd Dividas",
	"Qtd Pagamentos",
	"Qtd Contas",
	"Descricao",
	"Gerado Em",
	"Inicio",
	"Fim",
}

var auditColumns = []string{"Inicio", "Fim", "Valor Total Dividas", "Total Pagamentos"}

// Writer wraps csv.Writer for exporting reports as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteBOM writes the UTF-8 byte order mark. It must precede any row.
func WriteBOM(w io.Writer) error {
	_, err := w.Write(BOM)
	return err
}

// WriteHeader writes the report header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Columns)
}

// WriteReports converts a batch of reports to CSV rows and writes them.
func (w *Writer) WriteReports(reports []domain.Report) error {
	for i := range reports {
		if err := w.csv.Write(ReportRow(&reports[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteAudit writes an audit result as a header and a single row.
func (w *Writer) WriteAudit(audit *domain.AuditResult) error {
	if err := w.csv.Write(auditColumns); err != nil {
		return err
	}
	return w.csv.Write([]string{
		audit.PeriodStart,
		audit.PeriodEnd,
		audit.TotalDebtValue.StringFixed(2),
		strconv.FormatInt(audit.TotalPayments, 10),
	})
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// ReportRow converts a single report to a row aligned with Columns. NULL fields
// become empty cells.
func ReportRow(r *domain.Report) []string {
	row := make([]string, len(Columns))
	row[0] = string(r.Type)
	if r.AccountID != nil {
		row[1] = r.AccountID.String()
	}
	row[2] = formatMoney(r.MovedValue)
	row[3] = formatMoney(r.TotalDebts)
	row[4] = formatMoney(r.TotalPayments)
	row[5] = formatCount(r.DebtCount)
	row[6] = formatCount(r.PaymentCount)
	row[7] = formatCount(r.AccountCount)
	if r.Description != nil {
		row[8] = *r.Description
	}
	row[9] = r.GeneratedAt.In(domain.Location()).Format(time.RFC3339)
	row[10] = formatDay(r.PeriodStart)
	row[11] = formatDay(r.PeriodEnd)
	return row
}

func formatMoney(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.StringFixed(2)
}

func formatCount(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(domain.Location()).Format(domain.DateLayout)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a tenant name for use in an export filename.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns relatorios_{sanitized_tenant_name}_{YYYY-MM-DD}.{ext}.
func BuildFilename(tenantName, ext string, now time.Time) string {
	sanitized := SanitizeFilename(tenantName)
	date := now.In(domain.Location()).Format(domain.DateLayout)
	if sanitized == "" {
		return fmt.Sprintf("relatorios_%s.%s", date, ext)
	}
	return fmt.Sprintf("relatorios_%s_%s.%s", sanitized, date, ext)
}
