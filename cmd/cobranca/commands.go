package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cobranca/internal/auth"
	"cobranca/internal/csvexport"
	"cobranca/internal/domain"
	"cobranca/internal/logger"
	"cobranca/internal/service"
)

const usage = `usage: cobranca <command> [flags]

commands:
  reports list
  reports get     --id ID
  reports create  --type TYPE [--account ID] [--value N] [--description TEXT] [--start YYYY-MM-DD] [--end YYYY-MM-DD]
  reports update  --id ID [--description TEXT] [--value N]
  reports delete  --id ID
  audit           --start YYYY-MM-DD --end YYYY-MM-DD [--format json|csv] [--out PATH]
  export          [--format csv|xlsx] [--out PATH]
  tenant create   --name NAME [--cnpj CNPJ] [--phone PHONE]
  tenant show
  debtors list
  debtors create  --name NAME [--cpf CPF] [--email EMAIL]
  debtors update  --id ID [--name NAME] [--cpf CPF] [--email EMAIL]
  debtors delete  --id ID
  debts list
  debts search    [--min N] [--max N] [--account ID]
  debts create    --value N [--account ID] [--created-at RFC3339]
  debts update    --id ID --value N [--account ID]
  debts delete    --id ID
  payments list
  payments create --debt ID --method METHOD [--paid-at RFC3339]
  payments update --debt ID --account ID --method METHOD
  payments delete --debt ID --account ID
  payments count  --method METHOD
  contracts list
  contracts get    --id ID
  contracts create --debtor ID --text TEXT [--due YYYY-MM-DD]
  contracts update --id ID [--text TEXT] [--debtor ID] [--due YYYY-MM-DD] [--status STATUS]
  contracts delete --id ID
  notifications list
  notifications get    --id N
  notifications create --email EMAIL --message TEXT
  notifications resend --id N

every command except tenant create accepts --token (default $COBRANCA_TOKEN)`

var errUsage = errors.New(usage)

type app struct {
	resolver auth.TenantResolver
	reports  service.ReportService
	exports  service.ReportExportService
	tenants  service.TenantService
	debtors  service.DebtorService
	debts    service.DebtService
	payments service.PaymentService

	contracts     service.ContractService
	notifications service.NotificationService

	out    io.Writer
	getenv func(string) string
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "reports":
		if len(args) < 2 {
			return errUsage
		}
		return a.reportsCommand(ctx, args[1], args[2:])
	case "audit":
		return a.audit(ctx, args[1:])
	case "export":
		return a.export(ctx, args[1:])
	case "tenant", "debtors", "debts", "payments":
		if len(args) < 2 {
			return errUsage
		}
		return a.ledgerCommand(ctx, args[0], args[1], args[2:])
	case "contracts", "notifications":
		if len(args) < 2 {
			return errUsage
		}
		return a.collectionCommand(ctx, args[0], args[1], args[2:])
	default:
		return errUsage
	}
}

func (a *app) reportsCommand(ctx context.Context, sub string, args []string) error {
	switch sub {
	case "list":
		return a.listReports(ctx, args)
	case "get":
		return a.getReport(ctx, args)
	case "create":
		return a.createReport(ctx, args)
	case "update":
		return a.updateReport(ctx, args)
	case "delete":
		return a.deleteReport(ctx, args)
	default:
		return errUsage
	}
}

// flagSet returns a FlagSet carrying the shared --token flag.
func (a *app) flagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	token := fs.String("token", a.getenv("COBRANCA_TOKEN"), "bearer token")
	return fs, token
}

// tenant resolves the caller and returns a context whose logger carries the tenant id.
func (a *app) tenant(ctx context.Context, token string) (context.Context, *domain.Tenant, error) {
	tenant, err := a.resolver.CurrentTenant(ctx, token)
	if err != nil {
		return ctx, nil, err
	}
	ctx, _ = logger.WithTenantID(ctx, tenant.ID)
	return ctx, tenant, nil
}

func (a *app) listReports(ctx context.Context, args []string) error {
	fs, token := a.flagSet("reports list")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	reports, err := a.reports.List(ctx, tenant.ID)
	if err != nil {
		return err
	}
	return a.print(reports)
}

func (a *app) getReport(ctx context.Context, args []string) error {
	fs, token := a.flagSet("reports get")
	id := fs.String("id", "", "report id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	reportID, err := parseID("id", *id)
	if err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	report, err := a.reports.GetByID(ctx, tenant.ID, reportID)
	if err != nil {
		return err
	}
	return a.print(report)
}

func (a *app) createReport(ctx context.Context, args []string) error {
	fs, token := a.flagSet("reports create")
	reportType := fs.String("type", "", "report type")
	account := fs.String("account", "", "account id")
	value := fs.String("value", "", "moved value")
	description := fs.String("description", "", "description")
	start := fs.String("start", "", "period start")
	end := fs.String("end", "", "period end")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	input := &service.CreateReportInput{
		Type:      domain.ReportType(*reportType),
		StartDate: *start,
		EndDate:   *end,
	}
	if *account != "" {
		accountID, err := parseID("account", *account)
		if err != nil {
			return err
		}
		input.AccountID = &accountID
	}
	movedValue, err := parseMoney(*value)
	if err != nil {
		return err
	}
	input.MovedValue = movedValue
	if flagPassed(fs, "description") {
		input.Description = description
	}

	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	report, err := a.reports.Create(ctx, tenant.ID, input)
	if err != nil {
		return err
	}
	return a.print(report)
}

func (a *app) updateReport(ctx context.Context, args []string) error {
	fs, token := a.flagSet("reports update")
	id := fs.String("id", "", "report id")
	description := fs.String("description", "", "description")
	value := fs.String("value", "", "moved value")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	reportID, err := parseID("id", *id)
	if err != nil {
		return err
	}

	input := &service.UpdateReportInput{}
	if flagPassed(fs, "description") {
		input.Description = description
	}
	if input.MovedValue, err = parseMoney(*value); err != nil {
		return err
	}

	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	report, err := a.reports.Update(ctx, tenant.ID, reportID, input)
	if err != nil {
		return err
	}
	return a.print(report)
}

func (a *app) deleteReport(ctx context.Context, args []string) error {
	fs, token := a.flagSet("reports delete")
	id := fs.String("id", "", "report id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	reportID, err := parseID("id", *id)
	if err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	if err := a.reports.Delete(ctx, tenant.ID, reportID); err != nil {
		return err
	}
	return a.print(map[string]string{"deleted": reportID.String()})
}

func (a *app) audit(ctx context.Context, args []string) error {
	fs, token := a.flagSet("audit")
	start := fs.String("start", "", "period start")
	end := fs.String("end", "", "period end")
	format := fs.String("format", "json", "json or csv")
	out := fs.String("out", "", "csv output path, defaults to stdout")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *format != "json" && *format != "csv" {
		return fmt.Errorf("%w: unsupported audit format %q", domain.ErrInvalidRequest, *format)
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	result, err := a.reports.GenerateAudit(ctx, tenant.ID, *start, *end)
	if err != nil {
		return err
	}
	if *format == "json" {
		return a.print(result)
	}

	var buf bytes.Buffer
	if err := writeAuditCSV(&buf, result); err != nil {
		return fmt.Errorf("rendering audit: %w", err)
	}
	if *out == "" {
		_, err := a.out.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(filepath.Clean(*out), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing audit: %w", err)
	}
	logger.FromContext(ctx).Info("audit written", zap.String("path", *out))
	return a.print(map[string]string{"path": *out})
}

func writeAuditCSV(w io.Writer, result *domain.AuditResult) error {
	if err := csvexport.WriteBOM(w); err != nil {
		return err
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteAudit(result); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (a *app) export(ctx context.Context, args []string) error {
	fs, token := a.flagSet("export")
	format := fs.String("format", "", "csv or xlsx")
	out := fs.String("out", "", "output path, defaults to the generated filename")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}

	result, err := a.exports.Export(ctx, tenant.ID, *format)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = result.Filename
	}
	if err := os.WriteFile(filepath.Clean(path), result.Data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	logger.FromContext(ctx).Info("export written", zap.String("path", path), zap.Int("reports", result.Reports))

	return a.print(struct {
		*service.ExportResult
		Path string `json:"path"`
	}{ExportResult: result, Path: path})
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidRequest, fs.Name(), err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: %s: unexpected argument %q", domain.ErrInvalidRequest, fs.Name(), fs.Arg(0))
	}
	return nil
}

func flagPassed(fs *flag.FlagSet, name string) bool {
	passed := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}

func parseID(name, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: --%s is required", domain.ErrInvalidRequest, name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid --%s %q", domain.ErrInvalidRequest, name, raw)
	}
	return id, nil
}

func parseMoney(raw string) (*decimal.Decimal, error) {
	return parseDecimal("value", raw)
}

func parseDecimal(name, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid --%s %q", domain.ErrInvalidRequest, name, raw)
	}
	return &v, nil
}

// exitCode maps domain errors onto distinct process exit codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, errUsage):
		return 64
	case errors.Is(err, domain.ErrInvalidRequest):
		return 2
	case errors.Is(err, domain.ErrUnauthorized):
		return 3
	case errors.Is(err, domain.ErrForbidden):
		return 4
	case errors.Is(err, domain.ErrNotFound):
		return 5
	case errors.Is(err, domain.ErrPaymentExists):
		return 6
	default:
		return 1
	}
}
