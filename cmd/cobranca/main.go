package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"cobranca/internal/auth"
	"cobranca/internal/config"
	"cobranca/internal/email/noop"
	"cobranca/internal/email/ses"
	"cobranca/internal/logger"
	"cobranca/internal/port"
	"cobranca/internal/repository/postgres"
	"cobranca/internal/service"
	s3storage "cobranca/internal/storage/s3"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "cobranca: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	tenantRepo := postgres.NewTenantRepo(db)
	debtorRepo := postgres.NewDebtorRepo(db)
	accountRepo := postgres.NewAccountRepo(db)
	debtRepo := postgres.NewDebtRepo(db)
	paymentRepo := postgres.NewPaymentRepo(db)
	reportRepo := postgres.NewReportRepo(db)
	ledgerRepo := postgres.NewLedgerRepo(db)
	contractRepo := postgres.NewContractRepo(db)
	notificationRepo := postgres.NewNotificationRepo(db)

	// Initialize storage
	var archive port.ObjectStorage
	if cfg.S3.Enabled() {
		archive, err = s3storage.NewArchive(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 archive: %w", err)
		}
	}

	// Initialize email sender
	var sender port.EmailSender
	if cfg.Email.Enabled() {
		sender, err = ses.NewSESSender(ctx, &cfg.Email)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	} else {
		sender = noop.NewNoopSender(log)
	}

	// Initialize services
	reportSvc := service.NewReportService(reportRepo, accountRepo, ledgerRepo, log)
	exportSvc := service.NewReportExportService(reportSvc, tenantRepo, archive, cfg.Export, cfg.S3, log)

	a := &app{
		resolver: auth.NewTenantResolver(tenantRepo, cfg.JWT),
		reports:  reportSvc,
		exports:  exportSvc,
		tenants:  service.NewTenantService(tenantRepo, log),
		debtors:  service.NewDebtorService(debtorRepo, accountRepo, log),
		debts:    service.NewDebtService(debtRepo, accountRepo, paymentRepo, log),
		payments: service.NewPaymentService(paymentRepo, debtRepo, log),

		contracts:     service.NewContractService(contractRepo, debtorRepo, log),
		notifications: service.NewNotificationService(notificationRepo, tenantRepo, sender, log),

		out:    os.Stdout,
		getenv: os.Getenv,
	}

	if err := a.dispatch(ctx, args); err != nil {
		if !errors.Is(err, errUsage) {
			log.Error("command failed", zap.String("command", args[0]), zap.Error(err))
		}
		return err
	}
	return nil
}
