package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"cobranca/internal/domain"
	"cobranca/internal/service"
)

func (a *app) collectionCommand(ctx context.Context, group, sub string, args []string) error {
	switch group + " " + sub {
	case "contracts list":
		return a.listContracts(ctx, args)
	case "contracts get":
		return a.getContract(ctx, args)
	case "contracts create":
		return a.createContract(ctx, args)
	case "contracts update":
		return a.updateContract(ctx, args)
	case "contracts delete":
		return a.deleteContract(ctx, args)
	case "notifications list":
		return a.listNotifications(ctx, args)
	case "notifications get":
		return a.getNotification(ctx, args)
	case "notifications create":
		return a.createNotification(ctx, args)
	case "notifications resend":
		return a.resendNotification(ctx, args)
	default:
		return errUsage
	}
}

func (a *app) listContracts(ctx context.Context, args []string) error {
	fs, token := a.flagSet("contracts list")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	contracts, err := a.contracts.List(ctx, tenant.ID)
	if err != nil {
		return err
	}
	return a.print(contracts)
}

func (a *app) getContract(ctx context.Context, args []string) error {
	fs, token := a.flagSet("contracts get")
	id := fs.String("id", "", "contract id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	contractID, err := parseID("id", *id)
	if err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	contract, err := a.contracts.GetByID(ctx, tenant.ID, contractID)
	if err != nil {
		return err
	}
	return a.print(contract)
}

func (a *app) createContract(ctx context.Context, args []string) error {
	fs, token := a.flagSet("contracts create")
	debtor := fs.String("debtor", "", "debtor id")
	text := fs.String("text", "", "contract text")
	due := fs.String("due", "", "due date")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	debtorID, err := parseID("debtor", *debtor)
	if err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	contract, err := a.contracts.Create(ctx, tenant.ID, &service.CreateContractInput{
		Text:     *text,
		DebtorID: debtorID,
		DueDate:  *due,
	})
	if err != nil {
		return err
	}
	return a.print(contract)
}

func (a *app) updateContract(ctx context.Context, args []string) error {
	fs, token := a.flagSet("contracts update")
	id := fs.String("id", "", "contract id")
	text := fs.String("text", "", "contract text")
	debtor := fs.String("debtor", "", "debtor id")
	due := fs.String("due", "", "due date")
	status := fs.String("status", "", "contract status")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	contractID, err := parseID("id", *id)
	if err != nil {
		return err
	}

	input := &service.UpdateContractInput{}
	if flagPassed(fs, "text") {
		input.Text = text
	}
	if flagPassed(fs, "due") {
		input.DueDate = due
	}
	if flagPassed(fs, "status") {
		s := domain.ContractStatus(*status)
		input.Status = &s
	}
	if flagPassed(fs, "debtor") {
		var debtorID uuid.UUID
		if debtorID, err = parseID("debtor", *debtor); err != nil {
			return err
		}
		input.DebtorID = &debtorID
	}

	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	contract, err := a.contracts.Update(ctx, tenant.ID, contractID, input)
	if err != nil {
		return err
	}
	return a.print(contract)
}

func (a *app) deleteContract(ctx context.Context, args []string) error {
	fs, token := a.flagSet("contracts delete")
	id := fs.String("id", "", "contract id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	contractID, err := parseID("id", *id)
	if err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	if err := a.contracts.Delete(ctx, tenant.ID, contractID); err != nil {
		return err
	}
	return a.print(map[string]string{"deleted": contractID.String()})
}

func (a *app) listNotifications(ctx context.Context, args []string) error {
	fs, token := a.flagSet("notifications list")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	notifications, err := a.notifications.List(ctx, tenant.ID)
	if err != nil {
		return err
	}
	return a.print(notifications)
}

func (a *app) getNotification(ctx context.Context, args []string) error {
	fs, token := a.flagSet("notifications get")
	id := fs.String("id", "", "notification id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	notificationID, err := parseNotificationID(*id)
	if err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	notification, err := a.notifications.GetByID(ctx, tenant.ID, notificationID)
	if err != nil {
		return err
	}
	return a.print(notification)
}

func (a *app) createNotification(ctx context.Context, args []string) error {
	fs, token := a.flagSet("notifications create")
	email := fs.String("email", "", "recipient email")
	message := fs.String("message", "", "message")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	notification, err := a.notifications.Create(ctx, tenant.ID, &service.CreateNotificationInput{
		Message: *message,
		Email:   *email,
	})
	if err != nil {
		return err
	}
	return a.print(notification)
}

func (a *app) resendNotification(ctx context.Context, args []string) error {
	fs, token := a.flagSet("notifications resend")
	id := fs.String("id", "", "notification id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	notificationID, err := parseNotificationID(*id)
	if err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	notification, err := a.notifications.Resend(ctx, tenant.ID, notificationID)
	if err != nil {
		return err
	}
	return a.print(notification)
}

func parseNotificationID(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: --id is required", domain.ErrInvalidRequest)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid --id %q", domain.ErrInvalidRequest, raw)
	}
	return id, nil
}
