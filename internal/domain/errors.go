package domain

import "errors"

var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidRequest = errors.New("invalid request")
	ErrPaymentExists  = errors.New("payment already exists for this debt")
	ErrDebtNotLinked  = errors.New("debt is not linked to an account")
)
