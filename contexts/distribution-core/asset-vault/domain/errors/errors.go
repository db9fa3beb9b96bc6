package errors

import "errors"

var (
	ErrInvalidAsset          = errors.New("asset is invalid")
	ErrInvalidAmount         = errors.New("transfer amount must be positive")
	ErrAllowanceInsufficient = errors.New("token allowance is insufficient")
	ErrTransferRejected      = errors.New("transfer was rejected by the counterparty")
	ErrInsufficientCustody   = errors.New("custody balance is insufficient")
)
