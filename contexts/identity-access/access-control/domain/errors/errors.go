package errors

import "errors"

var (
	ErrAlreadyInitialized = errors.New("ledger roles are already initialized")
	ErrNotInitialized     = errors.New("ledger roles are not initialized")
	ErrInvalidAddress     = errors.New("role address is required")
	ErrUnauthorized       = errors.New("caller does not hold the required role")
)
