package errors

import "errors"

var (
	ErrEntryNotFound       = errors.New("distribution entry not found")
	ErrInvalidDepositInput = errors.New("invalid deposit input")
	ErrInvalidDeadline     = errors.New("deposit deadline is required")
	ErrValueMismatch       = errors.New("attached value does not equal the required total")
	ErrInvalidClaimAmount  = errors.New("claim amount must be positive")
	ErrNotEligible         = errors.New("recipient is not eligible for this entry")
	ErrExpired             = errors.New("claim window for this entry has closed")
	ErrNotYetExpired       = errors.New("entry deadline has not passed yet")
	ErrAlreadyRefunded     = errors.New("entry was already refunded")
	ErrOverEntitlement     = errors.New("claim would exceed the recipient entitlement")
	ErrNotDepositor        = errors.New("only the entry depositor may reclaim")
)
