package errors

import "errors"

var (
	// ErrInvalidFeeRate signals a fee rate outside the [0, 10000] bps range.
	ErrInvalidFeeRate = errors.New("fee rate must be between 0 and 10000 basis points")

	// ErrNothingAccrued signals a sweep against an asset with a zero balance.
	ErrNothingAccrued = errors.New("no fees accrued for asset")
)
