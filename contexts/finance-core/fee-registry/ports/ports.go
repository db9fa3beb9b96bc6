package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	vaultports "tokendist/contexts/distribution-core/asset-vault/ports"
)

// Balances persists the per-asset accrued fee ledger. The token registry is
// implicit: ListFeeTokens returns exactly the token addresses whose balance is
// currently nonzero, in lexical order, so a balance swept to zero drops out
// without separate membership bookkeeping.
type Balances interface {
	FeeBalance(ctx context.Context, assetKey string) (decimal.Decimal, error)
	SaveFeeBalance(ctx context.Context, assetKey string, balance decimal.Decimal) error
	ListFeeTokens(ctx context.Context) ([]string, error)
}

// Rates persists the current fee rate in basis points. Rate changes apply to
// subsequent deposits only; the fee is computed and withheld at deposit time.
type Rates interface {
	FeeRateBps(ctx context.Context) (int64, error)
	SaveFeeRateBps(ctx context.Context, bps int64) error
}

type Tx interface {
	Balances
}

// Repository couples the balance ledger with an atomic sweep scope so a
// withdrawal zeroes balances and pays out as one all-or-nothing step.
type Repository interface {
	AtomicSweep(ctx context.Context, fn func(tx Tx) error) error
	Balances
	Rates
}

// Payer pushes swept fee balances out of custody. Implemented by the asset
// vault service; the batch unwinds on partial failure.
type Payer interface {
	PushBatch(ctx context.Context, requests []vaultports.TransferRequest) error
}

// AccessChecker guards the privileged operations. Implemented by the
// access-control service.
type AccessChecker interface {
	RequireOwner(ctx context.Context, caller string) error
	RequireWithdrawer(ctx context.Context, caller string) error
}

type Clock interface {
	Now() time.Time
}
