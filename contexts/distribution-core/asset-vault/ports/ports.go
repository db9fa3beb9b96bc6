package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"tokendist/contexts/distribution-core/asset-vault/domain/entities"
)

// TransferRequest is one value movement between an external party and the
// ledger's custody account.
type TransferRequest struct {
	Party  string
	Asset  entities.Asset
	Amount decimal.Decimal
}

// Bank moves real value. Every call is all-or-nothing: a failed Pull or Push
// leaves both the party and the custody account untouched.
//
// Pull semantics per asset kind:
//   - native: debits the party's attached value; a party that cannot cover the
//     amount rejects the transfer.
//   - token: requires the party to have pre-approved the custody account for
//     at least the amount (allowance pattern), then pulls exactly the amount.
//
// Push always moves value from custody to the party; a destination that
// refuses the transfer fails the call.
type Bank interface {
	Pull(ctx context.Context, req TransferRequest) error
	Push(ctx context.Context, req TransferRequest) error
	CustodyBalance(ctx context.Context, asset entities.Asset) (decimal.Decimal, error)
}
