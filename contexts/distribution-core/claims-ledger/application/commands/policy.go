package commands

import (
	"github.com/shopspring/decimal"

	"tokendist/contexts/distribution-core/claims-ledger/domain/entities"
)

// EvenSplitReimbursement is the default relayer reimbursement: the entry's
// prepaid gas allowance divided evenly across its share count, pro-rated by
// the fraction of a share the claim actually distributes, floored. A relayer
// executing partial claims is paid in proportion to the value it moves. The
// exact formula of the reference system is not observable, so this stays a
// policy a deployment can swap.
type EvenSplitReimbursement struct{}

func (EvenSplitReimbursement) Reimburse(entry entities.Entry, amount decimal.Decimal) decimal.Decimal {
	if entry.ShareCount <= 0 || !entry.AmountPerShare.IsPositive() {
		return decimal.Zero
	}
	perShare := entry.GasAllowance.Div(decimal.NewFromInt(entry.ShareCount))
	return perShare.Mul(amount).Div(entry.AmountPerShare).Floor()
}
