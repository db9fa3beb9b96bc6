package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	assets "tokendist/contexts/distribution-core/asset-vault/domain/entities"
)

type Mode string

const (
	ModeDirect Mode = "direct"
	ModeRoom   Mode = "room"
)

// Entry is one deposit's ledger record, identified by a sequence number that
// starts at 0 and grows monotonically across the ledger's lifetime.
type Entry struct {
	ID        uint64
	Asset     assets.Asset
	Depositor string
	Deadline  time.Time
	Mode      Mode

	// Direct mode fixes the eligible recipients at deposit time. The list may
	// repeat an address; each occurrence adds one entitlement share.
	Recipients []string
	// Room mode tags the entry with a shared pool instead.
	RoomID string

	AmountPerShare decimal.Decimal
	ShareCount     int64

	// Total is this deposit's own distributable contribution
	// (AmountPerShare × ShareCount). Remaining = Total − Σ Claimed.
	Total     decimal.Decimal
	Remaining decimal.Decimal
	Fee       decimal.Decimal

	// GasAllowance is the native-currency budget the depositor prepaid for
	// relayers executing claims on recipients' behalf.
	GasAllowance       decimal.Decimal
	AllowanceRemaining decimal.Decimal

	Claimed  map[string]decimal.Decimal
	Refunded bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EntitlementFor is the cap on what recipient may claim from this entry in
// total. Direct mode: one AmountPerShare per list occurrence. Room mode: one
// AmountPerShare for any recipient.
func (e Entry) EntitlementFor(recipient string) decimal.Decimal {
	recipient = strings.TrimSpace(recipient)
	if e.Mode == ModeRoom {
		return e.AmountPerShare
	}
	shares := int64(0)
	for _, r := range e.Recipients {
		if strings.TrimSpace(r) == recipient {
			shares++
		}
	}
	return e.AmountPerShare.Mul(decimal.NewFromInt(shares))
}

// Eligible reports whether recipient may claim from this entry at all. Room
// entries accept any recipient; the room balance is the real gate.
func (e Entry) Eligible(recipient string) bool {
	if e.Mode == ModeRoom {
		return strings.TrimSpace(recipient) != ""
	}
	return e.EntitlementFor(recipient).IsPositive()
}

// ClaimedBy is the amount recipient has already claimed from this entry.
func (e Entry) ClaimedBy(recipient string) decimal.Decimal {
	if e.Claimed == nil {
		return decimal.Zero
	}
	return e.Claimed[strings.TrimSpace(recipient)]
}

// ExpiredAt reports whether the claim window has closed. The deadline instant
// itself is still claimable; refunds require now to be strictly past it.
func (e Entry) ExpiredAt(now time.Time) bool {
	return now.After(e.Deadline)
}
