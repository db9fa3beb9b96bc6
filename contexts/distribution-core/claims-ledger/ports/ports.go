package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	contractsv1 "tokendist/contracts/gen/events/v1"
	vaultports "tokendist/contexts/distribution-core/asset-vault/ports"
	"tokendist/contexts/distribution-core/claims-ledger/domain/entities"
	roomports "tokendist/contexts/distribution-core/room-pool/ports"
	feeports "tokendist/contexts/finance-core/fee-registry/ports"
)

type EventEnvelope = contractsv1.Envelope

// Tx is the write surface available inside one atomic ledger operation. The
// room pool store and fee balances are part of the same scope so a deposit's
// entry, fee accrual, and room merge commit or roll back together.
type Tx interface {
	NextEntryID(ctx context.Context) (uint64, error)
	CreateEntry(ctx context.Context, entry entities.Entry) error
	GetEntry(ctx context.Context, entryID uint64) (entities.Entry, error)
	UpdateEntry(ctx context.Context, entry entities.Entry) error
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error

	roomports.Store
	feeports.Balances
}

type Repository interface {
	Atomic(ctx context.Context, fn func(tx Tx) error) error
	GetEntry(ctx context.Context, entryID uint64) (entities.Entry, error)
	ListEntriesByDepositor(ctx context.Context, depositor string) ([]entities.Entry, error)
	// ListExpiredActive returns non-refunded entries whose deadline passed
	// before cutoff and which still hold a distributable remainder.
	ListExpiredActive(ctx context.Context, cutoff time.Time, limit int) ([]entities.Entry, error)

	roomports.Store
}

// Vault moves real value in and out of custody. Both batches are
// all-or-nothing; commands call them as the final act inside Atomic so a
// rejected transfer rolls the whole operation back.
type Vault interface {
	PullBatch(ctx context.Context, requests []vaultports.TransferRequest) error
	PushBatch(ctx context.Context, requests []vaultports.TransferRequest) error
}

// ReimbursementPolicy decides how much of an entry's remaining gas allowance a
// relayer earns for executing one claim on a recipient's behalf.
type ReimbursementPolicy interface {
	Reimburse(entry entities.Entry, claimAmount decimal.Decimal) decimal.Decimal
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
