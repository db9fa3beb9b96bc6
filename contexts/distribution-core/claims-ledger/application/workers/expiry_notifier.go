package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	application "tokendist/contexts/distribution-core/claims-ledger/application"
	"tokendist/contexts/distribution-core/claims-ledger/domain/entities"
	"tokendist/contexts/distribution-core/claims-ledger/ports"
)

const eventExpired = "distribution.expired"

// ExpiryNotifier emits distribution.expired for entries whose deadline passed
// with a distributable remainder still unclaimed, signalling the depositor
// that claimToSender is now available. The outbox id is derived from the
// entry id, so repeated sweeps stay idempotent.
type ExpiryNotifier struct {
	Repo      ports.Repository
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (n ExpiryNotifier) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(n.Logger)
	now := n.Clock.Now().UTC()
	batch := n.BatchSize
	if batch <= 0 {
		batch = 100
	}

	expired, err := n.Repo.ListExpiredActive(ctx, now, batch)
	if err != nil {
		logger.Error("ledger expiry scan failed",
			"event", "ledger_expiry_scan_failed",
			"module", "distribution-core/claims-ledger",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, entry := range expired {
		if err := n.notify(ctx, entry, now); err != nil {
			return err
		}
	}
	return nil
}

func (n ExpiryNotifier) notify(ctx context.Context, entry entities.Entry, now time.Time) error {
	payload, err := json.Marshal(map[string]any{
		"entry_id":  entry.ID,
		"asset":     entry.Asset.Key(),
		"depositor": entry.Depositor,
		"remaining": entry.Remaining.String(),
		"deadline":  entry.Deadline.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	entryID := strconv.FormatUint(entry.ID, 10)
	return n.Repo.Atomic(ctx, func(tx ports.Tx) error {
		return tx.AppendOutbox(ctx, ports.EventEnvelope{
			EventID:          "expired-" + entryID,
			EventType:        eventExpired,
			OccurredAt:       now,
			SourceService:    "claims-ledger",
			TraceID:          "expired-" + entryID,
			SchemaVersion:    1,
			PartitionKeyPath: "entry_id",
			PartitionKey:     entryID,
			Data:             payload,
		})
	})
}
