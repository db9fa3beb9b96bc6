package workers

import (
	"context"
	"encoding/json"
	"log/slog"

	application "tokendist/contexts/distribution-core/claims-ledger/application"
	"tokendist/contexts/distribution-core/claims-ledger/ports"
)

// OutboxRelay publishes pending ledger events to the bus and marks them
// published. Safe to run repeatedly; publishing is at-least-once.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	batch := r.BatchSize
	if batch <= 0 {
		batch = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, batch)
	if err != nil {
		logger.Error("ledger outbox list failed",
			"event", "ledger_outbox_list_failed",
			"module", "distribution-core/claims-ledger",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, message := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("ledger outbox payload decode failed",
				"event", "ledger_outbox_decode_failed",
				"module", "distribution-core/claims-ledger",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			continue
		}
		if err := r.Publisher.Publish(ctx, message.EventType, envelope); err != nil {
			logger.Error("ledger outbox publish failed",
				"event", "ledger_outbox_publish_failed",
				"module", "distribution-core/claims-ledger",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"event_type", message.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, message.OutboxID, r.Clock.Now()); err != nil {
			return err
		}
	}
	return nil
}
