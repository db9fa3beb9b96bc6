package queries

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	application "tokendist/contexts/distribution-core/claims-ledger/application"
	"tokendist/contexts/distribution-core/claims-ledger/domain/entities"
	"tokendist/contexts/distribution-core/claims-ledger/ports"
)

type UseCase struct {
	Repo   ports.Repository
	Logger *slog.Logger
}

func (uc UseCase) GetEntry(ctx context.Context, entryID uint64) (entities.Entry, error) {
	entry, err := uc.Repo.GetEntry(ctx, entryID)
	if err != nil {
		application.ResolveLogger(uc.Logger).Warn("ledger query get entry failed",
			"event", "ledger_query_get_entry_failed",
			"module", "distribution-core/claims-ledger",
			"layer", "application",
			"entry_id", entryID,
			"error", err.Error(),
		)
		return entities.Entry{}, err
	}
	return entry, nil
}

func (uc UseCase) ListByDepositor(ctx context.Context, depositor string) ([]entities.Entry, error) {
	depositor = strings.TrimSpace(depositor)
	entries, err := uc.Repo.ListEntriesByDepositor(ctx, depositor)
	if err != nil {
		application.ResolveLogger(uc.Logger).Warn("ledger query list by depositor failed",
			"event", "ledger_query_list_by_depositor_failed",
			"module", "distribution-core/claims-ledger",
			"layer", "application",
			"depositor", depositor,
			"error", err.Error(),
		)
		return nil, err
	}
	return entries, nil
}

func (uc UseCase) RoomBalance(ctx context.Context, roomID string, assetKey string) (decimal.Decimal, error) {
	return uc.Repo.RoomBalance(ctx, strings.TrimSpace(roomID), strings.TrimSpace(assetKey))
}
