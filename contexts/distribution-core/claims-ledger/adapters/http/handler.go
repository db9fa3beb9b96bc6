package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	assets "tokendist/contexts/distribution-core/asset-vault/domain/entities"
	application "tokendist/contexts/distribution-core/claims-ledger/application"
	"tokendist/contexts/distribution-core/claims-ledger/application/commands"
	"tokendist/contexts/distribution-core/claims-ledger/application/queries"
	"tokendist/contexts/distribution-core/claims-ledger/domain/entities"
	domainerrors "tokendist/contexts/distribution-core/claims-ledger/domain/errors"
	httptransport "tokendist/contexts/distribution-core/claims-ledger/transport/http"
)

type Handler struct {
	Commands commands.UseCase
	Queries  queries.UseCase
	Logger   *slog.Logger
}

func (h Handler) DepositDirectHandler(
	ctx context.Context,
	caller string,
	req httptransport.DepositDirectRequest,
) (httptransport.DepositResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	asset, err := parseAsset(req.Asset)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	amountPerShare, err := parseAmount(req.AmountPerShare)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	allowance, err := parseOptionalAmount(req.GasAllowance)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	attached, err := parseOptionalAmount(req.AttachedValue)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}

	entry, err := h.Commands.DepositDirect(ctx, commands.DepositDirectCommand{
		Depositor:          caller,
		Asset:              asset,
		Recipients:         req.Recipients,
		AmountPerRecipient: amountPerShare,
		Deadline:           deadline,
		GasAllowance:       allowance,
		AttachedValue:      attached,
	})
	if err != nil {
		logger.Warn("ledger http deposit direct failed",
			"event", "ledger_http_deposit_direct_failed",
			"module", "distribution-core/claims-ledger",
			"layer", "adapter",
			"depositor", strings.TrimSpace(caller),
			"asset", asset.Key(),
			"error", err.Error(),
		)
		return httptransport.DepositResponse{}, err
	}
	logger.Info("ledger http deposit direct completed",
		"event", "ledger_http_deposit_direct_completed",
		"module", "distribution-core/claims-ledger",
		"layer", "adapter",
		"entry_id", entry.ID,
		"depositor", entry.Depositor,
	)
	return httptransport.DepositResponse{Entry: entryDTO(entry, time.Now().UTC())}, nil
}

func (h Handler) DepositRoomHandler(
	ctx context.Context,
	caller string,
	req httptransport.DepositRoomRequest,
) (httptransport.DepositResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	asset, err := parseAsset(req.Asset)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	amountPerShare, err := parseAmount(req.AmountPerShare)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	allowance, err := parseOptionalAmount(req.GasAllowance)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	attached, err := parseOptionalAmount(req.AttachedValue)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}

	entry, err := h.Commands.DepositRoom(ctx, commands.DepositRoomCommand{
		Depositor:      caller,
		Asset:          asset,
		RoomID:         req.RoomID,
		AmountPerShare: amountPerShare,
		ShareCount:     req.ShareCount,
		Deadline:       deadline,
		GasAllowance:   allowance,
		AttachedValue:  attached,
	})
	if err != nil {
		logger.Warn("ledger http deposit room failed",
			"event", "ledger_http_deposit_room_failed",
			"module", "distribution-core/claims-ledger",
			"layer", "adapter",
			"depositor", strings.TrimSpace(caller),
			"room_id", strings.TrimSpace(req.RoomID),
			"error", err.Error(),
		)
		return httptransport.DepositResponse{}, err
	}
	logger.Info("ledger http deposit room completed",
		"event", "ledger_http_deposit_room_completed",
		"module", "distribution-core/claims-ledger",
		"layer", "adapter",
		"entry_id", entry.ID,
		"room_id", entry.RoomID,
	)
	return httptransport.DepositResponse{Entry: entryDTO(entry, time.Now().UTC())}, nil
}

func (h Handler) ClaimHandler(
	ctx context.Context,
	caller string,
	entryID uint64,
	req httptransport.ClaimRequest,
) (httptransport.ClaimResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	amount, err := parseOptionalAmount(req.Amount)
	if err != nil {
		return httptransport.ClaimResponse{}, domainerrors.ErrInvalidClaimAmount
	}
	result, err := h.Commands.Claim(ctx, commands.ClaimCommand{
		EntryID:   entryID,
		Recipient: req.Recipient,
		Caller:    caller,
		Amount:    amount,
	})
	if err != nil {
		logger.Warn("ledger http claim failed",
			"event", "ledger_http_claim_failed",
			"module", "distribution-core/claims-ledger",
			"layer", "adapter",
			"entry_id", entryID,
			"recipient", strings.TrimSpace(req.Recipient),
			"caller", strings.TrimSpace(caller),
			"error", err.Error(),
		)
		return httptransport.ClaimResponse{}, err
	}
	logger.Info("ledger http claim completed",
		"event", "ledger_http_claim_completed",
		"module", "distribution-core/claims-ledger",
		"layer", "adapter",
		"entry_id", entryID,
		"recipient", strings.TrimSpace(req.Recipient),
		"paid", result.Paid.String(),
	)
	return httptransport.ClaimResponse{
		EntryID:    result.Entry.ID,
		Recipient:  strings.TrimSpace(req.Recipient),
		Paid:       result.Paid.String(),
		Reimbursed: result.Reimbursed.String(),
		Remaining:  result.Entry.Remaining.String(),
	}, nil
}

func (h Handler) RefundHandler(
	ctx context.Context,
	caller string,
	entryID uint64,
) (httptransport.RefundResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	result, err := h.Commands.ClaimToSender(ctx, commands.RefundCommand{
		EntryID: entryID,
		Caller:  caller,
	})
	if err != nil {
		logger.Warn("ledger http refund failed",
			"event", "ledger_http_refund_failed",
			"module", "distribution-core/claims-ledger",
			"layer", "adapter",
			"entry_id", entryID,
			"caller", strings.TrimSpace(caller),
			"error", err.Error(),
		)
		return httptransport.RefundResponse{}, err
	}
	logger.Info("ledger http refund completed",
		"event", "ledger_http_refund_completed",
		"module", "distribution-core/claims-ledger",
		"layer", "adapter",
		"entry_id", entryID,
		"refunded", result.Refunded.String(),
	)
	return httptransport.RefundResponse{
		EntryID:           result.Entry.ID,
		Refunded:          result.Refunded.String(),
		AllowanceReturned: result.AllowanceReturned.String(),
	}, nil
}

func (h Handler) GetEntryHandler(ctx context.Context, entryID uint64) (httptransport.EntryDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	entry, err := h.Queries.GetEntry(ctx, entryID)
	if err != nil {
		logger.Warn("ledger http get entry failed",
			"event", "ledger_http_get_entry_failed",
			"module", "distribution-core/claims-ledger",
			"layer", "adapter",
			"entry_id", entryID,
			"error", err.Error(),
		)
		return httptransport.EntryDTO{}, err
	}
	return entryDTO(entry, time.Now().UTC()), nil
}

func (h Handler) ListByDepositorHandler(ctx context.Context, depositor string) (httptransport.EntryListResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	entries, err := h.Queries.ListByDepositor(ctx, depositor)
	if err != nil {
		logger.Warn("ledger http list by depositor failed",
			"event", "ledger_http_list_by_depositor_failed",
			"module", "distribution-core/claims-ledger",
			"layer", "adapter",
			"depositor", strings.TrimSpace(depositor),
			"error", err.Error(),
		)
		return httptransport.EntryListResponse{}, err
	}
	now := time.Now().UTC()
	items := make([]httptransport.EntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entryDTO(entry, now))
	}
	return httptransport.EntryListResponse{Entries: items}, nil
}

func (h Handler) RoomBalanceHandler(
	ctx context.Context,
	roomID string,
	assetDTO httptransport.AssetDTO,
) (httptransport.RoomBalanceResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	asset, err := parseAsset(assetDTO)
	if err != nil {
		return httptransport.RoomBalanceResponse{}, err
	}
	balance, err := h.Queries.RoomBalance(ctx, roomID, asset.Key())
	if err != nil {
		logger.Warn("ledger http room balance failed",
			"event", "ledger_http_room_balance_failed",
			"module", "distribution-core/claims-ledger",
			"layer", "adapter",
			"room_id", strings.TrimSpace(roomID),
			"asset", asset.Key(),
			"error", err.Error(),
		)
		return httptransport.RoomBalanceResponse{}, err
	}
	return httptransport.RoomBalanceResponse{
		RoomID:  strings.TrimSpace(roomID),
		Asset:   assetDTO,
		Balance: balance.String(),
	}, nil
}

func entryDTO(entry entities.Entry, now time.Time) httptransport.EntryDTO {
	claimed := make(map[string]string, len(entry.Claimed))
	for recipient, amount := range entry.Claimed {
		claimed[recipient] = amount.String()
	}
	return httptransport.EntryDTO{
		EntryID:            entry.ID,
		Asset:              assetDTO(entry.Asset),
		Depositor:          entry.Depositor,
		Deadline:           entry.Deadline.UTC().Format(time.RFC3339),
		Mode:               string(entry.Mode),
		Recipients:         entry.Recipients,
		RoomID:             entry.RoomID,
		AmountPerShare:     entry.AmountPerShare.String(),
		ShareCount:         entry.ShareCount,
		Total:              entry.Total.String(),
		Remaining:          entry.Remaining.String(),
		Fee:                entry.Fee.String(),
		GasAllowance:       entry.GasAllowance.String(),
		AllowanceRemaining: entry.AllowanceRemaining.String(),
		Claimed:            claimed,
		Refunded:           entry.Refunded,
		Expired:            entry.ExpiredAt(now),
		CreatedAt:          entry.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          entry.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func assetDTO(asset assets.Asset) httptransport.AssetDTO {
	return httptransport.AssetDTO{
		Kind:         string(asset.Kind),
		TokenAddress: asset.TokenAddress,
	}
}

func parseAsset(dto httptransport.AssetDTO) (assets.Asset, error) {
	switch strings.ToLower(strings.TrimSpace(dto.Kind)) {
	case string(assets.AssetKindNative), "":
		return assets.Native(), nil
	case string(assets.AssetKindToken):
		asset := assets.Token(dto.TokenAddress)
		if !asset.Valid() {
			return assets.Asset{}, domainerrors.ErrInvalidDepositInput
		}
		return asset, nil
	default:
		return assets.Asset{}, domainerrors.ErrInvalidDepositInput
	}
}

func parseAmount(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, domainerrors.ErrInvalidDepositInput
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, domainerrors.ErrInvalidDepositInput
	}
	return amount, nil
}

func parseOptionalAmount(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, domainerrors.ErrInvalidDepositInput
	}
	return amount, nil
}

func parseDeadline(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, domainerrors.ErrInvalidDeadline
	}
	deadline, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return time.Time{}, domainerrors.ErrInvalidDeadline
	}
	return deadline.UTC(), nil
}
