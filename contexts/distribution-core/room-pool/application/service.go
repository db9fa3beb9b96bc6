package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	domainerrors "tokendist/contexts/distribution-core/room-pool/domain/errors"
	"tokendist/contexts/distribution-core/room-pool/ports"
)

// Service is pure bookkeeping over an injected store. The claims ledger
// instantiates it over its transaction-scoped store so merges and draws
// commit or roll back with the rest of the deposit/claim write set.
type Service struct {
	Store  ports.Store
	Logger *slog.Logger
}

func (s Service) Merge(ctx context.Context, roomID string, assetKey string, amount decimal.Decimal) (decimal.Decimal, error) {
	roomID, assetKey, err := normalizeRoom(roomID, assetKey)
	if err != nil {
		return decimal.Zero, err
	}
	if !amount.IsPositive() {
		return decimal.Zero, domainerrors.ErrInvalidRoomAmount
	}

	balance, err := s.Store.RoomBalance(ctx, roomID, assetKey)
	if err != nil {
		return decimal.Zero, err
	}
	merged := balance.Add(amount)
	if err := s.Store.SaveRoomBalance(ctx, roomID, assetKey, merged); err != nil {
		return decimal.Zero, err
	}

	resolveLogger(s.Logger).Info("room pool merged",
		"event", "room_pool_merged",
		"module", "distribution-core/room-pool",
		"layer", "application",
		"room_id", roomID,
		"asset", assetKey,
		"amount", amount.String(),
		"balance", merged.String(),
	)
	return merged, nil
}

func (s Service) Draw(ctx context.Context, roomID string, assetKey string, amount decimal.Decimal) (decimal.Decimal, error) {
	roomID, assetKey, err := normalizeRoom(roomID, assetKey)
	if err != nil {
		return decimal.Zero, err
	}
	if !amount.IsPositive() {
		return decimal.Zero, domainerrors.ErrInvalidRoomAmount
	}

	balance, err := s.Store.RoomBalance(ctx, roomID, assetKey)
	if err != nil {
		return decimal.Zero, err
	}
	if balance.LessThan(amount) {
		return decimal.Zero, domainerrors.ErrInsufficientPool
	}
	remaining := balance.Sub(amount)
	if err := s.Store.SaveRoomBalance(ctx, roomID, assetKey, remaining); err != nil {
		return decimal.Zero, err
	}
	return remaining, nil
}

func (s Service) Balance(ctx context.Context, roomID string, assetKey string) (decimal.Decimal, error) {
	roomID, assetKey, err := normalizeRoom(roomID, assetKey)
	if err != nil {
		return decimal.Zero, err
	}
	return s.Store.RoomBalance(ctx, roomID, assetKey)
}

func normalizeRoom(roomID string, assetKey string) (string, string, error) {
	roomID = strings.TrimSpace(roomID)
	assetKey = strings.TrimSpace(assetKey)
	if roomID == "" || assetKey == "" {
		return "", "", domainerrors.ErrInvalidRoomInput
	}
	return roomID, assetKey, nil
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
