package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"tokendist/contexts/distribution-core/asset-vault/domain/entities"
	domainerrors "tokendist/contexts/distribution-core/asset-vault/domain/errors"
	"tokendist/contexts/distribution-core/asset-vault/ports"
)

type Service struct {
	Bank   ports.Bank
	Logger *slog.Logger
}

func (s Service) PullFrom(ctx context.Context, party string, asset entities.Asset, amount decimal.Decimal) error {
	req, err := s.normalize(party, asset, amount)
	if err != nil {
		return err
	}
	if req.Amount.IsZero() {
		return nil
	}
	if err := s.Bank.Pull(ctx, req); err != nil {
		s.logger().Warn("asset pull failed",
			"event", "asset_vault_pull_failed",
			"module", "distribution-core/asset-vault",
			"layer", "application",
			"party", req.Party,
			"asset", req.Asset.Key(),
			"amount", req.Amount.String(),
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func (s Service) PushTo(ctx context.Context, party string, asset entities.Asset, amount decimal.Decimal) error {
	req, err := s.normalize(party, asset, amount)
	if err != nil {
		return err
	}
	if req.Amount.IsZero() {
		return nil
	}
	if err := s.Bank.Push(ctx, req); err != nil {
		s.logger().Warn("asset push failed",
			"event", "asset_vault_push_failed",
			"module", "distribution-core/asset-vault",
			"layer", "application",
			"party", req.Party,
			"asset", req.Asset.Key(),
			"amount", req.Amount.String(),
			"error", err.Error(),
		)
		return err
	}
	return nil
}

// PullBatch pulls every request in order and unwinds already-pulled value by
// pushing it back when a later pull fails, so the batch is all-or-nothing.
func (s Service) PullBatch(ctx context.Context, requests []ports.TransferRequest) error {
	for i, req := range requests {
		if err := s.PullFrom(ctx, req.Party, req.Asset, req.Amount); err != nil {
			for j := i - 1; j >= 0; j-- {
				undo := requests[j]
				if pushErr := s.PushTo(ctx, undo.Party, undo.Asset, undo.Amount); pushErr != nil {
					s.logger().Error("asset pull batch unwind failed",
						"event", "asset_vault_pull_batch_unwind_failed",
						"module", "distribution-core/asset-vault",
						"layer", "application",
						"party", undo.Party,
						"asset", undo.Asset.Key(),
						"amount", undo.Amount.String(),
						"error", pushErr.Error(),
					)
				}
			}
			return err
		}
	}
	return nil
}

// PushBatch pushes every request in order and unwinds already-pushed value by
// pulling it back when a later push fails.
func (s Service) PushBatch(ctx context.Context, requests []ports.TransferRequest) error {
	for i, req := range requests {
		if err := s.PushTo(ctx, req.Party, req.Asset, req.Amount); err != nil {
			for j := i - 1; j >= 0; j-- {
				undo := requests[j]
				if pullErr := s.PullFrom(ctx, undo.Party, undo.Asset, undo.Amount); pullErr != nil {
					s.logger().Error("asset push batch unwind failed",
						"event", "asset_vault_push_batch_unwind_failed",
						"module", "distribution-core/asset-vault",
						"layer", "application",
						"party", undo.Party,
						"asset", undo.Asset.Key(),
						"amount", undo.Amount.String(),
						"error", pullErr.Error(),
					)
				}
			}
			return err
		}
	}
	return nil
}

func (s Service) CustodyBalance(ctx context.Context, asset entities.Asset) (decimal.Decimal, error) {
	if !asset.Valid() {
		return decimal.Zero, domainerrors.ErrInvalidAsset
	}
	return s.Bank.CustodyBalance(ctx, asset)
}

func (s Service) normalize(party string, asset entities.Asset, amount decimal.Decimal) (ports.TransferRequest, error) {
	party = strings.TrimSpace(party)
	if party == "" || !asset.Valid() {
		return ports.TransferRequest{}, domainerrors.ErrInvalidAsset
	}
	if amount.IsNegative() {
		return ports.TransferRequest{}, domainerrors.ErrInvalidAmount
	}
	return ports.TransferRequest{Party: party, Asset: asset, Amount: amount}, nil
}

func (s Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
