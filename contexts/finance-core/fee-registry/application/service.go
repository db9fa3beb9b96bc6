package application

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	vaultentities "tokendist/contexts/distribution-core/asset-vault/domain/entities"
	vaultports "tokendist/contexts/distribution-core/asset-vault/ports"
	domainerrors "tokendist/contexts/finance-core/fee-registry/domain/errors"
	"tokendist/contexts/finance-core/fee-registry/ports"
)

const maxFeeRateBps = 10_000

// SweepResult reports one asset paid out by a fee withdrawal.
type SweepResult struct {
	Asset  vaultentities.Asset
	Amount decimal.Decimal
}

type Service struct {
	Repo   ports.Repository
	Payer  ports.Payer
	Access ports.AccessChecker
	Clock  ports.Clock
	Logger *slog.Logger
}

// SetFeeRate updates the protocol fee rate. Owner only. The new rate applies
// to deposits made after the change; fees already withheld are untouched.
func (s Service) SetFeeRate(ctx context.Context, caller string, bps int64) error {
	if err := s.Access.RequireOwner(ctx, caller); err != nil {
		return err
	}
	if bps < 0 || bps > maxFeeRateBps {
		return domainerrors.ErrInvalidFeeRate
	}
	if err := s.Repo.SaveFeeRateBps(ctx, bps); err != nil {
		return err
	}
	s.logger().Info("fee rate updated",
		"event", "fee_rate_updated",
		"module", "finance-core/fee-registry",
		"layer", "application",
		"bps", bps,
	)
	return nil
}

func (s Service) FeeRateBps(ctx context.Context) (int64, error) {
	return s.Repo.FeeRateBps(ctx)
}

// AccruedBalance reports the fee balance currently held for one asset.
func (s Service) AccruedBalance(ctx context.Context, asset vaultentities.Asset) (decimal.Decimal, error) {
	return s.Repo.FeeBalance(ctx, asset.Key())
}

// ListTokens returns the token addresses with a nonzero accrued balance.
func (s Service) ListTokens(ctx context.Context) ([]string, error) {
	return s.Repo.ListFeeTokens(ctx)
}

// Withdraw sweeps the accrued balance of one asset to the caller. Withdrawer
// only. The balance is zeroed and paid in one atomic step; sweeping an asset
// with nothing accrued fails without touching state.
func (s Service) Withdraw(ctx context.Context, caller string, asset vaultentities.Asset) (SweepResult, error) {
	if err := s.Access.RequireWithdrawer(ctx, caller); err != nil {
		return SweepResult{}, err
	}

	var swept SweepResult
	err := s.Repo.AtomicSweep(ctx, func(tx ports.Tx) error {
		balance, err := tx.FeeBalance(ctx, asset.Key())
		if err != nil {
			return err
		}
		if balance.IsZero() {
			return domainerrors.ErrNothingAccrued
		}
		if err := tx.SaveFeeBalance(ctx, asset.Key(), decimal.Zero); err != nil {
			return err
		}
		swept = SweepResult{Asset: asset, Amount: balance}
		// Payout is the final act inside the sweep so a rejected transfer
		// rolls the zeroed balance back.
		return s.Payer.PushBatch(ctx, []vaultports.TransferRequest{
			{Party: caller, Asset: asset, Amount: balance},
		})
	})
	if err != nil {
		return SweepResult{}, err
	}

	s.logger().Info("fees withdrawn",
		"event", "fees_withdrawn",
		"module", "finance-core/fee-registry",
		"layer", "application",
		"withdrawer", caller,
		"asset", swept.Asset.Key(),
		"amount", swept.Amount.String(),
	)
	return swept, nil
}

// WithdrawAll sweeps the native balance and every token balance to the
// caller in one atomic step. Withdrawer only.
func (s Service) WithdrawAll(ctx context.Context, caller string) ([]SweepResult, error) {
	if err := s.Access.RequireWithdrawer(ctx, caller); err != nil {
		return nil, err
	}

	var swept []SweepResult
	err := s.Repo.AtomicSweep(ctx, func(tx ports.Tx) error {
		swept = swept[:0]
		targets := []vaultentities.Asset{vaultentities.Native()}
		tokens, err := tx.ListFeeTokens(ctx)
		if err != nil {
			return err
		}
		for _, token := range tokens {
			targets = append(targets, vaultentities.Token(token))
		}

		pushes := make([]vaultports.TransferRequest, 0, len(targets))
		for _, asset := range targets {
			balance, err := tx.FeeBalance(ctx, asset.Key())
			if err != nil {
				return err
			}
			if balance.IsZero() {
				continue
			}
			if err := tx.SaveFeeBalance(ctx, asset.Key(), decimal.Zero); err != nil {
				return err
			}
			swept = append(swept, SweepResult{Asset: asset, Amount: balance})
			pushes = append(pushes, vaultports.TransferRequest{Party: caller, Asset: asset, Amount: balance})
		}
		if len(pushes) == 0 {
			return domainerrors.ErrNothingAccrued
		}
		return s.Payer.PushBatch(ctx, pushes)
	})
	if err != nil {
		return nil, err
	}

	s.logger().Info("all fees withdrawn",
		"event", "all_fees_withdrawn",
		"module", "finance-core/fee-registry",
		"layer", "application",
		"withdrawer", caller,
		"assets", len(swept),
	)
	return swept, nil
}

func (s Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
