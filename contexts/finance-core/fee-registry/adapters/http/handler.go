package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	vaultentities "tokendist/contexts/distribution-core/asset-vault/domain/entities"
	application "tokendist/contexts/finance-core/fee-registry/application"
	httptransport "tokendist/contexts/finance-core/fee-registry/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) SetFeeRateHandler(
	ctx context.Context,
	caller string,
	req httptransport.SetFeeRateRequest,
) error {
	logger := application.ResolveLogger(h.Logger)
	if err := h.Service.SetFeeRate(ctx, caller, req.Bps); err != nil {
		logger.Warn("fee http set rate failed",
			"event", "fee_http_set_rate_failed",
			"module", "finance-core/fee-registry",
			"layer", "adapter",
			"caller", strings.TrimSpace(caller),
			"bps", req.Bps,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func (h Handler) FeeRateHandler(ctx context.Context) (httptransport.FeeRateResponse, error) {
	bps, err := h.Service.FeeRateBps(ctx)
	if err != nil {
		return httptransport.FeeRateResponse{}, err
	}
	return httptransport.FeeRateResponse{Bps: bps}, nil
}

func (h Handler) WithdrawHandler(
	ctx context.Context,
	caller string,
	assetKind string,
	tokenAddress string,
) (httptransport.WithdrawResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	asset := vaultentities.Native()
	if strings.EqualFold(strings.TrimSpace(assetKind), string(vaultentities.AssetKindToken)) {
		asset = vaultentities.Token(tokenAddress)
	}
	swept, err := h.Service.Withdraw(ctx, caller, asset)
	if err != nil {
		logger.Warn("fee http withdraw failed",
			"event", "fee_http_withdraw_failed",
			"module", "finance-core/fee-registry",
			"layer", "adapter",
			"caller", strings.TrimSpace(caller),
			"asset", asset.Key(),
			"error", err.Error(),
		)
		return httptransport.WithdrawResponse{}, err
	}
	return httptransport.WithdrawResponse{Swept: []httptransport.SweepDTO{sweepDTO(swept)}}, nil
}

func (h Handler) WithdrawAllHandler(ctx context.Context, caller string) (httptransport.WithdrawResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	results, err := h.Service.WithdrawAll(ctx, caller)
	if err != nil {
		logger.Warn("fee http withdraw all failed",
			"event", "fee_http_withdraw_all_failed",
			"module", "finance-core/fee-registry",
			"layer", "adapter",
			"caller", strings.TrimSpace(caller),
			"error", err.Error(),
		)
		return httptransport.WithdrawResponse{}, err
	}
	swept := make([]httptransport.SweepDTO, 0, len(results))
	for _, result := range results {
		swept = append(swept, sweepDTO(result))
	}
	return httptransport.WithdrawResponse{Swept: swept}, nil
}

func (h Handler) ListTokensHandler(ctx context.Context) (httptransport.TokenListResponse, error) {
	tokens, err := h.Service.ListTokens(ctx)
	if err != nil {
		return httptransport.TokenListResponse{}, err
	}
	return httptransport.TokenListResponse{Tokens: tokens}, nil
}

// FeeReportHandler returns the current rate plus every nonzero accrued
// balance, native first then tokens in lexical order.
func (h Handler) FeeReportHandler(ctx context.Context) (httptransport.FeeReportResponse, error) {
	bps, err := h.Service.FeeRateBps(ctx)
	if err != nil {
		return httptransport.FeeReportResponse{}, err
	}

	balances := make([]httptransport.FeeBalanceDTO, 0, 4)
	native, err := h.Service.AccruedBalance(ctx, vaultentities.Native())
	if err != nil {
		return httptransport.FeeReportResponse{}, err
	}
	if !native.IsZero() {
		balances = append(balances, httptransport.FeeBalanceDTO{
			AssetKind: string(vaultentities.AssetKindNative),
			Balance:   native.String(),
		})
	}
	tokens, err := h.Service.ListTokens(ctx)
	if err != nil {
		return httptransport.FeeReportResponse{}, err
	}
	for _, token := range tokens {
		balance, err := h.Service.AccruedBalance(ctx, vaultentities.Token(token))
		if err != nil {
			return httptransport.FeeReportResponse{}, err
		}
		balances = append(balances, httptransport.FeeBalanceDTO{
			AssetKind:    string(vaultentities.AssetKindToken),
			TokenAddress: token,
			Balance:      balance.String(),
		})
	}
	return httptransport.FeeReportResponse{Bps: bps, Balances: balances}, nil
}

func sweepDTO(result application.SweepResult) httptransport.SweepDTO {
	return httptransport.SweepDTO{
		AssetKind:    string(result.Asset.Kind),
		TokenAddress: result.Asset.TokenAddress,
		Amount:       result.Amount.String(),
	}
}
