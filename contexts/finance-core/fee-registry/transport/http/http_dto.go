package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SetFeeRateRequest struct {
	Bps int64 `json:"bps"`
}

type FeeRateResponse struct {
	Bps int64 `json:"bps"`
}

type SweepDTO struct {
	AssetKind    string `json:"asset_kind"`
	TokenAddress string `json:"token_address,omitempty"`
	Amount       string `json:"amount"`
}

type WithdrawResponse struct {
	Swept []SweepDTO `json:"swept"`
}

// TokenListResponse lists the token addresses with a nonzero accrued balance.
type TokenListResponse struct {
	Tokens []string `json:"tokens"`
}

type FeeBalanceDTO struct {
	AssetKind    string `json:"asset_kind"`
	TokenAddress string `json:"token_address,omitempty"`
	Balance      string `json:"balance"`
}

type FeeReportResponse struct {
	Bps      int64           `json:"bps"`
	Balances []FeeBalanceDTO `json:"balances"`
}
