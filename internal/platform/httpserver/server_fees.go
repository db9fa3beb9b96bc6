package httpserver

import (
	"encoding/json"
	"net/http"

	feehttp "tokendist/contexts/finance-core/fee-registry/transport/http"
)

func (s *Server) handleFeeRate(w http.ResponseWriter, r *http.Request) {
	resp, err := s.fees.Handler.FeeRateHandler(r.Context())
	if err != nil {
		writeFeeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetFeeRate(w http.ResponseWriter, r *http.Request) {
	caller := s.resolveCaller(r)
	if caller == "" {
		writeFeeError(w, http.StatusUnauthorized, "missing_caller", "caller address is required")
		return
	}

	var req feehttp.SetFeeRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFeeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	if err := s.fees.Handler.SetFeeRateHandler(r.Context(), caller, req); err != nil {
		writeFeeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feehttp.FeeRateResponse{Bps: req.Bps})
}

func (s *Server) handleWithdrawFees(w http.ResponseWriter, r *http.Request) {
	caller := s.resolveCaller(r)
	if caller == "" {
		writeFeeError(w, http.StatusUnauthorized, "missing_caller", "caller address is required")
		return
	}

	query := r.URL.Query()
	resp, err := s.fees.Handler.WithdrawHandler(
		r.Context(),
		caller,
		query.Get("asset_kind"),
		query.Get("token_address"),
	)
	if err != nil {
		writeFeeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWithdrawAllFees(w http.ResponseWriter, r *http.Request) {
	caller := s.resolveCaller(r)
	if caller == "" {
		writeFeeError(w, http.StatusUnauthorized, "missing_caller", "caller address is required")
		return
	}

	resp, err := s.fees.Handler.WithdrawAllHandler(r.Context(), caller)
	if err != nil {
		writeFeeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFeeTokens(w http.ResponseWriter, r *http.Request) {
	resp, err := s.fees.Handler.ListTokensHandler(r.Context())
	if err != nil {
		writeFeeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFeeReport(w http.ResponseWriter, r *http.Request) {
	resp, err := s.fees.Handler.FeeReportHandler(r.Context())
	if err != nil {
		writeFeeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
