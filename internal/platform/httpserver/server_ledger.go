package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	ledgerhttp "tokendist/contexts/distribution-core/claims-ledger/transport/http"
)

func (s *Server) handleDepositDirect(w http.ResponseWriter, r *http.Request) {
	caller := s.resolveCaller(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_caller", "caller address is required")
		return
	}

	var req ledgerhttp.DepositDirectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.ledger.Handler.DepositDirectHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDepositRoom(w http.ResponseWriter, r *http.Request) {
	caller := s.resolveCaller(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_caller", "caller address is required")
		return
	}

	var req ledgerhttp.DepositRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.ledger.Handler.DepositRoomHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	caller := s.resolveCaller(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_caller", "caller address is required")
		return
	}

	entryID, ok := parseEntryID(w, r)
	if !ok {
		return
	}

	var req ledgerhttp.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.ledger.Handler.ClaimHandler(r.Context(), caller, entryID, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefund(w http.ResponseWriter, r *http.Request) {
	caller := s.resolveCaller(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_caller", "caller address is required")
		return
	}

	entryID, ok := parseEntryID(w, r)
	if !ok {
		return
	}

	resp, err := s.ledger.Handler.RefundHandler(r.Context(), caller, entryID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entryID, ok := parseEntryID(w, r)
	if !ok {
		return
	}

	resp, err := s.ledger.Handler.GetEntryHandler(r.Context(), entryID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	depositor := strings.TrimSpace(r.URL.Query().Get("depositor"))
	if depositor == "" {
		depositor = s.resolveCaller(r)
	}
	if depositor == "" {
		writeLedgerError(w, http.StatusBadRequest, "missing_depositor", "depositor query parameter or caller address is required")
		return
	}

	resp, err := s.ledger.Handler.ListByDepositorHandler(r.Context(), depositor)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRoomBalance(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("room_id")
	query := r.URL.Query()
	asset := ledgerhttp.AssetDTO{
		Kind:         query.Get("asset_kind"),
		TokenAddress: query.Get("token_address"),
	}

	resp, err := s.ledger.Handler.RoomBalanceHandler(r.Context(), roomID, asset)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseEntryID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := r.PathValue("entry_id")
	entryID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_entry_id", "entry_id must be an unsigned integer")
		return 0, false
	}
	return entryID, true
}
