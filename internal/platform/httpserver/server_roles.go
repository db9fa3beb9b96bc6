package httpserver

import (
	"encoding/json"
	"net/http"

	accesshttp "tokendist/contexts/identity-access/access-control/transport/http"
)

func (s *Server) handleInitializeRoles(w http.ResponseWriter, r *http.Request) {
	var req accesshttp.InitializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.access.Handler.InitializeHandler(r.Context(), req)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	caller := s.resolveCaller(r)
	if caller == "" {
		writeAccessError(w, http.StatusUnauthorized, "missing_caller", "caller address is required")
		return
	}

	var req accesshttp.TransferRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.access.Handler.TransferOwnershipHandler(r.Context(), caller, req)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransferWithdrawship(w http.ResponseWriter, r *http.Request) {
	caller := s.resolveCaller(r)
	if caller == "" {
		writeAccessError(w, http.StatusUnauthorized, "missing_caller", "caller address is required")
		return
	}

	var req accesshttp.TransferRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.access.Handler.TransferWithdrawshipHandler(r.Context(), caller, req)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRoles(w http.ResponseWriter, r *http.Request) {
	resp, err := s.access.Handler.RolesHandler(r.Context())
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
