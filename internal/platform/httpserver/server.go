package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	vaulterrors "tokendist/contexts/distribution-core/asset-vault/domain/errors"
	claimsledger "tokendist/contexts/distribution-core/claims-ledger"
	ledgererrors "tokendist/contexts/distribution-core/claims-ledger/domain/errors"
	ledgerhttp "tokendist/contexts/distribution-core/claims-ledger/transport/http"
	roomerrors "tokendist/contexts/distribution-core/room-pool/domain/errors"
	feeregistry "tokendist/contexts/finance-core/fee-registry"
	feeerrors "tokendist/contexts/finance-core/fee-registry/domain/errors"
	feehttp "tokendist/contexts/finance-core/fee-registry/transport/http"
	accesscontrol "tokendist/contexts/identity-access/access-control"
	accesserrors "tokendist/contexts/identity-access/access-control/domain/errors"
	accesshttp "tokendist/contexts/identity-access/access-control/transport/http"

	_ "tokendist/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	handler   http.Handler
	logger    *slog.Logger
	addr      string
	jwtSecret string
	ledger    claimsledger.Module
	fees      feeregistry.Module
	access    accesscontrol.Module
}

func New(
	ledger claimsledger.Module,
	fees feeregistry.Module,
	access accesscontrol.Module,
	logger *slog.Logger,
	addr string,
	jwtSecret string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		jwtSecret: jwtSecret,
		ledger:    ledger,
		fees:      fees,
		access:    access,
	}
	s.registerRoutes()
	s.handler = cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Caller-Address"},
	}).Handler(s.mux)
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.handler)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/ledger/deposits/direct", s.handleDepositDirect)
	s.mux.HandleFunc("POST /v1/ledger/deposits/room", s.handleDepositRoom)
	s.mux.HandleFunc("POST /v1/ledger/entries/{entry_id}/claim", s.handleClaim)
	s.mux.HandleFunc("POST /v1/ledger/entries/{entry_id}/refund", s.handleRefund)
	s.mux.HandleFunc("GET /v1/ledger/entries/{entry_id}", s.handleGetEntry)
	s.mux.HandleFunc("GET /v1/ledger/entries", s.handleListEntries)
	s.mux.HandleFunc("GET /v1/ledger/rooms/{room_id}/balance", s.handleRoomBalance)

	s.mux.HandleFunc("GET /v1/fees/rate", s.handleFeeRate)
	s.mux.HandleFunc("POST /v1/fees/rate", s.handleSetFeeRate)
	s.mux.HandleFunc("POST /v1/fees/withdraw", s.handleWithdrawFees)
	s.mux.HandleFunc("POST /v1/fees/withdraw-all", s.handleWithdrawAllFees)
	s.mux.HandleFunc("GET /v1/fees/tokens", s.handleFeeTokens)
	s.mux.HandleFunc("GET /v1/fees/report", s.handleFeeReport)

	s.mux.HandleFunc("POST /v1/roles/initialize", s.handleInitializeRoles)
	s.mux.HandleFunc("POST /v1/roles/owner", s.handleTransferOwnership)
	s.mux.HandleFunc("POST /v1/roles/withdrawer", s.handleTransferWithdrawship)
	s.mux.HandleFunc("GET /v1/roles", s.handleRoles)
}

// resolveCaller extracts the caller address from a bearer token when a JWT
// secret is configured. The X-Caller-Address header is honored only in the
// secretless dev configuration.
func (s *Server) resolveCaller(r *http.Request) string {
	if s.jwtSecret == "" {
		return strings.TrimSpace(r.Header.Get("X-Caller-Address"))
	}

	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	if address, ok := claims["address"].(string); ok {
		return strings.TrimSpace(address)
	}
	if subject, err := claims.GetSubject(); err == nil {
		return strings.TrimSpace(subject)
	}
	return ""
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrEntryNotFound):
		writeLedgerError(w, http.StatusNotFound, "entry_not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidDepositInput),
		errors.Is(err, ledgererrors.ErrInvalidDeadline),
		errors.Is(err, ledgererrors.ErrInvalidClaimAmount):
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ledgererrors.ErrValueMismatch):
		writeLedgerError(w, http.StatusUnprocessableEntity, "value_mismatch", err.Error())
	case errors.Is(err, ledgererrors.ErrNotEligible):
		writeLedgerError(w, http.StatusForbidden, "not_eligible", err.Error())
	case errors.Is(err, ledgererrors.ErrOverEntitlement):
		writeLedgerError(w, http.StatusConflict, "over_entitlement", err.Error())
	case errors.Is(err, ledgererrors.ErrExpired):
		writeLedgerError(w, http.StatusGone, "entry_expired", err.Error())
	case errors.Is(err, ledgererrors.ErrNotYetExpired):
		writeLedgerError(w, http.StatusConflict, "not_yet_expired", err.Error())
	case errors.Is(err, ledgererrors.ErrAlreadyRefunded):
		writeLedgerError(w, http.StatusConflict, "already_refunded", err.Error())
	case errors.Is(err, ledgererrors.ErrNotDepositor):
		writeLedgerError(w, http.StatusForbidden, "not_depositor", err.Error())
	case errors.Is(err, vaulterrors.ErrAllowanceInsufficient),
		errors.Is(err, vaulterrors.ErrTransferRejected):
		writeLedgerError(w, http.StatusUnprocessableEntity, "transfer_failed", err.Error())
	case errors.Is(err, vaulterrors.ErrInvalidAsset),
		errors.Is(err, vaulterrors.ErrInvalidAmount):
		writeLedgerError(w, http.StatusBadRequest, "invalid_asset", err.Error())
	case errors.Is(err, roomerrors.ErrInsufficientPool):
		writeLedgerError(w, http.StatusConflict, "insufficient_pool", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeFeeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, feeerrors.ErrInvalidFeeRate):
		writeFeeError(w, http.StatusBadRequest, "invalid_fee_rate", err.Error())
	case errors.Is(err, feeerrors.ErrNothingAccrued):
		writeFeeError(w, http.StatusConflict, "nothing_accrued", err.Error())
	case errors.Is(err, accesserrors.ErrUnauthorized):
		writeFeeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, accesserrors.ErrNotInitialized):
		writeFeeError(w, http.StatusConflict, "roles_not_initialized", err.Error())
	case errors.Is(err, vaulterrors.ErrTransferRejected):
		writeFeeError(w, http.StatusUnprocessableEntity, "transfer_failed", err.Error())
	default:
		writeFeeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAccessDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accesserrors.ErrAlreadyInitialized):
		writeAccessError(w, http.StatusConflict, "already_initialized", err.Error())
	case errors.Is(err, accesserrors.ErrNotInitialized):
		writeAccessError(w, http.StatusConflict, "not_initialized", err.Error())
	case errors.Is(err, accesserrors.ErrInvalidAddress):
		writeAccessError(w, http.StatusBadRequest, "invalid_address", err.Error())
	case errors.Is(err, accesserrors.ErrUnauthorized):
		writeAccessError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeAccessError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{Code: code, Message: message})
}

func writeFeeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, feehttp.ErrorResponse{Code: code, Message: message})
}

func writeAccessError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, accesshttp.ErrorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
