package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	assetvault "tokendist/contexts/distribution-core/asset-vault"
	assets "tokendist/contexts/distribution-core/asset-vault/domain/entities"
	claimsledger "tokendist/contexts/distribution-core/claims-ledger"
	ledgerhttp "tokendist/contexts/distribution-core/claims-ledger/transport/http"
	feeregistry "tokendist/contexts/finance-core/fee-registry"
	accesscontrol "tokendist/contexts/identity-access/access-control"
)

func newTestServer(t *testing.T, jwtSecret string) (*Server, *assetvault.Module) {
	t.Helper()

	vault := assetvault.NewInMemoryModule(nil)
	ledger := claimsledger.NewInMemoryModule(vault.Service, nil)
	access := accesscontrol.NewModule(accesscontrol.Dependencies{
		Store: ledger.Store,
		Clock: ledger.Store,
	})
	fees := feeregistry.NewModule(feeregistry.Dependencies{
		Repository: ledger.Store,
		Payer:      vault.Service,
		Access:     access.Service,
		Clock:      ledger.Store,
	})
	return New(ledger, fees, access, nil, "", jwtSecret), &vault
}

func do(t *testing.T, server *Server, method string, path string, caller string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if caller != "" {
		req.Header.Set("X-Caller-Address", caller)
	}
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestDepositClaimRefundOverHTTP(t *testing.T) {
	server, vault := newTestServer(t, "")
	vault.Bank.Credit("alice", assets.Native(), decimal.NewFromInt(210))

	deadline := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	rec := do(t, server, http.MethodPost, "/v1/ledger/deposits/direct", "alice", ledgerhttp.DepositDirectRequest{
		Asset:          ledgerhttp.AssetDTO{Kind: "native"},
		Recipients:     []string{"bob", "carol"},
		AmountPerShare: "100",
		Deadline:       deadline,
		GasAllowance:   "10",
		AttachedValue:  "210",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	deposit := decode[ledgerhttp.DepositResponse](t, rec)
	if deposit.Entry.Total != "200" {
		t.Fatalf("expected total 200, got %s", deposit.Entry.Total)
	}

	rec = do(t, server, http.MethodPost, "/v1/ledger/entries/0/claim", "bob", ledgerhttp.ClaimRequest{Recipient: "bob"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	claim := decode[ledgerhttp.ClaimResponse](t, rec)
	if claim.Paid != "100" {
		t.Fatalf("expected 100 paid, got %s", claim.Paid)
	}

	rec = do(t, server, http.MethodGet, "/v1/ledger/entries/0", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	entry := decode[ledgerhttp.EntryDTO](t, rec)
	if entry.Remaining != "100" {
		t.Fatalf("expected remaining 100, got %s", entry.Remaining)
	}

	// refund before the deadline conflicts
	rec = do(t, server, http.MethodPost, "/v1/ledger/entries/0/refund", "alice", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 before deadline, got %d", rec.Code)
	}
}

func TestDepositRequiresCaller(t *testing.T) {
	server, _ := newTestServer(t, "")

	rec := do(t, server, http.MethodPost, "/v1/ledger/deposits/direct", "", ledgerhttp.DepositDirectRequest{
		Asset:          ledgerhttp.AssetDTO{Kind: "native"},
		Recipients:     []string{"bob"},
		AmountPerShare: "100",
		Deadline:       time.Now().UTC().Add(time.Hour).Format(time.RFC3339),
		AttachedValue:  "100",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUnknownEntryIs404(t *testing.T) {
	server, _ := newTestServer(t, "")

	rec := do(t, server, http.MethodGet, "/v1/ledger/entries/99", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	rec = do(t, server, http.MethodGet, "/v1/ledger/entries/not-a-number", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRolesAndFeeRateRoutes(t *testing.T) {
	server, _ := newTestServer(t, "")

	rec := do(t, server, http.MethodPost, "/v1/roles/initialize", "", map[string]string{"owner": "alice"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, server, http.MethodPost, "/v1/fees/rate", "mallory", map[string]int64{"bps": 250})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", rec.Code)
	}
	rec = do(t, server, http.MethodPost, "/v1/fees/rate", "alice", map[string]int64{"bps": 250})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, server, http.MethodGet, "/v1/fees/rate", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rate := decode[map[string]int64](t, rec); rate["bps"] != 250 {
		t.Fatalf("expected 250 bps, got %d", rate["bps"])
	}
}

func TestBearerTokenResolvesCaller(t *testing.T) {
	const secret = "test-secret"
	server, _ := newTestServer(t, secret)

	rec := do(t, server, http.MethodPost, "/v1/roles/initialize", "", map[string]string{"owner": "alice"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"address": "alice"})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(map[string]int64{"bps": 100}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/fees/rate", &buf)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 via bearer auth, got %d: %s", rec.Code, rec.Body.String())
	}

	// header identity is ignored while JWT auth is configured
	rec = do(t, server, http.MethodPost, "/v1/fees/rate", "alice", map[string]int64{"bps": 50})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected header caller rejected, got %d", rec.Code)
	}
}
