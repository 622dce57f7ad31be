package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/videarn/ledger-service/internal/adapters/memory"
	"github.com/videarn/ledger-service/internal/adapters/security"
	"github.com/videarn/ledger-service/internal/application"
	"github.com/videarn/ledger-service/internal/contracts"
)

type envelope struct {
	Status  string          `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	signer, err := security.NewEphemeralJWTSigner("test-key")
	if err != nil {
		t.Fatalf("create signer: %v", err)
	}
	store := memory.NewStore()
	service := application.NewService(application.Dependencies{
		Config: application.Config{
			BusinessTimezone: time.UTC,
			MinWithdrawal:    200,
			ReferralBonus:    100,
			TokenTTL:         time.Hour,
		},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Accounts:    store.Accounts(),
		Plans:       store.Plans(),
		Videos:      store.Videos(),
		Watches:     store.Watches(),
		Claims:      store.Claims(),
		Purchases:   store.Purchases(),
		Withdrawals: store.Withdrawals(),
		Outbox:      store.Outbox(),
		ClaimGuard:  memory.NewClaimGuard(),
		Denylist:    memory.NewTokenDenylist(),
		Hasher:      security.NewBcryptHasher(bcrypt.MinCost),
		TokenSigner: signer,
	})
	return NewRouter(NewHandler(service))
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func registerOverHTTP(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	rec, env := doJSON(t, router, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":        email,
		"password":     "s3cret-pass-123",
		"display_name": "Jane",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}
	var auth application.AuthResponse
	if err := json.Unmarshal(env.Data, &auth); err != nil {
		t.Fatalf("decode auth response: %v", err)
	}
	if auth.Token == "" {
		t.Fatal("register returned an empty token")
	}
	return auth.Token
}

func TestRouterHealthEndpoints(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec, env := doJSON(t, router, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK || env.Status != "success" {
			t.Fatalf("%s: status %d, envelope %+v", path, rec.Code, env)
		}
	}
}

func TestRouterAuthFlow(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	token := registerOverHTTP(t, router, "jane@example.com")

	rec, env := doJSON(t, router, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "jane@example.com",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized || env.Code != "INVALID_CREDENTIALS" {
		t.Fatalf("bad login: status %d, envelope %+v", rec.Code, env)
	}

	rec, env = doJSON(t, router, http.MethodGet, "/v1/dashboard", token, nil)
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("dashboard: status %d, envelope %+v", rec.Code, env)
	}

	rec, env = doJSON(t, router, http.MethodGet, "/v1/dashboard", "", nil)
	if rec.Code != http.StatusUnauthorized || env.Code != "UNAUTHORIZED" {
		t.Fatalf("dashboard without token: status %d, envelope %+v", rec.Code, env)
	}

	// Listings wrap their items together with the pagination window.
	rec, env = doJSON(t, router, http.MethodGet, "/v1/claims?limit=5", token, nil)
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("list claims: status %d, envelope %+v", rec.Code, env)
	}
	var page struct {
		Claims     []json.RawMessage    `json:"claims"`
		Pagination contracts.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode claims page: %v", err)
	}
	if len(page.Claims) != 0 || page.Pagination.Limit != 5 || page.Pagination.Total != 0 {
		t.Fatalf("claims page = %+v, want an empty window of 5", page)
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	rec, env = doJSON(t, router, http.MethodGet, "/v1/dashboard", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("dashboard after logout: status %d, envelope %+v", rec.Code, env)
	}
}

func TestRouterErrorEnvelopes(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	token := registerOverHTTP(t, router, "jane@example.com")

	// Claiming without a plan surfaces the eligibility error, not a 500.
	rec, env := doJSON(t, router, http.MethodPost, "/v1/claims", token, nil)
	if rec.Code != http.StatusUnprocessableEntity || env.Code != "PLAN_NOT_ACTIVE" {
		t.Fatalf("claim without plan: status %d, envelope %+v", rec.Code, env)
	}

	rec, env = doJSON(t, router, http.MethodGet, "/v1/admin/accounts", token, nil)
	if rec.Code != http.StatusForbidden || env.Code != "FORBIDDEN" {
		t.Fatalf("admin route as user: status %d, envelope %+v", rec.Code, env)
	}

	rec, env = doJSON(t, router, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":         "second@example.com",
		"password":      "s3cret-pass-123",
		"display_name":  "Jane",
		"referral_code": "WRONGCOD",
	})
	if rec.Code != http.StatusBadRequest || env.Code != "REFERRAL_CODE_NOT_FOUND" {
		t.Fatalf("bad referral code: status %d, envelope %+v", rec.Code, env)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewReader([]byte("{not json")))
	recRaw := httptest.NewRecorder()
	router.ServeHTTP(recRaw, req)
	if recRaw.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status %d, body %s", recRaw.Code, recRaw.Body.String())
	}
}
