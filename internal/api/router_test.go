package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/securecipher/bank-backend/internal/auth"
	"github.com/securecipher/bank-backend/internal/config"
	"github.com/securecipher/bank-backend/internal/ledger"
	"github.com/securecipher/bank-backend/internal/middleware"
	"github.com/securecipher/bank-backend/internal/models"
	"github.com/securecipher/bank-backend/internal/money"
	"github.com/securecipher/bank-backend/internal/repository/memory"
	"github.com/securecipher/bank-backend/internal/services"
)

type apiFixture struct {
	handler http.Handler
	repos   memory.Repositories
	store   *memory.Store
	tm      *auth.TokenManager
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	repos := memory.NewRepositories(store)
	tm := auth.NewTokenManager("acc", "ref", "bank-test", 15*time.Minute, 24*time.Hour)

	engine := ledger.NewEngine(ledger.EngineDeps{
		Users:    repos.Users,
		Accounts: repos.Accounts,
		Txns:     repos.Transactions,
		Cats:     repos.Categories,
		Store:    repos.Ledger,
		Audit:    repos.AuditLogs,
		Verifier: services.NewPINVerifier(repos.Users),
		Guard:    ledger.NewGuard(),
	})

	h := NewRouter(RouterDeps{
		Cfg:       config.Config{Env: "test", RateRPS: 1000},
		Users:     services.NewUserService(repos.Users, repos.AuditLogs, tm, nil),
		Accounts:  services.NewAccountService(repos.Accounts, repos.Transactions),
		Engine:    engine,
		AuditLogs: repos.AuditLogs,
		AuthMW:    middleware.NewAuthMiddleware(tm),
	})
	return &apiFixture{handler: h, repos: repos, store: store, tm: tm}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body)
	}
}

// registerLogin creates a user through the public API and returns its id
// and access token.
func (f *apiFixture) registerLogin(t *testing.T, username, email string) (string, string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username, "email": email, "password": "s3cret-pass",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, rec.Code, rec.Body)
	}
	var u models.User
	decodeJSON(t, rec, &u)

	rec = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": "s3cret-pass",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, rec.Code, rec.Body)
	}
	var out struct {
		Tokens services.TokenPair `json:"tokens"`
	}
	decodeJSON(t, rec, &out)
	return u.ID, out.Tokens.AccessToken
}

func (f *apiFixture) seedAccount(t *testing.T, userID, number, balance string) models.Account {
	t.Helper()
	bal := money.MustParse(balance)
	a, err := f.repos.Accounts.Create(context.Background(), models.Account{
		UserID:           userID,
		AccountTypeID:    "checking",
		AccountNumber:    number,
		Balance:          bal,
		AvailableBalance: bal,
		Status:           models.AccountActive,
	})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestTransferEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	aliceID, aliceToken := f.registerLogin(t, "alice", "alice@example.com")
	bobID, _ := f.registerLogin(t, "bob", "bob@example.com")

	if rec := f.do(t, http.MethodPost, "/api/v1/auth/set-pin", aliceToken, map[string]string{"pin": "4321"}); rec.Code != http.StatusOK {
		t.Fatalf("set-pin: status %d body %s", rec.Code, rec.Body)
	}

	src := f.seedAccount(t, aliceID, "1000000001", "50000.00")
	dst := f.seedAccount(t, bobID, "1000000002", "2000.00")

	rec := f.do(t, http.MethodPost, "/api/v1/transfers", aliceToken, map[string]string{
		"source_account_id":          src.ID,
		"destination_account_number": dst.AccountNumber,
		"amount":                     "15000.00",
		"description":                "rent",
		"pin":                        "4321",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("transfer: status %d body %s", rec.Code, rec.Body)
	}
	var out struct {
		ReferenceNumber string             `json:"reference_number"`
		Balance         string             `json:"balance"`
		Debit           models.Transaction `json:"debit"`
		Credit          models.Transaction `json:"credit"`
	}
	decodeJSON(t, rec, &out)
	if out.Balance != "35000.00" {
		t.Errorf("balance = %s, want 35000.00", out.Balance)
	}
	if out.ReferenceNumber != out.Debit.ReferenceNumber {
		t.Error("reference_number does not match the debit leg")
	}
	if out.Credit.BalanceAfter.String() != "17000.00" {
		t.Errorf("credit balance_after = %s, want 17000.00", out.Credit.BalanceAfter)
	}
}

func TestTransferEndpointErrors(t *testing.T) {
	f := newAPIFixture(t)
	aliceID, aliceToken := f.registerLogin(t, "alice", "alice@example.com")
	bobID, _ := f.registerLogin(t, "bob", "bob@example.com")
	if rec := f.do(t, http.MethodPost, "/api/v1/auth/set-pin", aliceToken, map[string]string{"pin": "4321"}); rec.Code != http.StatusOK {
		t.Fatalf("set-pin: status %d", rec.Code)
	}
	src := f.seedAccount(t, aliceID, "1000000001", "50.00")
	dst := f.seedAccount(t, bobID, "1000000002", "0.00")

	body := func(amount, pin string) map[string]string {
		return map[string]string{
			"source_account_id":          src.ID,
			"destination_account_number": dst.AccountNumber,
			"amount":                     amount,
			"pin":                        pin,
		}
	}

	cases := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantCode   string
	}{
		{"wrong pin", body("10.00", "0000"), http.StatusForbidden, "authorization_failed"},
		{"insufficient funds", body("100.00", "4321"), http.StatusBadRequest, "insufficient_funds"},
		{"bad amount scale", body("10.001", "4321"), http.StatusBadRequest, "invalid_amount"},
		{"zero amount", body("0.00", "4321"), http.StatusBadRequest, "invalid_amount"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/v1/transfers", aliceToken, tc.body)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body)
			}
			var apiErr struct {
				Code string `json:"code"`
			}
			decodeJSON(t, rec, &apiErr)
			if apiErr.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", apiErr.Code, tc.wantCode)
			}
		})
	}

	// Balance untouched by the failures above.
	a, err := f.repos.Accounts.GetByID(context.Background(), src.ID)
	if err != nil {
		t.Fatal(err)
	}
	if a.Balance.String() != "50.00" {
		t.Errorf("source balance = %s, want 50.00", a.Balance)
	}

	if rec := f.do(t, http.MethodPost, "/api/v1/transfers", "", body("10.00", "4321")); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token status = %d, want 401", rec.Code)
	}
}

func TestAccountOwnershipIsolation(t *testing.T) {
	f := newAPIFixture(t)
	aliceID, aliceToken := f.registerLogin(t, "alice", "alice@example.com")
	bobID, bobToken := f.registerLogin(t, "bob", "bob@example.com")

	mine := f.seedAccount(t, aliceID, "1000000001", "10.00")
	theirs := f.seedAccount(t, bobID, "1000000002", "10.00")

	if rec := f.do(t, http.MethodGet, "/api/v1/accounts/"+mine.ID+"/balance", aliceToken, nil); rec.Code != http.StatusOK {
		t.Errorf("own balance status = %d, want 200", rec.Code)
	}
	// Someone else's account reads as not found, not forbidden.
	if rec := f.do(t, http.MethodGet, "/api/v1/accounts/"+theirs.ID+"/balance", aliceToken, nil); rec.Code != http.StatusNotFound {
		t.Errorf("foreign balance status = %d, want 404", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/v1/accounts/"+theirs.ID+"/balance", bobToken, nil); rec.Code != http.StatusOK {
		t.Errorf("bob's own balance status = %d, want 200", rec.Code)
	}
}

func TestAuditEndpointRequiresAdmin(t *testing.T) {
	f := newAPIFixture(t)
	_, userToken := f.registerLogin(t, "alice", "alice@example.com")

	if rec := f.do(t, http.MethodGet, "/api/v1/audit", userToken, nil); rec.Code != http.StatusForbidden {
		t.Errorf("non-admin audit status = %d, want 403", rec.Code)
	}

	adminAccess, _, _, err := f.tm.GeneratePair("admin-1", "admin")
	if err != nil {
		t.Fatal(err)
	}
	if rec := f.do(t, http.MethodGet, "/api/v1/audit", adminAccess, nil); rec.Code != http.StatusOK {
		t.Errorf("admin audit status = %d, want 200 (body %s)", rec.Code, rec.Body)
	}
}

func TestOpenAndListAccounts(t *testing.T) {
	f := newAPIFixture(t)
	_, token := f.registerLogin(t, "alice", "alice@example.com")

	rec := f.do(t, http.MethodPost, "/api/v1/accounts", token, map[string]string{"account_type_id": "checking"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("open account: status %d body %s", rec.Code, rec.Body)
	}
	var opened models.Account
	decodeJSON(t, rec, &opened)
	if !opened.IsPrimary {
		t.Error("first opened account not primary")
	}

	rec = f.do(t, http.MethodGet, "/api/v1/accounts", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list accounts: status %d", rec.Code)
	}
	var list []models.Account
	decodeJSON(t, rec, &list)
	if len(list) != 1 || list[0].ID != opened.ID {
		t.Errorf("list = %d accounts, want the opened one", len(list))
	}

	if rec := f.do(t, http.MethodGet, "/api/v1/accounts", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated list status = %d, want 401", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
}
