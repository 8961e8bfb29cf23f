package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	accounthttp "github.com/AlibekovAA/storefront/internal/account/http"
	"github.com/AlibekovAA/storefront/internal/account/service"
	"github.com/AlibekovAA/storefront/internal/common/clock"
	"github.com/AlibekovAA/storefront/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/storefront/internal/common/crypto"
	"github.com/AlibekovAA/storefront/internal/common/logger"
	userrepo "github.com/AlibekovAA/storefront/internal/user/repository"
)

type errorEnvelope struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

type sessionBody struct {
	User struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Language string `json:"language"`
	} `json:"user"`
	Token string `json:"token"`
}

func setupHandler(t *testing.T) http.Handler {
	t.Helper()
	log := logger.NewWithWriter(io.Discard, "test", "ERROR")
	c := clock.NewRealClock()
	repo := userrepo.NewMemoryRepository(commoncrypto.NewUUIDGenerator())
	tokens := service.NewTokenIssuer(constants.TestJWTSecret, commoncrypto.NewUUIDGenerator(), time.Hour, c)
	svc := service.NewAccountService(repo, commoncrypto.NewBcryptHasher(bcrypt.MinCost), tokens, nil, nil, c, "es", log)
	return accounthttp.NewHandler(svc, constants.TestJWTSecret, 5*time.Second, log)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return env
}

var registerBody = map[string]string{
	"username": "ana",
	"email":    "ana@example.com",
	"password": "password123",
}

func TestAccountHTTP_Register_Created(t *testing.T) {
	h := setupHandler(t)

	rec := postJSON(t, h, "/api/accounts/register", registerBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not include password data")
	}

	var body sessionBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Token == "" || body.User.ID == "" {
		t.Errorf("expected user and token, got %+v", body)
	}
	if body.User.Language != "es" {
		t.Errorf("expected default language es, got %q", body.User.Language)
	}
}

func TestAccountHTTP_Register_Duplicate(t *testing.T) {
	h := setupHandler(t)

	if rec := postJSON(t, h, "/api/accounts/register", registerBody); rec.Code != http.StatusCreated {
		t.Fatalf("first register: %d", rec.Code)
	}
	rec := postJSON(t, h, "/api/accounts/register", registerBody)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "DUPLICATE_ACCOUNT" {
		t.Errorf("expected DUPLICATE_ACCOUNT, got %s", env.Code)
	}
}

func TestAccountHTTP_Register_InvalidJSON(t *testing.T) {
	h := setupHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/accounts/register", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "INVALID_JSON" {
		t.Errorf("expected INVALID_JSON, got %s", env.Code)
	}
}

func TestAccountHTTP_Register_ValidationDetails(t *testing.T) {
	h := setupHandler(t)

	rec := postJSON(t, h, "/api/accounts/register", map[string]string{
		"username": "ana",
		"email":    "not-an-email",
		"password": "password123",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != "VALIDATION_FAILED" {
		t.Errorf("expected VALIDATION_FAILED, got %s", env.Code)
	}
	reason, _ := env.Details["reason"].(string)
	if !strings.Contains(reason, "email") {
		t.Errorf("expected reason to mention email, got %q", reason)
	}
}

func TestAccountHTTP_Register_MethodNotAllowed(t *testing.T) {
	h := setupHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/register", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestAccountHTTP_Login(t *testing.T) {
	h := setupHandler(t)

	reg := postJSON(t, h, "/api/accounts/register", registerBody)
	var registered sessionBody
	_ = json.NewDecoder(reg.Body).Decode(&registered)

	rec := postJSON(t, h, "/api/accounts/login", map[string]string{
		"email":    "ana@example.com",
		"password": "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body sessionBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Token == "" || body.Token == registered.Token {
		t.Error("expected a fresh token on login")
	}
}

func TestAccountHTTP_Login_Errors(t *testing.T) {
	h := setupHandler(t)
	postJSON(t, h, "/api/accounts/register", registerBody)

	cases := []struct {
		name   string
		body   map[string]string
		status int
		code   string
	}{
		{"unknown email", map[string]string{"email": "ghost@example.com", "password": "password123"}, http.StatusNotFound, "ACCOUNT_NOT_FOUND"},
		{"wrong password", map[string]string{"email": "ana@example.com", "password": "wrongpass1"}, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, h, "/api/accounts/login", tc.body)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if env := decodeEnvelope(t, rec); env.Code != tc.code {
				t.Errorf("expected %s, got %s", tc.code, env.Code)
			}
		})
	}
}

func TestAccountHTTP_ListUsers_RequiresToken(t *testing.T) {
	h := setupHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/users", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "MISSING_AUTHORIZATION" {
		t.Errorf("expected MISSING_AUTHORIZATION, got %s", env.Code)
	}
}

func TestAccountHTTP_ListUsers_Redacted(t *testing.T) {
	h := setupHandler(t)

	reg := postJSON(t, h, "/api/accounts/register", registerBody)
	var registered sessionBody
	if err := json.NewDecoder(reg.Body).Decode(&registered); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/users", nil)
	req.Header.Set("Authorization", "Bearer "+registered.Token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	raw := rec.Body.String()
	if strings.Contains(raw, registered.Token) || strings.Contains(raw, "$2a$") {
		t.Errorf("list response leaks secrets: %s", raw)
	}

	var body struct {
		Users []map[string]any `json:"users"`
	}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Users) != 1 || body.Users[0]["email"] != "ana@example.com" {
		t.Errorf("unexpected users: %v", body.Users)
	}
}
