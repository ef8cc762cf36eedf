package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"sendiab_backend/internal/app"
	"sendiab_backend/internal/config"
	"sendiab_backend/internal/logger"
	"sendiab_backend/internal/models"
	"sendiab_backend/internal/store"
)

// TestServer runs the full application over httptest with a temp-dir
// snapshot, so every test starts from an empty ledger.
type TestServer struct {
	Server   *httptest.Server
	Accounts store.AccountStore
	Config   *config.Config
}

// NewTestServer builds the application against a fresh config. mutate
// runs before wiring and is the place to point the vision endpoint at a
// stub server.
func NewTestServer(t *testing.T, mutate func(cfg *config.Config)) *TestServer {
	t.Helper()

	logger.Init("test")

	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.Auth.JWTSecret = "integration-test-secret"
	cfg.Data.AccountsPath = filepath.Join(t.TempDir(), "accounts.json")
	if mutate != nil {
		mutate(cfg)
	}

	router, accounts, err := app.SetupRouter(cfg)
	if err != nil {
		t.Fatalf("failed to set up test server: %v", err)
	}

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{
		Server:   server,
		Accounts: accounts,
		Config:   cfg,
	}
}

// CreateAccount provisions an account directly in the ledger and returns
// its one-time secret.
func (ts *TestServer) CreateAccount(t *testing.T, params store.CreateAccountParams) string {
	t.Helper()

	if params.Role == "" {
		params.Role = models.AccountRolePractitioner
	}
	if params.PlanID == "" && params.Role != models.AccountRoleAdmin {
		params.PlanID = "starter"
	}
	_, secret, err := ts.Accounts.Create(params)
	if err != nil {
		t.Fatalf("failed to create account %q: %v", params.AccountID, err)
	}
	return secret
}

// Login authenticates through the API and returns the access token.
func (ts *TestServer) Login(t *testing.T, identifier, secret string) string {
	t.Helper()

	res, body := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", map[string]string{
		"identifier": identifier,
		"secret":     secret,
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login for %q failed with status %d: %s", identifier, res.StatusCode, body)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		t.Fatalf("failed to parse login response: %v", err)
	}
	return parsed.AccessToken
}

// SendRequest performs a JSON request against the test server.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return ts.do(t, req)
}

// SendPhoto posts a multipart reading submission with the photo payload
// under the "photo" field plus the given form fields.
func (ts *TestServer) SendPhoto(t *testing.T, token string, photo []byte, fields map[string]string) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if photo != nil {
		part, err := writer.CreateFormFile("photo", "meter.jpg")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(photo); err != nil {
			t.Fatalf("failed to write photo payload: %v", err)
		}
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write form field %q: %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req, err := http.NewRequest("POST", ts.Server.URL+"/api/v1/readings", &buf)
	if err != nil {
		t.Fatalf("failed to build upload request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return ts.do(t, req)
}

func (ts *TestServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return res, string(resBody)
}

// StubVision runs a chat-completions stub that always answers with the
// given reading value.
func StubVision(t *testing.T, value string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": value}},
			},
		}
		json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)
	return server
}
