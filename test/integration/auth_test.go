package integration_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"sendiab_backend/internal/store"
	"sendiab_backend/test/helpers"
)

func TestLogin_Success(t *testing.T) {
	ts := helpers.NewTestServer(t, nil)

	secret := ts.CreateAccount(t, store.CreateAccountParams{
		AccountID:   "dr-sow",
		DisplayName: "Dr. Sow",
		Email:       "sow@clinic.sn",
	})

	res, body := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", map[string]string{
		"identifier": "dr-sow",
		"secret":     secret,
	})

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "access_token")
	assert.Contains(t, body, "Dr. Sow")
}

func TestLogin_ByEmail(t *testing.T) {
	ts := helpers.NewTestServer(t, nil)

	secret := ts.CreateAccount(t, store.CreateAccountParams{
		AccountID: "dr-sow",
		Email:     "sow@clinic.sn",
	})

	res, _ := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", map[string]string{
		"identifier": "sow@clinic.sn",
		"secret":     secret,
	})

	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestLogin_BadSecret(t *testing.T) {
	ts := helpers.NewTestServer(t, nil)

	ts.CreateAccount(t, store.CreateAccountParams{AccountID: "dr-sow"})

	res, body := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", map[string]string{
		"identifier": "dr-sow",
		"secret":     "not-the-secret",
	})

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, body, "Invalid identifier or secret")
}

func TestLogin_UnknownAccount(t *testing.T) {
	ts := helpers.NewTestServer(t, nil)

	res, _ := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", map[string]string{
		"identifier": "nobody",
		"secret":     "whatever",
	})

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestSession_ReportsPrincipal(t *testing.T) {
	ts := helpers.NewTestServer(t, nil)

	secret := ts.CreateAccount(t, store.CreateAccountParams{
		AccountID:   "dr-sow",
		DisplayName: "Dr. Sow",
	})
	token := ts.Login(t, "dr-sow", secret)

	res, body := ts.SendRequest(t, "GET", "/api/v1/auth/session", token, nil)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"logged_in":true`)
	assert.Contains(t, body, "dr-sow")
}

func TestProtectedRoute_RequiresToken(t *testing.T) {
	ts := helpers.NewTestServer(t, nil)

	res, _ := ts.SendRequest(t, "GET", "/api/v1/accounts/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendRequest(t, "GET", "/api/v1/accounts/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}
