package integration_test

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"sendiab_backend/internal/config"
	"sendiab_backend/internal/store"
	"sendiab_backend/test/helpers"
)

// Accounts created through one server instance survive a restart against
// the same snapshot file, credentials included.
func TestAccountsSurviveRestart(t *testing.T) {
	snapshotPath := filepath.Join(t.TempDir(), "accounts.json")
	withSnapshot := func(cfg *config.Config) {
		cfg.Data.AccountsPath = snapshotPath
	}

	first := helpers.NewTestServer(t, withSnapshot)
	secret := first.CreateAccount(t, store.CreateAccountParams{
		AccountID:   "dr-sow",
		DisplayName: "Dr. Sow",
		PlanID:      "standard",
	})
	first.Server.Close()

	second := helpers.NewTestServer(t, withSnapshot)
	token := second.Login(t, "dr-sow", secret)

	res, body := second.SendRequest(t, "GET", "/api/v1/accounts/me", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "standard")
	assert.Contains(t, body, "Dr. Sow")
}
