package store

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sendiab_backend/internal/catalog"
	"sendiab_backend/internal/models"
)

func newTestStore(t *testing.T) *AccountStoreImpl {
	t.Helper()
	s, err := NewAccountStore(NoopSnapshotter{}, catalog.Default())
	require.NoError(t, err)
	return s
}

func createPractitioner(t *testing.T, s *AccountStoreImpl, id, plan string) (*models.Account, string) {
	t.Helper()
	account, secret, err := s.Create(CreateAccountParams{
		AccountID:   id,
		DisplayName: "Dr " + id,
		Email:       id + "@clinic.test",
		Phone:       "+221770000000",
		PlanID:      plan,
	})
	require.NoError(t, err)
	return account, secret
}

func TestCreate(t *testing.T) {
	s := newTestStore(t)

	account, secret, err := s.Create(CreateAccountParams{
		AccountID:   "DOC001",
		DisplayName: "Dr Diop",
		Email:       "diop@clinic.test",
		PlanID:      "starter",
	})
	require.NoError(t, err)

	assert.Equal(t, "DOC001", account.AccountID)
	assert.Equal(t, models.AccountRolePractitioner, account.Role)
	assert.Equal(t, models.AccountStatusActive, account.Status)
	assert.Equal(t, 50, account.PhotosAllowed)
	assert.Equal(t, 0, account.PhotosUsed)
	assert.GreaterOrEqual(t, len(secret), 10)
	assert.NotEqual(t, secret, account.SecretHash)

	// expiry = activation + plan validity (90 days for starter)
	wantExpiry := account.ActivatedOn.AddDate(0, 0, 90)
	assert.WithinDuration(t, wantExpiry, account.ExpiresOn, time.Second)
}

func TestCreate_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	createPractitioner(t, s, "DOC001", "starter")

	_, _, err := s.Create(CreateAccountParams{AccountID: "DOC001", PlanID: "starter"})
	assert.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestCreate_UnknownPlan(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.Create(CreateAccountParams{AccountID: "DOC001", PlanID: "platinum"})
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestAuthenticate(t *testing.T) {
	s := newTestStore(t)
	account, secret := createPractitioner(t, s, "DOC001", "starter")

	// by account id
	principal, err := s.Authenticate("DOC001", secret)
	require.NoError(t, err)
	assert.Equal(t, account.AccountID, principal.AccountID)

	// by email
	principal, err = s.Authenticate("DOC001@clinic.test", secret)
	require.NoError(t, err)
	assert.Equal(t, account.AccountID, principal.AccountID)
}

func TestAuthenticate_FailuresAreIndistinct(t *testing.T) {
	s := newTestStore(t)
	_, secret := createPractitioner(t, s, "DOC001", "starter")

	_, unknownErr := s.Authenticate("DOC999", secret)
	_, wrongErr := s.Authenticate("DOC001", "not-the-secret")

	assert.ErrorIs(t, unknownErr, ErrAuthFailed)
	assert.ErrorIs(t, wrongErr, ErrAuthFailed)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthenticate_InactiveAccount(t *testing.T) {
	s := newTestStore(t)
	_, secret := createPractitioner(t, s, "DOC001", "starter")

	require.NoError(t, s.SetStatus("DOC001", models.AccountStatusInactive))

	_, err := s.Authenticate("DOC001", secret)
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestSecretNotDerivableFromRecord(t *testing.T) {
	s := newTestStore(t)
	_, secret := createPractitioner(t, s, "DOC001", "starter")

	stored, err := s.Get("DOC001")
	require.NoError(t, err)
	assert.NotContains(t, stored.SecretHash, secret)
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("DOC404")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestReserveCommitRelease(t *testing.T) {
	s := newTestStore(t)
	createPractitioner(t, s, "DOC001", "starter")

	require.NoError(t, s.ReserveQuota("DOC001"))
	account, err := s.CommitQuota("DOC001")
	require.NoError(t, err)
	assert.Equal(t, 1, account.PhotosUsed)

	// commit without a reservation is a caller bug
	_, err = s.CommitQuota("DOC001")
	assert.ErrorIs(t, err, ErrNoReservation)

	// a released reservation consumes nothing
	require.NoError(t, s.ReserveQuota("DOC001"))
	s.ReleaseQuota("DOC001")
	account, err = s.Get("DOC001")
	require.NoError(t, err)
	assert.Equal(t, 1, account.PhotosUsed)
}

func TestReserveQuota_Exhausted(t *testing.T) {
	cat, err := catalog.New([]catalog.Plan{
		{ID: "tiny", Name: "Tiny", PhotoAllowance: 1, ValidityDays: 30},
	})
	require.NoError(t, err)
	s, err := NewAccountStore(NoopSnapshotter{}, cat)
	require.NoError(t, err)
	createPractitioner(t, s, "DOC001", "tiny")

	require.NoError(t, s.ReserveQuota("DOC001"))
	_, err = s.CommitQuota("DOC001")
	require.NoError(t, err)

	assert.ErrorIs(t, s.ReserveQuota("DOC001"), ErrQuotaExhausted)
}

// Concurrent uploads against a single remaining photo: exactly one
// reservation may win, the rest fail with ErrQuotaExhausted, and the
// final count never exceeds the allowance.
func TestReserveQuota_ConcurrentSingleWinner(t *testing.T) {
	cat, err := catalog.New([]catalog.Plan{
		{ID: "tiny", Name: "Tiny", PhotoAllowance: 1, ValidityDays: 30},
	})
	require.NoError(t, err)
	s, err := NewAccountStore(NoopSnapshotter{}, cat)
	require.NoError(t, err)
	createPractitioner(t, s, "DOC001", "tiny")

	const parallel = 16
	var wg sync.WaitGroup
	results := make(chan error, parallel)

	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.ReserveQuota("DOC001"); err != nil {
				results <- err
				return
			}
			// simulate the slow analysis step outside the lock
			time.Sleep(5 * time.Millisecond)
			_, err := s.CommitQuota("DOC001")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, exhausted int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrQuotaExhausted):
			exhausted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, parallel-1, exhausted)

	account, err := s.Get("DOC001")
	require.NoError(t, err)
	assert.Equal(t, 1, account.PhotosUsed)
}

func TestExpireOverdue(t *testing.T) {
	s := newTestStore(t)
	createPractitioner(t, s, "DOC001", "starter")
	createPractitioner(t, s, "DOC002", "premium")

	// starter is valid 90 days, premium 365
	flipped, err := s.ExpireOverdue(time.Now().AddDate(0, 0, 120))
	require.NoError(t, err)
	assert.Equal(t, 1, flipped)

	expired, err := s.Get("DOC001")
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusInactive, expired.Status)

	valid, err := s.Get("DOC002")
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusActive, valid.Status)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	createPractitioner(t, s, "DOC001", "starter")  // 50 photos, 15000
	createPractitioner(t, s, "DOC002", "standard") // 200 photos, 45000

	_, _, err := s.Create(CreateAccountParams{
		AccountID: "admin",
		Role:      models.AccountRoleAdmin,
	})
	require.NoError(t, err)

	require.NoError(t, s.SetStatus("DOC002", models.AccountStatusInactive))
	require.NoError(t, s.ReserveQuota("DOC001"))
	_, err = s.CommitQuota("DOC001")
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, 2, stats.TotalPractitioners, "admin must not be counted")
	assert.Equal(t, 1, stats.ActiveCount)
	assert.Equal(t, 250, stats.PhotosSold)
	assert.Equal(t, float64(60000), stats.Revenue)
	assert.Equal(t, 1, stats.PhotosUsed)
}

func TestSnapshotRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	snap := NewFileSnapshotter(path)

	s, err := NewAccountStore(snap, catalog.Default())
	require.NoError(t, err)
	_, secret := createPractitioner(t, s, "DOC001", "starter")
	require.NoError(t, s.ReserveQuota("DOC001"))
	_, err = s.CommitQuota("DOC001")
	require.NoError(t, err)

	// a fresh store over the same file sees the persisted state
	reloaded, err := NewAccountStore(NewFileSnapshotter(path), catalog.Default())
	require.NoError(t, err)

	account, err := reloaded.Get("DOC001")
	require.NoError(t, err)
	assert.Equal(t, 1, account.PhotosUsed)

	// credentials survive the reload
	_, err = reloaded.Authenticate("DOC001", secret)
	assert.NoError(t, err)
}
