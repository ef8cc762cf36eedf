package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"sendiab_backend/internal/auth"
	"sendiab_backend/internal/catalog"
	"sendiab_backend/internal/models"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account id already exists")
	ErrInvalidPlan      = errors.New("unknown license plan")
	ErrAuthFailed       = errors.New("invalid identifier or secret")
	ErrQuotaExhausted   = errors.New("photo quota exhausted")
	ErrNoReservation    = errors.New("no quota reservation held")
)

// AccountStore is the account ledger: the in-memory record set of
// practitioner accounts plus quota accounting.
type AccountStore interface {
	Create(params CreateAccountParams) (*models.Account, string, error)
	Authenticate(identifier, secret string) (*models.Account, error)
	Get(accountID string) (*models.Account, error)
	ListAll(excludeRoles ...models.AccountRole) []*models.Account
	SetStatus(accountID string, status models.AccountStatus) error
	ExpireOverdue(now time.Time) (int, error)

	ReserveQuota(accountID string) error
	CommitQuota(accountID string) (*models.Account, error)
	ReleaseQuota(accountID string)

	Stats() *LedgerStats
}

type CreateAccountParams struct {
	AccountID   string
	DisplayName string
	Email       string
	Phone       string
	PlanID      string
	Role        models.AccountRole
	// Secret overrides the generated one-time secret. Only the admin
	// seeding path sets it; practitioner creation always generates.
	Secret string
}

// LedgerStats is the admin reporting fold over the ledger. Admin accounts
// are excluded from every figure.
type LedgerStats struct {
	TotalPractitioners int     `json:"total_practitioners"`
	ActiveCount        int     `json:"active_count"`
	PhotosSold         int     `json:"photos_sold"`
	Revenue            float64 `json:"revenue"`
	PhotosUsed         int     `json:"photos_used"`
}

// AccountStoreImpl owns the record set. All access is serialized behind a
// single mutex; this is the serialization point for the quota
// check-then-commit contract. Quota reservations are process-local and are
// not persisted: a crash simply abandons them.
type AccountStoreImpl struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	order    []string
	reserved map[string]int
	snap     Snapshotter
	catalog  *catalog.Catalog
}

// NewAccountStore loads the persisted snapshot and returns a ready ledger.
func NewAccountStore(snap Snapshotter, cat *catalog.Catalog) (*AccountStoreImpl, error) {
	loaded, err := snap.Load()
	if err != nil {
		return nil, fmt.Errorf("account store: load snapshot: %w", err)
	}

	s := &AccountStoreImpl{
		accounts: make(map[string]*models.Account, len(loaded)),
		reserved: make(map[string]int),
		snap:     snap,
		catalog:  cat,
	}
	for _, acc := range loaded {
		s.accounts[acc.AccountID] = acc
		s.order = append(s.order, acc.AccountID)
	}
	return s, nil
}

// Create provisions a practitioner account against a license plan. The
// plaintext secret is returned exactly once and only its hash is stored.
func (s *AccountStoreImpl) Create(params CreateAccountParams) (*models.Account, string, error) {
	// Admin accounts carry no license; everyone else must reference a plan.
	var plan *catalog.Plan
	if params.Role != models.AccountRoleAdmin {
		var err error
		plan, err = s.catalog.Lookup(params.PlanID)
		if err != nil {
			return nil, "", ErrInvalidPlan
		}
	}

	secret := params.Secret
	if secret == "" {
		generated, err := auth.GenerateSecret()
		if err != nil {
			return nil, "", err
		}
		secret = generated
	}
	hash, err := auth.HashSecret(secret)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	account := &models.Account{
		AccountID:   params.AccountID,
		DisplayName: params.DisplayName,
		Email:       params.Email,
		Phone:       params.Phone,
		SecretHash:  hash,
		Role:        params.Role,
		ActivatedOn: now,
		Status:      models.AccountStatusActive,
		CreatedAt:   now,
	}
	if account.Role == "" {
		account.Role = models.AccountRolePractitioner
	}
	if plan != nil {
		account.PlanID = plan.ID
		account.PhotosAllowed = plan.PhotoAllowance
		account.ExpiresOn = now.AddDate(0, 0, plan.ValidityDays)
	} else {
		// Admins never expire and have no upload quota.
		account.ExpiresOn = now.AddDate(100, 0, 0)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[params.AccountID]; exists {
		return nil, "", ErrDuplicateAccount
	}

	s.accounts[params.AccountID] = account
	s.order = append(s.order, params.AccountID)

	if err := s.persistLocked(); err != nil {
		delete(s.accounts, params.AccountID)
		s.order = s.order[:len(s.order)-1]
		return nil, "", err
	}

	return copyAccount(account), secret, nil
}

// Authenticate matches the identifier against account ID or email and
// verifies the secret. Unknown identifier and wrong secret are the same
// failure on purpose.
func (s *AccountStoreImpl) Authenticate(identifier, secret string) (*models.Account, error) {
	s.mu.Lock()
	account := s.findByIdentifierLocked(identifier)
	s.mu.Unlock()

	// bcrypt comparison happens outside the lock; it is deliberately slow.
	if account == nil || account.Status != models.AccountStatusActive {
		return nil, ErrAuthFailed
	}
	if !auth.CheckSecretHash(secret, account.SecretHash) {
		return nil, ErrAuthFailed
	}
	return account, nil
}

func (s *AccountStoreImpl) findByIdentifierLocked(identifier string) *models.Account {
	if acc, ok := s.accounts[identifier]; ok {
		return copyAccount(acc)
	}
	for _, acc := range s.accounts {
		if acc.Email != "" && acc.Email == identifier {
			return copyAccount(acc)
		}
	}
	return nil
}

func (s *AccountStoreImpl) Get(accountID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return copyAccount(account), nil
}

// ListAll returns accounts in creation order, skipping the given roles.
func (s *AccountStoreImpl) ListAll(excludeRoles ...models.AccountRole) []*models.Account {
	excluded := make(map[models.AccountRole]bool, len(excludeRoles))
	for _, r := range excludeRoles {
		excluded[r] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Account, 0, len(s.order))
	for _, id := range s.order {
		acc := s.accounts[id]
		if excluded[acc.Role] {
			continue
		}
		out = append(out, copyAccount(acc))
	}
	return out
}

func (s *AccountStoreImpl) SetStatus(accountID string, status models.AccountStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return ErrAccountNotFound
	}

	previous := account.Status
	account.Status = status
	if err := s.persistLocked(); err != nil {
		account.Status = previous
		return err
	}
	return nil
}

// ExpireOverdue marks active accounts whose expiry date has passed as
// inactive. Returns how many accounts were flipped.
func (s *AccountStoreImpl) ExpireOverdue(now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var flipped []*models.Account
	for _, acc := range s.accounts {
		if acc.Status == models.AccountStatusActive && acc.ExpiresOn.Before(now) {
			acc.Status = models.AccountStatusInactive
			flipped = append(flipped, acc)
		}
	}
	if len(flipped) == 0 {
		return 0, nil
	}

	if err := s.persistLocked(); err != nil {
		for _, acc := range flipped {
			acc.Status = models.AccountStatusActive
		}
		return 0, err
	}
	return len(flipped), nil
}

// ReserveQuota atomically claims one unit of quota. The claim counts
// in-flight uploads, so two concurrent requests can never both pass the
// check on the last remaining photo.
func (s *AccountStoreImpl) ReserveQuota(accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return ErrAccountNotFound
	}
	if account.PhotosUsed+s.reserved[accountID] >= account.PhotosAllowed {
		return ErrQuotaExhausted
	}
	s.reserved[accountID]++
	return nil
}

// CommitQuota converts a reservation into a consumed photo and persists
// the ledger before acknowledging. On a persistence failure the increment
// is rolled back and the reservation released, so the upload counts as
// not having happened.
func (s *AccountStoreImpl) CommitQuota(accountID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	if s.reserved[accountID] <= 0 {
		return nil, ErrNoReservation
	}

	s.releaseLocked(accountID)
	account.PhotosUsed++

	if err := s.persistLocked(); err != nil {
		account.PhotosUsed--
		return nil, err
	}
	return copyAccount(account), nil
}

// ReleaseQuota abandons a reservation after a failed upload.
func (s *AccountStoreImpl) ReleaseQuota(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked(accountID)
}

func (s *AccountStoreImpl) releaseLocked(accountID string) {
	if s.reserved[accountID] <= 1 {
		delete(s.reserved, accountID)
		return
	}
	s.reserved[accountID]--
}

// Stats folds the ledger into the admin summary.
func (s *AccountStoreImpl) Stats() *LedgerStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &LedgerStats{}
	for _, acc := range s.accounts {
		if acc.Role == models.AccountRoleAdmin {
			continue
		}
		stats.TotalPractitioners++
		if acc.Status == models.AccountStatusActive {
			stats.ActiveCount++
		}
		stats.PhotosSold += acc.PhotosAllowed
		stats.PhotosUsed += acc.PhotosUsed
		if plan, err := s.catalog.Lookup(acc.PlanID); err == nil {
			stats.Revenue += plan.Price
		}
	}
	return stats
}

// persistLocked writes the snapshot through while holding the store mutex,
// keeping the persisted state atomic with the in-memory mutation.
func (s *AccountStoreImpl) persistLocked() error {
	all := make([]*models.Account, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.accounts[id])
	}
	return s.snap.Save(all)
}

func copyAccount(a *models.Account) *models.Account {
	dup := *a
	return &dup
}
