package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"sendiab_backend/internal/models"
)

// Snapshotter is the persistence collaborator for the account ledger.
// The ledger owns its state in memory; the snapshotter only loads the
// initial record set and persists the full set after each mutation.
type Snapshotter interface {
	Load() ([]*models.Account, error)
	Save(accounts []*models.Account) error
}

// FileSnapshotter persists the ledger as a JSON file. Writes go to a temp
// file first and are renamed into place so a crash mid-write never leaves
// a truncated snapshot.
type FileSnapshotter struct {
	path string
}

func NewFileSnapshotter(path string) *FileSnapshotter {
	return &FileSnapshotter{path: path}
}

func (s *FileSnapshotter) Load() ([]*models.Account, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot: read %s: %w", s.path, err)
	}

	var snapshot struct {
		Accounts []*models.Account `json:"accounts"`
		Secrets  map[string]string `json:"secrets"`
	}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("snapshot: parse %s: %w", s.path, err)
	}

	// Secret hashes are tagged json:"-" on the model so they never show up
	// in API responses; the snapshot carries them in a side map instead.
	for _, acc := range snapshot.Accounts {
		acc.SecretHash = snapshot.Secrets[acc.AccountID]
	}
	return snapshot.Accounts, nil
}

func (s *FileSnapshotter) Save(accounts []*models.Account) error {
	secrets := make(map[string]string, len(accounts))
	for _, acc := range accounts {
		secrets[acc.AccountID] = acc.SecretHash
	}

	data, err := json.MarshalIndent(struct {
		Accounts []*models.Account `json:"accounts"`
		Secrets  map[string]string `json:"secrets"`
	}{Accounts: accounts, Secrets: secrets}, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("snapshot: mkdir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("snapshot: rename: %w", err)
	}
	return nil
}

// NoopSnapshotter keeps the ledger memory-only. Used in tests.
type NoopSnapshotter struct{}

func (NoopSnapshotter) Load() ([]*models.Account, error) { return nil, nil }
func (NoopSnapshotter) Save([]*models.Account) error     { return nil }
