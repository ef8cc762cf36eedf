package store

import (
	"sync"
	"time"

	"sendiab_backend/internal/models"
)

// DefaultListLimit caps reading listings when the caller gives no limit.
const DefaultListLimit = 50

// ReadingStore is the append-only log of submitted readings, ordered most
// recent first. There is no update or delete path.
type ReadingStore interface {
	Append(reading *models.Reading)
	ListFor(accountID string, limit int) []*models.Reading
	Len() int
}

type ReadingStoreImpl struct {
	mu       sync.Mutex
	readings []*models.Reading // index 0 = newest
	lastID   int64
}

func NewReadingStore() *ReadingStoreImpl {
	return &ReadingStoreImpl{}
}

// Append inserts the reading at the front of the log. IDs are derived
// from the creation timestamp and bumped when two appends land in the
// same millisecond, so they stay strictly monotonic.
func (s *ReadingStoreImpl) Append(reading *models.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reading.CreatedAt.IsZero() {
		reading.CreatedAt = time.Now()
	}
	id := reading.CreatedAt.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	reading.ID = id

	s.readings = append([]*models.Reading{reading}, s.readings...)
}

// ListFor returns at most limit readings owned by the account, newest
// first. limit <= 0 selects DefaultListLimit.
func (s *ReadingStoreImpl) ListFor(accountID string, limit int) []*models.Reading {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Reading, 0, limit)
	for _, r := range s.readings {
		if r.AccountID != accountID {
			continue
		}
		dup := *r
		out = append(out, &dup)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (s *ReadingStoreImpl) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.readings)
}
