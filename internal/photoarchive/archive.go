package photoarchive

import (
	"context"
	"fmt"
	"io"
)

// Archive keeps a durable copy of submitted meter photos. The reading
// log holds the payload in memory for the session; the archive is the
// long-term record, keyed per account and reading.
type Archive interface {
	// Put stores a photo under the given key.
	Put(ctx context.Context, key string, image []byte, contentType string) error

	// Get retrieves an archived photo.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an archived photo. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// Config selects and parameterizes the archive backend.
type Config struct {
	Type      string // "none", "local" or "r2"
	BasePath  string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// New builds the archive named by cfg.Type.
func New(cfg Config) (Archive, error) {
	switch cfg.Type {
	case "", "none":
		return NoopArchive{}, nil
	case "local":
		return NewLocalArchive(cfg)
	case "r2":
		return NewR2Archive(cfg)
	default:
		return nil, fmt.Errorf("photoarchive: unknown archive type %q", cfg.Type)
	}
}

// Key builds the canonical archive key for a reading's photo.
func Key(accountID string, readingID int64) string {
	return fmt.Sprintf("%s/%d.jpg", accountID, readingID)
}

// NoopArchive discards photos. Used when no archive is configured and in
// tests.
type NoopArchive struct{}

func (NoopArchive) Put(context.Context, string, []byte, string) error { return nil }
func (NoopArchive) Get(context.Context, string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("photoarchive: archiving is disabled")
}
func (NoopArchive) Delete(context.Context, string) error { return nil }
