package photoarchive

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalArchive_RoundTrip(t *testing.T) {
	archive, err := NewLocalArchive(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	key := Key("dr-sow", 1724760000000)
	payload := []byte("fake-meter-photo")

	require.NoError(t, archive.Put(context.Background(), key, payload, "image/jpeg"))

	reader, err := archive.Get(context.Background(), key)
	require.NoError(t, err)
	defer reader.Close()

	stored, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, payload, stored)

	require.NoError(t, archive.Delete(context.Background(), key))
	_, err = archive.Get(context.Background(), key)
	assert.Error(t, err)
}

func TestLocalArchive_DeleteMissingKey(t *testing.T) {
	archive, err := NewLocalArchive(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	assert.NoError(t, archive.Delete(context.Background(), Key("dr-sow", 1)))
}

func TestNew_SelectsBackend(t *testing.T) {
	archive, err := New(Config{Type: "none"})
	require.NoError(t, err)
	assert.IsType(t, NoopArchive{}, archive)

	archive, err = New(Config{Type: "local", BasePath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalArchive{}, archive)

	_, err = New(Config{Type: "ftp"})
	assert.Error(t, err)
}
