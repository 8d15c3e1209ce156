package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceWatcherDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "petstore.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(doc, []byte("openapi: 3.0.3\n"), 0o644))

	sw, err := NewSourceWatcher([]string{doc}, 100*time.Millisecond)
	require.NoError(t, err)

	batches := make(chan []string, 10)
	sw.OnChange(func(changed []string) error {
		batches <- changed
		return nil
	})
	sw.Start()
	defer sw.Stop()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(doc, []byte("openapi: 3.0.3\n# edit\n"), 0o644))
	}
	// unwatched files in the same directory are ignored
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))

	select {
	case changed := <-batches:
		want, err := filepath.Abs(doc)
		require.NoError(t, err)
		assert.Equal(t, []string{want}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case changed := <-batches:
		t.Fatalf("unexpected second batch %v", changed)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestNewSourceWatcherNothingToWatch(t *testing.T) {
	_, err := NewSourceWatcher(nil, time.Millisecond)
	assert.Error(t, err)
}

func TestNewSourceWatcherMissingDirectory(t *testing.T) {
	_, err := NewSourceWatcher([]string{filepath.Join(t.TempDir(), "gone", "api.yaml")}, time.Millisecond)
	assert.Error(t, err)
}
