package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/deepnoodle-ai/chisel/slogger"
	"github.com/stretchr/testify/require"
)

// replaceFile swaps the file content with a rename, the way editors
// save, so the watcher sees a single create event with complete content.
func replaceFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0644))
	require.NoError(t, os.Rename(tmp, path))
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chisel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("LogLevel: info\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seen []*Config
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, slogger.Nop(), func(config *Config) {
			mu.Lock()
			seen = append(seen, config)
			mu.Unlock()
		})
	}()

	// Give the watcher time to register before the first change lands
	time.Sleep(100 * time.Millisecond)

	replaceFile(t, path, "LogLevel: debug\n")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[len(seen)-1].LogLevel == "debug"
	}, 5*time.Second, 25*time.Millisecond)

	// A revision that fails validation is skipped
	time.Sleep(DefaultWatchDebounce + 100*time.Millisecond)
	replaceFile(t, path, "LogLevel: shouting\n")

	time.Sleep(DefaultWatchDebounce + 100*time.Millisecond)
	replaceFile(t, path, "LogLevel: warn\n")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[len(seen)-1].LogLevel == "warn"
	}, 5*time.Second, 25*time.Millisecond)

	mu.Lock()
	for _, config := range seen {
		require.NotEqual(t, "shouting", config.LogLevel)
	}
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), "/nonexistent/chisel.yaml", slogger.Nop(), func(*Config) {})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to watch directory")
}
