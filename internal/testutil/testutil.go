// Package testutil provides shared test helpers for setting up a data
// directory and an application core.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/synapse/synapse/internal/service"
)

// Logger returns a logger that discards everything below error level.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// Core opens a core over an in-memory database and a temporary data
// directory. Both are released when the test ends.
func Core(t *testing.T) *service.Core {
	t.Helper()
	c, err := service.OpenInMemory(t.TempDir(), service.WithLogger(Logger()))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// FileCore is like Core but keeps the database in a file inside the data
// directory, so a second Open can see the same state. It returns the data
// directory and database path alongside the core.
func FileCore(t *testing.T) (*service.Core, string, string) {
	t.Helper()
	dataDir := t.TempDir()
	dbPath := filepath.Join(dataDir, "synapse.db")
	c, err := service.Open(dbPath, dataDir, service.WithLogger(Logger()))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c, dataDir, dbPath
}

// WriteFile writes content to rel under dir, creating parents.
func WriteFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
