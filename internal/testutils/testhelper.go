// Package testutils holds assertions and helpers shared by the package tests.
package testutils

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

// TestHelper bundles a logger whose output is kept for assertions
type TestHelper struct {
	T      testing.TB
	Logger *logrus.Logger

	mu  sync.Mutex
	buf bytes.Buffer
}

// NewTestHelper creates a helper with a debug-level logger writing to an in-memory buffer.
func NewTestHelper(t testing.TB) *TestHelper {
	h := &TestHelper{T: t}
	h.Logger = logrus.New()
	h.Logger.SetLevel(logrus.DebugLevel) // debug logs help to trace failing tests
	h.Logger.SetOutput(lockedWriter{h})
	h.Logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return h
}

// Logs returns everything logged so far
func (h *TestHelper) Logs() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buf.String()
}

type lockedWriter struct{ h *TestHelper }

func (w lockedWriter) Write(p []byte) (int, error) {
	w.h.mu.Lock()
	defer w.h.mu.Unlock()
	return w.h.buf.Write(p)
}

// WriteFile writes content to name inside a per-test temp dir and returns the path
func (h *TestHelper) WriteFile(name, content string) string {
	h.T.Helper()
	path := filepath.Join(h.T.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		h.T.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
