// Package testutil provides fixtures and helpers shared by reshape tests.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/akhildatla/reshape/pkg/table"
)

// TempCSV creates a temporary CSV file and returns its path.
// The file is automatically cleaned up when the test finishes.
func TempCSV(t *testing.T, content string) string {
	t.Helper()
	return TempFile(t, content, ".csv")
}

// TempFile creates a temporary file with the given content and extension.
func TempFile(t *testing.T, content, ext string) string {
	t.Helper()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test"+ext)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// SalesCSV returns standard test CSV content for sales data.
func SalesCSV() string {
	return `region,q1,q2,notes
north,10.5,12,ok
south,20,18,
east,5,7.5,late`
}

// SimpleCSV returns minimal test CSV content.
func SimpleCSV() string {
	return `colA,colB
1,3
2,4`
}

// MakeSimpleTable returns {colA:[1,2], colB:[3,4]} with the default index.
func MakeSimpleTable() *table.Table {
	return table.MustNew(nil,
		table.Column{Name: "colA", Values: []any{1, 2}},
		table.Column{Name: "colB", Values: []any{3, 4}},
	)
}

// MakeSalesTable returns the table described by SalesCSV.
func MakeSalesTable() *table.Table {
	return table.MustNew(nil,
		table.Column{Name: "region", Values: []any{"north", "south", "east"}},
		table.Column{Name: "q1", Values: []any{10.5, 20.0, 5.0}},
		table.Column{Name: "q2", Values: []any{12.0, 18.0, 7.5}},
		table.Column{Name: "notes", Values: []any{"ok", nil, "late"}},
	)
}

// NewStore returns a store holding the given name/table pairs in order.
func NewStore(pairs ...any) *table.Store {
	s := table.NewStore()
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Put(pairs[i].(string), pairs[i+1].(*table.Table))
	}
	return s
}

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
