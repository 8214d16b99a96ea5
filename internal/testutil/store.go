package testutil

import (
	"context"
	"testing"

	"github.com/roach88/tickql/internal/store"
)

// NewMemoryStore opens an in-memory store and runs the optional setup SQL.
// The store is closed on test cleanup; closing it earlier is harmless.
func NewMemoryStore(t testing.TB, setup string) *store.Store {
	t.Helper()
	s, err := store.Open(store.MemoryPath)
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if setup != "" {
		if err := s.Exec(context.Background(), setup); err != nil {
			t.Fatalf("setup SQL: %v", err)
		}
	}
	return s
}
