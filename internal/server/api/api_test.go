package api

import (
	"path/filepath"
	"testing"

	"github.com/ayusman/hologram/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// seedSession creates a session with the given event kinds, one second apart.
func seedSession(t *testing.T, s *store.Store, kinds ...string) *store.Session {
	t.Helper()

	sess := &store.Session{}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	for i, kind := range kinds {
		e := &store.Event{SessionID: sess.ID, Kind: kind, At: float64(i + 1), Scale: 1}
		if err := s.Events().Append(e); err != nil {
			t.Fatalf("failed to append event: %v", err)
		}
	}
	return sess
}
