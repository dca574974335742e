package store

import (
	"testing"
)

func newTestSession(t *testing.T, s *Store) *Session {
	t.Helper()

	sess := &Session{}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return sess
}

func TestEventRepository_AppendAndList(t *testing.T) {
	s := newTestStore(t)
	sess := newTestSession(t, s)
	repo := s.Events()

	journal := []*Event{
		{SessionID: sess.ID, Kind: "show", At: 0.51, Scale: 0},
		{SessionID: sess.ID, Kind: "grab", At: 1.2, Scale: 0.97, State: "dragging"},
		{SessionID: sess.ID, Kind: "release", At: 2.4, X: -1, Y: 0.5, Scale: 1},
	}
	for _, e := range journal {
		if err := repo.Append(e); err != nil {
			t.Fatalf("failed to append %s: %v", e.Kind, err)
		}
		if e.ID == "" {
			t.Errorf("%s event should get an ID", e.Kind)
		}
	}

	events, err := repo.ListBySession(sess.ID)
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if len(events) != len(journal) {
		t.Fatalf("expected %d events, got %d", len(journal), len(events))
	}

	for i, e := range events {
		if e.Kind != journal[i].Kind {
			t.Errorf("event %d kind = %q, want %q", i, e.Kind, journal[i].Kind)
		}
	}
	if events[0].State != "idle" {
		t.Errorf("default state = %q, want idle", events[0].State)
	}
	if events[2].X != -1 || events[2].Y != 0.5 {
		t.Errorf("release position = (%v, %v), want (-1, 0.5)", events[2].X, events[2].Y)
	}
}

func TestEventRepository_AppendRejectsUnknownKind(t *testing.T) {
	s := newTestStore(t)
	sess := newTestSession(t, s)

	if err := s.Events().Append(&Event{SessionID: sess.ID, Kind: "wave"}); err == nil {
		t.Error("expected error for unknown event kind")
	}
}

func TestEventRepository_AppendRequiresSession(t *testing.T) {
	s := newTestStore(t)

	if err := s.Events().Append(&Event{SessionID: "missing", Kind: "show"}); err == nil {
		t.Error("expected foreign key error for unknown session")
	}
}

func TestEventRepository_Recent(t *testing.T) {
	s := newTestStore(t)
	sess := newTestSession(t, s)
	repo := s.Events()

	for i := 0; i < 5; i++ {
		if err := repo.Append(&Event{SessionID: sess.ID, Kind: "show", At: float64(i)}); err != nil {
			t.Fatalf("failed to append event: %v", err)
		}
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"limited", 3, 3},
		{"larger than journal", 10, 5},
		{"zero uses default", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := repo.Recent(tt.limit)
			if err != nil {
				t.Fatalf("failed to list recent events: %v", err)
			}
			if len(events) != tt.want {
				t.Errorf("expected %d events, got %d", tt.want, len(events))
			}
		})
	}
}

func TestEventRepository_RecentEmpty(t *testing.T) {
	s := newTestStore(t)

	events, err := s.Events().Recent(10)
	if err != nil {
		t.Fatalf("failed to list recent events: %v", err)
	}
	if events == nil {
		t.Error("empty journal should return an empty slice, not nil")
	}
}

func TestEventRepository_CountByKind(t *testing.T) {
	s := newTestStore(t)
	sess := newTestSession(t, s)
	other := newTestSession(t, s)
	repo := s.Events()

	kinds := []string{"show", "grab", "release", "grab", "release", "hide"}
	for i, k := range kinds {
		if err := repo.Append(&Event{SessionID: sess.ID, Kind: k, At: float64(i)}); err != nil {
			t.Fatalf("failed to append event: %v", err)
		}
	}
	if err := repo.Append(&Event{SessionID: other.ID, Kind: "grab"}); err != nil {
		t.Fatalf("failed to append event: %v", err)
	}

	counts, err := repo.CountByKind(sess.ID)
	if err != nil {
		t.Fatalf("failed to count events: %v", err)
	}

	want := map[string]int{"show": 1, "grab": 2, "release": 2, "hide": 1}
	for k, n := range want {
		if counts[k] != n {
			t.Errorf("count[%s] = %d, want %d", k, counts[k], n)
		}
	}
}
