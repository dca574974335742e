package tray

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ayusman/hologram/internal/app"
	"github.com/ayusman/hologram/internal/gesture"
	"github.com/ayusman/hologram/internal/server"
)

func TestTray_Toggle(t *testing.T) {
	tr := New()
	if !tr.IsEnabled() {
		t.Fatal("tray should start enabled")
	}

	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	tr.handleToggle()
	tr.handleToggle()

	if len(got) != 2 || got[0] != false || got[1] != true {
		t.Errorf("toggle callbacks = %v, want [false true]", got)
	}
	if !tr.IsEnabled() {
		t.Error("two toggles should leave tracking enabled")
	}
}

func TestTray_SetEnabledSkipsCallback(t *testing.T) {
	tr := New()
	called := false
	tr.OnToggle(func(bool) { called = true })

	tr.SetEnabled(false)
	if tr.IsEnabled() {
		t.Error("SetEnabled(false) should disable")
	}
	if called {
		t.Error("SetEnabled should not fire the toggle callback")
	}
}

func TestTray_FollowsTrackingAPI(t *testing.T) {
	session := app.New(app.Config{Filter: gesture.DefaultConfig()}, app.Options{})
	srv := server.New(server.Config{Session: session})

	tr := New()
	tr.SetEnabled(session.Enabled())
	tr.OnToggle(session.SetEnabled)
	session.OnEnabledChange(tr.SetEnabled)

	req := httptest.NewRequest(http.MethodPut, "/api/tracking", strings.NewReader(`{"enabled":false}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	if tr.IsEnabled() {
		t.Fatal("tray should show tracking paused after the API paused it")
	}

	tr.handleToggle()
	if !session.Enabled() {
		t.Error("one click should resume tracking")
	}
	if !tr.IsEnabled() {
		t.Error("tray should show tracking resumed")
	}
}

func TestTray_Render(t *testing.T) {
	tests := []struct {
		name  string
		frame gesture.Frame
		want  string
	}{
		{"dragging", gesture.Frame{State: gesture.Dragging, Tracking: true, Phase: gesture.Visible}, "dragging"},
		{"hovering", gesture.Frame{State: gesture.Hovering, Tracking: true, Phase: gesture.Visible}, "hovering"},
		{"visible without hand", gesture.Frame{Phase: gesture.Visible}, "idle"},
		{"hidden", gesture.Frame{Phase: gesture.Hidden}, "hidden"},
	}

	tr := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr.Render(tt.frame)
			if got := tr.State(); got != tt.want {
				t.Errorf("State() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTray_OpenCallback(t *testing.T) {
	tr := New()
	tr.handleOpen()

	opened := false
	tr.OnOpen(func() { opened = true })
	tr.handleOpen()
	if !opened {
		t.Error("expected open callback")
	}
}
