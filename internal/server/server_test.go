package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/hologram/internal/app"
	"github.com/ayusman/hologram/internal/detector"
	"github.com/ayusman/hologram/internal/gesture"
	"github.com/ayusman/hologram/internal/store"
)

func newTestSession(t *testing.T) *app.Session {
	t.Helper()
	return app.New(app.Config{Filter: gesture.DefaultConfig(), FrameRate: 60}, app.Options{})
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		contentType := rec.Header().Get("Content-Type")
		if contentType != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}

		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	for _, path := range []string{"/api/nonexistent", "/api/state", "/api/events"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusNotFound, rec.Code)
		}
	}
}

func TestServer_StaticFiles(t *testing.T) {
	tmpDir := t.TempDir()

	testContent := "<html><body>hologram</body></html>"
	if err := os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte(testContent), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	jsContent := "console.log('pose');"
	if err := os.WriteFile(filepath.Join(tmpDir, "app.js"), []byte(jsContent), 0644); err != nil {
		t.Fatalf("failed to create test JS file: %v", err)
	}

	s := New(Config{StaticDir: tmpDir})

	t.Run("serves index.html at root path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if rec.Body.String() != testContent {
			t.Errorf("expected body %q, got %q", testContent, rec.Body.String())
		}
	})

	t.Run("serves static files from configured directory", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/app.js", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if rec.Body.String() != jsContent {
			t.Errorf("expected body %q, got %q", jsContent, rec.Body.String())
		}
	})

	t.Run("returns 404 for non-existent static files", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nonexistent.html", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}

func TestServer_State(t *testing.T) {
	sess := newTestSession(t)
	s := New(Config{Session: sess})

	type state struct {
		Enabled bool `json:"enabled"`
		Running bool `json:"running"`
		Frame   *struct {
			Seq      uint64     `json:"seq"`
			Phase    string     `json:"phase"`
			Position [3]float64 `json:"position"`
		} `json:"frame"`
	}

	get := func() state {
		req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		var resp state
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return resp
	}

	if resp := get(); resp.Frame != nil || !resp.Enabled || resp.Running {
		t.Errorf("unexpected initial state: %+v", resp)
	}

	sess.Publish([]detector.HandLandmarks{detector.OpenPalmLandmarks()})
	for i := 1; i <= 60; i++ {
		sess.Step(float64(i)/60, 1.0/60)
	}

	resp := get()
	if resp.Frame == nil {
		t.Fatal("expected a frame after stepping")
	}
	if resp.Frame.Seq != 60 {
		t.Errorf("seq = %d, want 60", resp.Frame.Seq)
	}
	if resp.Frame.Phase != "visible" {
		t.Errorf("phase = %s, want visible after holding an open hand", resp.Frame.Phase)
	}
}

func TestServer_Config(t *testing.T) {
	s := New(Config{Session: newTestSession(t)})

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var cfg gesture.Config
	if err := json.NewDecoder(rec.Body).Decode(&cfg); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if cfg != gesture.DefaultConfig() {
		t.Errorf("config = %+v, want defaults", cfg)
	}
}

func TestServer_Tracking(t *testing.T) {
	sess := newTestSession(t)
	s := New(Config{Session: sess})

	tests := []struct {
		name   string
		method string
		body   string
		code   int
		want   bool
	}{
		{"read", http.MethodGet, "", http.StatusOK, true},
		{"disable", http.MethodPut, `{"enabled":false}`, http.StatusOK, false},
		{"missing field", http.MethodPut, `{}`, http.StatusBadRequest, false},
		{"enable", http.MethodPost, `{"enabled":true}`, http.StatusOK, true},
		{"delete", http.MethodDelete, "", http.StatusMethodNotAllowed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/tracking", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			if rec.Code != tt.code {
				t.Errorf("expected status %d, got %d", tt.code, rec.Code)
			}
			if sess.Enabled() != tt.want {
				t.Errorf("enabled = %v, want %v", sess.Enabled(), tt.want)
			}
		})
	}
}

func TestServer_Stats(t *testing.T) {
	sess := newTestSession(t)
	s := New(Config{Session: sess})
	sess.Step(0.1, 0.1)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var stats map[string]map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	render, ok := stats["render.frames"]
	if !ok {
		t.Fatal("expected render.frames in stats")
	}
	if render["count"] != float64(1) {
		t.Errorf("render.frames count = %v, want 1", render["count"])
	}
	if _, ok := stats["events.show"]; !ok {
		t.Error("expected per-event counters in stats")
	}
}

func TestServer_Journal(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer st.Close()

	sess := &store.Session{}
	if err := st.Sessions().Create(sess); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	st.Events().Append(&store.Event{SessionID: sess.ID, Kind: "show", At: 0.6})

	srv := New(Config{Store: st})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	for _, path := range []string{"/api/events", "/api/sessions", "/api/sessions/" + sess.ID} {
		resp, err := ts.Client().Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, resp.StatusCode, http.StatusOK)
		}
	}
}

func TestNew(t *testing.T) {
	t.Run("creates server with config", func(t *testing.T) {
		cfg := Config{StaticDir: "/some/path"}
		s := New(cfg)

		if s == nil {
			t.Fatal("expected non-nil server")
		}
		if s.config.StaticDir != cfg.StaticDir {
			t.Errorf("expected StaticDir %s, got %s", cfg.StaticDir, s.config.StaticDir)
		}
	})

	t.Run("server implements http.Handler", func(t *testing.T) {
		s := New(Config{})
		var _ http.Handler = s
	})

	t.Run("pose hub is a render sink", func(t *testing.T) {
		var _ app.RenderSink = New(Config{}).Poses()
	})
}
