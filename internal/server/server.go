// Package server provides the HTTP server for the hologram renderer.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	gometrics "github.com/rcrowley/go-metrics"

	"github.com/ayusman/hologram/internal/app"
	"github.com/ayusman/hologram/internal/gesture"
	"github.com/ayusman/hologram/internal/server/api"
	"github.com/ayusman/hologram/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Session   *app.Session
	// PoseRate caps pose messages per second per WebSocket client.
	PoseRate int
}

// Server represents the HTTP server for the hologram application.
type Server struct {
	config Config
	mux    *http.ServeMux
	poses  *PoseHub
	start  time.Time
}

// New creates a new Server with the given configuration. When a session
// is configured the server registers its pose hub as a render sink.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		poses:  NewPoseHub(config.PoseRate),
		start:  time.Now(),
	}
	if config.Session != nil {
		config.Session.AddSink(s.poses)
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/api/pose", s.poses)

	if s.config.Session != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
		s.mux.HandleFunc("/api/config", s.handleConfig)
		s.mux.HandleFunc("/api/tracking", s.handleTracking)
		s.mux.HandleFunc("/api/stats", s.handleStats)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Session.Preview()))
	}

	if s.config.Store != nil {
		s.mux.Handle("/api/events", api.NewEventHandler(s.config.Store))

		var active func() string
		if s.config.Session != nil {
			active = s.config.Session.SessionID
		}
		sessions := api.NewSessionHandler(s.config.Store, active)
		s.mux.Handle("/api/sessions", sessions)
		s.mux.Handle("/api/sessions/", sessions)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Poses returns the WebSocket pose broadcaster.
func (s *Server) Poses() *PoseHub {
	return s.poses
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

type stateResponse struct {
	Session string         `json:"session"`
	Enabled bool           `json:"enabled"`
	Running bool           `json:"running"`
	Clients int            `json:"clients"`
	Frame   *gesture.Frame `json:"frame"`
}

// handleState handles GET /api/state with the most recent frame.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := s.config.Session
	resp := stateResponse{
		Session: sess.SessionID(),
		Enabled: sess.Enabled(),
		Running: sess.Running(),
		Clients: s.poses.Clients(),
	}
	if frame, ok := sess.Latest(); ok {
		resp.Frame = &frame
	}
	writeJSON(w, resp)
}

// handleConfig handles GET /api/config with the active interaction policy.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.config.Session.FilterConfig())
}

type trackingRequest struct {
	Enabled *bool `json:"enabled"`
}

// handleTracking reads or sets the tracking toggle.
func (s *Server) handleTracking(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut, http.MethodPost:
		var req trackingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		s.config.Session.SetEnabled(*req.Enabled)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, map[string]bool{"enabled": s.config.Session.Enabled()})
}

// handleStats handles GET /api/stats with a snapshot of the metrics registry.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	gometrics.WriteJSONOnce(s.config.Session.Metrics().Registry, w)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
