package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/hologram/internal/gesture"
)

const (
	writeWait  = 5 * time.Second
	clientSend = 8
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

type poseClient struct {
	conn *websocket.Conn
	send chan []byte
	last time.Time
}

// PoseHub broadcasts filter frames to WebSocket clients. It is an
// app.RenderSink. Each client gets at most one frame per interval, except
// frames carrying interaction events, which are always sent.
type PoseHub struct {
	interval time.Duration

	mu      sync.Mutex
	clients map[*poseClient]struct{}
	latest  []byte
}

// NewPoseHub creates a hub limited to rate frames per second per client.
// A non-positive rate sends every frame.
func NewPoseHub(rate int) *PoseHub {
	h := &PoseHub{clients: make(map[*poseClient]struct{})}
	if rate > 0 {
		h.interval = time.Second / time.Duration(rate)
	}
	return h
}

// Render queues frame for every client that is due one.
func (h *PoseHub) Render(frame gesture.Frame) {
	msg, err := json.Marshal(frame)
	if err != nil {
		log.Printf("Error encoding pose: %v", err)
		return
	}

	now := time.Now()
	urgent := len(frame.Events) > 0

	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = msg
	for c := range h.clients {
		if !urgent && now.Sub(c.last) < h.interval {
			continue
		}
		select {
		case c.send <- msg:
			c.last = now
		default:
			// slow client; it catches up on the next frame
		}
	}
}

// Clients returns the number of connected clients.
func (h *PoseHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *PoseHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	c := &poseClient{conn: conn, send: make(chan []byte, clientSend)}

	h.mu.Lock()
	if h.latest != nil {
		c.send <- h.latest
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.write(c)
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()
	<-done
}

func (h *PoseHub) write(c *poseClient) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
}
