// Package ws serves live previews of rendered frames over websockets.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/osaker/internal/diagnostics"
	"github.com/coreman2200/osaker/internal/render"
)

const (
	writeWait   = 200 * time.Millisecond
	diagBacklog = 32
)

// Topology is sent once to every frame client on connect.
type Topology struct {
	Bars   int    `json:"bars"`
	FPS    int    `json:"fps"`
	Driver string `json:"driver"`
}

type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// State tracks preview clients and the most recent frame. It implements
// render.Sink and diagnostics.Pusher.
type State struct {
	mu       sync.RWMutex
	Topology Topology
	log      zerolog.Logger

	upgrader    websocket.Upgrader
	frameID     uint64
	label       string
	startTime   time.Time
	clients     map[*client]bool
	diagClients map[*client]bool
	recent      []diag.Diagnostic
}

func NewState(top Topology) *State {
	return &State{
		Topology:    top,
		log:         log.With().Str("component", "ws").Logger(),
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		startTime:   time.Now(),
		clients:     map[*client]bool{},
		diagClients: map[*client]bool{},
	}
}

// Handler routes /ws, /diag and /health.
func (s *State) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/health", s.HandleHealth)
	return mux
}

// Write broadcasts f to every frame client.
func (s *State) Write(f *render.Frame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.frameID = f.ID
	s.label = f.Label
	s.mu.Unlock()

	s.broadcast(s.clients, b)
	return nil
}

// PushDiag sends d to diagnostics clients and keeps it for late joiners.
func (s *State) PushDiag(d diag.Diagnostic) {
	b, err := json.Marshal(d)
	if err != nil {
		s.log.Debug().Err(err).Msg("marshal diagnostic")
		return
	}
	s.mu.Lock()
	s.recent = append(s.recent, d)
	if n := len(s.recent); n > diagBacklog {
		s.recent = append(s.recent[:0], s.recent[n-diagBacklog:]...)
	}
	s.mu.Unlock()

	s.broadcast(s.diagClients, b)
}

func (s *State) broadcast(set map[*client]bool, b []byte) {
	s.mu.RLock()
	targets := make([]*client, 0, len(set))
	for c := range set {
		targets = append(targets, c)
	}
	s.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(b); err != nil {
			s.log.Debug().Err(err).Msg("write")
		}
	}
}

func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	c := s.accept(w, r, s.clients)
	if c == nil {
		return
	}
	s.mu.RLock()
	b, _ := json.Marshal(s.Topology)
	s.mu.RUnlock()
	_ = c.send(b)
}

func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	c := s.accept(w, r, s.diagClients)
	if c == nil {
		return
	}
	s.mu.RLock()
	backlog := append([]diag.Diagnostic(nil), s.recent...)
	s.mu.RUnlock()
	for _, d := range backlog {
		b, _ := json.Marshal(d)
		if err := c.send(b); err != nil {
			return
		}
	}
}

// accept upgrades the request, registers the client in set and drains its
// reads until it goes away.
func (s *State) accept(w http.ResponseWriter, r *http.Request, set map[*client]bool) *client {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("upgrade")
		return nil
	}
	c := &client{conn: conn}
	s.mu.Lock()
	set[c] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(set, c)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return c
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.startTime).Seconds(),
		"clients":  len(s.clients),
		"fps":      s.Topology.FPS,
		"label":    s.label,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Clients returns the number of connected frame clients.
func (s *State) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
