package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// message is the envelope written to WebSocket clients.
type message struct {
	Kind      string          `json:"kind"`
	Event     *Event          `json:"event,omitempty"`
	Dashboard *DashboardState `json:"dashboard,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server streams collector events to WebSocket clients on /ws and
// serves the dashboard snapshot on /dashboard.
type Server struct {
	mu        sync.RWMutex
	collector *Collector
	dashboard *Dashboard
	upgrader  websocket.Upgrader
	clients   map[*client]struct{}
	addr      string
	server    *http.Server
}

// NewServer creates a Server fed by collector. Every collected
// event updates dashboard and is broadcast to connected clients.
func NewServer(addr string, collector *Collector, dashboard *Dashboard) *Server {
	s := &Server{
		collector: collector,
		dashboard: dashboard,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
		addr:    addr,
	}

	collector.OnEvent(func(event Event) {
		dashboard.UpdateFromEvent(event)
		data, err := json.Marshal(message{Kind: "event", Event: &event})
		if err != nil {
			return
		}
		s.broadcast(data)
	})
	return s
}

// Handler returns the HTTP handler serving /ws, /dashboard and
// /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/dashboard", s.handleDashboard)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Start listens on the configured address until ctx is done or
// Stop is called.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = s.Stop(context.Background())
	}()

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("monitor server: %w", err)
	}
	return nil
}

// Stop shuts the HTTP server down and disconnects all clients.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	for c := range s.clients {
		_ = c.conn.Close()
	}
	s.mu.Unlock()

	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

// Clients returns the number of connected WebSocket clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 32)}

	snap := s.dashboard.Snapshot()
	if data, err := json.Marshal(message{Kind: "dashboard", Dashboard: &snap}); err == nil {
		c.send <- data
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	// Clients only listen; reading detects disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case data := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.dashboard.Snapshot())
}

func (s *Server) broadcast(data []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// Client too slow, skip
		}
	}
}
