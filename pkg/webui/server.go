// Package webui is an optional local monitor: it broadcasts the run's
// progress lines to connected browser clients over a websocket so a long run
// can be watched outside the terminal.
package webui

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teddycode/teddy/pkg/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The monitor binds to loopback only; cross-origin pages may still
	// embed it locally.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is one progress line pushed to monitor clients.
type Event struct {
	Line string    `json:"line"`
	Time time.Time `json:"time"`
}

// Server broadcasts progress events to websocket clients.
type Server struct {
	addr string

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	history []Event

	httpServer *http.Server
}

// NewServer creates a monitor bound to addr (e.g. "127.0.0.1:7677").
func NewServer(addr string) *Server {
	return &Server{
		addr:    addr,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Start begins serving in the background and returns the bound address.
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", fmt.Errorf("monitor failed to listen on %s: %w", s.addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/", s.handleIndex)
	s.httpServer = &http.Server{Handler: mux}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			utils.GetLogger().LogError(fmt.Errorf("monitor server stopped: %w", err))
		}
	}()
	return ln.Addr().String(), nil
}

// Broadcast pushes one progress line to every connected client. New clients
// receive the history first, so a late join still sees the whole run.
func (s *Server) Broadcast(line string) {
	event := Event{Line: line, Time: time.Now()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, event)
	for conn := range s.clients {
		if err := conn.WriteJSON(event); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

// Close shuts down the server and disconnects clients.
func (s *Server) Close() error {
	s.mu.Lock()
	for conn := range s.clients {
		conn.Close()
	}
	s.clients = make(map[*websocket.Conn]bool)
	s.mu.Unlock()
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.GetLogger().LogError(fmt.Errorf("monitor upgrade failed: %w", err))
		return
	}

	s.mu.Lock()
	for _, event := range s.history {
		if err := conn.WriteJSON(event); err != nil {
			break
		}
	}
	s.clients[conn] = true
	s.mu.Unlock()

	// Drain (and discard) client messages to notice disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.mu.Lock()
				delete(s.clients, conn)
				s.mu.Unlock()
				conn.Close()
				return
			}
		}
	}()
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

// MarshalHistory returns the event history as JSON, used by tests and by the
// index page's initial render.
func (s *Server) MarshalHistory() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s.history)
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>teddy monitor</title></head>
<body style="font-family: monospace; background: #111; color: #ddd;">
<h3>teddy run monitor</h3>
<pre id="log"></pre>
<script>
const log = document.getElementById("log");
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (msg) => {
  const event = JSON.parse(msg.data);
  log.textContent += event.line + "\n";
  window.scrollTo(0, document.body.scrollHeight);
};
</script>
</body>
</html>
`
