package devtools

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vmini/pkg/host"
)

const (
	// DefaultHistory is how many recent ops are kept for new clients.
	DefaultHistory = 256

	// clientBuffer is the per-client send queue length. Clients that fall
	// further behind are disconnected.
	clientBuffer = 64

	writeWait = 5 * time.Second
)

// SnapshotFunc returns the HTML of the mounted tree.
type SnapshotFunc func(ctx context.Context) (string, error)

// Server is the inspector HTTP server.
type Server struct {
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *slog.Logger

	snapshot SnapshotFunc
	gatherer prometheus.Gatherer

	mu      sync.RWMutex
	clients map[*client]bool
	recent  []OpEvent
	limit   int
	seq     uint64
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSnapshot sets the tree snapshot provider for /api/tree.
func WithSnapshot(fn SnapshotFunc) Option {
	return func(s *Server) {
		s.snapshot = fn
	}
}

// WithGatherer sets the metrics source for /metrics. The default is the
// Prometheus default gatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithHistory sets how many recent ops are kept. Zero keeps none.
func WithHistory(n int) Option {
	return func(s *Server) {
		if n >= 0 {
			s.limit = n
		}
	}
}

// NewServer creates an inspector server.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger:   slog.Default(),
		gatherer: prometheus.DefaultGatherer,
		clients:  make(map[*client]bool),
		limit:    DefaultHistory,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local tool
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWebSocket)
	r.Route("/api", func(r chi.Router) {
		r.Get("/tree", s.handleTree)
		r.Get("/ops", s.handleOps)
		r.Get("/clients", s.handleClients)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sink returns a function suitable for host.WithSink. It never blocks on
// slow clients.
func (s *Server) Sink() func(host.Op) {
	return s.Publish
}

// Publish records op and broadcasts it to every client.
func (s *Server) Publish(op host.Op) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	ev := newOpEvent(s.seq, op)
	if s.limit > 0 {
		s.recent = append(s.recent, ev)
		if over := len(s.recent) - s.limit; over > 0 {
			s.recent = append(s.recent[:0], s.recent[over:]...)
		}
	}
	s.broadcastLocked(Message{Type: MessageOp, Op: &ev})
}

// Recent returns a copy of the kept ops, oldest first.
func (s *Server) Recent() []OpEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]OpEvent, len(s.recent))
	copy(out, s.recent)
	return out
}

// ClientCount returns the number of connected inspectors.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Close disconnects every client.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.close()
		delete(s.clients, c)
	}
}

// broadcastLocked sends msg to every client. s.mu must be held so the
// op order and the hello history agree for every client.
func (s *Server) broadcastLocked(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("devtools: encode message", "error", err)
		return
	}
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.logger.Warn("devtools: dropping slow client", "client", c.id)
			c.close()
			delete(s.clients, c)
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("devtools: upgrade failed", "error", err)
		return
	}

	c := &client{id: uuid.New(), conn: conn, send: make(chan []byte, clientBuffer)}

	// The hello history and the registration happen under one lock, so
	// every op reaches the client exactly once.
	s.mu.Lock()
	hello, _ := json.Marshal(Message{Type: MessageHello, Client: c.id.String(), Recent: s.recent})
	c.send <- hello
	s.clients[c] = true
	s.mu.Unlock()
	s.logger.Debug("devtools: client connected", "client", c.id)

	go s.writeLoop(c)

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	if s.clients[c] {
		delete(s.clients, c)
		c.close()
	}
	s.mu.Unlock()
	s.logger.Debug("devtools: client disconnected", "client", c.id)
}

func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	if s.snapshot == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no snapshot provider"})
		return
	}
	html, err := s.snapshot(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}

func (s *Server) handleOps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Recent())
}

func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"clients": s.ClientCount()})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(inspectorPage))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
