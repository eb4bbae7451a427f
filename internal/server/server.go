package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/nlhe/internal/table"
)

// Server exposes the tables of a Manager over HTTP and WebSocket.
type Server struct {
	addr        string
	tables      *table.Manager
	upgrader    websocket.Upgrader
	logger      *log.Logger
	httpServer  *http.Server
	mu          sync.Mutex
	connections map[*Connection]struct{}
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewServer creates a new WebSocket server
func NewServer(addr string, tables *table.Manager, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr:   addr,
		tables: tables,
		upgrader: websocket.Upgrader{
			// Local play only; every origin is accepted.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes served by s.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/tables", s.handleTables)
	return mux
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and closes every open connection.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	err := s.httpServer.Shutdown(ctx)

	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	return err
}

// Connections reports the number of open websocket clients.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections)
}

// handleWebSocket upgrades /ws?table=<id>&player=<id>. The table defaults
// to the first one created; an empty player watches as a spectator.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	tableID := r.URL.Query().Get("table")
	playerID := r.URL.Query().Get("player")

	var (
		tbl *table.Table
		ok  bool
	)
	if tableID == "" {
		tbl, ok = s.tables.Default()
	} else {
		tbl, ok = s.tables.Get(tableID)
	}
	if !ok {
		http.Error(w, "table not found", http.StatusNotFound)
		return
	}
	if playerID != "" {
		if _, seated := tbl.State().Player(playerID); !seated {
			http.Error(w, "player not seated at table", http.StatusNotFound)
			return
		}
		if tbl.IsBot(playerID) {
			http.Error(w, "seat is played by a bot", http.StatusForbidden)
			return
		}
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := newConnection(s.ctx, conn, tbl, playerID, s.logger)
	s.register(client)
	client.Start()

	go func() {
		<-client.Done()
		s.unregister(client)
	}()
}

func (s *Server) register(c *Connection) {
	s.mu.Lock()
	s.connections[c] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "table", c.table.ID(), "player", c.playerID, "total", total)
}

func (s *Server) unregister(c *Connection) {
	s.mu.Lock()
	delete(s.connections, c)
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client disconnected", "table", c.table.ID(), "player", c.playerID, "total", total)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.tables.List()); err != nil {
		s.logger.Error("Failed to encode tables", "error", err)
	}
}
