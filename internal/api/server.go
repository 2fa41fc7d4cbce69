package api

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"stockwatch/internal/watcher"

	"github.com/gin-gonic/gin"
)

// Server exposes the watcher state over HTTP and streams accepted updates
// over a WebSocket endpoint. It implements watcher.Broadcaster.
type Server struct {
	Host string
	Port int

	watch  *watcher.Watcher
	engine *gin.Engine

	// WebSocket clients
	clients    map[*client]struct{}
	broadcast  chan watcher.Update
	register   chan *client
	unregister chan *client

	mu     sync.RWMutex
	latest *watcher.Update
}

// NewServer creates the HTTP/WebSocket server for the given watcher.
func NewServer(host string, port int, w *watcher.Watcher) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		Host:    host,
		Port:    port,
		watch:   w,
		engine:  gin.Default(),
		clients: make(map[*client]struct{}),
		// Buffered so a burst of updates never blocks the watcher.
		broadcast:  make(chan watcher.Update, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/api/price", s.getPrice)
	s.engine.GET("/api/trend", s.getTrend)
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/ws", s.handleWebSocket)
}

// Start runs the hub loop and the HTTP listener. Blocks until the listener
// fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	log.Printf("[INFO] api server listening on %s", addr)

	go s.runHub()

	return s.engine.Run(addr)
}

// Handler returns the underlying HTTP handler (used in tests).
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) getPrice(c *gin.Context) {
	price, ok, _, _ := s.watch.Snapshot()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no price recorded yet"})
		return
	}

	s.mu.RLock()
	var ts any
	if s.latest != nil {
		ts = s.latest.Timestamp
	}
	s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"symbol":    s.watch.Symbol(),
		"price":     price,
		"timestamp": ts,
	})
}

func (s *Server) getTrend(c *gin.Context) {
	_, _, updates, trend := s.watch.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"symbol":  s.watch.Symbol(),
		"trend":   trend,
		"updates": updates,
	})
}

func (s *Server) getHealth(c *gin.Context) {
	s.mu.RLock()
	connections := len(s.clients)
	var lastUpdate any
	if s.latest != nil {
		lastUpdate = s.latest.Timestamp
	}
	s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"connections":   connections,
		"latest_update": lastUpdate,
	})
}
