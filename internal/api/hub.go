package api

import (
	"log"
	"net/http"

	"stockwatch/internal/watcher"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Publish hands an accepted price update to the hub. Implements
// watcher.Broadcaster.
func (s *Server) Publish(u watcher.Update) {
	s.broadcast <- u
}

// runHub is the main hub loop: client registration and fan-out.
func (s *Server) runHub() {
	for {
		select {
		case c := <-s.register:
			s.mu.Lock()
			s.clients[c] = struct{}{}
			latest := s.latest
			s.mu.Unlock()
			// Send current state on connect so clients don't wait for the
			// next poll.
			if latest != nil {
				c.send <- *latest
			}

		case c := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[c]; ok {
				delete(s.clients, c)
				close(c.send)
			}
			s.mu.Unlock()

		case u := <-s.broadcast:
			s.mu.Lock()
			s.latest = &u
			for c := range s.clients {
				select {
				case c.send <- u:
				default:
					// Client too slow, disconnect to keep the hub moving.
					delete(s.clients, c)
					close(c.send)
				}
			}
			s.mu.Unlock()
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WARN] websocket upgrade failed: %v", err)
		return
	}

	cl := &client{
		server: s,
		conn:   conn,
		send:   make(chan watcher.Update, 64),
	}

	s.register <- cl

	go cl.writePump()
	go cl.readPump()
}
