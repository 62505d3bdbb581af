package httpserver

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"pepper/internal/dispatch"
)

// upgrader configures the WebSocket handshake.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; auth is handled at the HTTP layer.
	},
}

// TraceFeed fans route traces out to connected WebSocket clients. It receives
// every trace the distributor produces, independent of the envelope policy.
// Publish may be called from concurrent requests, so each connection carries
// its own write lock: gorilla allows only one writer per connection.
type TraceFeed struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*sync.Mutex
}

func NewTraceFeed() *TraceFeed {
	return &TraceFeed{clients: make(map[*websocket.Conn]*sync.Mutex)}
}

// Publish sends one trace to all connected clients. Wire this as the
// distributor's trace sink.
func (f *TraceFeed) Publish(trace dispatch.RouteTrace) {
	data, err := json.Marshal(trace.ConsoleLog())
	if err != nil {
		log.Printf("[trace] marshal error: %v", err)
		return
	}

	f.mu.Lock()
	clients := make(map[*websocket.Conn]*sync.Mutex, len(f.clients))
	for c, wm := range f.clients {
		clients[c] = wm
	}
	f.mu.Unlock()

	var wg sync.WaitGroup
	for conn, writeMu := range clients {
		wg.Add(1)
		go func(c *websocket.Conn, wm *sync.Mutex) {
			defer wg.Done()
			wm.Lock()
			err := c.WriteMessage(websocket.TextMessage, data)
			wm.Unlock()
			if err != nil {
				log.Printf("[trace] write to client error: %v", err)
				f.removeClient(c)
			}
		}(conn, writeMu)
	}
	wg.Wait()
}

func (f *TraceFeed) addClient(conn *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients[conn] = &sync.Mutex{}
}

func (f *TraceFeed) removeClient(conn *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.clients, conn)
}

// ClientCount reports the number of connected listeners.
func (f *TraceFeed) ClientCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// handleTraceWS upgrades GET /mcp/trace/ws to a WebSocket that streams route
// traces. Clients only listen; incoming messages are discarded.
func (s *HTTPServer) handleTraceWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[trace] websocket upgrade error: %v", err)
		return
	}

	s.feed.addClient(conn)

	// Drain the connection until the client disconnects.
	go func() {
		defer func() {
			s.feed.removeClient(conn)
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseGoingAway,
					websocket.CloseNormalClosure,
				) {
					log.Printf("[trace] ws read error: %v", err)
				}
				return
			}
		}
	}()
}
