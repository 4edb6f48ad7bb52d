package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/alanyang/engn/internal/domain/event"
)

const (
	// sendBuffer is the number of messages queued per client before new ones are dropped.
	sendBuffer = 32
	writeWait  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
}

// Hub streams frame telemetry to websocket clients. Init events are always
// forwarded; ticks are sampled down to the configured rate.
//
// Broadcast never blocks on the network: every client has its own queue and
// writer goroutine, and a client whose queue is full misses the message.
type Hub struct {
	ticks *rate.Limiter

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub forwards at most hz ticks per second. hz <= 0 forwards every tick.
func NewHub(hz float64) *Hub {
	limit := rate.Inf
	if hz > 0 {
		limit = rate.Limit(hz)
	}
	return &Hub{
		ticks:   rate.NewLimiter(limit, 1),
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) Register(rg *gin.RouterGroup) {
	rg.GET("", h.handleWS)
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	cl := &client{id: uuid.New(), conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	slog.Debug("telemetry client connected", "client_id", cl.id)

	go cl.writeLoop()

	defer func() {
		h.mu.Lock()
		delete(h.clients, cl)
		close(cl.send)
		h.mu.Unlock()
		conn.Close()
		slog.Debug("telemetry client disconnected", "client_id", cl.id)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writeLoop drains the client's queue until it is closed or a write fails.
// A failed write closes the connection, which ends the read loop.
func (cl *client) writeLoop() {
	for data := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Warn("websocket write failed", "client_id", cl.id, "error", err)
			cl.conn.Close()
			for range cl.send {
			}
			return
		}
	}
}

// Handle forwards a scheduler event to every client.
func (h *Hub) Handle(e event.Event) {
	if e.Type == event.TypeTick && !h.ticks.Allow() {
		return
	}
	h.Broadcast(e)
}

func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("websocket broadcast marshal failed", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			slog.Debug("websocket client queue full, dropping message", "client_id", cl.id)
		}
	}
}
