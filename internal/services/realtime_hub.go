package services

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"grocerylist-api/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// clientSendBuffer bounds how far a client may fall behind before it
	// is disconnected
	clientSendBuffer = 32
	writeWait        = 10 * time.Second
	pingInterval     = 25 * time.Second
)

// WSClient is one connected list viewer. All writes to the connection go
// through the send channel, drained by a single writer goroutine.
type WSClient struct {
	UserID uuid.UUID

	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewWSClient(userID uuid.UUID, conn *websocket.Conn) *WSClient {
	return &WSClient{
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, clientSendBuffer),
		done:   make(chan struct{}),
	}
}

// ReadMessage blocks until the peer sends a frame or the connection drops.
// The read loop keeps close/pong frames flowing.
func (c *WSClient) ReadMessage() error {
	_, _, err := c.conn.ReadMessage()
	return err
}

// stop closes the connection, which also unblocks any in-flight write.
func (c *WSClient) stop() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// writePump owns all writes for one client. Each write carries a deadline
// so a dead peer cannot hold the goroutine past writeWait. Pings keep the
// connection alive through proxies.
func (c *WSClient) writePump(h *RealtimeHub) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.Unregister(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.Unregister(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

// RealtimeHub fans item change events out to every connected client. The
// list is shared by the whole household, so every client receives every
// event regardless of who caused it.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[*WSClient]struct{}
	metrics MetricsRecorderInterface
	logger  *slog.Logger
}

func NewRealtimeHub(metrics MetricsRecorderInterface) *RealtimeHub {
	return &RealtimeHub{
		clients: make(map[*WSClient]struct{}),
		metrics: metrics,
		logger:  slog.Default(),
	}
}

// Register adds the client to the broadcast set and starts its writer.
func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	go c.writePump(h)

	h.metrics.RecordGauge("realtime.clients", float64(count), nil)
	h.logger.Debug("realtime client connected",
		slog.String("user_id", c.UserID.String()),
		slog.Int("clients", count),
	)
}

// Unregister is idempotent; both the read loop and the writer call it on
// whichever error they see first.
func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()

	c.stop()
	h.metrics.RecordGauge("realtime.clients", float64(count), nil)
}

// BroadcastItemChange queues one change event for every connected client.
// The send never blocks the caller: the client set is snapshotted before
// any queueing, and a client whose buffer is full is disconnected instead
// of waited on. Item mutations call this inline, so a stalled viewer must
// not be able to stall the list.
func (h *RealtimeHub) BroadcastItemChange(event *models.ItemChangeEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal item change event",
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.RLock()
	clients := make([]*WSClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("dropping slow realtime client",
				slog.String("user_id", c.UserID.String()),
			)
			h.Unregister(c)
		}
	}
}

func (h *RealtimeHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
