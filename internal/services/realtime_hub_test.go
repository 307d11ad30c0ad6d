package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"grocerylist-api/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// startHubServer serves a WebSocket endpoint that registers every accepted
// connection with the hub and runs the handler's read loop, mirroring the
// realtime handler wiring.
func startHubServer(t *testing.T, hub *RealtimeHub) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewWSClient(uuid.New(), conn)
		hub.Register(client)
		for {
			if err := client.ReadMessage(); err != nil {
				hub.Unregister(client)
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *RealtimeHub, want int) {
	t.Helper()

	require.Eventually(t, func() bool {
		return hub.ClientCount() == want
	}, 2*time.Second, 10*time.Millisecond)
}

func changeEvent(name string) *models.ItemChangeEvent {
	return models.NewItemChangeEvent(models.ChangeEventInsert, &models.GroceryItem{
		ID:      uuid.New(),
		Name:    name,
		AddedBy: uuid.New(),
	})
}

func TestRealtimeHub_DeliversEventsToConnectedClient(t *testing.T) {
	hub := NewRealtimeHub(noopMetrics{})
	srv := startHubServer(t, hub)

	conn := dialHub(t, srv)
	waitForClients(t, hub, 1)

	event := changeEvent("oat milk")
	hub.BroadcastItemChange(event)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var received models.ItemChangeEvent
	require.NoError(t, json.Unmarshal(payload, &received))
	require.Equal(t, models.ChangeEventInsert, received.EventType)
	require.Equal(t, event.ItemID, received.ItemID)
	require.Equal(t, "oat milk", received.Item.Name)
}

func TestRealtimeHub_BroadcastNeverBlocksOnStalledClient(t *testing.T) {
	hub := NewRealtimeHub(noopMetrics{})
	srv := startHubServer(t, hub)

	// This connection is never read from, so its server-side buffers fill up.
	dialHub(t, srv)
	waitForClients(t, hub, 1)

	// Enough oversized events to exhaust the kernel buffers and the client's
	// send buffer. The caller must come back promptly regardless.
	event := changeEvent(strings.Repeat("x", 64*1024))
	done := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			hub.BroadcastItemChange(event)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a client that never reads")
	}

	// The stalled client gets disconnected instead of waited on.
	waitForClients(t, hub, 0)
}

func TestRealtimeHub_UnregisterIsIdempotent(t *testing.T) {
	hub := NewRealtimeHub(noopMetrics{})
	srv := startHubServer(t, hub)

	conn := dialHub(t, srv)
	waitForClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, 0)

	// A second broadcast after the client is gone must not panic or block.
	hub.BroadcastItemChange(changeEvent("bananas"))
	require.Equal(t, 0, hub.ClientCount())
}
