package handlers

import (
	"net/http"

	"grocerylist-api/internal/errors"
	"grocerylist-api/internal/services"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	// The API sits behind the household's reverse proxy; origin checks are
	// enforced there
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RealtimeHandler upgrades connections for live list updates
type RealtimeHandler struct {
	hub *services.RealtimeHub
}

// NewRealtimeHandler creates a new realtime handler
func NewRealtimeHandler(hub *services.RealtimeHub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// ItemsWS streams item change events to the client
// @Summary Subscribe to list changes
// @Description Upgrade to a WebSocket that receives an event for every item insert, update, and delete
// @Tags Realtime
// @Security BearerAuth
// @Router /ws/items [get]
func (h *RealtimeHandler) ItemsWS(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the handshake error response
		return nil
	}

	client := services.NewWSClient(userID, conn)
	h.hub.Register(client)

	// Read loop ends on client close/error; writes and pings are owned by
	// the hub's per-client writer
	for {
		if err := client.ReadMessage(); err != nil {
			h.hub.Unregister(client)
			return nil
		}
	}
}
