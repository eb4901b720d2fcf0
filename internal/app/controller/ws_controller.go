package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/greenbean/storefront-backend/internal/errors"
	"github.com/greenbean/storefront-backend/internal/middleware"
	ws "github.com/greenbean/storefront-backend/internal/websocket"
)

type WsController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewWsController(hub *ws.Hub, allowedOrigins []string) *WsController {
	allowed := make(map[string]bool, len(allowedOrigins))
	wildcard := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			wildcard = true
		}
		allowed[origin] = true
	}

	return &WsController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return wildcard || allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// CartEvents upgrades the connection and streams cart updates to the tab
// GET /ws/cart?tab=<tab-id>
func (ctrl *WsController) CartEvents(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}

	// Tabs identify themselves so their own writes are not echoed back.
	tabID := c.Query("tab")
	if tabID == "" {
		tabID = middleware.GetTabID(c)
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := &ws.Client{
		Hub:           ctrl.hub,
		Conn:          &ws.Conn{Conn: conn},
		SessionID:     sessionID,
		TabID:         tabID,
		Send:          make(chan []byte, 256),
		LastResetTime: time.Now(),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"session_id": sessionID,
		"tab_id":     tabID,
	})
}
