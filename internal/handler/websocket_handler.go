package handler

import (
	"net/http"
	"strconv"

	"github.com/dafibh/coinspot/coinspot-backend/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *websocket.Hub
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients send no Origin
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// parseGoalFilter reads the optional goalId query parameter; missing means every goal
func parseGoalFilter(raw string) (int32, bool) {
	if raw == "" {
		return websocket.AllGoals, true
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id < 0 {
		return 0, false
	}
	return int32(id), true
}

// HandleWS handles WebSocket connection requests at GET /ws?goalId=
// The client starts out following goalId and can change that with subscription messages.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	goalID, ok := parseGoalFilter(c.QueryParam("goalId"))
	if !ok {
		log.Debug().Str("goal_id", c.QueryParam("goalId")).Msg("WebSocket connection rejected: invalid goal id")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid goalId")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, goalID, h.hub)
	h.hub.Register(client)

	log.Info().
		Int32("goal_id", goalID).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}
