package handler

import (
	"net/http"
	"strconv"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/middleware"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/websocket"
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

// HandleWS upgrades GET /ws to a WebSocket that receives every mutation in
// the workspace. Browsers pass the workspace as the workspaceId query param.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	raw := c.Request().Header.Get(middleware.WorkspaceHeader)
	if raw == "" {
		raw = c.QueryParam("workspaceId")
	}
	if raw == "" {
		log.Debug().Msg("WebSocket connection rejected: missing workspace")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing workspace")
	}

	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		log.Debug().Str("workspace", raw).Msg("WebSocket connection rejected: invalid workspace")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid workspace")
	}
	workspaceID := int32(id)

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, workspaceID, h.hub)
	h.hub.Register(client)

	log.Info().
		Int32("workspace_id", workspaceID).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}
