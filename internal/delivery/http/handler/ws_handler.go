package handler

import (
	"net/http"

	"security-monitor/internal/config"
	"security-monitor/internal/logger"
	"security-monitor/internal/usecase/device"
	"security-monitor/internal/usecase/event"
	"security-monitor/internal/ws"
	"security-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards are served from arbitrary origins in development; access
	// control happens at the token check below.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades dashboard connections and wires them into the hub.
type WSHandler struct {
	hub           *ws.Hub
	deviceService *device.Service
	eventService  *event.Service
	cfg           *config.Config
}

func NewWSHandler(hub *ws.Hub, deviceService *device.Service, eventService *event.Service, cfg *config.Config) *WSHandler {
	return &WSHandler{
		hub:           hub,
		deviceService: deviceService,
		eventService:  eventService,
		cfg:           cfg,
	}
}

// Handle upgrades the request, sends the initial snapshot and then answers
// every inbound message with an acknowledgement until the peer disconnects.
func (h *WSHandler) Handle(c *gin.Context) {
	if token := c.Query("token"); token != "" {
		if _, err := utils.ValidateToken(token, h.cfg.JWT.Secret); err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := h.hub.Register(conn)
	defer h.hub.Unregister(client)

	if err := h.sendInitialState(c, client); err != nil {
		logger.Error("Failed to send initial state", zap.Error(err))
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		if err := client.Send(ws.NewAck()); err != nil {
			return
		}
	}
}

func (h *WSHandler) sendInitialState(c *gin.Context, client *ws.Client) error {
	ctx := c.Request.Context()

	devices, err := h.deviceService.List(ctx)
	if err != nil {
		return err
	}

	events, err := h.eventService.Recent(ctx, h.cfg.WebSocket.SnapshotEvents)
	if err != nil {
		return err
	}

	return client.Send(ws.NewInitialState(devices, events))
}
