package handlers

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/realtime"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/service"
)

// WebsocketHandler upgrades clients onto the realtime event stream.
type WebsocketHandler struct {
	hub           *realtime.Hub
	marketService *service.MarketService
	upgrader      websocket.Upgrader
	log           *zap.SugaredLogger
}

// NewWebsocketHandler creates a WebsocketHandler accepting the given browser origins.
// Requests without an Origin header are always accepted.
func NewWebsocketHandler(hub *realtime.Hub, marketService *service.MarketService, allowedOrigins []string, log *zap.SugaredLogger) *WebsocketHandler {
	return &WebsocketHandler{
		hub:           hub,
		marketService: marketService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		log: log,
	}
}

// Stream serves GET /ws. The current snapshot, if any, is sent first.
func (h *WebsocketHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.Debugw("websocket upgrade failed", "error", err)
		return
	}

	var hello any
	if snap, ok := h.marketService.Current(); ok {
		hello = realtime.Event{Type: realtime.EventSnapshot, Data: snap}
	}
	h.hub.Serve(conn, hello)
}
