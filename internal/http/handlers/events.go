package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"novi.com/app/internal/http/middleware"
	"novi.com/app/internal/realtime"
)

// EventsHandler upgrades GET /ws/events to a websocket attached to the hub.
// The topics query parameter is a comma separated subscription list; without
// it the client receives every message.
type EventsHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewEventsHandler(hub *realtime.Hub, log *slog.Logger) *EventsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &EventsHandler{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     sameOrigin,
		},
	}
}

func (h *EventsHandler) Serve(c *gin.Context) {
	topics := realtime.ParseTopics(c.Query("topics"))

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.log.WarnContext(c.Request.Context(), "websocket upgrade failed",
			slog.String("request_id", middleware.GetRequestID(c)), slog.Any("err", err))
		return
	}

	client := realtime.NewClient(h.hub, conn, 32)
	h.hub.Attach(client, topics)
	go client.WritePump()
	go client.ReadPump()

	client.Send(&realtime.Message{
		Topic:     "system.connected",
		Action:    "connected",
		Data:      map[string]any{"topics": topics},
		Timestamp: time.Now().UTC(),
	})
	h.log.DebugContext(c.Request.Context(), "websocket connected",
		slog.String("request_id", middleware.GetRequestID(c)), slog.Any("topics", topics))
}

// sameOrigin accepts requests without an Origin header (non-browser
// clients) and browser requests from this host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
