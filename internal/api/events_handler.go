package api

import (
	"net/http"

	"fitpoint/gym-app/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token auth happens before the upgrade; origin checks are left to the
	// reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type EventsHandler struct {
	hub *events.Hub
	log zerolog.Logger
}

func NewEventsHandler(hub *events.Hub, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{hub: hub, log: log.With().Str("component", "events").Logger()}
}

// Subscribe upgrades the request to a websocket and streams every emitted
// event until the peer disconnects.
func (h *EventsHandler) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.hub.Register(conn)

	// Drain reads so close frames and pings are processed; the hub owns
	// all writes.
	go func() {
		defer h.hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
