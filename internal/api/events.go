package api

import (
	"net/http"
	"time"

	"giftcode_bot/internal/middleware"
	"giftcode_bot/internal/service"
	"giftcode_bot/pkg/auth"
	"giftcode_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the dashboard is served from a different origin than the bot
	CheckOrigin: func(r *http.Request) bool { return true },
}

type eventRoutes struct {
	hub *service.Hub
}

// NewEventRoutes exposes the live claim/referral feed the admin dashboard
// subscribes to.
func NewEventRoutes(handler *gin.RouterGroup, hub *service.Hub, a *auth.TelegramAuth, authz *middleware.Authorization) {
	r := &eventRoutes{hub: hub}
	h := handler.Group("/events")
	h.Use(a.TelegramAuthMiddleware(), authz.AdminOnly())
	{
		h.GET("/ws", r.StreamEvents)
	}
}

func (r *eventRoutes) StreamEvents(c *gin.Context) {
	log := logger.Logger()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("failed to upgrade websocket", zap.Error(err))
		return
	}
	defer conn.Close()

	events := r.hub.Subscribe()
	defer r.hub.Unsubscribe(events)

	// reader only notices the peer going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				log.Error("failed to marshal event", zap.Error(err))
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Debug("event subscriber write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
