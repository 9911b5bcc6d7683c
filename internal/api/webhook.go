package api

import (
	"context"
	"io"
	"net/http"

	"giftcode_bot/internal/bot"
	"giftcode_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type webhookRoutes struct {
	bot   *bot.Bot
	token string
}

// NewWebhookRoutes registers the update intake used in webhook mode. The
// bot token doubles as the path secret, which is how Telegram's own docs
// suggest authenticating webhook calls.
func NewWebhookRoutes(handler *gin.Engine, b *bot.Bot, token string) {
	r := &webhookRoutes{bot: b, token: token}
	handler.POST("/webhook/:token", r.ReceiveUpdate)
}

func (r *webhookRoutes) ReceiveUpdate(c *gin.Context) {
	log := logger.Logger()

	if c.Param("token") != r.token {
		c.Status(http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Error("failed to read webhook body", zap.Error(err))
		c.Status(http.StatusOK)
		return
	}

	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		log.Error("failed to decode webhook update", zap.Error(err))
		c.Status(http.StatusOK)
		return
	}

	// always 200: a non-2xx makes Telegram redeliver the same update,
	// and our handlers own their failure handling
	go r.bot.HandleUpdate(context.Background(), update)
	c.Status(http.StatusOK)
}
