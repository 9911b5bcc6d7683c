package api

import (
	"giftcode_bot/internal/bot"
	"giftcode_bot/internal/middleware"
	"giftcode_bot/internal/service"
	"giftcode_bot/pkg/auth"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Bot      *bot.Bot
	Service  *service.Service
	Hub      *service.Hub
	Auth     *auth.TelegramAuth
	BotToken string
	AdminID  int64
}

// NewRouter assembles the HTTP surface: webhook intake, the mini-app
// dashboard API and a health probe.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	NewWebhookRoutes(router, deps.Bot, deps.BotToken)

	authz := middleware.NewAuthorization(deps.AdminID)

	v1 := router.Group("/api/v1")
	NewReferralRoutes(v1, deps.Service.ReferralService, deps.Auth, deps.AdminID)
	NewStatsRoutes(v1, deps.Service.StatsService, deps.Auth, authz)
	NewEventRoutes(v1, deps.Hub, deps.Auth, authz)

	return router
}
