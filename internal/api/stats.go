package api

import (
	"net/http"
	"strconv"

	"giftcode_bot/internal/middleware"
	"giftcode_bot/internal/service"
	"giftcode_bot/pkg/auth"
	"giftcode_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type statsRoutes struct {
	ss service.StatsServiceI
}

func NewStatsRoutes(handler *gin.RouterGroup, ss service.StatsServiceI, a *auth.TelegramAuth, authz *middleware.Authorization) {
	r := &statsRoutes{ss: ss}
	h := handler.Group("/stats")
	h.Use(a.TelegramAuthMiddleware(), authz.AdminOnly())
	{
		h.GET("", r.GetStats)
		h.GET("/top", r.GetTopReferrers)
	}
}

type StatsResponse struct {
	TotalUsers     int `json:"total_users"`
	VerifiedUsers  int `json:"verified_users"`
	TotalReferrals int `json:"total_referrals"`
	TotalClaims    int `json:"total_claims"`
}

type TopReferrerResponse struct {
	TelegramID   int64   `json:"telegram_id"`
	Username     string  `json:"username"`
	TotalInvites int     `json:"total_invites"`
	RefereeIDs   []int64 `json:"referee_ids"`
}

func (r *statsRoutes) GetStats(c *gin.Context) {
	stats, err := r.ss.BotStats(c.Request.Context())
	if err != nil {
		logger.Logger().Error("failed to get bot stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		TotalUsers:     stats.TotalUsers,
		VerifiedUsers:  stats.VerifiedUsers,
		TotalReferrals: stats.TotalReferrals,
		TotalClaims:    stats.TotalClaims,
	})
}

func (r *statsRoutes) GetTopReferrers(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	top, err := r.ss.TopReferrers(c.Request.Context(), limit)
	if err != nil {
		logger.Logger().Error("failed to get top referrers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get top referrers"})
		return
	}

	resp := make([]TopReferrerResponse, len(top))
	for i, t := range top {
		resp[i] = TopReferrerResponse{
			TelegramID:   t.TelegramID,
			Username:     t.Username,
			TotalInvites: t.TotalInvites,
			RefereeIDs:   t.RefereeIDs,
		}
	}

	c.JSON(http.StatusOK, resp)
}
