package api

import (
	"net/http"
	"strconv"
	"time"

	"giftcode_bot/internal/service"
	"giftcode_bot/pkg/auth"
	"giftcode_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type referralRoutes struct {
	rs      service.ReferralServiceI
	a       *auth.TelegramAuth
	adminID int64
}

func NewReferralRoutes(handler *gin.RouterGroup, rs service.ReferralServiceI, a *auth.TelegramAuth, adminID int64) {
	r := &referralRoutes{rs: rs, a: a, adminID: adminID}
	h := handler.Group("/referrals")
	h.Use(a.TelegramAuthMiddleware())
	{
		h.GET("/:telegram_id", r.GetBalance)
	}
}

type BalanceResponse struct {
	TelegramID       int64      `json:"telegram_id"`
	TotalInvites     int        `json:"total_invites"`
	AvailableInvites int        `json:"available_invites"`
	ChannelVerified  bool       `json:"channel_verified"`
	LastClaimDate    *time.Time `json:"last_claim_date,omitempty"`
}

func (r *referralRoutes) GetBalance(c *gin.Context) {
	log := logger.Logger()

	id, err := strconv.ParseInt(c.Param("telegram_id"), 10, 64)
	if err != nil {
		log.Error("failed to parse telegram_id", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid telegram_id"})
		return
	}

	userData, exists := c.Get("telegram_user")
	if !exists {
		log.Error("telegram user data not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	telegramUser, ok := userData.(*auth.TelegramUserData)
	if !ok {
		log.Error("invalid type assertion for telegram user data")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if telegramUser.ID != id && telegramUser.ID != r.adminID {
		c.JSON(http.StatusForbidden, gin.H{"error": "may only read own balance"})
		return
	}

	balance, err := r.rs.Balance(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to get balance", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get balance"})
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{
		TelegramID:       id,
		TotalInvites:     balance.TotalInvites,
		AvailableInvites: balance.AvailableInvites,
		ChannelVerified:  balance.ChannelVerified,
		LastClaimDate:    balance.LastClaimDate,
	})
}
