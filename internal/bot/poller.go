package bot

import (
	"context"

	"giftcode_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Run consumes updates over long polling until the context is cancelled.
// Each update is handled on its own goroutine so one user's membership
// check never stalls another user's commands.
func (b *Bot) Run(ctx context.Context) {
	log := logger.Logger()

	// a leftover webhook from a previous deployment conflicts with polling
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		log.Warn("failed to remove webhook before polling", zap.Error(err))
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)
	log.Info("bot polling started", zap.String("username", b.Username()))

	for {
		select {
		case update := <-updates:
			go b.HandleUpdate(ctx, update)
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Info("bot polling stopped")
			return
		}
	}
}

type Notifier struct {
	api *tgbotapi.BotAPI
}

func NewNotifier(api *tgbotapi.BotAPI) *Notifier {
	return &Notifier{api: api}
}

// ReferralCredited tells the referrer a friend joined. Best effort; the
// referee's /start flow never fails because of it.
func (n *Notifier) ReferralCredited(referrerID int64, refereeUsername string) {
	msg := tgbotapi.NewMessage(referrerID,
		"🎉 Your friend @"+refereeUsername+" joined! You earned 1 invite credit.")
	if _, err := n.api.Send(msg); err != nil {
		logger.Logger().Debug("failed to notify referrer",
			zap.Int64("referrer_id", referrerID), zap.Error(err))
	}
}
