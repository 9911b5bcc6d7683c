package bot

import (
	"context"
	"fmt"
	"time"

	"giftcode_bot/pkg/logger"

	"github.com/go-co-op/gocron/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// StartDailyDigest schedules a stats summary to the admin at UTC midnight,
// right when the claim day rolls over. The claim gate itself does not
// depend on this job; it is reporting only.
func (b *Bot) StartDailyDigest(ctx context.Context) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 0, 0))),
		gocron.NewTask(func() {
			b.sendDailyDigest(ctx)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule daily digest: %w", err)
	}

	scheduler.Start()
	return scheduler, nil
}

func (b *Bot) sendDailyDigest(ctx context.Context) {
	log := logger.Logger()

	stats, err := b.stats.BotStats(ctx)
	if err != nil {
		log.Error("failed to build daily digest", zap.Error(err))
		return
	}

	msg := tgbotapi.NewMessage(b.cfg.AdminID, fmt.Sprintf(
		"🌙 Daily digest\n\n"+
			"👥 Users: %d (%d verified)\n"+
			"🔗 Total Referrals: %d\n"+
			"🎁 Total Claims: %d",
		stats.TotalUsers, stats.VerifiedUsers, stats.TotalReferrals, stats.TotalClaims))
	b.send(msg)

	log.Info("daily digest sent", zap.Int("total_users", stats.TotalUsers))
}
