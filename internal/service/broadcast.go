package service

import (
	"context"
	"time"

	"giftcode_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Telegram allows ~30 outbound messages per second; 75ms keeps the fan-out
// comfortably under that.
const broadcastDelay = 75 * time.Millisecond

// MessageSender is the sending half of the bot API. *tgbotapi.BotAPI
// satisfies it.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type BroadcastReport struct {
	Attempted int
	Sent      int
}

type Broadcaster struct {
	repo   UserRepository
	sender MessageSender
	delay  time.Duration
}

func NewBroadcaster(repo UserRepository, sender MessageSender) *Broadcaster {
	return &Broadcaster{
		repo:   repo,
		sender: sender,
		delay:  broadcastDelay,
	}
}

// Broadcast fans text out to every known user. Per-recipient failures
// (blocked bot, deleted account) are counted and skipped, never abort the
// batch. Cancellation stops between recipients.
func (b *Broadcaster) Broadcast(ctx context.Context, text string) (*BroadcastReport, error) {
	log := logger.Logger()

	ids, err := b.repo.ListUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	report := &BroadcastReport{Attempted: len(ids)}
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		_, err := b.sender.Send(tgbotapi.NewMessage(id, text))
		if err != nil {
			log.Debug("broadcast recipient skipped",
				zap.Int64("telegram_id", id), zap.Error(err))
		} else {
			report.Sent++
		}

		time.Sleep(b.delay)
	}

	log.Info("broadcast complete",
		zap.Int("attempted", report.Attempted),
		zap.Int("sent", report.Sent))

	return report, nil
}
