package service

import (
	"context"
	"time"

	"giftcode_bot/internal/model"
	"giftcode_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const membershipCheckTimeout = 3 * time.Second

// ChatMemberGetter is the one bot API call the membership check needs.
// *tgbotapi.BotAPI satisfies it.
type ChatMemberGetter interface {
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

type MembershipService struct {
	bot     ChatMemberGetter
	channel string
	timeout time.Duration
}

func NewMembershipService(bot ChatMemberGetter, channelUsername string) *MembershipService {
	return &MembershipService{
		bot:     bot,
		channel: channelUsername,
		timeout: membershipCheckTimeout,
	}
}

// IsMember asks Telegram whether the user belongs to the required channel.
// Unknown is returned on any transport failure or timeout; callers gate on
// it the same as NotJoined, but it is logged as a configuration problem
// (channel gone, bot not admin) rather than user non-compliance.
func (s *MembershipService) IsMember(ctx context.Context, telegramID int64) model.MembershipStatus {
	log := logger.Logger()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		member tgbotapi.ChatMember
		err    error
	}

	// the bot API client has no context support; run the call aside and
	// abandon it on timeout
	ch := make(chan result, 1)
	go func() {
		member, err := s.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
			ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
				SuperGroupUsername: "@" + s.channel,
				UserID:             telegramID,
			},
		})
		ch <- result{member: member, err: err}
	}()

	select {
	case <-ctx.Done():
		log.Warn("membership check timed out",
			zap.Int64("telegram_id", telegramID),
			zap.String("channel", s.channel))
		return model.MembershipUnknown
	case res := <-ch:
		if res.err != nil {
			log.Warn("membership check failed; check channel config and bot admin rights",
				zap.Error(res.err),
				zap.Int64("telegram_id", telegramID),
				zap.String("channel", s.channel))
			return model.MembershipUnknown
		}

		switch res.member.Status {
		case "member", "administrator", "creator":
			return model.MembershipJoined
		default:
			return model.MembershipNotJoined
		}
	}
}
