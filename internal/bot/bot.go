package bot

import (
	"fmt"

	"giftcode_bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Config struct {
	ChannelUsername string
	WhatsAppLink    string
	AdminID         int64
	Debug           bool
}

type Bot struct {
	api        *tgbotapi.BotAPI
	cfg        Config
	referrals  service.ReferralServiceI
	claims     service.ClaimServiceI
	membership service.MembershipServiceI
	stats      service.StatsServiceI
	broadcast  *service.Broadcaster
}

func NewAPI(token string, debug bool) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}
	api.Debug = debug
	return api, nil
}

func New(api *tgbotapi.BotAPI, cfg Config, svc *service.Service, broadcast *service.Broadcaster) *Bot {
	return &Bot{
		api:        api,
		cfg:        cfg,
		referrals:  svc.ReferralService,
		claims:     svc.ClaimService,
		membership: svc.MembershipService,
		stats:      svc.StatsService,
		broadcast:  broadcast,
	}
}

func (b *Bot) Username() string {
	return b.api.Self.UserName
}
