package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"giftcode_bot/internal/api"
	"giftcode_bot/internal/bot"
	"giftcode_bot/internal/model"
	"giftcode_bot/internal/repository"
	"giftcode_bot/internal/service"
	"giftcode_bot/pkg/auth"
	"giftcode_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seedGiftCode(ctx, repo, cfg.Telegram.DefaultGiftCode); err != nil {
		zapLogger.Fatal("Failed to seed gift code", zap.Error(err))
	}

	botAPI, err := bot.NewAPI(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Telegram", zap.Error(err))
	}

	hub := service.NewHub()
	notifier := bot.NewNotifier(botAPI)

	channel := strings.TrimPrefix(cfg.Telegram.ChannelUsername, "@")
	svc := service.NewService(
		service.NewReferralService(repo, notifier, hub, botAPI.Self.UserName),
		service.NewClaimService(repo, hub),
		service.NewMembershipService(botAPI, channel),
		service.NewStatsService(repo),
	)
	broadcaster := service.NewBroadcaster(repo, botAPI)

	b := bot.New(botAPI, bot.Config{
		ChannelUsername: channel,
		WhatsAppLink:    cfg.Telegram.WhatsAppLink,
		AdminID:         cfg.Telegram.AdminID,
		Debug:           cfg.Telegram.Debug,
	}, svc, broadcaster)

	scheduler, err := b.StartDailyDigest(ctx)
	if err != nil {
		zapLogger.Fatal("Failed to start daily digest", zap.Error(err))
	}
	defer scheduler.Shutdown()

	telegramAuth := auth.NewTelegramAuth(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	router := api.NewRouter(api.Deps{
		Bot:      b,
		Service:  svc,
		Hub:      hub,
		Auth:     telegramAuth,
		BotToken: cfg.Telegram.BotToken,
		AdminID:  cfg.Telegram.AdminID,
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	go func() {
		zapLogger.Info("Starting server", zap.String("addr", addr))
		if err := router.Run(addr); err != nil {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	if cfg.Telegram.WebhookURL != "" {
		if err := registerWebhook(botAPI, cfg.Telegram.WebhookURL, cfg.Telegram.BotToken); err != nil {
			zapLogger.Fatal("Failed to register webhook", zap.Error(err))
		}
		zapLogger.Info("bot running in webhook mode", zap.String("url", cfg.Telegram.WebhookURL))
		<-ctx.Done()
		return
	}

	b.Run(ctx)
}

func seedGiftCode(ctx context.Context, repo *repository.Repository, defaultCode string) error {
	_, err := repo.GetGiftCode(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return repo.SetGiftCode(ctx, &model.GiftCode{Value: defaultCode})
}

func registerWebhook(botAPI *tgbotapi.BotAPI, baseURL, token string) error {
	wh, err := tgbotapi.NewWebhook(strings.TrimSuffix(baseURL, "/") + "/webhook/" + token)
	if err != nil {
		return err
	}
	_, err = botAPI.Request(wh)
	return err
}
