package bot

import (
	"context"

	"giftcode_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Action is the decoded kind of an inline-button press. Callback payloads
// are turned into one of these exactly once, at this boundary.
type Action int

const (
	ActionUnknown Action = iota
	ActionVerify
	ActionClaim
	ActionStatus
	ActionMenu
)

const (
	callbackVerify = "verify"
	callbackClaim  = "claim"
	callbackStatus = "status"
	callbackMenu   = "menu"
)

func decodeAction(data string) Action {
	switch data {
	case callbackVerify:
		return ActionVerify
	case callbackClaim:
		return ActionClaim
	case callbackStatus:
		return ActionStatus
	case callbackMenu:
		return ActionMenu
	default:
		return ActionUnknown
	}
}

// HandleUpdate routes one inbound update. Safe for concurrent use; per-user
// serialization lives in the service layer.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "status":
		b.handleStatus(ctx, msg.From.ID)
	case "claim":
		b.handleClaim(ctx, msg.From.ID)
	case "setcode":
		b.handleSetCode(ctx, msg)
	case "stats":
		b.handleStats(ctx, msg)
	case "broadcast":
		b.handleBroadcast(ctx, msg)
	default:
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Unknown command. Try /start, /status or /claim."))
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID

	switch decodeAction(cb.Data) {
	case ActionVerify:
		b.handleVerify(ctx, cb)
	case ActionClaim:
		b.answerCallback(cb.ID, "")
		b.handleClaim(ctx, userID)
	case ActionStatus:
		b.answerCallback(cb.ID, "")
		b.handleStatus(ctx, userID)
	case ActionMenu:
		b.answerCallback(cb.ID, "")
		b.sendMainMenu(ctx, userID)
	default:
		logger.Logger().Debug("unknown callback payload",
			zap.String("data", cb.Data), zap.Int64("telegram_id", userID))
		b.answerCallback(cb.ID, "")
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		logger.Logger().Error("failed to send message", zap.Error(err))
	}
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		logger.Logger().Error("failed to answer callback", zap.Error(err))
	}
}

func (b *Bot) alertCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(id, text)); err != nil {
		logger.Logger().Error("failed to answer callback", zap.Error(err))
	}
}
