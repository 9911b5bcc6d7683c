package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"giftcode_bot/internal/model"
	"giftcode_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const topReferrersLimit = 10

func (b *Bot) isAdmin(userID int64) bool {
	return userID == b.cfg.AdminID
}

func (b *Bot) handleSetCode(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	if !b.isAdmin(userID) {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "⛔ You are not authorized."))
		return
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Usage: /setcode NEWCODE [redemptions]"))
		return
	}

	code := &model.GiftCode{Value: args[0]}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			b.send(tgbotapi.NewMessage(msg.Chat.ID, "Redemption count must be a non-negative number."))
			return
		}
		code.RedemptionsLeft = &n
	}

	if err := b.claims.SetGiftCode(ctx, code); err != nil {
		logger.Logger().Error("failed to set gift code", zap.Error(err))
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "⚠️ Failed to update the code."))
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("✅ Daily code updated to: `%s`", code.Value))
	reply.ParseMode = tgbotapi.ModeMarkdown
	b.send(reply)
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	// non-admins get silence, same as the /broadcast command
	if !b.isAdmin(msg.From.ID) {
		return
	}

	stats, err := b.stats.BotStats(ctx)
	if err != nil {
		logger.Logger().Error("failed to get stats", zap.Error(err))
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "⚠️ Failed to load stats."))
		return
	}

	text := fmt.Sprintf(
		"📊 Bot Stats\n\n"+
			"👥 Users: %d (%d verified)\n"+
			"🔗 Total Referrals: %d\n"+
			"🎁 Total Claims: %d",
		stats.TotalUsers, stats.VerifiedUsers, stats.TotalReferrals, stats.TotalClaims)

	top, err := b.stats.TopReferrers(ctx, topReferrersLimit)
	if err != nil {
		logger.Logger().Error("failed to get top referrers", zap.Error(err))
	} else if len(top) > 0 {
		var sb strings.Builder
		sb.WriteString("\n\n🏆 Top referrers:")
		for i, r := range top {
			name := r.Username
			if name == "" {
				name = strconv.FormatInt(r.TelegramID, 10)
			}
			fmt.Fprintf(&sb, "\n%d. %s — %d invites", i+1, name, r.TotalInvites)
		}
		text += sb.String()
	}

	b.send(tgbotapi.NewMessage(msg.Chat.ID, text))
}

func (b *Bot) handleBroadcast(ctx context.Context, msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		return
	}

	text := strings.TrimSpace(msg.CommandArguments())
	if text == "" {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Usage: /broadcast Your message here"))
		return
	}

	adminChat := msg.Chat.ID
	go func() {
		report, err := b.broadcast.Broadcast(ctx, text)
		if err != nil {
			logger.Logger().Error("broadcast aborted", zap.Error(err))
			if report == nil {
				b.send(tgbotapi.NewMessage(adminChat, "⚠️ Broadcast failed."))
				return
			}
		}
		b.send(tgbotapi.NewMessage(adminChat, fmt.Sprintf(
			"✅ Broadcast complete. Attempted: %d, Sent: %d",
			report.Attempted, report.Sent)))
	}()
}
