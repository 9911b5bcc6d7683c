package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"giftcode_bot/internal/model"
	"giftcode_bot/internal/service"
	"giftcode_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

func displayName(from *tgbotapi.User) string {
	if from == nil {
		return ""
	}
	if from.UserName != "" {
		return from.UserName
	}
	if from.FirstName != "" {
		return from.FirstName
	}
	return fmt.Sprintf("User_%d", from.ID)
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	log := logger.Logger()
	userID := msg.From.ID
	token := msg.CommandArguments()

	user, err := b.referrals.RegisterStart(ctx, userID, displayName(msg.From), token)
	if err != nil {
		log.Error("failed to register start", zap.Error(err), zap.Int64("telegram_id", userID))
		b.send(tgbotapi.NewMessage(userID, "⚠️ Something went wrong, please try again later."))
		return
	}

	invite := b.referrals.InviteLink(user)

	reply := tgbotapi.NewMessage(userID, fmt.Sprintf(
		"👋 Hey %s!\n\n"+
			"Join both channels then click Verify to continue.\n\n"+
			"Your invite link:\n`%s`",
		msg.From.FirstName, invite))
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = b.joinKeyboard()
	b.send(reply)

	b.sendInviteQR(userID, invite)
}

func (b *Bot) sendInviteQR(userID int64, invite string) {
	png, err := qrcode.Encode(invite, qrcode.Medium, 256)
	if err != nil {
		logger.Logger().Error("failed to render invite qr", zap.Error(err))
		return
	}

	photo := tgbotapi.NewPhoto(userID, tgbotapi.FileBytes{
		Name:  "invite.png",
		Bytes: png,
	})
	photo.Caption = "Share this QR code to invite friends"
	b.send(photo)
}

func (b *Bot) handleVerify(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID

	switch b.membership.IsMember(ctx, userID) {
	case model.MembershipJoined:
		err := b.claims.MarkVerified(ctx, userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				b.alertCallback(cb.ID, "Please run /start first.")
				return
			}
			logger.Logger().Error("failed to persist verification",
				zap.Error(err), zap.Int64("telegram_id", userID))
			b.alertCallback(cb.ID, "⚠️ Something went wrong, please try again.")
			return
		}
		b.answerCallback(cb.ID, "✅ Verified")
		b.send(tgbotapi.NewMessage(userID,
			"🎉 Verification complete! Invite 2 friends to claim the daily code."))
		b.sendMainMenu(ctx, userID)

	case model.MembershipNotJoined:
		b.alertCallback(cb.ID, "❌ You haven't joined the Telegram channel yet!")
		b.sendJoinPrompt(userID)

	default:
		// unknown means our configuration problem, not user non-compliance;
		// still fail closed
		b.alertCallback(cb.ID, "⚠️ Channel verification failed. Make sure the channel exists and the bot is added as admin.")
		b.sendJoinPrompt(userID)
	}
}

func (b *Bot) sendJoinPrompt(userID int64) {
	msg := tgbotapi.NewMessage(userID, "📢 Join both channels then click Verify to continue.")
	msg.ReplyMarkup = b.joinKeyboard()
	b.send(msg)
}

func (b *Bot) sendMainMenu(ctx context.Context, userID int64) {
	balance, err := b.referrals.Balance(ctx, userID)
	if err != nil {
		logger.Logger().Error("failed to load balance for menu", zap.Error(err))
		balance = &model.Balance{}
	}

	msg := tgbotapi.NewMessage(userID, fmt.Sprintf(
		"🔓 Available invites: %d\n"+
			"Each daily code costs %d invites.",
		balance.AvailableInvites, model.ClaimPrice))
	msg.ReplyMarkup = mainMenuKeyboard()
	b.send(msg)
}

func (b *Bot) handleStatus(ctx context.Context, userID int64) {
	balance, err := b.referrals.Balance(ctx, userID)
	if err != nil {
		logger.Logger().Error("failed to get balance", zap.Error(err), zap.Int64("telegram_id", userID))
		b.send(tgbotapi.NewMessage(userID, "⚠️ Something went wrong, please try again later."))
		return
	}

	lastClaim := "—"
	if balance.LastClaimDate != nil {
		lastClaim = balance.LastClaimDate.UTC().Format("2006-01-02")
	}

	claims := (balance.TotalInvites - balance.AvailableInvites) / model.ClaimPrice

	msg := tgbotapi.NewMessage(userID, fmt.Sprintf(
		"💎 Your Referral Dashboard 💎\n\n"+
			"👤 Total Invites: %d\n"+
			"🎁 Codes Claimed: %d\n"+
			"🔓 Available Invites: %d\n"+
			"📅 Last Claim: %s\n\n"+
			"Use /claim to redeem (%d invites per code).",
		balance.TotalInvites, claims, balance.AvailableInvites, lastClaim, model.ClaimPrice))
	msg.ReplyMarkup = backToMenuKeyboard()
	b.send(msg)
}

func (b *Bot) handleClaim(ctx context.Context, userID int64) {
	result, err := b.claims.AttemptClaim(ctx, userID, time.Now())
	if err != nil {
		b.sendClaimDenial(ctx, userID, err)
		return
	}

	msg := tgbotapi.NewMessage(userID, fmt.Sprintf(
		"🎉 Congrats! Your daily code:\n`%s`", result.GiftCode))
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.send(msg)
}

func (b *Bot) sendClaimDenial(ctx context.Context, userID int64, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		b.send(tgbotapi.NewMessage(userID, "Please run /start first."))

	case errors.Is(err, service.ErrNotVerified):
		b.send(tgbotapi.NewMessage(userID, "🔒 Verify your channel membership first."))
		b.sendJoinPrompt(userID)

	case errors.Is(err, service.ErrAlreadyClaimedToday):
		b.send(tgbotapi.NewMessage(userID, "✅ You've already claimed today's code. Come back tomorrow."))

	case errors.Is(err, service.ErrInsufficientInvites):
		missing := model.ClaimPrice
		if balance, berr := b.referrals.Balance(ctx, userID); berr == nil {
			missing = model.ClaimPrice - balance.AvailableInvites
		}
		b.send(tgbotapi.NewMessage(userID, fmt.Sprintf(
			"👥 You need %d more invite(s) to claim a code. Share your link from /start!", missing)))

	case errors.Is(err, service.ErrNoGiftCode):
		logger.Logger().Error("claim succeeded but no gift code configured")
		b.send(tgbotapi.NewMessage(userID, "⚠️ No code is available right now, please contact support."))

	default:
		logger.Logger().Error("claim failed", zap.Error(err), zap.Int64("telegram_id", userID))
		b.send(tgbotapi.NewMessage(userID, "⚠️ Something went wrong, please try again later."))
	}
}
