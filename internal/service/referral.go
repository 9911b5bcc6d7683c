package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"giftcode_bot/internal/model"
	"giftcode_bot/internal/repository"
	"giftcode_bot/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReferralService struct {
	repo     UserRepository
	notifier ReferralNotifier
	events   *Hub
	botName  string
	locks    *keyMutex
}

func NewReferralService(repo UserRepository, notifier ReferralNotifier, events *Hub, botName string) *ReferralService {
	return &ReferralService{
		repo:     repo,
		notifier: notifier,
		events:   events,
		botName:  botName,
		locks:    newKeyMutex(),
	}
}

// RegisterStart ensures a user record exists and, when a referral token is
// present, attributes the referral. Attribution failures (self referral,
// duplicate, unknown referrer) are deliberately invisible to the referee.
func (s *ReferralService) RegisterStart(ctx context.Context, telegramID int64, username, token string) (*model.User, error) {
	s.locks.Lock(telegramID)
	defer s.locks.Unlock(telegramID)

	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = s.createUser(ctx, telegramID, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user record: %w", err)
	}

	if token != "" {
		s.attribute(ctx, user, username, token)

		// attribution may have set referrer_id
		if fresh, err := s.repo.GetUserByTelegramID(ctx, telegramID); err == nil {
			user = fresh
		}
	}

	return user, nil
}

func (s *ReferralService) createUser(ctx context.Context, telegramID int64, username string) (*model.User, error) {
	user := &model.User{
		TelegramID:       telegramID,
		Username:         username,
		ReferralCode:     newReferralCode(),
		RegistrationDate: time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	// re-read so a concurrent create of the same id wins consistently
	return s.repo.GetUserByTelegramID(ctx, telegramID)
}

func (s *ReferralService) attribute(ctx context.Context, referee *model.User, refereeUsername, token string) {
	log := logger.Logger()

	if referee.ReferrerID != nil {
		log.Debug("referral skipped: referee already attributed",
			zap.Int64("telegram_id", referee.TelegramID))
		return
	}

	referrer, err := s.resolveToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug("referral skipped: unknown referrer token",
				zap.String("token", token))
			return
		}
		log.Error("failed to resolve referral token", zap.Error(err))
		return
	}

	if referrer.TelegramID == referee.TelegramID {
		log.Debug("referral skipped: self referral",
			zap.Int64("telegram_id", referee.TelegramID))
		return
	}

	err = s.repo.AttributeReferral(ctx, referee.TelegramID, referrer.TelegramID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyAttributed),
			errors.Is(err, repository.ErrSelfReferral):
			log.Debug("referral skipped", zap.Error(err),
				zap.Int64("telegram_id", referee.TelegramID))
		default:
			log.Error("failed to attribute referral", zap.Error(err),
				zap.Int64("referrer_id", referrer.TelegramID),
				zap.Int64("referee_id", referee.TelegramID))
		}
		return
	}

	log.Info("referral credited",
		zap.Int64("referrer_id", referrer.TelegramID),
		zap.Int64("referee_id", referee.TelegramID))

	if s.notifier != nil {
		s.notifier.ReferralCredited(referrer.TelegramID, refereeUsername)
	}
	s.events.Publish(Event{
		Type:   EventReferralCredited,
		UserID: referrer.TelegramID,
		Data: map[string]interface{}{
			"referee_id":       referee.TelegramID,
			"referee_username": refereeUsername,
		},
	})
}

// resolveToken accepts either a literal telegram id (legacy deep links) or
// a generated referral code.
func (s *ReferralService) resolveToken(ctx context.Context, token string) (*model.User, error) {
	if id, err := strconv.ParseInt(token, 10, 64); err == nil {
		return s.repo.GetUserByTelegramID(ctx, id)
	}
	return s.repo.GetUserByReferralCode(ctx, token)
}

// Balance is read-only: unknown users get zero values and no record.
func (s *ReferralService) Balance(ctx context.Context, telegramID int64) (*model.Balance, error) {
	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &model.Balance{}, nil
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	return &model.Balance{
		TotalInvites:     user.TotalInvites,
		AvailableInvites: user.AvailableInvites,
		LastClaimDate:    user.LastClaimDate,
		ChannelVerified:  user.ChannelVerified,
	}, nil
}

func (s *ReferralService) InviteLink(user *model.User) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", s.botName, user.ReferralCode)
}

func newReferralCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
