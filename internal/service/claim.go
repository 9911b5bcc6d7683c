package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"giftcode_bot/internal/model"
	"giftcode_bot/internal/repository"
	"giftcode_bot/pkg/logger"

	"go.uber.org/zap"
)

type ClaimService struct {
	repo   ClaimRepository
	events *Hub
	locks  *keyMutex
}

func NewClaimService(repo ClaimRepository, events *Hub) *ClaimService {
	return &ClaimService{
		repo:   repo,
		events: events,
		locks:  newKeyMutex(),
	}
}

// AttemptClaim spends ClaimPrice invites for the current gift code, at most
// once per UTC calendar day. The per-user lock plus the conditional update
// in the repository keep a double-tap from deducting twice.
func (s *ClaimService) AttemptClaim(ctx context.Context, telegramID int64, now time.Time) (*model.ClaimResult, error) {
	s.locks.Lock(telegramID)
	defer s.locks.Unlock(telegramID)

	today := now.UTC()

	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user for claim: %w", err)
	}

	if err := claimDenial(user, today); err != nil {
		return nil, err
	}

	err = s.repo.SpendClaim(ctx, telegramID, today)
	if err != nil {
		if errors.Is(err, repository.ErrClaimConditionFailed) {
			// lost a race despite the lock (e.g. a concurrent writer
			// outside this process); re-derive the reason
			fresh, ferr := s.repo.GetUserByTelegramID(ctx, telegramID)
			if ferr == nil {
				if derr := claimDenial(fresh, today); derr != nil {
					return nil, derr
				}
			}
			return nil, ErrAlreadyClaimedToday
		}
		return nil, fmt.Errorf("failed to spend claim: %w", err)
	}

	code, err := s.repo.GetGiftCode(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoGiftCode
		}
		return nil, fmt.Errorf("failed to read gift code: %w", err)
	}

	if code.RedemptionsLeft != nil {
		if err := s.repo.DecrementRedemptions(ctx); err != nil {
			logger.Logger().Error("failed to decrement redemptions", zap.Error(err))
		}
	}

	s.events.Publish(Event{
		Type:   EventCodeClaimed,
		UserID: telegramID,
	})

	return &model.ClaimResult{
		GiftCode:  code.Value,
		ClaimedAt: today,
	}, nil
}

// claimDenial checks the gate conditions in their canonical order.
func claimDenial(user *model.User, today time.Time) error {
	if !user.ChannelVerified {
		return ErrNotVerified
	}
	if user.HasClaimedOn(today) {
		return ErrAlreadyClaimedToday
	}
	if user.AvailableInvites < model.ClaimPrice {
		return ErrInsufficientInvites
	}
	return nil
}

func (s *ClaimService) MarkVerified(ctx context.Context, telegramID int64) error {
	s.locks.Lock(telegramID)
	defer s.locks.Unlock(telegramID)

	err := s.repo.SetChannelVerified(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	return nil
}

func (s *ClaimService) SetGiftCode(ctx context.Context, code *model.GiftCode) error {
	if err := s.repo.SetGiftCode(ctx, code); err != nil {
		return fmt.Errorf("failed to set gift code: %w", err)
	}
	return nil
}
