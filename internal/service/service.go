package service

import (
	"context"
	"errors"
	"time"

	"giftcode_bot/internal/model"
)

var (
	ErrUserNotFound = errors.New("user not found")

	// Claim denials. Each maps to its own user-facing message; callers
	// branch with errors.Is.
	ErrNotVerified         = errors.New("channel membership not verified")
	ErrAlreadyClaimedToday = errors.New("already claimed today")
	ErrInsufficientInvites = errors.New("not enough available invites")

	ErrNoGiftCode = errors.New("no gift code configured")
)

type Service struct {
	*ReferralService
	*ClaimService
	*MembershipService
	*StatsService
}

func NewService(rs *ReferralService, cs *ClaimService, ms *MembershipService, ss *StatsService) *Service {
	return &Service{
		ReferralService:   rs,
		ClaimService:      cs,
		MembershipService: ms,
		StatsService:      ss,
	}
}

type ReferralServiceI interface {
	RegisterStart(ctx context.Context, telegramID int64, username, token string) (*model.User, error)
	Balance(ctx context.Context, telegramID int64) (*model.Balance, error)
	InviteLink(user *model.User) string
}

type ClaimServiceI interface {
	AttemptClaim(ctx context.Context, telegramID int64, now time.Time) (*model.ClaimResult, error)
	MarkVerified(ctx context.Context, telegramID int64) error
	SetGiftCode(ctx context.Context, code *model.GiftCode) error
}

type MembershipServiceI interface {
	IsMember(ctx context.Context, telegramID int64) model.MembershipStatus
}

type StatsServiceI interface {
	BotStats(ctx context.Context) (*model.BotStats, error)
	TopReferrers(ctx context.Context, limit int) ([]*model.TopReferrer, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetUserByReferralCode(ctx context.Context, code string) (*model.User, error)
	AttributeReferral(ctx context.Context, refereeID, referrerID int64) error
	ListUserIDs(ctx context.Context) ([]int64, error)
}

type ClaimRepository interface {
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	SetChannelVerified(ctx context.Context, telegramID int64) error
	SpendClaim(ctx context.Context, telegramID int64, today time.Time) error
	GetGiftCode(ctx context.Context) (*model.GiftCode, error)
	SetGiftCode(ctx context.Context, code *model.GiftCode) error
	DecrementRedemptions(ctx context.Context) error
}

type StatsRepository interface {
	GetBotStats(ctx context.Context) (*model.BotStats, error)
	GetTopReferrers(ctx context.Context, limit int) ([]*model.TopReferrer, error)
}

// ReferralNotifier is the messaging boundary the ledger emits to when a
// referral lands. Failures are logged, never surfaced to the referee.
type ReferralNotifier interface {
	ReferralCredited(referrerID int64, refereeUsername string)
}
