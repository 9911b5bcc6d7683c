package mocks

import (
	"context"
	"time"

	"giftcode_bot/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByReferralCode(ctx context.Context, code string) (*model.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) AttributeReferral(ctx context.Context, refereeID, referrerID int64) error {
	args := m.Called(ctx, refereeID, referrerID)
	return args.Error(0)
}

func (m *MockUserRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockClaimRepository) SetChannelVerified(ctx context.Context, telegramID int64) error {
	args := m.Called(ctx, telegramID)
	return args.Error(0)
}

func (m *MockClaimRepository) SpendClaim(ctx context.Context, telegramID int64, today time.Time) error {
	args := m.Called(ctx, telegramID, today)
	return args.Error(0)
}

func (m *MockClaimRepository) GetGiftCode(ctx context.Context) (*model.GiftCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GiftCode), args.Error(1)
}

func (m *MockClaimRepository) SetGiftCode(ctx context.Context, code *model.GiftCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockClaimRepository) DecrementRedemptions(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) GetBotStats(ctx context.Context) (*model.BotStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BotStats), args.Error(1)
}

func (m *MockStatsRepository) GetTopReferrers(ctx context.Context, limit int) ([]*model.TopReferrer, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TopReferrer), args.Error(1)
}

type MockChatMemberGetter struct {
	mock.Mock
}

func (m *MockChatMemberGetter) GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	args := m.Called(config)
	return args.Get(0).(tgbotapi.ChatMember), args.Error(1)
}

type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

type MockReferralNotifier struct {
	mock.Mock
}

func (m *MockReferralNotifier) ReferralCredited(referrerID int64, refereeUsername string) {
	m.Called(referrerID, refereeUsername)
}
