package service

import (
	"context"
	"testing"
	"time"

	"giftcode_bot/internal/model"
	"giftcode_bot/internal/repository"
	"giftcode_bot/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReferralService_RegisterStart(t *testing.T) {
	referrerID := int64(100)
	refereeID := int64(200)

	tests := []struct {
		name      string
		token     string
		mockSetup func(repo *mocks.MockUserRepository, notifier *mocks.MockReferralNotifier)
		check     func(t *testing.T, repo *mocks.MockUserRepository, user *model.User, err error)
	}{
		{
			name:  "New user without token",
			token: "",
			mockSetup: func(repo *mocks.MockUserRepository, notifier *mocks.MockReferralNotifier) {
				repo.On("GetUserByTelegramID", mock.Anything, refereeID).
					Return(nil, repository.ErrNotFound).Once()
				repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.TelegramID == refereeID && u.ReferralCode != ""
				})).Return(nil)
				repo.On("GetUserByTelegramID", mock.Anything, refereeID).
					Return(&model.User{TelegramID: refereeID, ReferralCode: "abc123"}, nil)
			},
			check: func(t *testing.T, repo *mocks.MockUserRepository, user *model.User, err error) {
				assert.NoError(t, err)
				assert.Equal(t, refereeID, user.TelegramID)
				repo.AssertNotCalled(t, "AttributeReferral", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name:  "Successful attribution by referral code",
			token: "ref100code",
			mockSetup: func(repo *mocks.MockUserRepository, notifier *mocks.MockReferralNotifier) {
				repo.On("GetUserByTelegramID", mock.Anything, refereeID).
					Return(&model.User{TelegramID: refereeID}, nil)
				repo.On("GetUserByReferralCode", mock.Anything, "ref100code").
					Return(&model.User{TelegramID: referrerID, ReferralCode: "ref100code"}, nil)
				repo.On("AttributeReferral", mock.Anything, refereeID, referrerID).
					Return(nil).Once()
				notifier.On("ReferralCredited", referrerID, "bob").Once()
			},
			check: func(t *testing.T, repo *mocks.MockUserRepository, user *model.User, err error) {
				assert.NoError(t, err)
				repo.AssertNumberOfCalls(t, "AttributeReferral", 1)
			},
		},
		{
			name:  "Successful attribution by literal telegram id",
			token: "100",
			mockSetup: func(repo *mocks.MockUserRepository, notifier *mocks.MockReferralNotifier) {
				repo.On("GetUserByTelegramID", mock.Anything, refereeID).
					Return(&model.User{TelegramID: refereeID}, nil)
				repo.On("GetUserByTelegramID", mock.Anything, referrerID).
					Return(&model.User{TelegramID: referrerID}, nil)
				repo.On("AttributeReferral", mock.Anything, refereeID, referrerID).
					Return(nil).Once()
				notifier.On("ReferralCredited", referrerID, "bob").Once()
			},
			check: func(t *testing.T, repo *mocks.MockUserRepository, user *model.User, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "Self referral is a silent no-op",
			token: "200",
			mockSetup: func(repo *mocks.MockUserRepository, notifier *mocks.MockReferralNotifier) {
				repo.On("GetUserByTelegramID", mock.Anything, refereeID).
					Return(&model.User{TelegramID: refereeID}, nil)
			},
			check: func(t *testing.T, repo *mocks.MockUserRepository, user *model.User, err error) {
				assert.NoError(t, err)
				repo.AssertNotCalled(t, "AttributeReferral", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name:  "Already attributed referee is a silent no-op",
			token: "100",
			mockSetup: func(repo *mocks.MockUserRepository, notifier *mocks.MockReferralNotifier) {
				repo.On("GetUserByTelegramID", mock.Anything, refereeID).
					Return(&model.User{TelegramID: refereeID, ReferrerID: &referrerID}, nil)
			},
			check: func(t *testing.T, repo *mocks.MockUserRepository, user *model.User, err error) {
				assert.NoError(t, err)
				repo.AssertNotCalled(t, "AttributeReferral", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name:  "Unknown referrer token is a silent no-op",
			token: "nosuchcode",
			mockSetup: func(repo *mocks.MockUserRepository, notifier *mocks.MockReferralNotifier) {
				repo.On("GetUserByTelegramID", mock.Anything, refereeID).
					Return(&model.User{TelegramID: refereeID}, nil)
				repo.On("GetUserByReferralCode", mock.Anything, "nosuchcode").
					Return(nil, repository.ErrNotFound)
			},
			check: func(t *testing.T, repo *mocks.MockUserRepository, user *model.User, err error) {
				assert.NoError(t, err)
				repo.AssertNotCalled(t, "AttributeReferral", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name:  "Duplicate attribution reported by storage stays silent",
			token: "100",
			mockSetup: func(repo *mocks.MockUserRepository, notifier *mocks.MockReferralNotifier) {
				repo.On("GetUserByTelegramID", mock.Anything, refereeID).
					Return(&model.User{TelegramID: refereeID}, nil)
				repo.On("GetUserByTelegramID", mock.Anything, referrerID).
					Return(&model.User{TelegramID: referrerID}, nil)
				repo.On("AttributeReferral", mock.Anything, refereeID, referrerID).
					Return(repository.ErrAlreadyAttributed)
			},
			check: func(t *testing.T, repo *mocks.MockUserRepository, user *model.User, err error) {
				assert.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockUserRepository{}
			notifier := &mocks.MockReferralNotifier{}
			svc := NewReferralService(repo, notifier, NewHub(), "giftcode_bot")

			tt.mockSetup(repo, notifier)

			user, err := svc.RegisterStart(context.Background(), refereeID, "bob", tt.token)
			tt.check(t, repo, user, err)

			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestReferralService_Balance(t *testing.T) {
	repo := &mocks.MockUserRepository{}
	svc := NewReferralService(repo, nil, NewHub(), "giftcode_bot")

	t.Run("Unknown user gets zeros and no record", func(t *testing.T) {
		repo.On("GetUserByTelegramID", mock.Anything, int64(999)).
			Return(nil, repository.ErrNotFound).Once()

		balance, err := svc.Balance(context.Background(), 999)

		assert.NoError(t, err)
		assert.Equal(t, &model.Balance{}, balance)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Known user", func(t *testing.T) {
		claimed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		repo.On("GetUserByTelegramID", mock.Anything, int64(100)).
			Return(&model.User{
				TelegramID:       100,
				TotalInvites:     4,
				AvailableInvites: 2,
				ChannelVerified:  true,
				LastClaimDate:    &claimed,
			}, nil).Once()

		balance, err := svc.Balance(context.Background(), 100)

		assert.NoError(t, err)
		assert.Equal(t, 4, balance.TotalInvites)
		assert.Equal(t, 2, balance.AvailableInvites)
		assert.True(t, balance.ChannelVerified)
		assert.Equal(t, &claimed, balance.LastClaimDate)
	})
}

func TestReferralService_InviteLink(t *testing.T) {
	svc := NewReferralService(nil, nil, NewHub(), "my_gift_bot")

	link := svc.InviteLink(&model.User{TelegramID: 100, ReferralCode: "abc123def0"})

	assert.Equal(t, "https://t.me/my_gift_bot?start=abc123def0", link)
}
