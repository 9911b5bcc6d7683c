package service

import (
	"context"
	"testing"
	"time"

	"giftcode_bot/internal/model"
	"giftcode_bot/internal/service/mocks"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMembershipService_IsMember(t *testing.T) {
	tests := []struct {
		name      string
		mockSetup func(bot *mocks.MockChatMemberGetter)
		expected  model.MembershipStatus
	}{
		{
			name: "Member",
			mockSetup: func(bot *mocks.MockChatMemberGetter) {
				bot.On("GetChatMember", mock.Anything).
					Return(tgbotapi.ChatMember{Status: "member"}, nil)
			},
			expected: model.MembershipJoined,
		},
		{
			name: "Administrator counts as joined",
			mockSetup: func(bot *mocks.MockChatMemberGetter) {
				bot.On("GetChatMember", mock.Anything).
					Return(tgbotapi.ChatMember{Status: "administrator"}, nil)
			},
			expected: model.MembershipJoined,
		},
		{
			name: "Creator counts as joined",
			mockSetup: func(bot *mocks.MockChatMemberGetter) {
				bot.On("GetChatMember", mock.Anything).
					Return(tgbotapi.ChatMember{Status: "creator"}, nil)
			},
			expected: model.MembershipJoined,
		},
		{
			name: "Left channel",
			mockSetup: func(bot *mocks.MockChatMemberGetter) {
				bot.On("GetChatMember", mock.Anything).
					Return(tgbotapi.ChatMember{Status: "left"}, nil)
			},
			expected: model.MembershipNotJoined,
		},
		{
			name: "Transport failure is unknown, not a denial of membership",
			mockSetup: func(bot *mocks.MockChatMemberGetter) {
				bot.On("GetChatMember", mock.Anything).
					Return(tgbotapi.ChatMember{}, assert.AnError)
			},
			expected: model.MembershipUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := &mocks.MockChatMemberGetter{}
			svc := NewMembershipService(bot, "my_channel")

			tt.mockSetup(bot)

			status := svc.IsMember(context.Background(), 123)
			assert.Equal(t, tt.expected, status)

			bot.AssertExpectations(t)
		})
	}
}

func TestMembershipService_Timeout(t *testing.T) {
	bot := &mocks.MockChatMemberGetter{}
	bot.On("GetChatMember", mock.Anything).
		Run(func(args mock.Arguments) {
			time.Sleep(200 * time.Millisecond)
		}).
		Return(tgbotapi.ChatMember{Status: "member"}, nil)

	svc := NewMembershipService(bot, "my_channel")
	svc.timeout = 20 * time.Millisecond

	status := svc.IsMember(context.Background(), 123)
	assert.Equal(t, model.MembershipUnknown, status)
}
