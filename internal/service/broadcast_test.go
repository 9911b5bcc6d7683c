package service

import (
	"context"
	"testing"
	"time"

	"giftcode_bot/internal/service/mocks"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestBroadcaster_FailuresAreCountedNotFatal(t *testing.T) {
	repo := &mocks.MockUserRepository{}
	sender := &mocks.MockMessageSender{}

	repo.On("ListUserIDs", mock.Anything).
		Return([]int64{1, 2, 3}, nil)

	sender.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.ChatID == 1
	})).Return(tgbotapi.Message{}, nil)
	sender.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.ChatID == 2
	})).Return(tgbotapi.Message{}, assert.AnError)
	sender.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.ChatID == 3
	})).Return(tgbotapi.Message{}, nil)

	b := NewBroadcaster(repo, sender)
	b.delay = time.Millisecond

	report, err := b.Broadcast(context.Background(), "hello")

	assert.NoError(t, err)
	assert.Equal(t, 3, report.Attempted)
	assert.Equal(t, 2, report.Sent)
	sender.AssertNumberOfCalls(t, "Send", 3)
}

func TestBroadcaster_CancelStopsBetweenRecipients(t *testing.T) {
	repo := &mocks.MockUserRepository{}
	sender := &mocks.MockMessageSender{}

	repo.On("ListUserIDs", mock.Anything).
		Return([]int64{1, 2, 3}, nil)
	sender.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBroadcaster(repo, sender)
	b.delay = time.Millisecond

	report, err := b.Broadcast(ctx, "hello")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, report.Sent)
	sender.AssertNotCalled(t, "Send", mock.Anything)
}
