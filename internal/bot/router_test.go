package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		data     string
		expected Action
	}{
		{"verify", ActionVerify},
		{"claim", ActionClaim},
		{"status", ActionStatus},
		{"menu", ActionMenu},
		{"", ActionUnknown},
		{"adjust_123", ActionUnknown},
		{"VERIFY", ActionUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, decodeAction(tt.data), "data=%q", tt.data)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "bob", displayName(&tgbotapi.User{ID: 1, UserName: "bob", FirstName: "Bob"}))
	assert.Equal(t, "Bob", displayName(&tgbotapi.User{ID: 1, FirstName: "Bob"}))
	assert.Equal(t, "User_7", displayName(&tgbotapi.User{ID: 7}))
	assert.Equal(t, "", displayName(nil))
}
