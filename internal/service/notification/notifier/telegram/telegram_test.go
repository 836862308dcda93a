package telegram

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	apperrors "github.com/darkkaiser/market-watcher/internal/pkg/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBotAPI records sent messages for assertions.
type fakeBotAPI struct {
	sendErr error
	sent    []tgbotapi.MessageConfig
}

func (f *fakeBotAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}

	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}

	return tgbotapi.Message{}, nil
}

// TestNotifier_Send verifies that the channel identifier is parsed into a chat ID
// and a single short message is sent as-is.
func TestNotifier_Send(t *testing.T) {
	bot := &fakeBotAPI{}
	n := &Notifier{id: "watcher-bot", bot: bot}

	err := n.Send(context.Background(), "-1001234567890", "", "[插件市场更新]\n新增：forward")

	require.NoError(t, err)
	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(-1001234567890), bot.sent[0].ChatID)
	assert.Equal(t, "[插件市场更新]\n新增：forward", bot.sent[0].Text)
}

// TestNotifier_Send_InvalidChannelID verifies the error for a non-numeric channel.
func TestNotifier_Send_InvalidChannelID(t *testing.T) {
	n := &Notifier{id: "watcher-bot", bot: &fakeBotAPI{}}

	err := n.Send(context.Background(), "not-a-number", "", "digest")

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
}

// TestNotifier_Send_SplitsLongMessage verifies line-based chunking of messages
// exceeding the API length limit, with the original content preserved.
func TestNotifier_Send_SplitsLongMessage(t *testing.T) {
	lines := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		lines = append(lines, strings.Repeat("x", 100))
	}
	message := strings.Join(lines, "\n")
	require.Greater(t, len(message), messageMaxLength)

	bot := &fakeBotAPI{}
	n := &Notifier{id: "watcher-bot", bot: bot}

	err := n.Send(context.Background(), "100", "", message)

	require.NoError(t, err)
	require.Greater(t, len(bot.sent), 1)

	chunks := make([]string, 0, len(bot.sent))
	for _, msg := range bot.sent {
		assert.LessOrEqual(t, len(msg.Text), messageMaxLength)
		chunks = append(chunks, msg.Text)
	}
	assert.Equal(t, message, strings.Join(chunks, "\n"), "분할 전후의 내용이 동일해야 합니다")
}

// TestNotifier_Send_Error verifies that an API failure is wrapped and returned.
func TestNotifier_Send_Error(t *testing.T) {
	bot := &fakeBotAPI{sendErr: assert.AnError}
	n := &Notifier{id: "watcher-bot", bot: bot}

	err := n.Send(context.Background(), "100", "", "digest")

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.Unavailable))
}

// TestNotifier_Send_ContextCancelled verifies that a cancelled context stops
// delivery before any chunk is sent.
func TestNotifier_Send_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bot := &fakeBotAPI{}
	n := &Notifier{id: "watcher-bot", bot: bot}

	err := n.Send(ctx, "100", "", "digest")

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, bot.sent)
}

// TestSplitMessage_ShortMessage verifies that short messages pass through unchanged.
func TestSplitMessage_ShortMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short"))
}

// TestSplitMessage_OverlongLine verifies forced splitting of a single line that
// exceeds the limit on its own, respecting UTF-8 rune boundaries.
func TestSplitMessage_OverlongLine(t *testing.T) {
	// 한 줄 전체가 제한을 초과하는 멀티바이트 문자열 (3바이트 한자 5000자 = 15000바이트)
	message := strings.Repeat("更", 5000)

	chunks := splitMessage(message)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), messageMaxLength)
		assert.True(t, utf8.ValidString(chunk), "분할 지점에서 문자가 깨지면 안됩니다")
	}
	assert.Equal(t, message, strings.Join(chunks, ""))
}

// TestSafeSplit verifies the UTF-8 boundary backoff of the raw splitter.
func TestSafeSplit(t *testing.T) {
	t.Run("제한 이내 문자열은 그대로 반환", func(t *testing.T) {
		chunk, remainder := safeSplit("abc", 10)

		assert.Equal(t, "abc", chunk)
		assert.Empty(t, remainder)
	})

	t.Run("문자 경계 직전까지 후퇴하여 분할", func(t *testing.T) {
		// "更" = 3바이트. limit 4는 두 번째 문자의 중간이므로 3바이트에서 잘려야 합니다.
		chunk, remainder := safeSplit("更更", 4)

		assert.Equal(t, "更", chunk)
		assert.Equal(t, "更", remainder)
	})
}
