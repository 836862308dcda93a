// Package telegram 텔레그램 Bot API를 통한 메시지 전송 Notifier 구현체를 제공합니다.
package telegram

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/darkkaiser/market-watcher/internal/config"
	apperrors "github.com/darkkaiser/market-watcher/internal/pkg/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	// platformID 이 Notifier가 속한 메시징 플랫폼 식별자입니다.
	platformID = "telegram"

	// messageMaxLength 텔레그램 Bot API가 허용하는 단일 메시지의 최대 길이(Byte)입니다.
	// 이를 초과하는 메시지를 그대로 전송하면 400 Bad Request가 발생합니다.
	messageMaxLength = 4096
)

// botAPI 전송에 필요한 텔레그램 Bot API의 최소 기능 집합입니다. (테스트 대역 주입용)
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier 텔레그램 봇 하나를 통해 메시지를 전송하는 Notifier 구현체입니다.
type Notifier struct {
	id  string
	bot botAPI
}

// New 봇 토큰으로 텔레그램 Bot API에 연결하여 새로운 Notifier를 생성합니다.
// 연결 과정에서 토큰의 유효성이 함께 검증됩니다 (getMe 호출).
func New(telegramConfig config.TelegramConfig) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(telegramConfig.BotToken)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable, "텔레그램 Bot API 연결에 실패했습니다")
	}

	return &Notifier{
		id:  telegramConfig.ID,
		bot: bot,
	}, nil
}

// ID 설정 파일에 정의된 봇의 고유 식별자를 반환합니다.
func (n *Notifier) ID() string {
	return n.id
}

// Platform 메시징 플랫폼 식별자를 반환합니다.
func (n *Notifier) Platform() string {
	return platformID
}

// Send 지정된 채널(Chat ID)로 메시지를 전송합니다.
//
// 텔레그램에는 길드 개념이 없으므로 guildID는 무시됩니다.
// 메시지가 API 길이 제한을 초과하는 경우 줄 단위로 분할하여 순서대로 전송하며,
// 중간 청크 전송이 실패하면 남은 청크의 전송을 중단하고 에러를 반환합니다.
func (n *Notifier) Send(ctx context.Context, channelID, _ /* guildID */, message string) error {
	chatID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.InvalidInput, "텔레그램 채널 식별자('%s')를 Chat ID로 해석할 수 없습니다", channelID)
	}

	for _, chunk := range splitMessage(message) {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			return apperrors.Wrap(err, apperrors.Unavailable, "텔레그램 메시지 전송에 실패했습니다")
		}
	}

	return nil
}

// splitMessage 긴 메시지를 텔레그램 API 길이 제한에 맞춰 분할합니다.
//
// 가능한 한 줄바꿈(\n) 단위로 분할하여 문장이 중간에 잘리지 않도록 하고,
// 한 줄 자체가 제한을 초과하는 경우에만 UTF-8 문자 경계를 존중하며 강제 분할합니다.
func splitMessage(message string) []string {
	if len(message) <= messageMaxLength {
		return []string{message}
	}

	var chunks []string
	var sb strings.Builder
	sb.Grow(messageMaxLength)

	flush := func() {
		if sb.Len() > 0 {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
	}

	for _, line := range strings.Split(message, "\n") {
		neededSpace := len(line)
		if sb.Len() > 0 {
			neededSpace++ // 줄바꿈 문자
		}

		if sb.Len()+neededSpace > messageMaxLength {
			flush()

			// 초장문 라인: 줄바꿈으로 분할할 수 없으므로 문자 경계를 지키며 강제로 자릅니다.
			for len(line) > messageMaxLength {
				var chunk string
				chunk, line = safeSplit(line, messageMaxLength)
				chunks = append(chunks, chunk)
			}
		}

		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}

	flush()

	return chunks
}

// safeSplit 문자열을 최대 limit 바이트에서 자르되, UTF-8 문자 경계가 깨지지 않도록
// 경계 직전까지 후퇴하여 분할 지점을 결정합니다.
func safeSplit(s string, limit int) (chunk, remainder string) {
	if len(s) <= limit {
		return s, ""
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		// 비정상 입력(limit 바이트 이내에 문자 경계 없음) 방어
		cut = limit
	}

	return s[:cut], s[cut:]
}
