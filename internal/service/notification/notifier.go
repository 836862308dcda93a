package notification

import (
	"context"
)

// Notifier 단일 봇 계정을 통해 메시지를 전송하는 인터페이스입니다.
//
// 구현체는 플랫폼별 API 제한(메시지 길이 등)을 스스로 처리해야 하며,
// 컨텍스트 취소 시 즉시 전송을 중단해야 합니다.
type Notifier interface {
	// ID 설정 파일에 정의된 봇의 고유 식별자를 반환합니다.
	ID() string

	// Platform 이 봇이 속한 메시징 플랫폼 식별자를 반환합니다. (예: "telegram")
	Platform() string

	// Send 지정된 채널로 메시지를 전송합니다.
	// guildID는 그룹/길드 개념이 있는 플랫폼에서만 의미를 가지며, 없는 플랫폼에서는 무시됩니다.
	Send(ctx context.Context, channelID, guildID, message string) error
}
