// Package notification 변경 내역 다이제스트를 설정된 발송 대상들에게 전달하는 서비스를 제공합니다.
//
// 발송은 최선 노력(Best-Effort) 방식으로 수행됩니다. 특정 대상에 대한 실패나 건너뜀은
// 결과(DeliveryOutcome)로 집계될 뿐, 나머지 대상의 발송을 중단시키지 않습니다.
package notification

// DeliveryStatus 단일 발송 대상에 대한 전달 시도의 결과 상태입니다.
type DeliveryStatus int

const (
	// DeliverySent 메시지가 정상적으로 전송되었음을 나타냅니다.
	DeliverySent DeliveryStatus = iota

	// DeliverySkipped 발송 가능한 봇이 없어 조용히 건너뛰었음을 나타냅니다.
	DeliverySkipped

	// DeliveryFailed 전송을 시도했으나 실패했음을 나타냅니다.
	DeliveryFailed
)

// String DeliveryStatus를 로그 출력용 문자열로 변환합니다.
func (s DeliveryStatus) String() string {
	switch s {
	case DeliverySent:
		return "sent"
	case DeliverySkipped:
		return "skipped"
	case DeliveryFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DeliveryOutcome 단일 발송 대상에 대한 전달 시도의 결과입니다.
// 집계 및 로깅 용도로만 사용되며, 호출자에게 에러로 전파되지 않습니다.
type DeliveryOutcome struct {
	DestinationID string
	Status        DeliveryStatus

	// Reason 건너뜀/실패 사유 (DeliverySent인 경우 빈 문자열)
	Reason string
}

// DestinationView 발송 대상의 현재 상태를 외부(조회 API)에 노출하기 위한 읽기 전용 뷰입니다.
type DestinationView struct {
	ID        string `json:"id"`
	Platform  string `json:"platform"`
	SelfID    string `json:"self_id,omitempty"`
	ChannelID string `json:"channel_id"`
	GuildID   string `json:"guild_id,omitempty"`
	Enabled   bool   `json:"enabled"`
}
