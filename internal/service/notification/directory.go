package notification

import (
	"github.com/darkkaiser/market-watcher/internal/config"
)

// Directory (플랫폼, 채널) 쌍에 배정된 봇 식별자를 조회하는 배정표입니다.
//
// 명시적인 봇 식별자(SelfID) 없이 정의된 발송 대상은 발송 시점에
// 이 배정표를 통해 동적으로 해석됩니다.
type Directory struct {
	assignments []config.AssignmentConfig
}

// NewDirectory 설정 파일의 배정 목록으로 새로운 Directory를 생성합니다.
func NewDirectory(assignments []config.AssignmentConfig) *Directory {
	return &Directory{
		assignments: assignments,
	}
}

// ResolveAssignee 지정된 (플랫폼, 채널)에 배정된 봇 식별자와 길드 식별자를 반환합니다.
// 배정이 없으면 세 번째 반환값이 false입니다.
func (d *Directory) ResolveAssignee(platform, channelID string) (assignee, guildID string, ok bool) {
	for _, a := range d.assignments {
		if a.Platform == platform && a.ChannelID == channelID {
			return a.Assignee, a.GuildID, true
		}
	}

	return "", "", false
}
