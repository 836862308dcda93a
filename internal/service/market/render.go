package market

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// DigestHeader 다이제스트 첫 줄에 들어가는 헤더 리터럴입니다.
	DigestHeader = "[插件市场更新]"

	// 변경 유형별 접두어 (사용자에게 노출되는 문구이므로 수정 시 주의)
	verbCreated = "新增："
	verbRemoved = "删除："
	verbUpdated = "更新："

	// estimatedLineSize 변경 내역 한 줄을 렌더링할 때 필요한 예상 버퍼 크기(Byte)입니다.
	estimatedLineSize = 128
)

// RenderPolicy 변경 내역 렌더링 시 적용할 표시 정책입니다.
type RenderPolicy struct {
	// ShowDeletions 삭제된 플러그인을 변경 내역에 포함할지 여부
	ShowDeletions bool

	// ShowPublisher 신규 플러그인의 게시자를 함께 표시할지 여부
	ShowPublisher bool

	// ShowDescription 신규 플러그인의 설명을 함께 표시할지 여부
	ShowDescription bool

	// Locale 설명 텍스트 선택에 사용할 우선 로케일 (BCP 47)
	Locale string
}

// DiffChangeLines 두 스냅샷을 비교하여 렌더링된 변경 내역 줄 목록을 반환합니다.
//
// 반환되는 줄 목록은 렌더링된 텍스트 기준 사전순으로 정렬됩니다 (플러그인 이름 기준이 아님).
// 삭제 이벤트는 정책(ShowDeletions)이 꺼져 있으면 조용히 제외되며, 빈 결과도 제외됩니다.
// 변경 사항이 없으면 빈 슬라이스를 반환합니다.
func DiffChangeLines(prev, cur Snapshot, policy RenderPolicy) []string {
	events := diffSnapshots(prev, cur)
	if len(events) == 0 {
		return nil
	}

	lines := make([]string, 0, len(events))
	for _, event := range events {
		line := renderChangeEvent(event, policy)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	sort.Strings(lines)

	return lines
}

// ComposeDigest 헤더와 변경 내역 줄들을 하나의 다이제스트 텍스트로 조합합니다.
func ComposeDigest(lines []string) string {
	var sb strings.Builder
	sb.Grow(len(DigestHeader) + len(lines)*estimatedLineSize)

	sb.WriteString(DigestHeader)
	for _, line := range lines {
		sb.WriteString("\n")
		sb.WriteString(line)
	}

	return sb.String()
}

// renderChangeEvent 단일 변경 사항을 사용자에게 노출되는 한 줄 텍스트로 렌더링합니다.
// 정책상 표시 대상이 아닌 이벤트는 빈 문자열을 반환합니다.
func renderChangeEvent(event changeEvent, policy RenderPolicy) string {
	switch event.Type {
	case changeEventCreated:
		return renderCreated(event.Entry, policy)

	case changeEventRemoved:
		if !policy.ShowDeletions {
			return ""
		}
		return verbRemoved + event.Name

	case changeEventUpdated:
		return fmt.Sprintf("%s%s (%s → %s)", verbUpdated, event.Name, event.OldVersion, event.NewVersion)
	}

	return ""
}

// renderCreated 신규 게시 이벤트를 렌더링합니다.
// 정책에 따라 게시자(@username)와 설명을 덧붙입니다.
func renderCreated(entry Entry, policy RenderPolicy) string {
	var sb strings.Builder
	sb.Grow(estimatedLineSize)

	sb.WriteString(verbCreated)
	sb.WriteString(entry.Name)

	if policy.ShowPublisher && entry.Publisher != "" {
		fmt.Fprintf(&sb, " (@%s)", entry.Publisher)
	}

	if policy.ShowDescription {
		if description := entry.Description.Resolve(policy.Locale); description != "" {
			sb.WriteString("\n")
			sb.WriteString(description)
		}
	}

	return sb.String()
}
