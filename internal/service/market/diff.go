package market

// changeEventType 카탈로그 변경 사항의 유형을 나타내는 열거형입니다.
type changeEventType int

const (
	// changeEventCreated 이전 스냅샷에 없던 플러그인이 새로 게시되었음을 나타냅니다.
	changeEventCreated changeEventType = iota

	// changeEventUpdated 버전 문자열이 달라졌음을 나타냅니다.
	changeEventUpdated

	// changeEventRemoved 이전 스냅샷에 있던 플러그인이 사라졌음을 나타냅니다.
	changeEventRemoved
)

// changeEvent 두 스냅샷 비교로 도출된 단일 변경 사항입니다.
// 한 번의 비교 동안에만 존재하는 일시적인 값으로, 어디에도 저장되지 않습니다.
type changeEvent struct {
	Type changeEventType
	Name string

	// Entry 신규 게시된 플러그인의 현재 정보 (Created 이벤트에서만 유효)
	Entry Entry

	// OldVersion / NewVersion 버전 변경 내역 (Updated 이벤트에서만 유효)
	OldVersion string
	NewVersion string
}

// diffSnapshots 이전 스냅샷과 현재 스냅샷을 비교하여 변경 사항 목록을 도출합니다.
//
// 두 스냅샷의 플러그인 이름 합집합을 기준으로 다음 규칙을 적용합니다:
//   - 현재에만 존재: Created
//   - 이전에만 존재: Removed
//   - 양쪽에 존재하고 버전이 다름: Updated
//   - 양쪽에 존재하고 버전이 같음: 이벤트 없음
//
// 숨김 처리 플러그인이 스냅샷 구성 단계에서 제외된 경우, 숨김 ↔ 공개 전환은
// Removed+Created로 관측됩니다. 이는 스냅샷 구성 규칙에 따른 의도된 동작입니다.
func diffSnapshots(prev, cur Snapshot) []changeEvent {
	var events []changeEvent

	for name, curEntry := range cur {
		prevEntry, exists := prev[name]
		if !exists {
			events = append(events, changeEvent{
				Type:  changeEventCreated,
				Name:  name,
				Entry: curEntry,
			})
			continue
		}

		if prevEntry.Version != curEntry.Version {
			events = append(events, changeEvent{
				Type:       changeEventUpdated,
				Name:       name,
				OldVersion: prevEntry.Version,
				NewVersion: curEntry.Version,
			})
		}
	}

	for name := range prev {
		if _, exists := cur[name]; !exists {
			events = append(events, changeEvent{
				Type: changeEventRemoved,
				Name: name,
			})
		}
	}

	return events
}
