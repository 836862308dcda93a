package market

import (
	"sort"
	"sync"
)

// Snapshot 특정 폴링 시점의 카탈로그 상태를 나타내는 플러그인 이름 → Entry 매핑입니다.
// 매 조회마다 새로 생성되며 생성 이후에는 수정되지 않습니다.
type Snapshot map[string]Entry

// Names 스냅샷에 포함된 플러그인 이름을 사전순으로 반환합니다.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store 가장 최근에 성공적으로 조회된 스냅샷 하나만을 보관하는 인메모리 저장소입니다.
//
// 폴링 사이클은 단일 고루틴에서 실행되지만, 조회 API가 별도 고루틴에서
// 현재 스냅샷을 읽을 수 있으므로 RWMutex로 보호합니다.
// 프로세스 재시작 시 상태는 유지되지 않습니다.
type Store struct {
	mu      sync.RWMutex
	current Snapshot
	seeded  bool
}

// NewStore 비어있는 스냅샷 저장소를 생성합니다.
func NewStore() *Store {
	return &Store{}
}

// Replace 저장된 스냅샷을 새로운 스냅샷으로 교체합니다.
// 이전 스냅샷과 그 존재 여부를 반환하며, 이전 값은 병합 없이 폐기됩니다.
func (s *Store) Replace(next Snapshot) (prev Snapshot, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev = s.current, s.seeded
	s.current = next
	s.seeded = true

	return prev, hadPrev
}

// Current 현재 보관 중인 스냅샷을 반환합니다.
// 아직 한 번도 성공한 조회가 없으면 두 번째 반환값이 false입니다.
func (s *Store) Current() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current, s.seeded
}
