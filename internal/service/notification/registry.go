package notification

import (
	"fmt"
	"sync"

	"github.com/darkkaiser/market-watcher/internal/config"
	apperrors "github.com/darkkaiser/market-watcher/internal/pkg/errors"
)

// destinationState 단일 발송 대상의 설정과 수신 동의 상태입니다.
type destinationState struct {
	cfg     config.DestinationConfig
	enabled bool
}

// destinationRegistry 발송 대상 목록과 각 대상의 수신 동의(enabled) 상태를 관리하는 저장소입니다.
//
// 발송 순서는 설정 파일에 정의된 순서를 따릅니다. 외부 명령(조회 API)에 의한
// 수신 동의 변경은 진행 중인 발송에는 영향을 주지 않고 다음 사이클부터 반영됩니다.
type destinationRegistry struct {
	mu     sync.RWMutex
	order  []string
	states map[string]*destinationState
}

// newDestinationRegistry 설정 파일의 발송 대상 목록으로 레지스트리를 생성합니다.
// 모든 대상은 수신 동의 상태로 시작합니다. (ID 중복은 설정 검증 단계에서 이미 거부됨)
func newDestinationRegistry(destinations []config.DestinationConfig) *destinationRegistry {
	r := &destinationRegistry{
		states: make(map[string]*destinationState, len(destinations)),
	}

	for _, d := range destinations {
		r.order = append(r.order, d.ID)
		r.states[d.ID] = &destinationState{
			cfg:     d,
			enabled: true,
		}
	}

	return r
}

// enabled 현재 수신 동의 상태인 발송 대상들을 설정 순서대로 반환합니다.
func (r *destinationRegistry) enabled() []config.DestinationConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	destinations := make([]config.DestinationConfig, 0, len(r.order))
	for _, id := range r.order {
		if state := r.states[id]; state.enabled {
			destinations = append(destinations, state.cfg)
		}
	}

	return destinations
}

// snapshot 모든 발송 대상의 현재 상태를 설정 순서대로 반환합니다.
func (r *destinationRegistry) snapshot() []DestinationView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	views := make([]DestinationView, 0, len(r.order))
	for _, id := range r.order {
		state := r.states[id]
		views = append(views, DestinationView{
			ID:        state.cfg.ID,
			Platform:  state.cfg.Platform,
			SelfID:    state.cfg.SelfID,
			ChannelID: state.cfg.ChannelID,
			GuildID:   state.cfg.GuildID,
			Enabled:   state.enabled,
		})
	}

	return views
}

// setEnabled 지정된 발송 대상의 수신 동의 상태를 변경합니다.
func (r *destinationRegistry) setEnabled(id string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, exists := r.states[id]
	if !exists {
		return apperrors.New(apperrors.NotFound, fmt.Sprintf("발송 대상('%s')을 찾을 수 없습니다", id))
	}

	state.enabled = enabled

	return nil
}
