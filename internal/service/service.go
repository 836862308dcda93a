// Package service 애플리케이션을 구성하는 장기 실행 서비스들의 공통 규약을 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 애플리케이션 수명 주기에 참여하는 장기 실행 서비스의 공통 인터페이스입니다.
//
// 각 서비스는 Start() 호출 시 필요한 고루틴을 스스로 기동하고 즉시 반환해야 하며,
// serviceStopCtx가 취소되면 정리 작업을 마친 뒤 serviceStopWG.Done()을 호출해야 합니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
