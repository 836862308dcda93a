// Package handler API 엔드포인트의 요청 처리기를 제공합니다.
package handler

import (
	"github.com/darkkaiser/market-watcher/internal/service/market"
	"github.com/darkkaiser/market-watcher/internal/service/notification"
)

// CatalogReader 현재 카탈로그 스냅샷을 읽기 전용으로 제공하는 인터페이스입니다.
type CatalogReader interface {
	Current() (market.Snapshot, bool)
}

// DestinationController 발송 대상의 조회와 수신 동의 상태 변경 기능을 제공하는 인터페이스입니다.
type DestinationController interface {
	Destinations() []notification.DestinationView
	SetDestinationEnabled(id string, enabled bool) error
}

// Handler API 엔드포인트들의 요청 처리기입니다.
type Handler struct {
	catalog      CatalogReader
	destinations DestinationController

	// defaultLocale 설명 텍스트 렌더링에 사용할 기본 로케일
	defaultLocale string
}

// NewHandler 새로운 Handler 인스턴스를 생성합니다.
func NewHandler(catalog CatalogReader, destinations DestinationController, defaultLocale string) *Handler {
	if catalog == nil {
		panic("CatalogReader는 필수입니다")
	}
	if destinations == nil {
		panic("DestinationController는 필수입니다")
	}

	return &Handler{
		catalog:      catalog,
		destinations: destinations,

		defaultLocale: defaultLocale,
	}
}
