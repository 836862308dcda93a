package api

import (
	"github.com/darkkaiser/market-watcher/internal/service/api/handler"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes API 서비스의 라우트를 등록합니다.
//
// 이 함수는 다음과 같은 엔드포인트들을 설정합니다:
//   - 시스템 엔드포인트: 서비스 상태 확인(/healthz)
//   - 카탈로그 엔드포인트: 스냅샷 조회(/api/v1/catalog, /api/v1/catalog/:name)
//   - 발송 대상 엔드포인트: 조회 및 수신 동의 상태 변경(/api/v1/destinations)
func RegisterRoutes(e *echo.Echo, h *handler.Handler) {
	e.GET("/healthz", h.HealthCheck)

	v1 := e.Group("/api/v1")
	v1.GET("/catalog", h.CatalogList)
	v1.GET("/catalog/:name", h.CatalogEntry)
	v1.GET("/destinations", h.DestinationList)
	v1.PUT("/destinations/:id", h.DestinationUpdate)
}
