package api

import (
	"time"

	"github.com/darkkaiser/market-watcher/internal/service/api/httputil"
	appmiddleware "github.com/darkkaiser/market-watcher/internal/service/api/middleware"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	// defaultReadTimeout 요청 본문 읽기 제한 시간
	defaultReadTimeout = 15 * time.Second

	// defaultReadHeaderTimeout 요청 헤더 읽기 제한 시간
	defaultReadHeaderTimeout = 5 * time.Second

	// defaultWriteTimeout 응답 쓰기 제한 시간
	defaultWriteTimeout = 30 * time.Second

	// defaultIdleTimeout Keep-Alive 연결 유휴 제한 시간
	defaultIdleTimeout = 60 * time.Second

	// defaultRequestTimeout 각 HTTP 요청의 최대 처리 시간 (초과 시 503 응답)
	defaultRequestTimeout = 60 * time.Second

	// defaultMaxBodySize 요청 본문 크기 제한 (초과 시 413 응답)
	defaultMaxBodySize = "1M"
)

// HTTPServerConfig HTTP 서버 생성에 필요한 설정을 정의합니다.
type HTTPServerConfig struct {
	// Debug Echo 프레임워크의 디버그 모드 활성화 여부
	Debug bool
}

// NewHTTPServer 설정된 미들웨어를 포함한 Echo 인스턴스를 생성합니다.
//
// 미들웨어는 다음 순서로 적용됩니다 (순서가 중요합니다):
//
//  1. PanicRecovery - 패닉 복구 및 로깅
//     - 핸들러에서 발생한 panic을 복구하여 서버 다운 방지
//     - 가장 먼저 적용되어야 다른 미들웨어의 panic도 복구 가능
//
//  2. RequestID - 요청 ID 생성
//     - 각 요청에 고유한 ID를 부여 (X-Request-ID 헤더)
//     - 로깅 미들웨어보다 먼저 적용되어야 로그에 request_id 포함 가능
//
//  3. HTTPLogger - HTTP 요청/응답 로깅
//     - 모든 HTTP 요청과 응답 정보를 구조화된 로그로 기록
//
//  4. BodyLimit - 요청 본문 크기 제한 (기본: 1MB, 초과 시 413 응답)
//
//  5. Timeout - 요청 처리 시간 제한 (기본: 60초, 초과 시 503 응답)
//
//  6. Secure - 보안 헤더 설정
//     - X-XSS-Protection, X-Content-Type-Options 등 보안 헤더 자동 추가
//
// 라우트 설정은 포함되지 않으며, 반환된 Echo 인스턴스에 별도로 설정해야 합니다.
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true
	e.HidePort = true

	// 보안 및 리소스 관리를 위한 HTTP 서버 타임아웃 설정
	e.Server.ReadTimeout = defaultReadTimeout
	e.Server.ReadHeaderTimeout = defaultReadHeaderTimeout
	e.Server.WriteTimeout = defaultWriteTimeout
	e.Server.IdleTimeout = defaultIdleTimeout

	// 전역 HTTP 에러 핸들러 설정
	e.HTTPErrorHandler = httputil.ErrorHandler

	// 미들웨어 적용 (권장 순서)

	// 1. Panic 복구
	e.Use(appmiddleware.PanicRecovery())
	// 2. Request ID
	e.Use(middleware.RequestID())
	// 3. HTTP 로깅 (Timeout 이전에 위치하여 503 에러도 기록)
	e.Use(appmiddleware.HTTPLogger())
	// 4. Body Limit (최대 1MB)
	e.Use(middleware.BodyLimit(defaultMaxBodySize))
	// 5. Timeout
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: defaultRequestTimeout,
	}))
	// 6. 보안 헤더 (XSS Protection 등)
	e.Use(middleware.Secure())

	return e
}
