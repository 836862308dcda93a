package middleware

import (
	"time"

	applog "github.com/darkkaiser/market-watcher/pkg/log"
	"github.com/labstack/echo/v4"
)

// HTTPLogger HTTP 요청/응답을 구조화된 로그로 기록하는 미들웨어를 반환합니다.
//
// 기록되는 정보:
//   - 요청: IP, 메서드, URI, User-Agent
//   - 응답: 상태 코드, 응답 크기, Request ID
//   - 성능: 처리 시간
func HTTPLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			// defer를 사용하여 패닉 발생 시에도 로그가 기록되도록 보장
			defer func() {
				latency := time.Since(start)

				applog.WithComponentAndFields("api.http", applog.Fields{
					"remote_ip":   c.RealIP(),
					"method":      req.Method,
					"uri":         req.RequestURI,
					"user_agent":  req.UserAgent(),
					"status_code": res.Status,
					"bytes_out":   res.Size,
					"latency":     latency.String(),
					"request_id":  res.Header().Get(echo.HeaderXRequestID),
				}).Info("HTTP 요청 처리 완료")
			}()

			return next(c)
		}
	}
}
