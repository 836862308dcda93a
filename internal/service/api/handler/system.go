package handler

import (
	"net/http"
	"time"

	"github.com/darkkaiser/market-watcher/internal/pkg/version"
	"github.com/labstack/echo/v4"
)

// healthResponse 서비스 상태 응답 형식입니다.
type healthResponse struct {
	Status    string       `json:"status"`
	Timestamp string       `json:"timestamp"`
	Build     version.Info `json:"build"`
}

// HealthCheck 서비스의 동작 상태와 빌드 정보를 반환합니다.
//
// GET /healthz
func (h *Handler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
		Build:     version.Get(),
	})
}
