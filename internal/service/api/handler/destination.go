package handler

import (
	"net/http"

	apperrors "github.com/darkkaiser/market-watcher/internal/pkg/errors"
	"github.com/darkkaiser/market-watcher/internal/service/api/httputil"
	"github.com/labstack/echo/v4"
)

// destinationUpdateRequest 발송 대상 수신 동의 상태 변경 요청 형식입니다.
type destinationUpdateRequest struct {
	Enabled *bool `json:"enabled"`
}

// DestinationList 모든 발송 대상의 현재 상태를 반환합니다.
//
// GET /api/v1/destinations
func (h *Handler) DestinationList(c echo.Context) error {
	return c.JSON(http.StatusOK, h.destinations.Destinations())
}

// DestinationUpdate 지정된 발송 대상의 수신 동의 상태를 변경합니다.
// 변경 사항은 다음 폴링 사이클의 발송부터 반영됩니다.
//
// PUT /api/v1/destinations/:id
func (h *Handler) DestinationUpdate(c echo.Context) error {
	var req destinationUpdateRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError("요청 본문을 해석할 수 없습니다")
	}
	if req.Enabled == nil {
		return httputil.NewBadRequestError("'enabled' 항목은 필수입니다")
	}

	id := c.Param("id")
	if err := h.destinations.SetDestinationEnabled(id, *req.Enabled); err != nil {
		if apperrors.Is(err, apperrors.NotFound) {
			return httputil.NewNotFoundError(err.Error())
		}
		return err
	}

	return httputil.Success(c)
}
