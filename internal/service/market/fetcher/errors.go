package fetcher

import (
	"fmt"
	"net/http"

	apperrors "github.com/darkkaiser/market-watcher/internal/pkg/errors"
)

var (
	// ErrMaxRetriesExceeded 최대 재시도 횟수를 초과했을 때 반환됩니다.
	ErrMaxRetriesExceeded = apperrors.New(apperrors.Unavailable, "최대 재시도 횟수를 초과하였습니다")
)

// newErrMaxRetriesExceeded 마지막 시도에서 발생한 에러를 포함하여 재시도 초과 에러를 생성합니다.
func newErrMaxRetriesExceeded(cause error) error {
	if cause == nil {
		return ErrMaxRetriesExceeded
	}
	return apperrors.Wrap(cause, apperrors.Unavailable, "최대 재시도 횟수를 초과하였습니다")
}

// NewErrResponseBodyTooLarge 응답 본문이 허용된 크기 제한을 초과했을 때의 에러를 생성합니다.
func NewErrResponseBodyTooLarge(limit int64) error {
	return apperrors.New(apperrors.ExecutionFailed, fmt.Sprintf("응답 본문이 허용된 크기 제한(%d바이트)을 초과하였습니다", limit))
}

// NewErrResponseBodyTooLargeByContentLength Content-Length 헤더가 크기 제한을 초과했을 때의 에러를 생성합니다.
func NewErrResponseBodyTooLargeByContentLength(contentLength, limit int64) error {
	return apperrors.New(apperrors.ExecutionFailed, fmt.Sprintf("응답의 Content-Length(%d바이트)가 허용된 크기 제한(%d바이트)을 초과하였습니다", contentLength, limit))
}

// CheckResponseStatus HTTP 응답 상태 코드를 분석하여 도메인 에러로 변환합니다.
// 200 OK가 아닌 경우 상태 코드에 따라 적절한 에러 타입을 반환합니다.
func CheckResponseStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	errType := apperrors.ExecutionFailed
	// 5xx (Server Error) or 429 (Too Many Requests) -> Unavailable
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		errType = apperrors.Unavailable
	}

	return apperrors.New(errType, fmt.Sprintf("HTTP 요청이 실패했습니다. 상태 코드: %s", resp.Status))
}
