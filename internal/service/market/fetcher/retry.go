package fetcher

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	apperrors "github.com/darkkaiser/market-watcher/internal/pkg/errors"
	applog "github.com/darkkaiser/market-watcher/pkg/log"
)

const (
	// maxAllowedRetries 허용 가능한 최대 재시도 횟수입니다.
	maxAllowedRetries = 10

	// maxRetryDelay 지수 백오프 증가 시 재시도 대기 시간의 상한선입니다.
	maxRetryDelay = 30 * time.Second
)

// RetryFetcher HTTP 요청 실패 시 자동으로 재시도를 수행하는 미들웨어입니다.
//
// 재시도 간격은 설정된 대기 시간에서 시작하여 지수적으로 증가하며(1배 → 2배 → 4배 ...),
// 상한선(maxRetryDelay)을 초과하지 않습니다. 대기 중 컨텍스트가 취소되면 즉시 중단합니다.
type RetryFetcher struct {
	delegate   Fetcher
	maxRetries int
	retryDelay time.Duration
}

var _ Fetcher = (*RetryFetcher)(nil)

// NewRetryFetcher 새로운 RetryFetcher 인스턴스를 생성합니다.
// 비정상적인 설정값(음수 재시도 횟수, 0 이하의 대기 시간)은 안전한 값으로 보정됩니다.
func NewRetryFetcher(delegate Fetcher, maxRetries int, retryDelay time.Duration) *RetryFetcher {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if maxRetries > maxAllowedRetries {
		maxRetries = maxAllowedRetries
	}
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	return &RetryFetcher{
		delegate:   delegate,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Do HTTP 요청을 수행하며, 일시적 오류로 판단되는 실패에 대해 자동으로 재시도합니다.
//
// 재시도 대상:
//   - 네트워크 오류 (타임아웃, 연결 실패 등)
//   - 서버 일시적 오류 (5xx, 429)
//
// 재시도 제외:
//   - 컨텍스트 취소 (context.Canceled)
//   - 파싱 실패, 잘못된 요청 등 재시도해도 동일한 결과가 나오는 에러
func (f *RetryFetcher) Do(req *http.Request) (*http.Response, error) {
	var lastErr error

	for i := 0; i <= f.maxRetries; i++ {
		if i > 0 {
			// 지수 백오프: 재시도 횟수가 늘어날수록 대기 시간을 2배씩 증가시켜 서버 부하를 줄입니다.
			delay := f.retryDelay * time.Duration(1<<(i-1))
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}

			applog.WithComponentAndFields(component, applog.Fields{
				"url":         req.URL.Redacted(),
				"retry":       i,
				"max_retries": f.maxRetries,
				"delay":       delay.String(),
				"error":       lastErr.Error(),
			}).Warn("재시도 대기 중: 일시적 오류로 인해 요청 재시도를 준비합니다")

			timer := time.NewTimer(delay)
			select {
			case <-req.Context().Done():
				if !timer.Stop() {
					<-timer.C
				}
				return nil, req.Context().Err()

			case <-timer.C:
			}
		}

		resp, err := f.delegate.Do(req)
		if err == nil {
			return resp, nil
		}

		if !isRetriable(err) {
			if resp != nil {
				drainAndCloseBody(resp.Body)
			}
			return nil, err
		}

		if resp != nil {
			// 커넥션 재사용을 위해 응답 객체의 Body를 안전하게 비우고 닫음
			drainAndCloseBody(resp.Body)
		}
		lastErr = err
	}

	return nil, newErrMaxRetriesExceeded(lastErr)
}

// isRetriable 발생한 에러가 재시도 가능한 일시적인 오류인지 판단합니다.
func isRetriable(err error) bool {
	if err == nil {
		return false
	}

	// 사용자가 명시적으로 요청을 취소한 경우 재시도 제외
	if errors.Is(err, context.Canceled) {
		return false
	}

	// 네트워크 타임아웃은 일시적인 지연으로 간주하여 재시도
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// 서버가 일시적으로 요청을 처리할 수 없는 상태 (5xx, 429)
	if apperrors.Is(err, apperrors.Unavailable) {
		return true
	}

	// 명확한 비즈니스 로직 에러는 재시도해도 동일한 결과가 나오므로 제외
	if apperrors.Is(err, apperrors.ExecutionFailed) ||
		apperrors.Is(err, apperrors.ParsingFailed) ||
		apperrors.Is(err, apperrors.InvalidInput) ||
		apperrors.Is(err, apperrors.NotFound) {
		return false
	}

	// 명확한 실패 사유가 없다면 일시적 오류(DNS 조회 실패, 연결 거부 등)로 간주하고 재시도
	return true
}
