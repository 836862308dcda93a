package fetcher_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/market-watcher/internal/pkg/errors"
	"github.com/darkkaiser/market-watcher/internal/service/market/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRetryFetcher_RetryDecision verifies which error classes trigger retries,
// using a table-driven approach with a fast backoff.
func TestRetryFetcher_RetryDecision(t *testing.T) {
	tests := []struct {
		name          string
		respErr       error
		expectedCalls int
		expectedType  apperrors.ErrorType
	}{
		{
			name:          "Unavailable(5xx/429) - 재시도 후 소진",
			respErr:       apperrors.New(apperrors.Unavailable, "server overloaded"),
			expectedCalls: 4, // 최초 시도 + 재시도 3회
			expectedType:  apperrors.Unavailable,
		},
		{
			name:          "네트워크 오류 - 재시도 후 소진",
			respErr:       errors.New("connection refused"),
			expectedCalls: 4,
			expectedType:  apperrors.Unavailable,
		},
		{
			name:          "ExecutionFailed(4xx) - 재시도 안함",
			respErr:       apperrors.New(apperrors.ExecutionFailed, "bad request"),
			expectedCalls: 1,
			expectedType:  apperrors.ExecutionFailed,
		},
		{
			name:          "ParsingFailed - 재시도 안함",
			respErr:       apperrors.New(apperrors.ParsingFailed, "broken json"),
			expectedCalls: 1,
			expectedType:  apperrors.ParsingFailed,
		},
		{
			name:          "컨텍스트 취소 - 재시도 안함",
			respErr:       context.Canceled,
			expectedCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubFetcher{do: func(req *http.Request) (*http.Response, error) {
				return nil, tt.respErr
			}}
			retryFetcher := fetcher.NewRetryFetcher(stub, 3, time.Millisecond)

			resp, err := retryFetcher.Do(newTestRequest(t))

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Equal(t, tt.expectedCalls, stub.calls)
			if tt.expectedType != apperrors.Unknown {
				assert.True(t, apperrors.Is(err, tt.expectedType))
			}
		})
	}
}

// TestRetryFetcher_SucceedsAfterTransientFailure verifies that a success on a
// later attempt is returned without an error.
func TestRetryFetcher_SucceedsAfterTransientFailure(t *testing.T) {
	stub := &stubFetcher{}
	stub.do = func(req *http.Request) (*http.Response, error) {
		if stub.calls < 3 {
			return nil, apperrors.New(apperrors.Unavailable, "try again")
		}
		return newStubResponse(http.StatusOK, "ok"), nil
	}
	retryFetcher := fetcher.NewRetryFetcher(stub, 5, time.Millisecond)

	resp, err := retryFetcher.Do(newTestRequest(t))

	require.NoError(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, 3, stub.calls)
}

// TestRetryFetcher_ContextCancelDuringBackoff verifies that cancellation during
// the backoff wait aborts immediately instead of exhausting retries.
func TestRetryFetcher_ContextCancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	stub := &stubFetcher{}
	stub.do = func(req *http.Request) (*http.Response, error) {
		// 첫 시도 직후 취소하여 백오프 대기 중에 중단되도록 합니다.
		cancel()
		return nil, apperrors.New(apperrors.Unavailable, "try again")
	}
	retryFetcher := fetcher.NewRetryFetcher(stub, 5, time.Hour)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://registry.example.com/index.json", nil)
	require.NoError(t, err)

	resp, err := retryFetcher.Do(req)

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, stub.calls)
}

// TestNewRetryFetcher_SanitizesConfig verifies that abnormal settings are clamped
// to safe values instead of breaking the retry loop.
func TestNewRetryFetcher_SanitizesConfig(t *testing.T) {
	stub := &stubFetcher{do: func(req *http.Request) (*http.Response, error) {
		return nil, apperrors.New(apperrors.Unavailable, "try again")
	}}

	// 음수 재시도 횟수는 0으로 보정되어 단 한 번만 시도합니다.
	retryFetcher := fetcher.NewRetryFetcher(stub, -1, time.Millisecond)

	_, err := retryFetcher.Do(newTestRequest(t))

	require.Error(t, err)
	assert.Equal(t, 1, stub.calls)
}
