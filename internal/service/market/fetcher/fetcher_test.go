package fetcher_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/darkkaiser/market-watcher/internal/pkg/errors"
	"github.com/darkkaiser/market-watcher/internal/service/market/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher is a test double that records call counts and replays a canned result.
type stubFetcher struct {
	calls int
	do    func(req *http.Request) (*http.Response, error)
}

func (s *stubFetcher) Do(req *http.Request) (*http.Response, error) {
	s.calls++
	return s.do(req)
}

// newStubResponse builds an in-memory HTTP response for test doubles.
func newStubResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Status:        http.StatusText(status),
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Header:        make(http.Header),
	}
}

// TestFetchJSON verifies the GET-check-decode happy path against a real test server.
func TestFetchJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"value": "hello"}`))
	}))
	defer server.Close()

	var payload struct {
		Value string `json:"value"`
	}
	err := fetcher.FetchJSON(context.Background(), fetcher.NewHTTPFetcher(), server.URL, &payload)

	require.NoError(t, err)
	assert.Equal(t, "hello", payload.Value)
}

// TestFetchJSON_NonOKStatus verifies that FetchJSON rejects a non-200 response
// on its own, without a status-check middleware in the chain.
func TestFetchJSON_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"value": "ignored"}`))
	}))
	defer server.Close()

	var payload map[string]any
	err := fetcher.FetchJSON(context.Background(), fetcher.NewHTTPFetcher(), server.URL, &payload)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.Unavailable))
	assert.Empty(t, payload, "비정상 응답의 본문은 디코딩되면 안됩니다")
}

// TestFetchJSON_DecodeFailure verifies that a malformed body yields a parsing error.
func TestFetchJSON_DecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not-json`))
	}))
	defer server.Close()

	var payload map[string]any
	err := fetcher.FetchJSON(context.Background(), fetcher.NewHTTPFetcher(), server.URL, &payload)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ParsingFailed))
}

// TestCheckResponseStatus verifies the status-code-to-error-type mapping.
func TestCheckResponseStatus(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		expectError bool
		errType     apperrors.ErrorType
	}{
		{name: "200 OK", status: http.StatusOK, expectError: false},
		{name: "404 Not Found", status: http.StatusNotFound, expectError: true, errType: apperrors.ExecutionFailed},
		{name: "429 Too Many Requests", status: http.StatusTooManyRequests, expectError: true, errType: apperrors.Unavailable},
		{name: "500 Internal Server Error", status: http.StatusInternalServerError, expectError: true, errType: apperrors.Unavailable},
		{name: "503 Service Unavailable", status: http.StatusServiceUnavailable, expectError: true, errType: apperrors.Unavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fetcher.CheckResponseStatus(newStubResponse(tt.status, ""))

			if !tt.expectError {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.errType))
		})
	}
}

// TestStatusCodeFetcher verifies that non-200 responses are converted into errors
// and the response body is consumed.
func TestStatusCodeFetcher(t *testing.T) {
	t.Run("200 응답은 그대로 통과", func(t *testing.T) {
		stub := &stubFetcher{do: func(req *http.Request) (*http.Response, error) {
			return newStubResponse(http.StatusOK, "ok"), nil
		}}

		resp, err := fetcher.NewStatusCodeFetcher(stub).Do(newTestRequest(t))

		require.NoError(t, err)
		require.NotNil(t, resp)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("404 응답은 에러로 변환", func(t *testing.T) {
		stub := &stubFetcher{do: func(req *http.Request) (*http.Response, error) {
			return newStubResponse(http.StatusNotFound, "missing"), nil
		}}

		resp, err := fetcher.NewStatusCodeFetcher(stub).Do(newTestRequest(t))

		require.Error(t, err)
		assert.Nil(t, resp)
		assert.True(t, apperrors.Is(err, apperrors.ExecutionFailed))
	})
}

// TestMaxBytesFetcher verifies both lines of defense against oversized responses.
func TestMaxBytesFetcher(t *testing.T) {
	t.Run("Content-Length 기반 조기 차단", func(t *testing.T) {
		stub := &stubFetcher{do: func(req *http.Request) (*http.Response, error) {
			return newStubResponse(http.StatusOK, strings.Repeat("x", 100)), nil
		}}

		resp, err := fetcher.NewMaxBytesFetcher(stub, 10).Do(newTestRequest(t))

		require.Error(t, err)
		assert.Nil(t, resp)
		assert.True(t, apperrors.Is(err, apperrors.ExecutionFailed))
	})

	t.Run("읽기 시점 바이트 수 제한", func(t *testing.T) {
		stub := &stubFetcher{do: func(req *http.Request) (*http.Response, error) {
			resp := newStubResponse(http.StatusOK, strings.Repeat("x", 100))
			// Content-Length가 신뢰할 수 없는 응답을 흉내냅니다.
			resp.ContentLength = -1
			return resp, nil
		}}

		resp, err := fetcher.NewMaxBytesFetcher(stub, 10).Do(newTestRequest(t))
		require.NoError(t, err)
		defer resp.Body.Close()

		_, err = io.ReadAll(resp.Body)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ExecutionFailed))
	})

	t.Run("제한 이내 응답은 그대로 읽힘", func(t *testing.T) {
		stub := &stubFetcher{do: func(req *http.Request) (*http.Response, error) {
			return newStubResponse(http.StatusOK, "small"), nil
		}}

		resp, err := fetcher.NewMaxBytesFetcher(stub, 1024).Do(newTestRequest(t))
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "small", string(body))
	})

	t.Run("NoLimit은 래핑 없이 원본 Fetcher 반환", func(t *testing.T) {
		stub := &stubFetcher{}

		assert.Equal(t, fetcher.Fetcher(stub), fetcher.NewMaxBytesFetcher(stub, fetcher.NoLimit))
	})
}

func newTestRequest(t *testing.T) *http.Request {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://registry.example.com/index.json", nil)
	require.NoError(t, err)

	return req
}
