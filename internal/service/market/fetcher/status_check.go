package fetcher

import (
	"net/http"
)

// StatusCodeFetcher HTTP 응답 상태 코드를 확인하고, 200 OK가 아니면 에러로 변환하는 미들웨어입니다.
type StatusCodeFetcher struct {
	delegate Fetcher
}

var _ Fetcher = (*StatusCodeFetcher)(nil)

// NewStatusCodeFetcher 새로운 StatusCodeFetcher 인스턴스를 생성합니다.
func NewStatusCodeFetcher(delegate Fetcher) *StatusCodeFetcher {
	return &StatusCodeFetcher{
		delegate: delegate,
	}
}

// Do HTTP 요청을 수행하고 응답 상태 코드를 검사합니다.
// 상태 코드 에러 발생 시 커넥션 누수 방지를 위해 Body를 닫고 nil Response를 반환합니다.
func (f *StatusCodeFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		return resp, err
	}

	if statusErr := CheckResponseStatus(resp); statusErr != nil {
		drainAndCloseBody(resp.Body)
		return nil, statusErr
	}

	return resp, nil
}
