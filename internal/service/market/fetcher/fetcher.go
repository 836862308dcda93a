// Package fetcher 레지스트리 인덱스 조회에 사용되는 HTTP 클라이언트 계층을 제공합니다.
//
// Fetcher 인터페이스를 중심으로 재시도, 상태 코드 검사, 응답 크기 제한 등의
// 기능을 데코레이터 패턴으로 조합할 수 있도록 설계되었습니다.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/darkkaiser/market-watcher/internal/pkg/errors"
)

// component 로깅용 컴포넌트 이름
const component = "market.fetcher"

// Fetcher HTTP 요청을 수행하는 핵심 인터페이스입니다.
//
// 구현 시 주의사항:
//   - 반환된 응답 객체의 Body는 반드시 호출자가 닫아야 합니다.
//   - Context 취소 시 즉시 요청을 중단하고 적절한 에러를 반환해야 합니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// Get 지정된 URL로 HTTP GET 요청을 전송하는 헬퍼 함수입니다.
// 요청 실패 시 커넥션 재사용을 위해 응답 객체의 Body를 비우고 닫습니다.
func Get(ctx context.Context, f Fetcher, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	return resp, nil
}

// FetchJSON 지정된 URL로 HTTP GET 요청을 보내고 응답 본문(JSON)을 v로 디코딩합니다.
//
// 디코딩 전에 응답 상태 코드를 자체적으로 검사하므로 StatusCodeFetcher 없이
// 구성된 Fetcher와도 안전하게 사용할 수 있습니다. StatusCodeFetcher가 포함된
// 체인에서는 비정상 응답이 이 함수에 도달하기 전에 이미 에러로 변환됩니다.
func FetchJSON(ctx context.Context, f Fetcher, url string, v any) error {
	resp, err := Get(ctx, f, url)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, fmt.Sprintf("JSON API(%s) 요청 전송 중 에러가 발생했습니다", url))
	}
	defer resp.Body.Close()

	if err := CheckResponseStatus(resp); err != nil {
		return err
	}

	// json.Decoder를 사용하여 스트림 방식으로 JSON 파싱 (메모리 효율적)
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return apperrors.Wrap(err, apperrors.ParsingFailed, fmt.Sprintf("불러온 페이지(%s) 데이터의 JSON 변환이 실패하였습니다", url))
	}

	return nil
}
