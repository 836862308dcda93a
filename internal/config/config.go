// Package config 애플리케이션 설정 파일의 로드와 유효성 검증을 담당합니다.
//
// 설정은 다음 우선순위로 병합됩니다 (뒤로 갈수록 높음):
//  1. 코드에 정의된 기본값
//  2. JSON 설정 파일 (market-watcher.json)
//  3. 환경 변수 (MW_ 접두사)
package config

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/darkkaiser/market-watcher/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "market-watcher"

	// DefaultFilename 실행 인자로 명시적인 경로가 제공되지 않을 때 탐색하는 기본 설정 파일명입니다.
	DefaultFilename = AppName + ".json"

	// DefaultEndpoint 플러그인 마켓 레지스트리의 기본 인덱스 URL입니다.
	DefaultEndpoint = "https://registry.koishi.chat/index.json"

	// DefaultIntervalMS 마켓 폴링 주기 기본값 (밀리초, 30분)
	DefaultIntervalMS = 1_800_000

	// DefaultLocale 변경 내역 렌더링 시 설명(description) 선택에 사용할 기본 로케일입니다.
	// 레지스트리 자체가 중국어권 생태계이므로 zh-CN을 기본값으로 사용합니다.
	DefaultLocale = "zh-CN"

	// DefaultMaxRetries HTTP 요청 실패 시 최대 재시도 횟수 기본값
	DefaultMaxRetries = 3

	// DefaultRetryDelay 재시도 사이의 대기 시간 기본값
	DefaultRetryDelay = "2s"
)

// defaults 기본값이 채워진 AppConfig를 반환합니다.
// koanf의 structs Provider를 통해 최하위 우선순위 레이어로 로드됩니다.
func defaults() AppConfig {
	return AppConfig{
		Market: MarketConfig{
			Endpoint:   DefaultEndpoint,
			IntervalMS: DefaultIntervalMS,
			Locale:     DefaultLocale,
		},
		HTTPRetry: HTTPRetryConfig{
			MaxRetries: DefaultMaxRetries,
			RetryDelay: DefaultRetryDelay,
		},
		API: APIConfig{
			ListenPort: 8080,
		},
	}
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	if err := k.Load(structs.Provider(defaults(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위, JSON 설정 덮어쓰기)
	// 접두사: MW_, 이중 언더스코어(__)를 점(.)으로 변환하여 계층 구조를 표현합니다.
	// 예: MW_MARKET__INTERVAL_MS -> market.interval_ms
	if err := k.Load(env.Provider("MW_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "MW_")
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	var appConfig AppConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 구조체에 없는 필드가 설정 파일에 존재하면 에러 (오타 조기 발견)
			WeaklyTypedInput: true,
			Result:           &appConfig,
		},
	}
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사 수행 (정합성 체크)
	if err := appConfig.validate(newValidator()); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}
