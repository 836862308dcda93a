package config

import (
	"fmt"
	"slices"
	"time"

	apperrors "github.com/darkkaiser/market-watcher/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// AppConfig 애플리케이션의 모든 설정을 포함하는 최상위 구조체
type AppConfig struct {
	Debug     bool            `json:"debug"`
	Market    MarketConfig    `json:"market"`
	HTTPRetry HTTPRetryConfig `json:"http_retry"`
	Notifiers NotifierConfig  `json:"notifiers"`
	API       APIConfig       `json:"api"`
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate(v *validator.Validate) error {
	if err := c.HTTPRetry.validate(); err != nil {
		return err
	}

	notifierIDs, err := c.Notifiers.validate(v)
	if err != nil {
		return err
	}

	if err := c.Market.validate(v, notifierIDs); err != nil {
		return err
	}

	if err := c.API.validate(v); err != nil {
		return err
	}

	return nil
}

// MarketConfig 플러그인 마켓 감시 동작을 정의하는 설정 구조체
type MarketConfig struct {
	// Endpoint 레지스트리 인덱스 문서의 URL
	Endpoint string `json:"endpoint" validate:"required,url"`

	// IntervalMS 폴링 주기 (밀리초). 과도한 레지스트리 부하를 막기 위해 최소 1분으로 제한합니다.
	IntervalMS int `json:"interval_ms" validate:"min=60000"`

	// Locale 설명(description) 렌더링 시 우선 선택할 로케일 (BCP 47)
	Locale string `json:"locale" validate:"required"`

	// IncludeHidden 숨김(hidden) 처리된 플러그인도 스냅샷에 포함할지 여부
	IncludeHidden bool `json:"include_hidden"`

	// ShowDeletions 삭제된 플러그인을 변경 내역에 포함할지 여부
	ShowDeletions bool `json:"show_deletions"`

	// ShowPublisher 신규 플러그인의 게시자(@username)를 함께 표시할지 여부
	ShowPublisher bool `json:"show_publisher"`

	// ShowDescription 신규 플러그인의 설명을 함께 표시할지 여부
	ShowDescription bool `json:"show_description"`

	// SendDelayMS 연속된 알림 발송 사이의 대기 시간 (밀리초, 0: 대기 없음)
	SendDelayMS int `json:"send_delay_ms" validate:"min=0,max=60000"`

	// Destinations 변경 내역 다이제스트를 수신할 대상 목록 (발송은 이 목록의 순서를 따름)
	Destinations []DestinationConfig `json:"destinations" validate:"unique=ID"`

	// Assignments 봇 식별자가 비어있는 Destination을 해석하기 위한 (플랫폼, 채널) -> 봇 배정표
	Assignments []AssignmentConfig `json:"assignments"`
}

// Interval 폴링 주기를 time.Duration으로 반환합니다.
func (c *MarketConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// SendDelay 연속 발송 사이의 대기 시간을 time.Duration으로 반환합니다.
func (c *MarketConfig) SendDelay() time.Duration {
	return time.Duration(c.SendDelayMS) * time.Millisecond
}

func (c *MarketConfig) validate(v *validator.Validate, notifierIDs []string) error {
	if err := checkStruct(v, c, "Market"); err != nil {
		return err
	}

	if err := checkUniqueField(v, c.Destinations, "Destination"); err != nil {
		return err
	}

	for _, d := range c.Destinations {
		if err := checkStruct(v, d, fmt.Sprintf("Destination['%s']", d.ID)); err != nil {
			return err
		}

		// 명시적 봇 식별자가 지정된 경우, 해당 Notifier가 실제로 정의되어 있어야 합니다.
		if d.SelfID != "" && !slices.Contains(notifierIDs, d.SelfID) {
			return apperrors.New(apperrors.NotFound, fmt.Sprintf("Destination['%s']에서 참조하는 봇 식별자('%s')가 Notifier 목록에 정의되지 않았습니다", d.ID, d.SelfID))
		}
	}

	for i, a := range c.Assignments {
		if err := checkStruct(v, a, fmt.Sprintf("Assignment[%d]", i)); err != nil {
			return err
		}

		if !slices.Contains(notifierIDs, a.Assignee) {
			return apperrors.New(apperrors.NotFound, fmt.Sprintf("Assignment[%d]에서 배정한 봇 식별자('%s')가 Notifier 목록에 정의되지 않았습니다", i, a.Assignee))
		}
	}

	return nil
}

// DestinationConfig 변경 내역 다이제스트를 수신할 단일 대상을 정의하는 구조체
type DestinationConfig struct {
	ID       string `json:"id" validate:"required"`
	Platform string `json:"platform" validate:"required"`

	// SelfID 발송에 사용할 봇(Notifier) 식별자.
	// 비어있으면 발송 시점에 Assignments 배정표에서 동적으로 해석하며,
	// 배정이 없는 경우 해당 대상은 조용히 건너뜁니다.
	SelfID string `json:"self_id"`

	ChannelID string `json:"channel_id" validate:"required"`
	GuildID   string `json:"guild_id"`
}

// AssignmentConfig (플랫폼, 채널)에 배정된 봇 식별자를 정의하는 구조체
type AssignmentConfig struct {
	Platform  string `json:"platform" validate:"required"`
	ChannelID string `json:"channel_id" validate:"required"`
	Assignee  string `json:"assignee" validate:"required"`
	GuildID   string `json:"guild_id"`
}

// HTTPRetryConfig HTTP 요청 실패 시 재시도 횟수와 대기 시간을 정의하는 설정 구조체
type HTTPRetryConfig struct {
	MaxRetries int    `json:"max_retries" validate:"min=0"`
	RetryDelay string `json:"retry_delay"`
}

// Delay 재시도 대기 시간을 time.Duration으로 반환합니다.
// validate()를 통과한 설정에서만 호출해야 합니다.
func (c *HTTPRetryConfig) Delay() time.Duration {
	d, _ := time.ParseDuration(c.RetryDelay)
	return d
}

func (c *HTTPRetryConfig) validate() error {
	if c.MaxRetries < 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("HTTP 최대 재시도 횟수(max_retries)는 0 이상이어야 합니다: %d", c.MaxRetries))
	}
	if _, err := time.ParseDuration(c.RetryDelay); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("HTTP 재시도 대기 시간(retry_delay) 설정이 올바르지 않습니다: '%s' (예: 1s, 500ms)", c.RetryDelay))
	}
	return nil
}

// NotifierConfig 알림 채널(현재 텔레그램)을 정의하는 설정 구조체
type NotifierConfig struct {
	Telegrams []TelegramConfig `json:"telegrams" validate:"unique=ID"`
}

func (c *NotifierConfig) validate(v *validator.Validate) ([]string, error) {
	if err := checkUniqueField(v, c.Telegrams, "Notifier"); err != nil {
		return nil, err
	}

	var notifierIDs []string
	for _, telegram := range c.Telegrams {
		if err := checkStruct(v, telegram, fmt.Sprintf("Telegram Notifier['%s']", telegram.ID)); err != nil {
			return nil, err
		}
		notifierIDs = append(notifierIDs, telegram.ID)
	}

	return notifierIDs, nil
}

// TelegramConfig 텔레그램 봇 토큰 정보를 담는 설정 구조체
type TelegramConfig struct {
	ID       string `json:"id" validate:"required"`
	BotToken string `json:"bot_token" validate:"required,telegram_bot_token"`
}

// APIConfig 운영용 조회/제어 REST API 서버 설정 구조체
type APIConfig struct {
	Enabled    bool `json:"enabled"`
	ListenPort int  `json:"listen_port" validate:"min=1,max=65535"`
}

func (c *APIConfig) validate(v *validator.Validate) error {
	if !c.Enabled {
		return nil
	}
	if err := checkStruct(v, c, "API"); err != nil {
		return err
	}
	return nil
}

// VerifyRecommendations 서비스 운영의 안정성을 위해 권장되는 설정 준수 여부를 진단합니다.
// 강제적인 에러를 발생시키지는 않으나, 잠재적 위험 요소에 대한 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	if c.API.Enabled && c.API.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.API.ListenPort))
	}

	if len(c.Market.Destinations) == 0 {
		warnings = append(warnings, "발송 대상(market.destinations)이 비어있습니다. 변경 내역이 감지되어도 알림이 발송되지 않습니다")
	}

	// 봇 식별자가 비어있고 배정표에도 없는 Destination은 매 사이클마다 건너뛰게 됩니다.
	for _, d := range c.Market.Destinations {
		if d.SelfID != "" {
			continue
		}

		assigned := slices.ContainsFunc(c.Market.Assignments, func(a AssignmentConfig) bool {
			return a.Platform == d.Platform && a.ChannelID == d.ChannelID
		})
		if !assigned {
			warnings = append(warnings, fmt.Sprintf("Destination['%s']은 봇 식별자가 비어있고 배정표(assignments)에도 등록되어 있지 않아 발송이 항상 건너뛰어집니다", d.ID))
		}
	}

	return warnings
}
