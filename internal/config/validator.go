package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	apperrors "github.com/darkkaiser/market-watcher/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// telegramBotTokenRegex 텔레그램 봇 토큰 형식 (<봇ID>:<시크릿>)
var telegramBotTokenRegex = regexp.MustCompile(`^\d{3,20}:[a-zA-Z0-9_-]{30,50}$`)

// newValidator 설정 검증에 사용할 validator 인스턴스를 생성합니다.
//
// 검증 실패 메시지에 Go 필드명 대신 설정 파일의 json 키가 노출되도록
// 태그 이름 함수를 등록하며, 커스텀 검증 규칙(telegram_bot_token)을 추가합니다.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("telegram_bot_token", func(fl validator.FieldLevel) bool {
		return telegramBotTokenRegex.MatchString(fl.Field().String())
	})

	return v
}

// checkStruct 구조체 단위 검증을 수행하고, 실패 시 어떤 설정 항목이 문제인지
// 식별 가능한 메시지를 담은 에러를 반환합니다.
func checkStruct(v *validator.Validate, s any, subject string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if apperrors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s 설정이 올바르지 않습니다: '%s' 항목이 '%s' 규칙을 만족하지 않습니다", subject, fe.Field(), fe.Tag()))
	}

	return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("%s 설정 검증 중 오류가 발생했습니다", subject))
}

// checkUniqueField 슬라이스 내 ID 필드의 중복 여부를 검증합니다.
func checkUniqueField[T any](v *validator.Validate, s []T, subject string) error {
	if err := v.Var(s, "unique=ID"); err != nil {
		return apperrors.New(apperrors.Conflict, fmt.Sprintf("%s 목록에 중복된 ID가 존재합니다", subject))
	}
	return nil
}
