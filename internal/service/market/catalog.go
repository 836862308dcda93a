// Package market 플러그인 마켓 레지스트리의 카탈로그를 주기적으로 폴링하여
// 이전 스냅샷과 비교하고, 변경 내역 다이제스트를 생성하는 핵심 도메인 패키지입니다.
package market

import (
	"context"
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/darkkaiser/market-watcher/internal/pkg/errors"
	"github.com/darkkaiser/market-watcher/internal/service/market/fetcher"
	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
)

// Entry 스냅샷에 포함된 단일 플러그인의 게시 정보입니다.
// 스냅샷에 편입된 이후에는 변경되지 않습니다.
type Entry struct {
	// Name 플러그인의 고유 이름 (스냅샷의 키)
	Name string `json:"name"`

	// Version 게시된 버전 문자열. 순서 비교 없이 동등성 비교에만 사용됩니다.
	Version string `json:"version"`

	// Hidden 마켓에서 숨김 처리된 플러그인 여부
	Hidden bool `json:"hidden"`

	// Publisher 게시자 계정 이름
	Publisher string `json:"publisher"`

	// Description 플러그인 설명 (로케일별 텍스트 또는 단일 문자열)
	Description Description `json:"description"`
}

// descriptionKind Description 값의 형태를 구분하는 내부 열거형입니다.
type descriptionKind int

const (
	descriptionAbsent descriptionKind = iota
	descriptionPlain
	descriptionLocalized
)

// Description 레지스트리 문서의 설명 필드를 표현하는 타입입니다.
//
// 레지스트리 문서에서 이 필드는 단일 문자열이거나 로케일별 텍스트 객체
// (예: {"zh": "...", "en": "..."})로 제공되며, 없을 수도 있습니다.
// 세 가지 형태를 하나의 값으로 수용하고 Resolve()에서 우선순위 규칙을 적용합니다.
type Description struct {
	kind      descriptionKind
	plain     string
	localized map[string]string
}

// NewPlainDescription 단일 문자열 형태의 Description을 생성합니다.
func NewPlainDescription(text string) Description {
	return Description{kind: descriptionPlain, plain: text}
}

// NewLocalizedDescription 로케일별 텍스트 형태의 Description을 생성합니다.
func NewLocalizedDescription(texts map[string]string) Description {
	return Description{kind: descriptionLocalized, localized: texts}
}

// UnmarshalJSON 문자열/객체/null 세 가지 형태를 모두 수용합니다.
// 알 수 없는 형태는 에러 대신 빈 값으로 처리하여, 설명 필드 하나 때문에
// 카탈로그 전체의 파싱이 실패하지 않도록 합니다.
func (d *Description) UnmarshalJSON(data []byte) error {
	result := gjson.ParseBytes(data)

	switch {
	case result.Type == gjson.String:
		d.kind = descriptionPlain
		d.plain = result.String()

	case result.IsObject():
		texts := make(map[string]string)
		result.ForEach(func(key, value gjson.Result) bool {
			if value.Type == gjson.String {
				texts[key.String()] = value.String()
			}
			return true
		})

		d.kind = descriptionLocalized
		d.localized = texts

	default:
		d.kind = descriptionAbsent
	}

	return nil
}

// Resolve 설정된 로케일에 가장 적합한 설명 텍스트를 반환합니다.
//
// 우선순위:
//  1. 로케일별 텍스트 중 preferred 로케일과 가장 잘 일치하는 항목 (BCP 47 매칭)
//  2. 영어(en) 텍스트
//  3. 로케일 키 사전순으로 첫 번째 텍스트
//  4. 단일 문자열 형태인 경우 해당 문자열
//
// 결과가 없으면 빈 문자열을 반환합니다.
func (d Description) Resolve(preferred string) string {
	switch d.kind {
	case descriptionPlain:
		return strings.TrimSpace(d.plain)

	case descriptionLocalized:
		if len(d.localized) == 0 {
			return ""
		}

		// 맵 순회 순서에 의한 비결정성을 막기 위해 로케일 키를 정렬해 둡니다.
		keys := make([]string, 0, len(d.localized))
		for key := range d.localized {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		if text, ok := d.matchLocale(keys, preferred); ok {
			return strings.TrimSpace(text)
		}

		if text, ok := d.localized["en"]; ok {
			return strings.TrimSpace(text)
		}

		return strings.TrimSpace(d.localized[keys[0]])
	}

	return ""
}

// matchLocale BCP 47 언어 매칭을 통해 preferred 로케일에 대응하는 텍스트를 찾습니다.
func (d Description) matchLocale(keys []string, preferred string) (string, bool) {
	preferredTag, err := language.Parse(preferred)
	if err != nil {
		return "", false
	}

	tags := make([]language.Tag, 0, len(keys))
	tagKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		tag, err := language.Parse(key)
		if err != nil {
			// 레지스트리에 올바르지 않은 로케일 키가 있어도 무시하고 진행
			continue
		}
		tags = append(tags, tag)
		tagKeys = append(tagKeys, key)
	}
	if len(tags) == 0 {
		return "", false
	}

	matcher := language.NewMatcher(tags)
	if _, index, confidence := matcher.Match(preferredTag); confidence > language.No {
		return d.localized[tagKeys[index]], true
	}

	return "", false
}

// registryDocument 레지스트리 인덱스 문서의 최상위 구조입니다.
type registryDocument struct {
	Objects []registryObject `json:"objects"`
}

type registryObject struct {
	Shortname string           `json:"shortname"`
	Name      string           `json:"name"`
	Version   string           `json:"version"`
	Manifest  registryManifest `json:"manifest"`
	Package   registryPackage  `json:"package"`
}

type registryManifest struct {
	Hidden      bool        `json:"hidden"`
	Description Description `json:"description"`
}

type registryPackage struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Publisher registryPublisher `json:"publisher"`
}

type registryPublisher struct {
	Username string `json:"username"`
}

// entryName 레지스트리 객체에서 플러그인의 고유 이름을 결정합니다.
// shortname이 비어있는 비정상 레코드는 최상위 이름, 패키지 이름 순으로 대체합니다.
func (o registryObject) entryName() string {
	if o.Shortname != "" {
		return o.Shortname
	}
	if o.Name != "" {
		return o.Name
	}
	return o.Package.Name
}

// entryVersion 레지스트리 객체에서 게시 버전을 결정합니다.
// 최상위 version 필드가 비어있는 문서 형태에서는 패키지 버전으로 대체합니다.
func (o registryObject) entryVersion() string {
	if o.Version != "" {
		return o.Version
	}
	return o.Package.Version
}

// FetchCatalog 레지스트리 인덱스 문서를 조회하여 현재 시점의 스냅샷을 생성합니다.
//
// 네트워크 오류나 파싱 실패 시 부분 스냅샷 없이 에러를 반환하며,
// 호출 측은 해당 폴링 사이클을 중단해야 합니다 (기존 스냅샷은 유지).
// includeHidden이 false이면 숨김 처리된 플러그인은 스냅샷에서 제외됩니다.
func FetchCatalog(ctx context.Context, f fetcher.Fetcher, endpoint string, includeHidden bool) (Snapshot, error) {
	var doc registryDocument
	if err := fetcher.FetchJSON(ctx, f, endpoint, &doc); err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable, fmt.Sprintf("레지스트리 카탈로그(%s) 조회에 실패했습니다", endpoint))
	}

	snapshot := make(Snapshot, len(doc.Objects))
	for _, object := range doc.Objects {
		name := object.entryName()
		if name == "" {
			continue
		}

		if object.Manifest.Hidden && !includeHidden {
			continue
		}

		snapshot[name] = Entry{
			Name:        name,
			Version:     object.entryVersion(),
			Hidden:      object.Manifest.Hidden,
			Publisher:   object.Package.Publisher.Username,
			Description: object.Manifest.Description,
		}
	}

	return snapshot, nil
}
