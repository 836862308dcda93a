package handler

import (
	"fmt"
	"net/http"

	"github.com/darkkaiser/market-watcher/internal/service/api/httputil"
	"github.com/darkkaiser/market-watcher/internal/service/market"
	"github.com/labstack/echo/v4"
)

// catalogEntryView 단일 플러그인 정보의 응답 형식입니다.
type catalogEntryView struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Hidden      bool   `json:"hidden"`
	Publisher   string `json:"publisher,omitempty"`
	Description string `json:"description,omitempty"`
}

// catalogResponse 카탈로그 목록 응답 형식입니다.
type catalogResponse struct {
	Count   int                `json:"count"`
	Entries []catalogEntryView `json:"entries"`
}

// newCatalogEntryView 스냅샷의 Entry를 응답 형식으로 변환합니다.
func newCatalogEntryView(entry market.Entry, locale string) catalogEntryView {
	return catalogEntryView{
		Name:        entry.Name,
		Version:     entry.Version,
		Hidden:      entry.Hidden,
		Publisher:   entry.Publisher,
		Description: entry.Description.Resolve(locale),
	}
}

// locale 설명 텍스트 렌더링에 사용할 로케일을 결정합니다. (쿼리 파라미터 우선)
func (h *Handler) locale(c echo.Context) string {
	if locale := c.QueryParam("locale"); locale != "" {
		return locale
	}
	return h.defaultLocale
}

// CatalogList 현재 스냅샷에 포함된 전체 플러그인 목록을 반환합니다.
//
// GET /api/v1/catalog
func (h *Handler) CatalogList(c echo.Context) error {
	snapshot, seeded := h.catalog.Current()
	if !seeded {
		return httputil.NewServiceUnavailableError("아직 카탈로그 스냅샷이 확보되지 않았습니다. 잠시 후 다시 시도하세요")
	}

	locale := h.locale(c)

	entries := make([]catalogEntryView, 0, len(snapshot))
	for _, name := range snapshot.Names() {
		entries = append(entries, newCatalogEntryView(snapshot[name], locale))
	}

	return c.JSON(http.StatusOK, catalogResponse{
		Count:   len(entries),
		Entries: entries,
	})
}

// CatalogEntry 지정된 이름의 플러그인 정보를 반환합니다.
//
// GET /api/v1/catalog/:name
func (h *Handler) CatalogEntry(c echo.Context) error {
	snapshot, seeded := h.catalog.Current()
	if !seeded {
		return httputil.NewServiceUnavailableError("아직 카탈로그 스냅샷이 확보되지 않았습니다. 잠시 후 다시 시도하세요")
	}

	name := c.Param("name")
	entry, exists := snapshot[name]
	if !exists {
		return httputil.NewNotFoundError(fmt.Sprintf("플러그인('%s')을 찾을 수 없습니다", name))
	}

	return c.JSON(http.StatusOK, newCatalogEntryView(entry, h.locale(c)))
}
