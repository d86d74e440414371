package handler

import (
	"net/http"
	"strconv"

	"github.com/microcosm-cc/bluemonday"

	"github.com/itchan-dev/postboard/shared/api"
	"github.com/itchan-dev/postboard/shared/domain"
	"github.com/itchan-dev/postboard/shared/errors"
)

// sanitizer strips markup from titles entirely and keeps only safe
// user-content markup in post bodies.
type sanitizer struct {
	title   *bluemonday.Policy
	content *bluemonday.Policy
}

func newSanitizer() *sanitizer {
	return &sanitizer{
		title:   bluemonday.StrictPolicy(),
		content: bluemonday.UGCPolicy(),
	}
}

func (s *sanitizer) Title(v string) string   { return s.title.Sanitize(v) }
func (s *sanitizer) Content(v string) string { return s.content.Sanitize(v) }

// parsePagination reads offset and limit from the query string. Missing
// values fall back to 0 and the configured default page size.
func (h *Handler) parsePagination(r *http.Request) (domain.Pagination, error) {
	invalid := errors.BadRequest(api.CodeInvalidPagination)
	pagination := domain.Pagination{Offset: 0, Limit: h.cfg.Public.DefaultPageLimit}

	query := r.URL.Query()
	if v := query.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return domain.Pagination{}, invalid
		}
		pagination.Offset = offset
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > h.cfg.Public.MaxPageLimit {
			return domain.Pagination{}, invalid
		}
		pagination.Limit = limit
	}
	return pagination, nil
}
