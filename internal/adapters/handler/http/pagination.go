package http

import (
	"net/http"
	"strconv"

	"github.com/vncsmyrnk/mypolls/internal/core/domain"
)

// pageRequest reads ?page and ?size, defaulting to page 0 and defaultSize.
// Range checks are left to the services.
func pageRequest(r *http.Request, defaultSize int) (domain.PageRequest, error) {
	req := domain.PageRequest{Page: 0, Size: defaultSize}

	q := r.URL.Query()
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return req, domain.NewValidationError("page must be an integer")
		}
		req.Page = page
	}
	if raw := q.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return req, domain.NewValidationError("size must be an integer")
		}
		req.Size = size
	}
	return req, nil
}
