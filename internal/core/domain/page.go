package domain

import (
	"fmt"
	"math"
)

// PageRequest is a 0-based page index and a page size.
type PageRequest struct {
	Page int
	Size int
}

// Offset is the number of rows before the page. It saturates at math.MaxInt
// so a page far past the end reads as empty instead of wrapping around.
func (r PageRequest) Offset() int {
	if r.Size > 0 && r.Page > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return r.Page * r.Size
}

// Validate rejects negative pages and sizes outside (0, maxSize].
func (r PageRequest) Validate(maxSize int) error {
	if r.Page < 0 {
		return ErrInvalidPage
	}
	if r.Size < 1 {
		return ErrInvalidPageSize
	}
	if r.Size > maxSize {
		return fmt.Errorf("%w: must not be greater than %d", ErrPageSizeTooLarge, maxSize)
	}
	return nil
}

type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	Last          bool  `json:"last"`
}

// NewPage wraps one page of an ordered result of total elements.
func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	return Page[T]{
		Content:       items,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          req.Page >= totalPages-1,
	}
}
