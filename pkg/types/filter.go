package types

import "errors"

// Pagination bounds for task listing.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListFilter carries the filter and pagination parameters for a task scan.
// Zero-valued fields are unset. All supplied filters are ANDed together; the
// free-text Query matches title or description, case-insensitive.
type ListFilter struct {
	Query    string
	Status   string
	Priority string
	Tag      string
	Assignee string
	Page     int
	Limit    int
}

// Normalize returns a copy with pagination clamped to valid bounds: page
// defaults to 1, limit defaults to DefaultLimit and is capped at MaxLimit.
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// Validate checks enum-valued filters. Call after Normalize.
func (f ListFilter) Validate() error {
	if f.Status != "" && !ValidStatus(f.Status) {
		return ErrInvalidStatus
	}
	if f.Priority != "" && !ValidPriority(f.Priority) {
		return ErrInvalidPriority
	}
	return nil
}

// Offset returns the scan offset implied by the page and limit.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// PageMeta describes one page of a scan. Total is computed under the same
// predicate as the page itself, so the metadata stays consistent even when
// the requested page is past the end and comes back empty.
type PageMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ErrInvalidFilter is returned when a filter value has the wrong type or an
// unsupported value.
var ErrInvalidFilter = errors.New("invalid filter value")
