// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows in paged list responses.
// Keep this as an int because call sites add/subtract and then cast to
// int64 for Mongo Find().SetLimit().
const PageSize = 50

// MaxPageSize caps caller-supplied limits.
const MaxPageSize = 200

// LimitPlusOne returns PageSize+1 as int64 for look-ahead pagination
// (fetch one extra document to detect hasNext).
func LimitPlusOne() int64 { return int64(PageSize + 1) }

// ParseLimit extracts the "limit" query parameter, clamped to
// [1, MaxPageSize]. Returns PageSize if absent or invalid.
func ParseLimit(r *http.Request) int64 {
	s := query.Get(r, "limit")
	if s == "" {
		return PageSize
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return PageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return int64(n)
}

// Cursors extracts the keyset "before"/"after" query parameters.
func Cursors(r *http.Request) (before, after string) {
	return query.Get(r, "before"), query.Get(r, "after")
}

// Search extracts the trimmed "q" query parameter.
func Search(r *http.Request) string {
	return query.Get(r, "q")
}

// Result holds the output of TrimPage for keyset pagination.
type Result struct {
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`
}

// TrimPage trims a fetched slice for keyset pagination. Call this after
// fetching PageSize+1 rows. It modifies the slice in place and returns
// pagination indicators.
//
// When going backwards (before != ""):
//   - If len > PageSize, trim the first element (older page exists)
//   - HasNext is always true (we came from somewhere)
//
// When going forwards or on first page:
//   - If len > PageSize, trim to PageSize (next page exists)
//   - HasPrev is true only if after != ""
func TrimPage[T any](rows *[]T, before, after string) Result {
	orig := len(*rows)
	var hasPrev, hasNext bool

	if before != "" {
		if orig > PageSize {
			*rows = (*rows)[1:]
			hasPrev = true
		}
		hasNext = true
	} else {
		if orig > PageSize {
			*rows = (*rows)[:PageSize]
			hasNext = true
		}
		hasPrev = after != ""
	}

	return Result{HasPrev: hasPrev, HasNext: hasNext}
}
