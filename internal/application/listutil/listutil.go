// Package listutil pages, sorts and filters the in-memory admin lists
// (race log, members, standings log).
package listutil

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPerPage is the number of rows shown when per_page is absent.
const DefaultPerPage = 50

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{25, 50, 100, 250}

// Params is a parsed list request.
type Params struct {
	Page    int // 1-indexed
	PerPage int
	Sort    string // empty means the list's natural order
	Desc    bool
	Search  string
	Filters map[string]string
}

// Parse reads page, per_page, sort, dir, q and the named filters from q.
// Unknown sort columns and filter keys are dropped.
// POST: Page >= 1 and PerPage is one of PerPageOptions
func Parse(q url.Values, sortCols []string, filterKeys []string) Params {
	p := Params{
		Page:    atLeastOne(q.Get("page")),
		PerPage: DefaultPerPage,
		Search:  strings.TrimSpace(q.Get("q")),
		Filters: make(map[string]string),
	}
	if n, _ := strconv.Atoi(q.Get("per_page")); allowed(n) {
		p.PerPage = n
	}
	if col := q.Get("sort"); contains(sortCols, col) {
		p.Sort = col
		p.Desc = q.Get("dir") == "desc"
	}
	for _, key := range filterKeys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			p.Filters[key] = v
		}
	}
	return p
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPageInfo computes pagination metadata, clamping page into range.
// POST: 1 <= Page <= TotalPages and TotalPages >= 1
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	page = min(max(page, 1), pages)
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: pages}
}

func (p PageInfo) offset() int { return (p.Page - 1) * p.PerPage }

// StartRow is the 1-indexed first row on the page, or 0 for an empty list.
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.offset() + 1
}

// EndRow is the 1-indexed last row on the page.
func (p PageInfo) EndRow() int {
	return min(p.offset()+p.PerPage, p.Total)
}

// PageNumbers returns a window of at most five page numbers around the
// current page.
func (p PageInfo) PageNumbers() []int {
	const window = 5
	start := max(p.Page-window/2, 1)
	end := start + window - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = max(end-window+1, 1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ShowPagination reports whether there is more than one page.
func (p PageInfo) ShowPagination() bool {
	return p.Total > p.PerPage
}

// Paginate returns the slice of items on the requested page.
// INVARIANT: items is not modified
func Paginate[T any](items []T, page, perPage int) ([]T, PageInfo) {
	info := NewPageInfo(page, perPage, len(items))
	if info.Total == 0 {
		return []T{}, info
	}
	return items[info.offset():info.EndRow()], info
}

// Matches reports whether search occurs in any field, ignoring case. An
// empty search matches everything.
func Matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func atLeastOne(s string) int {
	n, _ := strconv.Atoi(s)
	return max(n, 1)
}

func allowed(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
