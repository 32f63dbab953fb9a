package book

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"booklibrary/internal/platform/validate"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Filter holds the optional list predicates. Every predicate that is set must
// hold for a book to match.
type Filter struct {
	Search     string
	Genre      Genre
	IsRead     *bool
	IsBorrowed *bool
}

// Matches evaluates the filter in memory. Search is a case-insensitive
// substring match on title, author or description.
func (f Filter) Matches(b Book) bool {
	if f.Genre.Valid() && b.Genre != f.Genre {
		return false
	}
	if f.IsRead != nil && b.IsRead != *f.IsRead {
		return false
	}
	if f.IsBorrowed != nil && b.Lending.IsBorrowed() != *f.IsBorrowed {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		desc := ""
		if b.Description != nil {
			desc = *b.Description
		}
		if !strings.Contains(strings.ToLower(b.Title), needle) &&
			!strings.Contains(strings.ToLower(b.Author), needle) &&
			!strings.Contains(strings.ToLower(desc), needle) {
			return false
		}
	}
	return true
}

type ListRequest struct {
	Filter   Filter
	Page     int
	PageSize int
}

// Offset is the number of matching books before the requested page. It
// saturates at math.MaxInt instead of overflowing for very large pages.
func (r ListRequest) Offset() int {
	if r.Page <= 1 || r.PageSize <= 0 {
		return 0
	}
	if r.Page-1 > math.MaxInt/r.PageSize {
		return math.MaxInt
	}
	return (r.Page - 1) * r.PageSize
}

// ParseListRequest reads the list query string and reports every invalid
// parameter at once. Blank parameters count as absent.
func ParseListRequest(q url.Values) (ListRequest, error) {
	req := ListRequest{Page: DefaultPage, PageSize: DefaultPageSize}
	verr := &validate.Error{}

	if search := strings.TrimSpace(q.Get("search")); search != "" {
		if utf8.RuneCountInString(search) > MaxSearchLength {
			verr.Add("search", fmt.Sprintf("search cannot exceed %d characters", MaxSearchLength))
		}
		req.Filter.Search = search
	}

	if raw := strings.TrimSpace(q.Get("genre")); raw != "" {
		g, err := ParseGenre(raw)
		if err != nil {
			verr.Add("genre", "genre must be one of: "+genreList())
		}
		req.Filter.Genre = g
	}

	req.Filter.IsRead = parseBoolParam(q, "isRead", verr)
	req.Filter.IsBorrowed = parseBoolParam(q, "isBorrowed", verr)

	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			verr.Add("page", "page must be a positive integer")
		} else {
			req.Page = page
		}
	}

	sizeField, rawSize := "pageSize", strings.TrimSpace(q.Get("pageSize"))
	if rawSize == "" {
		sizeField, rawSize = "limit", strings.TrimSpace(q.Get("limit"))
	}
	if rawSize != "" {
		size, err := strconv.Atoi(rawSize)
		if err != nil || size < 1 || size > MaxPageSize {
			verr.Add(sizeField, fmt.Sprintf("%s must be between 1 and %d", sizeField, MaxPageSize))
		} else {
			req.PageSize = size
		}
	}

	if err := verr.Err(); err != nil {
		return ListRequest{}, err
	}
	return req, nil
}

func parseBoolParam(q url.Values, name string, verr *validate.Error) *bool {
	raw := strings.TrimSpace(q.Get(name))
	var v bool
	switch raw {
	case "":
		return nil
	case "true", "1":
		v = true
	case "false", "0":
		v = false
	default:
		verr.Add(name, name+" must be a boolean")
		return nil
	}
	return &v
}

// Pagination describes where a page sits in the full result.
type Pagination struct {
	Current  int  `json:"current"`
	Pages    int  `json:"pages"`
	Total    int  `json:"total"`
	PageSize int  `json:"pageSize"`
	HasNext  bool `json:"hasNext"`
	HasPrev  bool `json:"hasPrev"`
}

// NewPagination never clamps current: a page past the end is reported as is.
// An empty result still has one page.
func NewPagination(current, pageSize, total int) Pagination {
	pages := (total + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}
	return Pagination{
		Current:  current,
		Pages:    pages,
		Total:    total,
		PageSize: pageSize,
		HasNext:  current < pages,
		HasPrev:  current > 1,
	}
}

// Page is one window of a filtered list.
type Page struct {
	Items      []Book
	Pagination Pagination
}
