// utils/pagination.go
package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type PageRequest struct {
	Page int
	Size int
	Sort string
	Desc bool
}

// ParsePageRequest reads page, size and sort query parameters. Sort fields
// outside the whitelist fall back to the first allowed field so callers
// cannot order by arbitrary columns.
func ParsePageRequest(c *gin.Context, allowedSorts ...string) PageRequest {
	req := PageRequest{Page: 0, Size: defaultPageSize}

	if v, err := strconv.Atoi(c.Query("page")); err == nil && v >= 0 {
		req.Page = v
	}
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 {
		req.Size = v
		if req.Size > maxPageSize {
			req.Size = maxPageSize
		}
	}

	if len(allowedSorts) > 0 {
		req.Sort = allowedSorts[0]
	}
	if raw := c.Query("sort"); raw != "" {
		field := raw
		if f, dir, ok := strings.Cut(raw, ","); ok {
			field = f
			req.Desc = strings.EqualFold(dir, "desc")
		}
		for _, allowed := range allowedSorts {
			if field == allowed {
				req.Sort = field
				break
			}
		}
	}
	return req
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// OrderClause renders the ORDER BY expression, optionally prefixing the
// column with a joined table name.
func (p PageRequest) OrderClause(tablePrefix string) string {
	if p.Sort == "" {
		return ""
	}
	col := p.Sort
	if tablePrefix != "" {
		col = tablePrefix + "." + col
	}
	if p.Desc {
		return col + " DESC"
	}
	return col
}

// PageResponse mirrors the shape of the paginated endpoints: content plus
// enough metadata for a client to page through.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func NewPageResponse[T any](content []T, req PageRequest, total int64) PageResponse[T] {
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	if content == nil {
		content = []T{}
	}
	return PageResponse[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}
