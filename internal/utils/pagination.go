// Package utils provides small, generic helpers shared by the HTTP and
// service layers. They carry no domain or storage knowledge.
package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100

	// MaxPage keeps (page-1)*MaxSize within int.
	MaxPage = math.MaxInt/MaxSize + 1
)

// ErrInvalidPage is returned by ParsePage when page or size is present but
// unparsable or out of range.
var ErrInvalidPage = errors.New("invalid pagination parameters")

// Page is a validated 1-based page window.
type Page struct {
	Number int
	Size   int
}

// ParsePage validates raw page/size query values. Empty strings select the
// defaults; anything else must parse as a base-10 integer with
// 1 <= page <= MaxPage and 1 <= size <= MaxSize.
//
// Example:
//
//	p, _ := utils.ParsePage("2", "10") // Page{Number: 2, Size: 10}, Skip() == 10
//	_, err := utils.ParsePage("0", "")  // ErrInvalidPage
func ParsePage(page, size string) (Page, error) {
	p := Page{Number: DefaultPage, Size: DefaultSize}
	if s := strings.TrimSpace(page); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxPage {
			return Page{}, ErrInvalidPage
		}
		p.Number = n
	}
	if s := strings.TrimSpace(size); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxSize {
			return Page{}, ErrInvalidPage
		}
		p.Size = n
	}
	return p, nil
}

// Skip is the zero-based offset of the first item in the window.
func (p Page) Skip() int { return (p.Number - 1) * p.Size }

// Limit is the maximum number of items in the window.
func (p Page) Limit() int { return p.Size }

// Meta is the pagination metadata returned alongside a page of items.
// CurrentPage is zero-based (page 1 reports 0); clients rely on this.
type Meta struct {
	TotalItems  int64 `json:"totalItems"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	NextPage    *int  `json:"nextPage"`
}

// NewMeta derives metadata for window p over total matching items.
// NextPage is set iff another window exists after p.
func NewMeta(p Page, total int64) Meta {
	if total < 0 {
		total = 0
	}
	size := int64(p.Size)
	if size < 1 {
		size = 1
	}
	m := Meta{
		TotalItems:  total,
		CurrentPage: p.Number - 1,
		TotalPages:  int((total + size - 1) / size),
	}
	if int64(p.Skip()) < total-size {
		next := m.CurrentPage + 1
		m.NextPage = &next
	}
	return m
}

// Paged is a page of items with its metadata flattened alongside.
type Paged[T any] struct {
	Items []T `json:"items"`
	Meta
}

// NewPaged builds a Paged result, normalising a nil slice to empty so it
// encodes as [] rather than null.
func NewPaged[T any](items []T, p Page, total int64) Paged[T] {
	if items == nil {
		items = []T{}
	}
	return Paged[T]{Items: items, Meta: NewMeta(p, total)}
}
