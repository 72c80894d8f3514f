package utils

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
)

func TestParsePage(t *testing.T) {
	cases := []struct {
		page, size string
		want       Page
		err        bool
	}{
		// absent -> defaults
		{"", "", Page{DefaultPage, DefaultSize}, false},
		{"3", "", Page{3, DefaultSize}, false},
		{"", "25", Page{DefaultPage, 25}, false},
		{" 2 ", "10", Page{2, 10}, false},
		{"1", "100", Page{1, 100}, false},
		// invalid
		{"0", "10", Page{}, true},
		{"-1", "10", Page{}, true},
		{"x", "10", Page{}, true},
		{"1", "0", Page{}, true},
		{"1", "101", Page{}, true},
		{"1", "ten", Page{}, true},
		{"1.5", "10", Page{}, true},
		// page large enough to wrap the offset
		{strconv.Itoa(MaxPage), "100", Page{MaxPage, 100}, false},
		{strconv.Itoa(MaxPage + 1), "100", Page{}, true},
		{"92233720368547759", "100", Page{}, true},
		{"99999999999999999999", "10", Page{}, true},
	}
	for _, tc := range cases {
		got, err := ParsePage(tc.page, tc.size)
		if tc.err {
			if !errors.Is(err, ErrInvalidPage) {
				t.Fatalf("ParsePage(%q,%q) err = %v; want ErrInvalidPage", tc.page, tc.size, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParsePage(%q,%q) = %+v,%v; want %+v", tc.page, tc.size, got, err, tc.want)
		}
	}
}

func TestPageArithmetic(t *testing.T) {
	for p := 1; p <= 6; p++ {
		for s := 1; s <= 12; s++ {
			for _, total := range []int64{0, 1, 9, 10, 11, 25, 60} {
				pg := Page{Number: p, Size: s}
				if pg.Skip() != (p-1)*s {
					t.Fatalf("Skip(%d,%d) = %d", p, s, pg.Skip())
				}
				m := NewMeta(pg, total)
				wantPages := int((total + int64(s) - 1) / int64(s))
				if m.TotalPages != wantPages {
					t.Fatalf("TotalPages(%d,%d,%d) = %d; want %d", p, s, total, m.TotalPages, wantPages)
				}
				hasNext := int64(pg.Skip()+s) < total
				if (m.NextPage != nil) != hasNext {
					t.Fatalf("NextPage presence(%d,%d,%d) = %v; want %v", p, s, total, m.NextPage != nil, hasNext)
				}
				if m.NextPage != nil && *m.NextPage != m.CurrentPage+1 {
					t.Fatalf("NextPage = %d; want %d", *m.NextPage, m.CurrentPage+1)
				}
			}
		}
	}
}

func TestNewMeta_Scenario(t *testing.T) {
	m := NewMeta(Page{Number: 2, Size: 10}, 25)
	if m.CurrentPage != 1 || m.TotalPages != 3 || m.NextPage == nil || *m.NextPage != 2 {
		t.Fatalf("unexpected meta: %+v", m)
	}
	last := NewMeta(Page{Number: 3, Size: 10}, 25)
	if last.NextPage != nil {
		t.Fatalf("last page must have nil NextPage, got %d", *last.NextPage)
	}
}

func TestPaged_JSONShape(t *testing.T) {
	b, err := json.Marshal(NewPaged[int](nil, Page{Number: 1, Size: 10}, 0))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(b)
	for _, want := range []string{`"items":[]`, `"totalItems":0`, `"currentPage":0`, `"totalPages":0`, `"nextPage":null`} {
		if !strings.Contains(got, want) {
			t.Fatalf("json %s missing %s", got, want)
		}
	}
}

func TestNewMeta_LastPossiblePage(t *testing.T) {
	p := Page{Number: MaxPage, Size: MaxSize}
	if p.Skip() < 0 {
		t.Fatalf("Skip() = %d; want non-negative", p.Skip())
	}
	m := NewMeta(p, 3)
	if m.NextPage != nil {
		t.Fatalf("NextPage = %d; want nil", *m.NextPage)
	}
	if m.TotalPages != 1 || m.CurrentPage != MaxPage-1 {
		t.Fatalf("meta = %+v", m)
	}
}
