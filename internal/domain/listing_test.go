package domain

import (
	"math"
	"testing"
)

func TestListOptionsNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   ListOptions
		want ListOptions
	}{
		{"defaults", ListOptions{}, ListOptions{Page: 1, Limit: 10, Order: SortAsc}},
		{"cap limit", ListOptions{Page: 2, Limit: 500, Order: SortDesc}, ListOptions{Page: 2, Limit: 100, Order: SortDesc}},
		{"negative page", ListOptions{Page: -3, Limit: 5, SortBy: "email"}, ListOptions{Page: 1, Limit: 5, SortBy: "email", Order: SortAsc}},
		{"huge page", ListOptions{Page: math.MaxInt, Limit: 100}, ListOptions{Page: MaxPage, Limit: 100, Order: SortAsc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestListOptionsOffsetNeverNegative(t *testing.T) {
	for _, page := range []int{math.MaxInt, 1844674407370955160, MaxPage, MaxPage + 1} {
		for _, limit := range []int{1, 10, MaxLimit, 500} {
			opts := ListOptions{Page: page, Limit: limit}.Normalize()
			if off := opts.Offset(); off < 0 {
				t.Errorf("Offset() for page=%d limit=%d = %d, want >= 0", page, limit, off)
			}
		}
	}
}

func TestParseSortOrder(t *testing.T) {
	if ParseSortOrder("desc") != SortDesc || ParseSortOrder(" DESC ") != SortDesc {
		t.Error("expected desc to parse as SortDesc")
	}
	if ParseSortOrder("sideways") != SortAsc || ParseSortOrder("") != SortAsc {
		t.Error("expected anything else to parse as SortAsc")
	}
}

func TestNewPagination(t *testing.T) {
	opts := ListOptions{Page: 2, Limit: 10}
	got := NewPagination(21, opts)
	want := Pagination{Total: 21, Page: 2, Limit: 10, TotalPages: 3}
	if got != want {
		t.Errorf("NewPagination() = %+v, want %+v", got, want)
	}

	if p := NewPagination(0, opts); p.TotalPages != 0 {
		t.Errorf("expected 0 pages for empty result, got %d", p.TotalPages)
	}
}
