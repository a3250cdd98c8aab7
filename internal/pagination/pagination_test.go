package pagination

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNewMeta_Properties(t *testing.T) {
	for total := 0; total <= 45; total++ {
		for limit := 1; limit <= 12; limit++ {
			for page := 1; page <= 8; page++ {
				m := NewMeta(total, page, limit)

				want := int(math.Ceil(float64(total) / float64(limit)))
				if m.TotalPages != want {
					t.Fatalf("total=%d limit=%d: totalPages=%d want %d", total, limit, m.TotalPages, want)
				}
				if (m.NextPage != nil) != (page < m.TotalPages) {
					t.Fatalf("total=%d limit=%d page=%d: nextPage=%v", total, limit, page, m.NextPage)
				}
				if m.NextPage != nil && *m.NextPage != page+1 {
					t.Fatalf("nextPage = %d, want %d", *m.NextPage, page+1)
				}
				if (m.PreviousPage != nil) != (page > 1 && page <= m.TotalPages) {
					t.Fatalf("total=%d limit=%d page=%d: previousPage=%v", total, limit, page, m.PreviousPage)
				}
				if m.PreviousPage != nil && *m.PreviousPage != page-1 {
					t.Fatalf("previousPage = %d, want %d", *m.PreviousPage, page-1)
				}
			}
		}
	}
}

func TestNewMeta_Extremes(t *testing.T) {
	tests := []struct {
		total, page, limit int
		wantPages          int
		wantNext, wantPrev bool
	}{
		{total: 2, page: 1, limit: math.MaxInt, wantPages: 1},
		{total: math.MaxInt, page: 1, limit: math.MaxInt, wantPages: 1},
		{total: math.MaxInt, page: 1, limit: 1, wantPages: math.MaxInt, wantNext: true},
		{total: math.MaxInt, page: 1, limit: 2, wantPages: math.MaxInt/2 + 1, wantNext: true},
		{total: math.MaxInt, page: math.MaxInt, limit: 1, wantPages: math.MaxInt, wantPrev: true},
		{total: 1, page: math.MaxInt, limit: 10, wantPages: 1},
	}
	for _, tt := range tests {
		m := NewMeta(tt.total, tt.page, tt.limit)
		if m.TotalPages != tt.wantPages {
			t.Errorf("NewMeta(%d, %d, %d).TotalPages = %d, want %d", tt.total, tt.page, tt.limit, m.TotalPages, tt.wantPages)
		}
		if (m.NextPage != nil) != tt.wantNext {
			t.Errorf("NewMeta(%d, %d, %d).NextPage = %v", tt.total, tt.page, tt.limit, m.NextPage)
		}
		if (m.PreviousPage != nil) != tt.wantPrev {
			t.Errorf("NewMeta(%d, %d, %d).PreviousPage = %v", tt.total, tt.page, tt.limit, m.PreviousPage)
		}
	}
}

func TestOptions_OffsetSaturates(t *testing.T) {
	tests := []struct {
		page, limit, want int
	}{
		{page: 1_000_000_000_000_000_000, limit: 10, want: math.MaxInt},
		{page: math.MaxInt, limit: math.MaxInt, want: math.MaxInt},
		{page: 2, limit: math.MaxInt, want: math.MaxInt},
		{page: math.MaxInt, limit: 1, want: math.MaxInt - 1},
		{page: 0, limit: 10, want: 0},
	}
	for _, tt := range tests {
		o := Options{Page: tt.page, Limit: tt.limit}
		if got := o.Offset(); got != tt.want {
			t.Errorf("Offset(page=%d, limit=%d) = %d, want %d", tt.page, tt.limit, got, tt.want)
		}
	}
}

func TestNewMeta_ZeroLimit(t *testing.T) {
	m := NewMeta(25, 2, 0)
	if m.TotalPages != 0 {
		t.Errorf("totalPages = %d, want 0", m.TotalPages)
	}
	if m.NextPage != nil || m.PreviousPage != nil {
		t.Errorf("next/previous should be absent: %+v", m)
	}
}

func TestMeta_JSONOmitsAbsentPages(t *testing.T) {
	b, err := json.Marshal(NewMeta(5, 1, 10))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"limit":10,"currentPage":1,"totalRecords":5,"totalPages":1}`
	if string(b) != want {
		t.Errorf("json = %s\nwant   %s", b, want)
	}
}

func TestOptions(t *testing.T) {
	o := DefaultOptions()
	if o.Page != 1 || o.Limit != DefaultLimit || o.Sort != SortCreatedAt || o.Order != OrderASC {
		t.Fatalf("defaults = %+v", o)
	}
	if o.Offset() != 0 {
		t.Errorf("offset = %d", o.Offset())
	}
	o.Page, o.Limit = 3, 20
	if o.Offset() != 40 {
		t.Errorf("offset = %d, want 40", o.Offset())
	}
}

func TestNewPage_NilItems(t *testing.T) {
	p := NewPage[string](nil, NewMeta(0, 1, 10))
	b, _ := json.Marshal(p)
	if string(b) != `{"data":[],"pagination":{"limit":10,"currentPage":1,"totalRecords":0,"totalPages":0}}` {
		t.Errorf("json = %s", b)
	}
}
