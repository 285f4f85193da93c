package request

import "testing"

func TestNewPaginatedRequest(t *testing.T) {
	tests := []struct {
		page, perPage         int
		wantPage, wantPerPage int
		wantOffset            int
	}{
		{1, 10, 1, 10, 0},
		{3, 20, 3, 20, 40},
		{0, 0, 1, DefaultPerPage, 0},
		{-2, 500, 1, MaxPerPage, 0},
		{2, 500, 2, MaxPerPage, 100},
	}

	for _, tt := range tests {
		p := NewPaginatedRequest(tt.page, tt.perPage)
		if p.Page != tt.wantPage || p.PerPage != tt.wantPerPage {
			t.Errorf("NewPaginatedRequest(%d, %d) = %+v", tt.page, tt.perPage, p)
		}
		if p.Offset() != tt.wantOffset {
			t.Errorf("Offset() = %d, want %d", p.Offset(), tt.wantOffset)
		}
	}

	// zero value falls back to defaults
	var p PaginatedRequest
	if p.Limit() != DefaultPerPage || p.Offset() != 0 {
		t.Errorf("zero value Limit() = %d, Offset() = %d", p.Limit(), p.Offset())
	}
}
