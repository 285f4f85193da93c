package response

import "testing"

func TestNewPaginatedResponse(t *testing.T) {
	page := NewPaginatedResponse([]int{1, 2}, 1, 2, 5)
	if page.Pagination.TotalPages != 3 || !page.Pagination.HasNext {
		t.Errorf("meta = %+v, want 3 pages with next", page.Pagination)
	}

	last := NewPaginatedResponse([]int{5}, 3, 2, 5)
	if last.Pagination.HasNext {
		t.Error("last page reports a next page")
	}

	empty := NewPaginatedResponse[int](nil, 1, 10, 0)
	if empty.Data == nil || len(empty.Data) != 0 || empty.Pagination.TotalPages != 0 {
		t.Errorf("empty page = %+v", empty)
	}
}
