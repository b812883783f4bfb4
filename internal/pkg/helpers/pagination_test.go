package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func paginationContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest("GET", "/courses?"+rawQuery, nil)
	return ctx
}

func TestParsePaginationParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{"defaults", "", 1, DefaultPageSize},
		{"explicit values", "page=3&pageSize=50", 3, 50},
		{"zero page falls back", "page=0", 1, DefaultPageSize},
		{"negative page falls back", "page=-2", 1, DefaultPageSize},
		{"oversized page size capped", "pageSize=500", 1, DefaultPageSize},
		{"non-numeric ignored", "page=abc&pageSize=xyz", 1, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := ParsePaginationParams(paginationContext(t, tt.query))
			if page != tt.wantPage || size != tt.wantSize {
				t.Errorf("ParsePaginationParams() = (%d, %d), want (%d, %d)", page, size, tt.wantPage, tt.wantSize)
			}
		})
	}
}

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantOffset uint64
		wantLimit  int
	}{
		{"first page", 1, 20, 0, 20},
		{"third page", 3, 20, 40, 20},
		{"zero page", 0, 20, 0, 20},
		{"zero size", 2, 0, DefaultPageSize, DefaultPageSize},
		{"oversized", 1, MaxPageSize + 1, 0, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			if offset != tt.wantOffset || limit != tt.wantLimit {
				t.Errorf("CalculateOffsetLimit(%d, %d) = (%d, %d), want (%d, %d)",
					tt.page, tt.size, offset, limit, tt.wantOffset, tt.wantLimit)
			}
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(45, 2, 20)
	if info.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", info.TotalPages)
	}
	if info.CurrentPage != 2 {
		t.Errorf("CurrentPage = %d, want 2", info.CurrentPage)
	}
	if info.TotalItems != 45 {
		t.Errorf("TotalItems = %d, want 45", info.TotalItems)
	}
}

func TestNewPaginationInfo_LargeTotal(t *testing.T) {
	// Repository counts are int64; the metadata must carry them without
	// narrowing.
	var total int64 = 5_000_000_000
	info := NewPaginationInfo(total, 1, 20)
	if info.TotalItems != total {
		t.Errorf("TotalItems = %d, want %d", info.TotalItems, total)
	}
}

func TestNewPaginationInfo_EmptyResult(t *testing.T) {
	info := NewPaginationInfo(0, 1, 20)
	if info.TotalPages != 1 {
		t.Errorf("TotalPages for empty result = %d, want 1", info.TotalPages)
	}
}

func TestNewPaginationInfo_PageBeyondEnd(t *testing.T) {
	info := NewPaginationInfo(10, 9, 20)
	if info.CurrentPage != 1 {
		t.Errorf("CurrentPage clamped = %d, want 1", info.CurrentPage)
	}
}
