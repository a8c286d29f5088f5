// Package utils 工具函数单元测试
package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== 单号生成测试 ====================

func TestGenerateFolioNo(t *testing.T) {
	no := GenerateFolioNo()
	assert.True(t, len(no) == 21)
	assert.Equal(t, "F", no[:1])

	// 两次生成不应相同
	assert.NotEqual(t, no, GenerateFolioNo())
}

func TestGenerateConfirmationNo(t *testing.T) {
	no := GenerateConfirmationNo()
	assert.True(t, len(no) == 21)
	assert.Equal(t, "R", no[:1])
}

func TestGenerateRandomNumber(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"6 digits", 6},
		{"4 digits", 4},
		{"Zero length", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := GenerateRandomNumber(tt.length)
			assert.Len(t, s, tt.length)
			for _, c := range s {
				assert.True(t, c >= '0' && c <= '9')
			}
		})
	}
}

// ==================== 日期工具测试 ====================

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.June, d.Month())
	assert.Equal(t, 15, d.Day())

	_, err = ParseDate("2025/06/15")
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-15", FormatDate(d))
}

func TestNextDay(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{"Normal day", "2025-06-15", "2025-06-16"},
		{"Month end", "2025-06-30", "2025-07-01"},
		{"Year end", "2025-12-31", "2026-01-01"},
		{"Leap day", "2024-02-28", "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDay(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NextDay("not-a-date")
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	n, err := DaysBetween("2025-06-15", "2025-06-18")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = DaysBetween("2025-06-15", "2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("2025-06-15"))
	assert.False(t, IsValidDate("15-06-2025"))
	assert.False(t, IsValidDate(""))
}

// ==================== 指针工具测试 ====================

func TestPointerHelpers(t *testing.T) {
	s := StringPtr("hello")
	assert.Equal(t, "hello", *s)
	assert.Equal(t, "hello", SafeString(s))
	assert.Equal(t, "", SafeString(nil))

	i := Int64Ptr(42)
	assert.Equal(t, int64(42), *i)
	assert.Equal(t, int64(42), SafeInt64(i))
	assert.Equal(t, int64(0), SafeInt64(nil))

	now := time.Now()
	assert.Equal(t, now, *TimePtr(now))
}

// ==================== 切片工具测试 ====================

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"vacant", "dirty"}, "dirty"))
	assert.False(t, Contains([]string{"vacant", "dirty"}, "occupied"))
	assert.True(t, Contains([]int64{1, 2, 3}, int64(2)))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Unique([]string{"a", "b", "a"}))
	assert.Empty(t, Unique([]int{}))
}

// ==================== 分页测试 ====================

func TestPagination_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		wantPage int
		wantSize int
	}{
		{"Normal", 2, 20, 2, 20},
		{"Zero page", 0, 20, 1, 20},
		{"Zero size", 1, 0, 1, 10},
		{"Over max size", 1, 500, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pagination{Page: tt.page, PageSize: tt.pageSize}
			p.Normalize()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantSize, p.PageSize)
		})
	}
}

func TestPagination_GetOffset(t *testing.T) {
	p := &Pagination{Page: 3, PageSize: 20}
	assert.Equal(t, 40, p.GetOffset())
	assert.Equal(t, 20, p.GetLimit())
}

func TestPagination_GetTotalPages(t *testing.T) {
	p := &Pagination{PageSize: 10, Total: 25}
	assert.Equal(t, 3, p.GetTotalPages())

	p.Total = 0
	assert.Equal(t, 0, p.GetTotalPages())
}
