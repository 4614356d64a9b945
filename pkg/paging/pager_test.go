package paging

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeList(n int) []int {
	list := make([]int, n)
	for i := range list {
		list[i] = i
	}
	return list
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 1},
		{1, 1},
		{9, 1},
		{10, 1},
		{11, 2},
		{20, 2},
		{95, 10},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.n, PageSize); got != tt.want {
			t.Errorf("TotalPages(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestPageBoundaries(t *testing.T) {
	for n := 0; n <= 45; n++ {
		list := makeList(n)
		total := TotalPages(n, PageSize)
		last := Page(list, total, PageSize)
		want := n % PageSize
		if want == 0 && n > 0 {
			want = PageSize
		}
		assert.Len(t, last, want, "last page of %d items", n)
		assert.Empty(t, Page(list, total+1, PageSize), "page past the end of %d items", n)
		assert.Empty(t, Page(list, math.MaxInt, PageSize), "page math.MaxInt of %d items", n)
		assert.Empty(t, Page(list, math.MaxInt/5, PageSize), "page math.MaxInt/5 of %d items", n)
	}
}

func TestPageSlices(t *testing.T) {
	list := makeList(25)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, Page(list, 1, PageSize))
	assert.Equal(t, []int{20, 21, 22, 23, 24}, Page(list, 3, PageSize))
	assert.Empty(t, Page(list, 0, PageSize))
	assert.Empty(t, Page(list, -2, PageSize))
	assert.Empty(t, Page(list, 1, 0))
}

func TestPagerClamps(t *testing.T) {
	p := NewPager(PageSize)
	p.Reset(25)
	assert.Equal(t, 3, p.Total())
	assert.False(t, p.Previous())
	assert.True(t, p.Next())
	assert.True(t, p.Next())
	assert.False(t, p.Next())
	assert.Equal(t, 3, p.Number())
	assert.False(t, p.Goto(7))
	assert.Equal(t, 3, p.Number())
	assert.True(t, p.First())
	assert.Equal(t, 1, p.Number())
	assert.False(t, p.First())
}

func TestPagerResetEmpty(t *testing.T) {
	p := NewPager(PageSize)
	p.Reset(0)
	assert.Equal(t, 1, p.Number())
	assert.Equal(t, 1, p.Total())
	assert.False(t, p.Next())
}
