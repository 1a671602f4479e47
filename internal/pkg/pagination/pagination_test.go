package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewParamsClamps(t *testing.T) {
	p := NewParams(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = NewParams(3, 10_000)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 2*MaxLimit, p.Offset)

	p = NewParams(18446744073709553, MaxLimit)
	assert.Equal(t, math.MaxInt, p.Offset)

	p = NewParams(math.MaxInt, 1)
	assert.Equal(t, math.MaxInt-1, p.Offset)
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Slice(items, NewParams(1, 2)))
	assert.Equal(t, []int{5}, Slice(items, NewParams(3, 2)))
	assert.Empty(t, Slice(items, NewParams(4, 2)))
	assert.NotNil(t, Slice([]int(nil), NewParams(1, 2)))

	assert.NotPanics(t, func() {
		assert.Empty(t, Slice(items, NewParams(18446744073709553, MaxLimit)))
		assert.Empty(t, Slice(items, &Params{Page: 2, Limit: 2, Offset: -4}))
		assert.Empty(t, Slice(items, NewParams(math.MaxInt, MaxLimit)))
	})
}

func TestGetMeta(t *testing.T) {
	m := GetMeta(NewParams(2, 2), 5)
	assert.Equal(t, 3, m.TotalPages)
	assert.True(t, m.HasNext)
	assert.True(t, m.HasPrev)

	m = GetMeta(NewParams(1, 10), 0)
	assert.Equal(t, 0, m.TotalPages)
	assert.False(t, m.HasNext)
	assert.False(t, m.HasPrev)
}
