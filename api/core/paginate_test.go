package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeItems(n int) []Item {
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, Item{Title: fmt.Sprintf("title-%d", i), ID: 1000 + i})
	}
	return items
}

func TestPaginate_Empty(t *testing.T) {
	assert.Empty(t, Paginate(nil))
	assert.Empty(t, Paginate([]Item{}))
}

func TestPaginate_Properties(t *testing.T) {
	for n := 1; n <= 57; n++ {
		items := makeItems(n)
		pages := Paginate(items)

		require.Len(t, pages, (n+PageSize-1)/PageSize, "n=%d", n)

		var flat []Item
		for i, p := range pages {
			assert.Equal(t, i+1, p.Number)
			if i < len(pages)-1 {
				assert.Len(t, p.Entries, PageSize, "n=%d page=%d", n, p.Number)
			} else {
				assert.NotEmpty(t, p.Entries)
				assert.LessOrEqual(t, len(p.Entries), PageSize)
			}
			for _, e := range p.Entries {
				assert.Equal(t, len(flat)+1, e.Serial)
				flat = append(flat, Item{Title: e.Title, ID: e.ID})
			}
		}
		assert.Equal(t, items, flat, "n=%d", n)
	}
}

func TestPaginated_Lookup(t *testing.T) {
	res := Paginated{Total: 23, Pages: Paginate(makeItems(23))}

	e, ok := res.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, 1000, e.ID)

	e, ok = res.Lookup(11)
	require.True(t, ok)
	assert.Equal(t, 1010, e.ID)
	assert.Equal(t, "title-10", e.Title)

	e, ok = res.Lookup(23)
	require.True(t, ok)
	assert.Equal(t, 1022, e.ID)

	for _, serial := range []int{-1, 0, 24, 100} {
		_, ok = res.Lookup(serial)
		assert.False(t, ok, serial)
	}

	p, ok := res.Page(3)
	require.True(t, ok)
	assert.Len(t, p.Entries, 3)

	_, ok = res.Page(4)
	assert.False(t, ok)
}
