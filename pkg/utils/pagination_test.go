package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination_Normalizes(t *testing.T) {
	p := NewPagination(0, 0, "price", "DESC")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, "desc", p.SortOrder)

	p = NewPagination(3, 1000, "", "sideways")
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Empty(t, p.SortOrder)
}

func TestPagination_SetTotal(t *testing.T) {
	p := NewPagination(2, 10, "", "")
	p.SetTotal(25)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = NewPagination(1, 10, "", "")
	p.SetTotal(0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
}

func TestPagination_QueryRoundTrip(t *testing.T) {
	p := PaginationFromQuery(url.Values{"page": {"4"}, "limit": {"24"}, "sortBy": {"createdAt"}, "sortOrder": {"asc"}})

	q := url.Values{"search": {"lampa"}}
	p.Apply(q)

	assert.Equal(t, "4", q.Get("page"))
	assert.Equal(t, "24", q.Get("limit"))
	assert.Equal(t, "createdAt", q.Get("sortBy"))
	assert.Equal(t, "asc", q.Get("sortOrder"))
	assert.Equal(t, "lampa", q.Get("search"))

	q = url.Values{}
	NewPagination(1, 12, "", "").Apply(q)
	assert.False(t, q.Has("sortBy"))
	assert.False(t, q.Has("sortOrder"))
}
