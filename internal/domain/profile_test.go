package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		raw  string
		want Sort
	}{
		{"", Sort{}},
		{"name", Sort{Field: "name"}},
		{"name:asc", Sort{Field: "name"}},
		{"name:desc", Sort{Field: "name", Desc: true}},
		{"createdAt:DESC", Sort{Field: "createdAt"}},
		{" email : desc ", Sort{Field: "email", Desc: true}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSort(tt.raw))
		})
	}
}

func TestListProfilesFilter_Normalize(t *testing.T) {
	f := ListProfilesFilter{}.Normalize()
	assert.Equal(t, DefaultPage, f.Page)
	assert.Equal(t, DefaultLimit, f.Limit)
	assert.Equal(t, int64(0), f.Skip())

	f = ListProfilesFilter{Page: 3, Limit: 500}.Normalize()
	assert.Equal(t, int64(3), f.Page)
	assert.Equal(t, int64(500), f.Limit, "large limits are kept as requested")
	assert.Equal(t, int64(1000), f.Skip())

	f = ListProfilesFilter{Page: -2, Limit: -1}.Normalize()
	assert.Equal(t, DefaultPage, f.Page)
	assert.Equal(t, DefaultLimit, f.Limit)
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Total: 12, Page: 2, Pages: 3}, NewPagination(12, 2, 5))
	assert.Equal(t, Pagination{Total: 10, Page: 1, Pages: 1}, NewPagination(10, 1, 10))
	assert.Equal(t, Pagination{Total: 0, Page: 1, Pages: 0}, NewPagination(0, 1, 10))
}

func TestUpdateProfileRequest_Empty(t *testing.T) {
	assert.True(t, UpdateProfileRequest{ID: "x"}.Empty())

	name := "A"
	assert.False(t, UpdateProfileRequest{ID: "x", Name: &name}.Empty())
}
