package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageParams(t *testing.T) {
	tests := []struct {
		query string
		page  int
		limit int
	}{
		{"", 1, 10},
		{"?page=3&limit=25", 3, 25},
		{"?page=0&limit=-5", 1, 10},
		{"?page=abc&limit=xyz", 1, 10},
		{"?limit=1000", 1, maxPageLimit},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil)
			page, limit := pageParams(r)
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.limit, limit)
		})
	}
}

func TestNewMeta_TotalPagesRoundsUp(t *testing.T) {
	meta := newMeta(2, 10, 21)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 10, meta.Limit)
	assert.Equal(t, int64(21), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	assert.Equal(t, 0, newMeta(1, 10, 0).TotalPages)
	assert.Equal(t, 2, newMeta(1, 10, 20).TotalPages)
}

func TestQueryUUID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/items", nil)
	id, ok := queryUUID(r, "doctor_id")
	assert.True(t, ok)
	assert.Nil(t, id)

	r = httptest.NewRequest(http.MethodGet, "/items?doctor_id=not-a-uuid", nil)
	_, ok = queryUUID(r, "doctor_id")
	assert.False(t, ok)

	r = httptest.NewRequest(http.MethodGet, "/items?doctor_id=6f1c2a8e-6f3d-4c2b-9a4e-1d2c3b4a5f60", nil)
	id, ok = queryUUID(r, "doctor_id")
	assert.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, "6f1c2a8e-6f3d-4c2b-9a4e-1d2c3b4a5f60", id.String())
}

func TestQueryBool(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/items?active=true&unread=maybe", nil)

	active := queryBool(r, "active")
	require.NotNil(t, active)
	assert.True(t, *active)

	assert.Nil(t, queryBool(r, "unread"))
	assert.Nil(t, queryBool(r, "missing"))
}
