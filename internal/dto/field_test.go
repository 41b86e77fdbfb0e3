package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizardUpdateRequest_KeyPresence(t *testing.T) {
	var req WizardUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"accommodations":[],"air_travel":null}`), &req))

	assert.True(t, req.Accommodations.Set)
	assert.NotNil(t, req.Accommodations.Value)
	assert.Empty(t, req.Accommodations.Value)

	assert.True(t, req.AirTravel.Set)
	assert.Nil(t, req.AirTravel.Value)

	assert.False(t, req.Tours.Set)
	assert.False(t, req.Visas.Set)
	assert.False(t, req.PackageName.Set)
}

func TestPageQuery_Normalize(t *testing.T) {
	q := PageQuery{Page: 0, Limit: 500}
	q.Normalize()
	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, MaxLimit, q.Limit)

	q = PageQuery{Page: 3, Limit: 10}
	q.Normalize()
	assert.Equal(t, 20, q.Offset())
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(PageQuery{Page: 2, Limit: 20}, 41)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(41), p.Total)
}
