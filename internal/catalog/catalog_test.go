package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	p, ok := Find("4")
	require.True(t, ok)
	assert.Equal(t, "MacBook Pro", p.Name)
	assert.Equal(t, "1299", p.Price.String())

	_, ok = Find("missing")
	assert.False(t, ok)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		category string
		wantIDs  []string
	}{
		{name: "everything", wantIDs: []string{"1", "2", "3", "4", "5", "6"}},
		{name: "all category", category: "all", wantIDs: []string{"1", "2", "3", "4", "5", "6"}},
		{name: "name is case-insensitive", query: "PRO", wantIDs: []string{"1", "2", "4"}},
		{name: "category only", category: "Fashion", wantIDs: []string{"3", "6"}},
		{name: "query and category", query: "a", category: "fashion", wantIDs: []string{"3", "6"}},
		{name: "empty category has no products", category: "sports"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, p := range Filter(tt.query, tt.category) {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestProducts_ReturnsCopy(t *testing.T) {
	list := Products()
	list[0].Name = "changed"

	p, _ := Find(list[0].ID)
	assert.NotEqual(t, "changed", p.Name)
}
