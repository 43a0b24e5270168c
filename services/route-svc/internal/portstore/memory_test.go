package portstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaway/pkg/geo"
	"seaway/services/route-svc/internal/maritime"
)

func seededStore() *MemoryStore {
	rotterdam := registryPort("NLRTM", "Rotterdam", "NL", 51.95, 4.14)
	antwerp := registryPort("BEANR", "Antwerp", "BE", 51.23, 4.40)
	amsterdam := registryPort("NLAMS", "Amsterdam", "NL", 52.41, 4.80)
	singapore := registryPort("SGSIN", "Singapore", "SG", 1.2644, 103.84)
	closed := registryPort("NLEEM", "Eemshaven", "NL", 53.45, 6.83)
	closed.Status = maritime.PortStatusMaintenance
	return NewMemoryStore(rotterdam, antwerp, amsterdam, singapore, closed)
}

func TestMemoryStore_GetPort(t *testing.T) {
	store := seededStore()

	p, err := store.GetPort(context.Background(), "NLRTM")
	require.NoError(t, err)
	assert.Equal(t, "Rotterdam", p.Name)

	// Mutating the returned port must not touch the registry.
	p.Name = "changed"
	again, err := store.GetPort(context.Background(), "NLRTM")
	require.NoError(t, err)
	assert.Equal(t, "Rotterdam", again.Name)
}

func TestMemoryStore_SearchRelevanceBands(t *testing.T) {
	store := seededStore()
	ctx := context.Background()

	tests := []struct {
		name      string
		query     string
		wantFirst string
		wantRel   float64
	}{
		{"exact unlocode", "NLRTM", "NLRTM", 100},
		{"exact name", "rotterdam", "NLRTM", 95},
		{"unlocode prefix", "NLA", "NLAMS", 90},
		{"name prefix", "rott", "NLRTM", 85},
		{"name substring", "otter", "NLRTM", 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.SearchPorts(ctx, SearchQuery{Query: tt.query})
			require.NoError(t, err)
			require.NotEmpty(t, results)
			assert.Equal(t, tt.wantFirst, results[0].Port.UNLOCODE)
			assert.Equal(t, tt.wantRel, results[0].Relevance)
		})
	}
}

func TestMemoryStore_SearchOrdering(t *testing.T) {
	store := seededStore()

	// "NL" is a UN/LOCODE prefix for both Dutch ports. Ties break on
	// name ascending.
	results, err := store.SearchPorts(context.Background(), SearchQuery{Query: "NL"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "NLAMS", results[0].Port.UNLOCODE)
	assert.Equal(t, "NLRTM", results[1].Port.UNLOCODE)
	assert.Equal(t, results[0].Relevance, results[1].Relevance)
}

func TestMemoryStore_SearchExcludesInactive(t *testing.T) {
	store := seededStore()
	ctx := context.Background()

	results, err := store.SearchPorts(ctx, SearchQuery{Query: "eems"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = store.SearchPorts(ctx, SearchQuery{Query: "eems", IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "NLEEM", results[0].Port.UNLOCODE)
}

func TestMemoryStore_SearchCountryFilter(t *testing.T) {
	store := seededStore()

	results, err := store.SearchPorts(context.Background(), SearchQuery{Query: "a", Country: "be"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "BEANR", results[0].Port.UNLOCODE)
}

func TestMemoryStore_SearchLimit(t *testing.T) {
	store := seededStore()

	results, err := store.SearchPorts(context.Background(), SearchQuery{Query: "a", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestMemoryStore_NearbyPorts(t *testing.T) {
	store := seededStore()
	center := geo.Coordinates{Latitude: 51.95, Longitude: 4.14}

	results, err := store.NearbyPorts(context.Background(), center, 120, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "NLRTM", results[0].Port.UNLOCODE)
	assert.InDelta(t, 0, results[0].DistanceNM, 0.01)
	assert.Less(t, results[1].DistanceNM, results[2].DistanceNM)
}

func TestMemoryStore_NearbyInvalidRadius(t *testing.T) {
	store := seededStore()

	_, err := store.NearbyPorts(context.Background(), geo.Coordinates{}, -1, 10, nil)
	require.Error(t, err)
}

func TestMemoryStore_Statistics(t *testing.T) {
	store := seededStore()

	stats, err := store.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, int64(4), stats.Active)
	assert.Equal(t, int64(3), stats.Countries)
	assert.Equal(t, int64(5), stats.Types["container"])
}
