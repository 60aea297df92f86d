package gazetteer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVillages(t *testing.T) {
	d := New()

	t.Run("known district", func(t *testing.T) {
		villages := d.Villages("Bihar", "Patna")
		require.NotEmpty(t, villages)
		assert.Contains(t, villages, "Kumhrar")
		assert.Contains(t, villages, "Danapur")
	})

	t.Run("case-insensitive lookup", func(t *testing.T) {
		assert.Equal(t, d.Villages("bihar", "patna"), d.Villages("BIHAR", "PATNA"))
	})

	t.Run("unknown district", func(t *testing.T) {
		assert.Empty(t, d.Villages("Bihar", "Lucknow"))
	})

	t.Run("unknown state", func(t *testing.T) {
		assert.Empty(t, d.Villages("Kerala", "Patna"))
	})
}

func TestLocate(t *testing.T) {
	d := New()

	t.Run("village match", func(t *testing.T) {
		geo := d.Locate("Bihar", "Patna", "Kumhrar")
		assert.Equal(t, "village_Kumhrar", geo.Source)
		assert.InDelta(t, 25.6008, geo.Latitude, 0.001)
		assert.InDelta(t, 85.1830, geo.Longitude, 0.001)
	})

	t.Run("village match is case-insensitive", func(t *testing.T) {
		geo := d.Locate("bihar", "patna", "kumhrar")
		assert.Equal(t, "village_Kumhrar", geo.Source, "label keeps canonical casing")
	})

	t.Run("unknown village falls back to district centroid", func(t *testing.T) {
		geo := d.Locate("Bihar", "Gaya", "Nowhere")
		assert.Equal(t, "district_Gaya", geo.Source)
		assert.InDelta(t, 24.7914, geo.Latitude, 0.001)
	})

	t.Run("unknown district falls back to Patna", func(t *testing.T) {
		geo := d.Locate("Bihar", "Lucknow", "Nowhere")
		assert.Equal(t, "fallback_patna", geo.Source)
		assert.InDelta(t, 25.5941, geo.Latitude, 0.001)
		assert.InDelta(t, 85.1376, geo.Longitude, 0.001)
	})
}

func TestDistricts(t *testing.T) {
	d := New()

	districts := d.Districts("Bihar")
	require.Len(t, districts, 8)
	assert.Equal(t, []string{
		"Begusarai", "Bhagalpur", "Darbhanga", "Gaya",
		"Katihar", "Muzaffarpur", "Patna", "Siwan",
	}, districts)

	assert.Empty(t, d.Districts("Kerala"))
}
