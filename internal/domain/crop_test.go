package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectCrop_SeasonFilter(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("kharif picks only kharif-compatible crops", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			crop := SelectCrop("patna", SeasonKharif, rng)
			assert.True(t, seasonalCrops[SeasonKharif][crop], "picked %s", crop)
		}
	})

	t.Run("rabi picks only rabi-compatible crops", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			crop := SelectCrop("patna", SeasonRabi, rng)
			assert.True(t, seasonalCrops[SeasonRabi][crop], "picked %s", crop)
		}
	})
}

func TestSelectCrop_Deterministic(t *testing.T) {
	a := rand.New(rand.NewSource(42))
	b := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		assert.Equal(t, SelectCrop("gaya", SeasonRabi, a), SelectCrop("gaya", SeasonRabi, b))
	}
}

func TestSelectCrop_TierWeights(t *testing.T) {
	// Patna in kharif: rice (primary, weight 5) and sugarcane (specialty,
	// weight 1) are the only compatible crops, so rice should win roughly
	// five of every six draws.
	rng := rand.New(rand.NewSource(7))
	counts := map[string]int{}
	const draws = 12000
	for i := 0; i < draws; i++ {
		counts[SelectCrop("patna", SeasonKharif, rng)]++
	}

	require.Len(t, counts, 2)
	require.Contains(t, counts, "rice")
	require.Contains(t, counts, "sugarcane")

	ratio := float64(counts["rice"]) / float64(counts["sugarcane"])
	assert.InDelta(t, 5.0, ratio, 0.75, "rice:sugarcane ratio %f", ratio)
}

func TestSelectCrop_UnknownDistrict(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	// Default profile is rice/wheat primary, gram secondary, maize specialty.
	for i := 0; i < 100; i++ {
		crop := SelectCrop("nowhere", SeasonZaid, rng)
		assert.Equal(t, "maize", crop, "only maize is zaid-compatible in the default profile")
	}
}

func TestSelectCrop_CaseInsensitiveDistrict(t *testing.T) {
	a := rand.New(rand.NewSource(11))
	b := rand.New(rand.NewSource(11))

	for i := 0; i < 50; i++ {
		assert.Equal(t, SelectCrop("PATNA", SeasonRabi, a), SelectCrop("patna", SeasonRabi, b))
	}
}

func TestSelectCrop_NoSuitableFallsBackToPrimary(t *testing.T) {
	SetDistrictProfiles(map[string]DistrictProfile{
		"testville": {Primary: []string{"soybean"}}, // soybean is not zaid-compatible
	})
	t.Cleanup(func() { SetDistrictProfiles(nil) })

	rng := rand.New(rand.NewSource(5))
	assert.Equal(t, "soybean", SelectCrop("testville", SeasonZaid, rng))
}
