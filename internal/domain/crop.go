package domain

import "math/rand"

// Tier weights for crop selection. Primary crops are five times as likely
// to be selected as specialty crops.
const (
	weightPrimary   = 5
	weightSecondary = 3
	weightSpecialty = 1
)

// SelectCrop picks one crop for a district and season by weighted random
// draw. District lookup is case-insensitive; unknown districts use the
// default staple profile. Candidates are the district's crops filtered by
// season compatibility; when no district crop suits the season, the primary
// list is used unfiltered (or rice when even that is empty). The random
// source is injected so callers can seed for reproducibility.
func SelectCrop(district string, season Season, rng *rand.Rand) string {
	profile := DistrictProfileFor(district)

	all := make([]string, 0, len(profile.Primary)+len(profile.Secondary)+len(profile.Specialty))
	all = append(all, profile.Primary...)
	all = append(all, profile.Secondary...)
	all = append(all, profile.Specialty...)

	compatible := seasonalCrops[season]
	suitable := make([]string, 0, len(all))
	for _, crop := range all {
		if compatible[crop] {
			suitable = append(suitable, crop)
		}
	}

	if len(suitable) == 0 {
		suitable = profile.Primary
	}
	if len(suitable) == 0 {
		return "rice"
	}

	// Replicate each candidate by its tier weight and draw uniformly.
	weighted := make([]string, 0, len(suitable)*weightPrimary)
	for _, crop := range suitable {
		weighted = append(weighted, repeat(crop, tierWeight(profile, crop))...)
	}
	return weighted[rng.Intn(len(weighted))]
}

func tierWeight(profile DistrictProfile, crop string) int {
	if contains(profile.Primary, crop) {
		return weightPrimary
	}
	if contains(profile.Secondary, crop) {
		return weightSecondary
	}
	return weightSpecialty
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}
