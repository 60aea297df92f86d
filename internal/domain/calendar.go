package domain

import (
	"sort"
	"strings"
)

// CropDefinition describes one crop's calendar entry: its cropping season
// label, planting and harvest windows, nominal field duration, and ordered
// growth stages. Stages is never empty; every index into it is clamped to
// [0, len(Stages)-1].
type CropDefinition struct {
	Name           string   `json:"name" yaml:"name"`
	Season         string   `json:"season" yaml:"season"`
	PlantingWindow string   `json:"planting" yaml:"planting"`
	HarvestWindow  string   `json:"harvesting" yaml:"harvesting"`
	DurationDays   int      `json:"duration_days" yaml:"duration_days"`
	Stages         []string `json:"stages" yaml:"stages"`
}

// cropCalendar is the static calendar for crops grown in Bihar. Durations are
// approximate field durations in days used for planting-date stage estimation.
var cropCalendar = map[string]CropDefinition{
	"rice": {
		Name: "rice", Season: "Kharif",
		PlantingWindow: "June-July", HarvestWindow: "October-November",
		DurationDays: 120,
		Stages: []string{
			"Nursery/Seedling", "Transplanting", "Vegetative", "Tillering",
			"Panicle Initiation", "Flowering", "Milk/Dough", "Maturity", "Harvesting",
		},
	},
	"wheat": {
		Name: "wheat", Season: "Rabi",
		PlantingWindow: "November-December", HarvestWindow: "March-April",
		DurationDays: 120,
		Stages: []string{
			"Sowing", "Germination", "Tillering", "Jointing", "Booting",
			"Heading", "Flowering", "Grain Filling", "Maturity", "Harvesting",
		},
	},
	"maize": {
		Name: "maize", Season: "Kharif/Zaid",
		PlantingWindow: "June-July / March-April", HarvestWindow: "September-October / June",
		DurationDays: 110,
		Stages: []string{
			"Sowing", "Emergence", "Vegetative", "Tasseling", "Silking",
			"Grain Filling", "Maturity", "Harvesting",
		},
	},
	"sugarcane": {
		Name: "sugarcane", Season: "Annual",
		PlantingWindow: "February-March", HarvestWindow: "December-January",
		DurationDays: 300,
		Stages: []string{
			"Planting", "Germination", "Tillering", "Grand Growth",
			"Maturation", "Ripening", "Harvesting",
		},
	},
	"barley": {
		Name: "barley", Season: "Rabi",
		PlantingWindow: "November", HarvestWindow: "March-April",
		DurationDays: 110,
		Stages: []string{
			"Sowing", "Germination", "Tillering", "Jointing", "Booting",
			"Heading", "Flowering", "Grain Filling", "Maturity", "Harvesting",
		},
	},
	"gram": {
		Name: "gram", Season: "Rabi",
		PlantingWindow: "October-November", HarvestWindow: "March-April",
		DurationDays: 110,
		Stages: []string{
			"Sowing", "Germination", "Vegetative", "Flowering", "Pod Formation",
			"Pod Filling", "Maturity", "Harvesting",
		},
	},
	"lentil": {
		Name: "lentil", Season: "Rabi",
		PlantingWindow: "October-November", HarvestWindow: "March-April",
		DurationDays: 110,
		Stages: []string{
			"Sowing", "Germination", "Vegetative", "Flowering", "Pod Formation",
			"Pod Filling", "Maturity", "Harvesting",
		},
	},
	"pea": {
		Name: "pea", Season: "Rabi",
		PlantingWindow: "October-November", HarvestWindow: "February-March",
		DurationDays: 100,
		Stages: []string{
			"Sowing", "Germination", "Vegetative", "Flowering", "Pod Formation",
			"Pod Filling", "Maturity", "Harvesting",
		},
	},
	"mustard": {
		Name: "mustard", Season: "Rabi",
		PlantingWindow: "October-November", HarvestWindow: "February-March",
		DurationDays: 110,
		Stages: []string{
			"Sowing", "Germination", "Rosette", "Stem Elongation", "Flowering",
			"Pod Formation", "Pod Filling", "Maturity", "Harvesting",
		},
	},
	"linseed": {
		Name: "linseed", Season: "Rabi",
		PlantingWindow: "October-November", HarvestWindow: "March-April",
		DurationDays: 110,
		Stages: []string{
			"Sowing", "Germination", "Vegetative", "Flowering", "Capsule Formation",
			"Seed Filling", "Maturity", "Harvesting",
		},
	},
	"potato": {
		Name: "potato", Season: "Rabi",
		PlantingWindow: "October-November", HarvestWindow: "February-March",
		DurationDays: 100,
		Stages: []string{
			"Planting", "Sprouting", "Vegetative", "Tuber Initiation", "Tuber Bulking",
			"Maturity", "Harvesting",
		},
	},
	"arhar": {
		Name: "arhar", Season: "Kharif",
		PlantingWindow: "June-July", HarvestWindow: "November-December",
		DurationDays: 150,
		Stages: []string{
			"Sowing", "Germination", "Vegetative", "Flowering", "Pod Formation",
			"Pod Filling", "Maturity", "Harvesting",
		},
	},
	"moong": {
		Name: "moong", Season: "Kharif/Zaid",
		PlantingWindow: "June-July / March-April", HarvestWindow: "September-October / June",
		DurationDays: 70,
		Stages: []string{
			"Sowing", "Germination", "Vegetative", "Flowering", "Pod Formation",
			"Pod Filling", "Maturity", "Harvesting",
		},
	},
	"urd": {
		Name: "urd", Season: "Kharif/Zaid",
		PlantingWindow: "June-July / March-April", HarvestWindow: "September-October / June",
		DurationDays: 70,
		Stages: []string{
			"Sowing", "Germination", "Vegetative", "Flowering", "Pod Formation",
			"Pod Filling", "Maturity", "Harvesting",
		},
	},
	"jowar": {
		Name: "jowar", Season: "Kharif",
		PlantingWindow: "June-July", HarvestWindow: "September-October",
		DurationDays: 100,
		Stages: []string{
			"Sowing", "Germination", "Vegetative", "Booting", "Flowering",
			"Grain Filling", "Maturity", "Harvesting",
		},
	},
	"bajra": {
		Name: "bajra", Season: "Kharif",
		PlantingWindow: "June-July", HarvestWindow: "September-October",
		DurationDays: 90,
		Stages: []string{
			"Sowing", "Germination", "Vegetative", "Booting", "Flowering",
			"Grain Filling", "Maturity", "Harvesting",
		},
	},
	"groundnut": {
		Name: "groundnut", Season: "Kharif",
		PlantingWindow: "June-July", HarvestWindow: "September-October",
		DurationDays: 110,
		Stages: []string{
			"Sowing", "Germination", "Vegetative", "Flowering", "Pegging",
			"Pod Formation", "Pod Filling", "Maturity", "Harvesting",
		},
	},
	"soybean": {
		Name: "soybean", Season: "Kharif",
		PlantingWindow: "June-July", HarvestWindow: "September-October",
		DurationDays: 100,
		Stages: []string{
			"Sowing", "Germination", "Vegetative", "Flowering", "Pod Formation",
			"Pod Filling", "Maturity", "Harvesting",
		},
	},
	"watermelon": {
		Name: "watermelon", Season: "Zaid",
		PlantingWindow: "March-April", HarvestWindow: "May-June",
		DurationDays: 80,
		Stages: []string{
			"Sowing", "Germination", "Vegetative", "Flowering", "Fruit Setting",
			"Fruit Development", "Maturity", "Harvesting",
		},
	},
	"cucumber": {
		Name: "cucumber", Season: "Zaid",
		PlantingWindow: "March-April", HarvestWindow: "May-June",
		DurationDays: 70,
		Stages: []string{
			"Sowing", "Germination", "Vegetative", "Flowering", "Fruit Setting",
			"Fruit Development", "Maturity", "Harvesting",
		},
	},
}

// LookupCrop returns the calendar entry for a crop (case-insensitive).
func LookupCrop(name string) (CropDefinition, bool) {
	def, ok := cropCalendar[strings.ToLower(strings.TrimSpace(name))]
	return def, ok
}

// CropNames returns all crops known to the calendar, sorted.
func CropNames() []string {
	names := make([]string, 0, len(cropCalendar))
	for name := range cropCalendar {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProminentCrops returns the crops whose calendar season label contains the
// given season, sorted. Mixed-season crops (e.g. "Kharif/Zaid") match both
// of their seasons.
func ProminentCrops(season Season) []string {
	var crops []string
	for name, def := range cropCalendar {
		if strings.Contains(strings.ToLower(def.Season), string(season)) {
			crops = append(crops, name)
		}
	}
	sort.Strings(crops)
	return crops
}

// DistrictProfile holds a district's crop preferences by tier. Tier implies
// selection weight: primary 5, secondary 3, specialty 1.
type DistrictProfile struct {
	Primary   []string `yaml:"primary"`
	Secondary []string `yaml:"secondary"`
	Specialty []string `yaml:"specialty"`
}

// defaultProfile is used for districts without an explicit profile.
var defaultProfile = DistrictProfile{
	Primary:   []string{"rice", "wheat"},
	Secondary: []string{"gram"},
	Specialty: []string{"maize"},
}

// districtProfiles maps lowercase district names to crop preferences.
// Overridable at startup via SetDistrictProfiles.
var districtProfiles = builtinProfiles()

// SetDistrictProfiles replaces the district profile table, keyed by district
// name (lowercased on insert). Pass nil to restore the built-in table. Called
// once at startup when a profile override file is configured.
func SetDistrictProfiles(profiles map[string]DistrictProfile) {
	if profiles == nil {
		districtProfiles = builtinProfiles()
		return
	}
	normalized := make(map[string]DistrictProfile, len(profiles))
	for district, profile := range profiles {
		normalized[strings.ToLower(strings.TrimSpace(district))] = profile
	}
	districtProfiles = normalized
}

func builtinProfiles() map[string]DistrictProfile {
	return map[string]DistrictProfile{
		"patna":       {Primary: []string{"rice", "wheat", "potato"}, Secondary: []string{"mustard", "gram"}, Specialty: []string{"sugarcane"}},
		"gaya":        {Primary: []string{"wheat", "rice"}, Secondary: []string{"barley", "mustard"}, Specialty: []string{"gram"}},
		"bhagalpur":   {Primary: []string{"rice", "maize", "wheat"}, Secondary: []string{"jute"}, Specialty: []string{"groundnut"}},
		"muzaffarpur": {Primary: []string{"sugarcane", "rice", "wheat"}, Secondary: []string{"potato", "mustard"}, Specialty: []string{"lentil"}},
		"darbhanga":   {Primary: []string{"rice", "wheat", "maize"}, Secondary: []string{"gram"}, Specialty: []string{"bajra"}},
		"siwan":       {Primary: []string{"rice", "wheat"}, Secondary: []string{"gram", "lentil"}, Specialty: []string{"mustard"}},
		"begusarai":   {Primary: []string{"rice", "wheat"}, Secondary: []string{"jute", "mustard"}, Specialty: []string{"moong"}},
		"katihar":     {Primary: []string{"maize", "rice"}, Secondary: []string{"jute"}, Specialty: []string{"jowar"}},
	}
}

// DistrictProfileFor returns the crop profile for a district
// (case-insensitive), falling back to the default staple profile for
// districts without an entry.
func DistrictProfileFor(district string) DistrictProfile {
	if p, ok := districtProfiles[strings.ToLower(strings.TrimSpace(district))]; ok {
		return p
	}
	return defaultProfile
}

// ProfiledDistricts returns the districts with an explicit crop profile, sorted.
func ProfiledDistricts() []string {
	names := make([]string, 0, len(districtProfiles))
	for name := range districtProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
