// Package gazetteer provides a static village directory for Bihar. It backs
// the coordinate resolution chain: village, then district centroid, then the
// Patna state-capital fallback.
package gazetteer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agrimet/crop-alert-service/internal/domain"
)

// Patna, the state capital, is the last-resort coordinate.
const (
	fallbackLat    = 25.5941
	fallbackLon    = 85.1376
	fallbackSource = "fallback_patna"
)

type village struct {
	name string
	lat  float64
	lon  float64
}

type district struct {
	lat      float64
	lon      float64
	villages []village
}

// Directory is a static in-memory gazetteer implementing
// domain.VillageDirectory.
type Directory struct {
	states map[string]map[string]district
}

// New creates the directory with the built-in Bihar data.
func New() *Directory {
	return &Directory{states: biharData()}
}

// Villages lists the known villages of a district, in data order.
// State and district lookups are case-insensitive.
func (d *Directory) Villages(state, districtName string) []string {
	dist, ok := d.district(state, districtName)
	if !ok {
		return nil
	}
	names := make([]string, len(dist.villages))
	for i, v := range dist.villages {
		names[i] = v.name
	}
	return names
}

// Locate resolves coordinates for a village. Unknown villages fall back to
// the district centroid; unknown districts fall back to Patna. The Source
// label records which level matched.
func (d *Directory) Locate(state, districtName, villageName string) domain.Geo {
	dist, ok := d.district(state, districtName)
	if !ok {
		return domain.Geo{Latitude: fallbackLat, Longitude: fallbackLon, Source: fallbackSource}
	}

	want := strings.ToLower(strings.TrimSpace(villageName))
	for _, v := range dist.villages {
		if strings.ToLower(v.name) == want {
			return domain.Geo{Latitude: v.lat, Longitude: v.lon, Source: fmt.Sprintf("village_%s", v.name)}
		}
	}
	return domain.Geo{Latitude: dist.lat, Longitude: dist.lon, Source: fmt.Sprintf("district_%s", titleCase(districtName))}
}

// Districts lists the districts known for a state, sorted.
func (d *Directory) Districts(state string) []string {
	districts, ok := d.states[strings.ToLower(strings.TrimSpace(state))]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(districts))
	for name := range districts {
		names = append(names, titleCase(name))
	}
	sort.Strings(names)
	return names
}

func (d *Directory) district(state, districtName string) (district, bool) {
	districts, ok := d.states[strings.ToLower(strings.TrimSpace(state))]
	if !ok {
		return district{}, false
	}
	dist, ok := districts[strings.ToLower(strings.TrimSpace(districtName))]
	return dist, ok
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// biharData holds block-level localities per district with approximate
// centroids.
func biharData() map[string]map[string]district {
	return map[string]map[string]district{
		"bihar": {
			"patna": {
				lat: 25.5941, lon: 85.1376,
				villages: []village{
					{"Kumhrar", 25.6008, 85.1830},
					{"Danapur", 25.6372, 85.0464},
					{"Phulwari Sharif", 25.5793, 85.0777},
					{"Maner", 25.6450, 84.8730},
					{"Fatuha", 25.5098, 85.3050},
					{"Bakhtiarpur", 25.4617, 85.5320},
				},
			},
			"gaya": {
				lat: 24.7914, lon: 85.0002,
				villages: []village{
					{"Bodh Gaya", 24.6961, 84.9869},
					{"Manpur", 24.7855, 85.0338},
					{"Sherghati", 24.5602, 84.7947},
					{"Wazirganj", 24.7895, 85.2299},
					{"Tekari", 24.9425, 84.8427},
				},
			},
			"bhagalpur": {
				lat: 25.2425, lon: 86.9842,
				villages: []village{
					{"Nathnagar", 25.2357, 86.9524},
					{"Sultanganj", 25.2454, 86.7360},
					{"Kahalgaon", 25.2659, 87.2326},
					{"Sabour", 25.2404, 87.0450},
					{"Pirpainti", 25.3181, 87.4230},
				},
			},
			"muzaffarpur": {
				lat: 26.1225, lon: 85.3906,
				villages: []village{
					{"Kanti", 26.2063, 85.2968},
					{"Kurhani", 25.9978, 85.3391},
					{"Bochaha", 26.2246, 85.4349},
					{"Minapur", 26.2762, 85.3445},
					{"Saraiya", 26.0689, 85.2165},
				},
			},
			"darbhanga": {
				lat: 26.1542, lon: 85.8918,
				villages: []village{
					{"Benipur", 26.1128, 86.0775},
					{"Bahadurpur", 26.1251, 85.9390},
					{"Keoti", 26.2385, 85.8986},
					{"Jale", 26.2701, 85.7164},
					{"Singhwara", 26.1767, 85.7673},
				},
			},
			"siwan": {
				lat: 26.2196, lon: 84.3568,
				villages: []village{
					{"Maharajganj", 26.1103, 84.5035},
					{"Mairwa", 26.2325, 84.1639},
					{"Barharia", 26.3204, 84.4552},
					{"Pachrukhi", 26.1662, 84.4087},
					{"Goriakothi", 26.3390, 84.5494},
				},
			},
			"begusarai": {
				lat: 25.4182, lon: 86.1272,
				villages: []village{
					{"Barauni", 25.4702, 85.9817},
					{"Teghra", 25.4936, 85.9438},
					{"Bachhwara", 25.4575, 85.7939},
					{"Balia", 25.3380, 86.2430},
					{"Matihani", 25.3553, 86.1416},
				},
			},
			"katihar": {
				lat: 25.5541, lon: 87.5591,
				villages: []village{
					{"Manihari", 25.3391, 87.6183},
					{"Barari", 25.5093, 87.3801},
					{"Korha", 25.5575, 87.4750},
					{"Falka", 25.4706, 87.3460},
					{"Kadwa", 25.6865, 87.6527},
				},
			},
		},
	}
}
