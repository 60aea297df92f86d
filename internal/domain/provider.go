package domain

import "context"

// Geo is a resolved coordinate pair with the label describing how it was
// resolved.
type Geo struct {
	Latitude  float64
	Longitude float64
	Source    string
}

// CurrentConditions is a point-in-time weather reading. Nil fields mean the
// provider omitted the value; defaults apply downstream.
type CurrentConditions struct {
	TemperatureC *float64
	WindSpeedKmh *float64
}

// Forecast holds per-day precipitation sums in millimetres, index 0 being
// today.
type Forecast struct {
	DailyPrecipitationMm []float64
}

// WeatherProvider fetches live weather for a coordinate. Implementations wrap
// ErrWeatherUnavailable around transport failures.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (CurrentConditions, error)
	Forecast(ctx context.Context, lat, lon float64, days int) (Forecast, error)
}

// VillageDirectory resolves villages and their coordinates within a state.
type VillageDirectory interface {
	// Villages lists the known villages of a district. An empty slice means
	// the district has no village data.
	Villages(state, district string) []string

	// Locate resolves coordinates for a village, falling back to the
	// district centroid and finally the state capital. The returned Geo
	// Source records which level matched.
	Locate(state, district, village string) Geo
}

// NarrativeGenerator produces AI enrichment for an alert. Implementations
// return (nil, nil) when enrichment is disabled.
type NarrativeGenerator interface {
	Generate(ctx context.Context, record AlertRecord) (*Narrative, error)
}
