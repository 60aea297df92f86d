package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Weather observation defaults, applied when the upstream provider omits a
// field entirely.
const (
	defaultTemperatureC  = 25.0
	defaultWindSpeedKmh  = 10.0
	defaultPrecipitation = 0.0
)

// alertValidity is how long an alert stays actionable.
const alertValidity = 72 * time.Hour

// WeatherObservation is the classifier input: current temperature and wind
// plus the summed precipitation forecast for the next three days.
type WeatherObservation struct {
	TemperatureC             float64
	WindSpeedKmh             float64
	PrecipitationNext3DaysMm float64
}

// NewWeatherObservation builds an observation from provider fields, applying
// defaults for missing values. The daily precipitation slice may cover more
// than three days; only the first three are summed.
func NewWeatherObservation(tempC, windKmh *float64, dailyPrecipMm []float64) WeatherObservation {
	obs := WeatherObservation{
		TemperatureC:             defaultTemperatureC,
		WindSpeedKmh:             defaultWindSpeedKmh,
		PrecipitationNext3DaysMm: defaultPrecipitation,
	}
	if tempC != nil {
		obs.TemperatureC = *tempC
	}
	if windKmh != nil {
		obs.WindSpeedKmh = *windKmh
	}
	for i, mm := range dailyPrecipMm {
		if i >= 3 {
			break
		}
		obs.PrecipitationNext3DaysMm += mm
	}
	return obs
}

// Location identifies where an alert applies and how its coordinates were
// resolved. Source is "village_<name>", "district_<name>", or
// "fallback_patna" depending on which lookup succeeded.
type Location struct {
	Village      string     `json:"village"`
	District     string     `json:"district"`
	State        string     `json:"state"`
	Coordinates  [2]float64 `json:"coordinates"`
	Source       string     `json:"coordinates_source"`
	VillageCount int        `json:"total_villages_in_district,omitempty"`
}

// CropInfo is the crop context attached to an alert.
type CropInfo struct {
	Name   string `json:"name"`
	Stage  string `json:"stage"`
	Season Season `json:"season"`
}

// WeatherContext is the weather snapshot embedded in an alert record,
// including the derived rain probability and humidity estimates.
type WeatherContext struct {
	TemperatureC    float64 `json:"temperature"`
	WindSpeedKmh    float64 `json:"wind_speed"`
	RainfallMm      float64 `json:"expected_rainfall"`
	RainProbability int     `json:"rain_probability"`
	Humidity        int     `json:"humidity"`
}

// Narrative is optional AI-generated enrichment for an alert.
type Narrative struct {
	Alert           string   `json:"alert"`
	Impact          string   `json:"impact"`
	Recommendations []string `json:"recommendations"`
	EnhancedMessage string   `json:"enhanced_message"`
}

// AlertDetails is the classification outcome embedded in an alert record.
type AlertDetails struct {
	Type        AlertType `json:"type"`
	Urgency     Urgency   `json:"urgency"`
	Message     string    `json:"message"`
	ActionItems []string  `json:"action_items"`
	ValidUntil  time.Time `json:"valid_until"`
	AIGenerated bool      `json:"ai_generated"`
}

// AlertRecord is the complete alert payload served over the API and published
// to downstream channels.
type AlertRecord struct {
	AlertID     string         `json:"alert_id"`
	GeneratedAt time.Time      `json:"timestamp"`
	Location    Location       `json:"location"`
	Crop        CropInfo       `json:"crop"`
	Alert       AlertDetails   `json:"alert"`
	Weather     WeatherContext `json:"weather"`
	Narrative   *Narrative     `json:"ai_narrative,omitempty"`
}

// Assemble combines location, crop, weather, and classification into a full
// alert record. The narrative is optional; when present the record is marked
// AI-generated and the narrative's enhanced message replaces the template
// message. Timestamps come from the package clock.
func Assemble(loc Location, crop CropInfo, obs WeatherObservation, cls Classification, narrative *Narrative) AlertRecord {
	now := Now()
	message := cls.Message
	if narrative != nil && narrative.EnhancedMessage != "" {
		message = narrative.EnhancedMessage
	}
	return AlertRecord{
		AlertID:     NewAlertID(loc.State, loc.District, loc.Village, now),
		GeneratedAt: now,
		Location:    loc,
		Crop:        crop,
		Alert: AlertDetails{
			Type:        cls.Type,
			Urgency:     cls.Urgency,
			Message:     message,
			ActionItems: cls.ActionItems,
			ValidUntil:  now.Add(alertValidity),
			AIGenerated: narrative != nil,
		},
		Weather: WeatherContext{
			TemperatureC:    obs.TemperatureC,
			WindSpeedKmh:    obs.WindSpeedKmh,
			RainfallMm:      obs.PrecipitationNext3DaysMm,
			RainProbability: RainProbability(obs.PrecipitationNext3DaysMm),
			Humidity:        EstimatedHumidity(obs.PrecipitationNext3DaysMm),
		},
		Narrative: narrative,
	}
}

// NewAlertID builds an alert identifier from the location and timestamp:
// the state, district, and village names uppercased and truncated to three
// characters, joined with the UTC timestamp as YYYYMMDD_HHMMSS.
func NewAlertID(state, district, village string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s_%s",
		prefix3(state), prefix3(district), prefix3(village),
		at.UTC().Format("20060102_150405"))
}

func prefix3(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) > 3 {
		s = s[:3]
	}
	return s
}

// RainProbability estimates a rain chance percentage from the 3-day
// precipitation sum: ten percentage points per millimetre, clamped to
// [10, 90]. Zero or negative precipitation reports the 10% floor.
func RainProbability(precip3DayMm float64) int {
	if precip3DayMm <= 0 {
		return 10
	}
	return clampInt(int(math.Round(precip3DayMm*10)), 10, 90)
}

// EstimatedHumidity estimates relative humidity from the 3-day precipitation
// sum: a 60% baseline plus two points per millimetre, clamped to [40, 95].
func EstimatedHumidity(precip3DayMm float64) int {
	return clampInt(60+int(math.Round(precip3DayMm*2)), 40, 95)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
