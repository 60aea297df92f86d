package domain

import "fmt"

// AlertType identifies which classification rule fired.
type AlertType string

const (
	AlertHeavyRain     AlertType = "heavy_rain_warning"
	AlertModerateRain  AlertType = "moderate_rain_warning"
	AlertHeatDrought   AlertType = "heat_drought_warning"
	AlertCold          AlertType = "cold_warning"
	AlertHighWind      AlertType = "high_wind_warning"
	AlertWeatherUpdate AlertType = "weather_update"
)

// Urgency is the advisory priority attached to an alert type.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// Classification is the outcome of the threshold ladder: the alert type, its
// urgency, a farmer-facing message, and machine-readable action items.
type Classification struct {
	Type        AlertType
	Urgency     Urgency
	Message     string
	ActionItems []string
}

// Classification thresholds. Rain is the 3-day precipitation sum in mm,
// temperatures in Celsius, wind in km/h.
const (
	heavyRainMm    = 25.0
	moderateRainMm = 10.0
	droughtRainMm  = 2.0
	heatTempC      = 35.0
	coldTempC      = 10.0
	highWindKmh    = 30.0
)

// Classify maps a weather observation plus crop context to exactly one alert.
// The rules are an ordered ladder; the first match wins, so heavy rain
// dominates a simultaneous heat or wind signal. Inputs outside the first five
// rules always land on the weather_update catch-all.
func Classify(obs WeatherObservation, village, district, crop, stage string) Classification {
	rain := obs.PrecipitationNext3DaysMm
	temp := obs.TemperatureC
	wind := obs.WindSpeedKmh

	switch {
	case rain > heavyRainMm:
		return Classification{
			Type:    AlertHeavyRain,
			Urgency: UrgencyHigh,
			Message: fmt.Sprintf("Heavy rainfall (%.1fmm) expected in next 3 days near %s, %s. "+
				"%s at %s stage may be affected. Delay fertilizer application and ensure proper drainage.",
				rain, village, district, crop, stage),
			ActionItems: []string{"delay_fertilizer", "check_drainage", "monitor_crops", "prepare_harvest_protection"},
		}
	case rain > moderateRainMm:
		return Classification{
			Type:    AlertModerateRain,
			Urgency: UrgencyMedium,
			Message: fmt.Sprintf("Moderate rainfall (%.1fmm) expected in next 3 days near %s, %s. "+
				"Monitor %s at %s stage carefully.",
				rain, village, district, crop, stage),
			ActionItems: []string{"monitor_soil", "check_drainage", "adjust_irrigation"},
		}
	case rain < droughtRainMm && temp > heatTempC:
		return Classification{
			Type:    AlertHeatDrought,
			Urgency: UrgencyHigh,
			Message: fmt.Sprintf("High temperature (%.1f°C) with minimal rainfall expected near %s, %s. "+
				"%s at %s stage needs extra care. Increase irrigation frequency.",
				temp, village, district, crop, stage),
			ActionItems: []string{"increase_irrigation", "mulch_crops", "monitor_plant_stress"},
		}
	case temp < coldTempC:
		return Classification{
			Type:    AlertCold,
			Urgency: UrgencyMedium,
			Message: fmt.Sprintf("Low temperature (%.1f°C) expected near %s, %s. "+
				"Protect %s crops from cold damage.",
				temp, village, district, crop),
			ActionItems: []string{"protect_crops", "cover_seedlings", "adjust_irrigation_timing"},
		}
	case wind > highWindKmh:
		return Classification{
			Type:    AlertHighWind,
			Urgency: UrgencyMedium,
			Message: fmt.Sprintf("High winds (%.1f km/h) expected near %s, %s. "+
				"Secure %s crop supports and structures.",
				wind, village, district, crop),
			ActionItems: []string{"secure_supports", "check_structures", "monitor_damage"},
		}
	default:
		return Classification{
			Type:    AlertWeatherUpdate,
			Urgency: UrgencyLow,
			Message: fmt.Sprintf("Normal weather conditions expected near %s, %s. "+
				"%s at %s stage. Temperature %.1f°C, rainfall %.1fmm.",
				village, district, crop, stage, temp, rain),
			ActionItems: []string{"routine_monitoring", "maintain_irrigation"},
		}
	}
}
