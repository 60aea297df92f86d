package domain

import "errors"

// Sentinel errors for alert derivation. Callers match with errors.Is; the
// adapters wrap these around the underlying transport error.
var (
	// ErrLocationNotFound means a village or district could not be resolved
	// to coordinates and no fallback applied.
	ErrLocationNotFound = errors.New("location not found")

	// ErrWeatherUnavailable means the upstream weather provider failed and
	// no observation could be produced.
	ErrWeatherUnavailable = errors.New("weather unavailable")

	// ErrInvalidDateRange means a planting date lies in the future relative
	// to the observation time.
	ErrInvalidDateRange = errors.New("planting date is after observation date")

	// ErrInvalidCalendar means a crop calendar entry is unusable, e.g. zero
	// duration or no stages.
	ErrInvalidCalendar = errors.New("invalid crop calendar entry")
)
