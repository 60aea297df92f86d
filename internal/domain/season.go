package domain

import "time"

// Season is one of the three Bihar cropping seasons.
type Season string

const (
	SeasonKharif Season = "kharif" // monsoon, June-September
	SeasonRabi   Season = "rabi"   // winter, October-March
	SeasonZaid   Season = "zaid"   // summer, April-May
)

// ClassifySeason maps a calendar month to its cropping season. Total over
// January-December: every month maps to exactly one season.
func ClassifySeason(month time.Month) Season {
	switch month {
	case time.June, time.July, time.August, time.September:
		return SeasonKharif
	case time.October, time.November, time.December, time.January, time.February, time.March:
		return SeasonRabi
	default: // April, May
		return SeasonZaid
	}
}

// seasonalCrops lists the crops considered compatible with each season for
// selection purposes. This is a selection filter, distinct from the calendar
// season labels: sugarcane is an annual crop but is treated as a kharif
// candidate here.
var seasonalCrops = map[Season]map[string]bool{
	SeasonKharif: {"rice": true, "maize": true, "sugarcane": true, "jowar": true, "bajra": true, "groundnut": true},
	SeasonRabi:   {"wheat": true, "barley": true, "gram": true, "lentil": true, "mustard": true, "potato": true},
	SeasonZaid:   {"maize": true, "moong": true, "watermelon": true, "cucumber": true},
}
