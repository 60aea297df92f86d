package domain

import (
	"fmt"
	"time"
)

// UnknownStage is reported for crops the calendar does not cover. The alert
// still renders; the stage is simply non-specific.
const UnknownStage = "Growing"

// stageByMonthIndex maps calendar month to a stage index for the crops with
// well-known Bihar planting patterns. Maize appears twice per year (kharif and
// zaid plantings), so its spring months restart the index at zero. Months
// absent from a crop's map fall back to the middle stage.
var stageByMonthIndex = map[string]map[time.Month]int{
	"rice": {
		time.June: 0, time.July: 1, time.August: 2, time.September: 3,
		time.October: 4, time.November: 5, time.December: 6,
		time.January: 7, time.February: 8,
	},
	"wheat": {
		time.November: 0, time.December: 1, time.January: 2,
		time.February: 3, time.March: 4, time.April: 5,
	},
	"maize": {
		time.June: 0, time.July: 1, time.August: 2, time.September: 3,
		time.October: 4, time.November: 5,
		time.March: 0, time.April: 1, time.May: 2,
	},
	"sugarcane": {
		time.February: 0, time.March: 1, time.April: 2, time.May: 3,
		time.June: 3, time.July: 3, time.August: 4, time.September: 4,
		time.October: 5, time.November: 6, time.December: 6, time.January: 6,
	},
	"mustard": {
		time.October: 0, time.November: 1, time.December: 2,
		time.January: 3, time.February: 4, time.March: 5,
	},
}

// StageByMonth estimates a crop's growth stage for a calendar month. Crops
// without a month table (or months outside the table) use the middle stage of
// the crop's stage list. Unknown crops report [UnknownStage].
func StageByMonth(crop string, month time.Month) string {
	def, ok := LookupCrop(crop)
	if !ok || len(def.Stages) == 0 {
		return UnknownStage
	}

	idx := len(def.Stages) / 2
	if monthMap, ok := stageByMonthIndex[def.Name]; ok {
		if i, ok := monthMap[month]; ok {
			idx = i
		}
	}
	return def.Stages[clampIndex(idx, len(def.Stages))]
}

// StageByPlanting estimates a crop's growth stage from the elapsed time since
// planting, assuming stages divide the crop's nominal duration evenly. Days
// past the nominal duration clamp to the final stage.
func StageByPlanting(crop string, planted, now time.Time) (string, error) {
	def, ok := LookupCrop(crop)
	if !ok || len(def.Stages) == 0 {
		return UnknownStage, nil
	}

	days := int(now.Sub(planted).Hours() / 24)
	if days < 0 {
		return "", fmt.Errorf("%w: planted %s, observed %s",
			ErrInvalidDateRange, planted.Format("2006-01-02"), now.Format("2006-01-02"))
	}

	stageLength := def.DurationDays / len(def.Stages)
	if stageLength <= 0 {
		return "", fmt.Errorf("%w: %s has duration %d days over %d stages",
			ErrInvalidCalendar, def.Name, def.DurationDays, len(def.Stages))
	}

	return def.Stages[clampIndex(days/stageLength, len(def.Stages))], nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
