// Package domain implements the alert-derivation pipeline for agricultural
// weather alerts in Bihar.
//
// # Derivation
//
// An alert is derived from (district, current date, weather observation) in
// four steps, all pure computations over static tables:
//
//  1. Season: the calendar month maps to one of three cropping seasons.
//     June-September is kharif (monsoon), October-March is rabi (winter),
//     April-May is zaid (summer). The three sets partition the year.
//  2. Crop: each district carries primary/secondary/specialty crop tiers.
//     The tiers are filtered by season compatibility and one crop is drawn
//     at random with tier weights 5/3/1. Unknown districts fall back to a
//     default profile of the state's staple crops.
//  3. Stage: a per-crop month-to-stage table estimates the growth stage,
//     defaulting to the middle stage when the month is not mapped. When a
//     planting date is known, the stage is instead derived from elapsed days
//     over the crop's nominal duration. Crops missing from the calendar get
//     the sentinel stage "Growing".
//  4. Classification: temperature, wind speed, and the 3-day precipitation
//     sum select one of six alert types via an ordered threshold ladder
//     (see [Classify]). The ordering is a deliberate tie-break: heavy rain
//     dominates heat, cold, and wind signals when thresholds overlap.
//
// # Alert IDs
//
// Alert IDs encode state, district, village, and the generation time:
//
//	{STATE3}_{DISTRICT3}_{VILLAGE3}_{YYYYMMDD_HHMMSS}
//
// with each name uppercased and truncated to 3 characters, e.g.
// "BIH_PAT_KUM_20250723_060000". IDs are unique per second per village,
// which is sufficient for a service that emits one alert per request.
//
// # Derived weather fields
//
// Rain probability and humidity are estimates derived from the precipitation
// sum, not measurements:
//
//	rainProbability = clamp(10, 90, round(precip3day * 10)), 10 when precip3day <= 0
//	humidity        = clamp(40, 95, 60 + round(precip3day * 2))
//
// All tables are process-wide constants initialized at load time; nothing in
// this package mutates shared state after startup except the injectable clock
// and the district profile override, both of which are set once during boot
// (or from tests).
package domain
