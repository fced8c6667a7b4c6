// Package advisor turns a current-conditions observation into a coat
// recommendation.
//
// # Perceived temperature
//
// The feels-like value is an additive adjustment of the air temperature:
//
//	wind:     wind > 20 km/h           →  -(wind - 20) × 0.1
//	humidity: humidity > 70% and T > 20 →  +(humidity - 70) × 0.1
//	          humidity > 70% and T ≤ 20 →  -(humidity - 70) × 0.05
//	night:    hour < 6 or hour > 18    →  -2
//
// All rounding happens once, after the adjustments. This is deliberately not
// the NWS wind-chill / Rothfusz heat-index pair: those formulas only apply in
// disjoint temperature bands and do not account for time of day.
//
// # Coat rules
//
// Four independent rules are evaluated and OR-ed together:
//
//	cold:         perceived < 15
//	rainy:        any precipitation
//	windy:        wind > 20 km/h and perceived < 20
//	nightAndCool: night hour and perceived < 18
//
// Missing or non-finite inputs count as zero, so both functions are total.
package advisor
