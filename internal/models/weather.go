package models

import "time"

// RawObservation is a single current-conditions reading as delivered by a
// forecast provider. Missing fields are left at zero.
type RawObservation struct {
	Temperature   float64 // Celsius
	Precipitation float64 // mm, 0 means none
	WindSpeed     float64 // km/h
	Humidity      float64 // relative humidity, percent
	Hour          int     // local hour of day, 0-23

	// LocalTime is the provider's observation time in the observed place's
	// own timezone. Zero when the provider did not say.
	LocalTime time.Time
}

// NormalizedWeather is the rounded, display-ready form of an observation
// together with its perceived ("feels like") temperature.
type NormalizedWeather struct {
	Temperature          int
	IsRainy              bool
	WindSpeed            int
	Humidity             int
	Hour                 int
	PerceivedTemperature int
}

// Raw turns a normalized record back into an observation. Precipitation is
// reported as 1 mm when rainy since the amount is not kept.
func (w NormalizedWeather) Raw() RawObservation {
	raw := RawObservation{
		Temperature: float64(w.Temperature),
		WindSpeed:   float64(w.WindSpeed),
		Humidity:    float64(w.Humidity),
		Hour:        w.Hour,
	}
	if w.IsRainy {
		raw.Precipitation = 1
	}
	return raw
}

// IsNight reports whether the hour falls outside 06:00-18:59.
func (w NormalizedWeather) IsNight() bool {
	return IsNightHour(w.Hour)
}

// IsNightHour reports whether hour is before 6 or after 18.
func IsNightHour(hour int) bool {
	return hour < 6 || hour > 18
}

// Report is everything the presentation layer needs for one check.
type Report struct {
	Place      Place
	Weather    NormalizedWeather
	Decision   Decision
	ObservedAt time.Time
}
