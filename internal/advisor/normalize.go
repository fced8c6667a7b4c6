package advisor

import (
	"math"

	"github.com/ngmaloney/coat-terminal/internal/models"
)

const (
	WindThreshold     = 20.0 // km/h
	HumidityThreshold = 70.0 // percent
	MorningHour       = 6
	EveningHour       = 18

	windFactor      = 0.1
	humidHeatFactor = 0.1
	humidColdFactor = 0.05
	humidHeatFloor  = 20.0 // Celsius
	nightPenalty    = 2.0
)

// Normalize rounds an observation for display and attaches its perceived
// temperature.
func Normalize(raw models.RawObservation) models.NormalizedWeather {
	raw = sanitize(raw)

	return models.NormalizedWeather{
		Temperature:          round(raw.Temperature),
		IsRainy:              raw.Precipitation > 0,
		WindSpeed:            round(raw.WindSpeed),
		Humidity:             round(raw.Humidity),
		Hour:                 raw.Hour,
		PerceivedTemperature: round(FeelsLike(raw)),
	}
}

// FeelsLike returns the unrounded perceived temperature for an observation.
func FeelsLike(raw models.RawObservation) float64 {
	raw = sanitize(raw)
	perceived := raw.Temperature

	if raw.WindSpeed > WindThreshold {
		perceived -= (raw.WindSpeed - WindThreshold) * windFactor
	}

	if raw.Humidity > HumidityThreshold {
		excess := raw.Humidity - HumidityThreshold
		if raw.Temperature > humidHeatFloor {
			perceived += excess * humidHeatFactor
		} else {
			perceived -= excess * humidColdFactor
		}
	}

	if raw.Hour < MorningHour || raw.Hour > EveningHour {
		perceived -= nightPenalty
	}

	return perceived
}

// sanitize applies the lenient default: anything that is not a finite number
// is treated as missing, i.e. zero.
func sanitize(raw models.RawObservation) models.RawObservation {
	raw.Temperature = finiteOrZero(raw.Temperature)
	raw.Precipitation = finiteOrZero(raw.Precipitation)
	raw.WindSpeed = finiteOrZero(raw.WindSpeed)
	raw.Humidity = finiteOrZero(raw.Humidity)
	return raw
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func round(v float64) int {
	return int(math.Round(v))
}
