package advisor

import "github.com/ngmaloney/coat-terminal/internal/models"

const (
	ColdBelow      = 15 // perceived temperature
	WindyCoolBelow = 20
	NightCoolBelow = 18
)

// Decide evaluates every coat rule against a normalized record. Reasons are
// listed in rule order: cold, rainy, windy, nightAndCool.
func Decide(w models.NormalizedWeather) models.Decision {
	reasons := make([]models.Reason, 0, 4)

	if w.PerceivedTemperature < ColdBelow {
		reasons = append(reasons, models.ReasonCold)
	}
	if w.IsRainy {
		reasons = append(reasons, models.ReasonRainy)
	}
	if float64(w.WindSpeed) > WindThreshold && w.PerceivedTemperature < WindyCoolBelow {
		reasons = append(reasons, models.ReasonWindy)
	}
	if w.IsNight() && w.PerceivedTemperature < NightCoolBelow {
		reasons = append(reasons, models.ReasonNightAndCool)
	}

	return models.Decision{
		TakeCoat: len(reasons) > 0,
		Reasons:  reasons,
	}
}

// Evaluate runs Normalize and Decide in one step.
func Evaluate(raw models.RawObservation) (models.NormalizedWeather, models.Decision) {
	w := Normalize(raw)
	return w, Decide(w)
}
