package models

// Reason is one of the rules that can trigger a coat recommendation.
type Reason int

const (
	ReasonCold         Reason = iota // perceived temperature below 15
	ReasonRainy                      // any precipitation
	ReasonWindy                      // windy and cool
	ReasonNightAndCool               // night time and cool
)

// String returns the short label for the reason
func (r Reason) String() string {
	switch r {
	case ReasonCold:
		return "cold"
	case ReasonRainy:
		return "rainy"
	case ReasonWindy:
		return "windy"
	case ReasonNightAndCool:
		return "nightAndCool"
	default:
		return "unknown"
	}
}

// Message returns the sentence shown to the user for the reason
func (r Reason) Message() string {
	switch r {
	case ReasonCold:
		return "It feels cold outside"
	case ReasonRainy:
		return "It's raining"
	case ReasonWindy:
		return "It's windy and cool"
	case ReasonNightAndCool:
		return "It's night and getting chilly"
	default:
		return ""
	}
}

// Decision is the coat recommendation and the rules that fired, in rule order.
type Decision struct {
	TakeCoat bool
	Reasons  []Reason
}

// Has reports whether the given reason contributed to the decision
func (d Decision) Has(r Reason) bool {
	for _, got := range d.Reasons {
		if got == r {
			return true
		}
	}
	return false
}

// Headline is the one-line recommendation.
func (d Decision) Headline() string {
	if d.TakeCoat {
		return "Take a coat!"
	}
	return "No coat needed"
}
