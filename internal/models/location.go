package models

// Position is a latitude/longitude pair in decimal degrees.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place is a position plus the name shown to the user.
// Resolved is false when Name is the formatted-coordinate fallback.
type Place struct {
	Position
	Name     string `json:"name"`
	Resolved bool   `json:"resolved"`
}
