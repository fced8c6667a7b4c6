package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/ngmaloney/coat-terminal/internal/models"
)

// Location represents a geocoded location
type Location struct {
	Latitude  float64
	Longitude float64
	Name      string
}

// Position returns the location's coordinates
func (l Location) Position() models.Position {
	return models.Position{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Searcher converts a free-text query to coordinates
type Searcher interface {
	Search(ctx context.Context, query string) (*Location, error)
}

// Reverser converts coordinates to a human-readable name.
// An empty name with a nil error means the provider had no answer.
type Reverser interface {
	Reverse(ctx context.Context, pos models.Position) (string, error)
}

// FormatCoordinates renders a position as "51.51°N, 0.13°W"
func FormatCoordinates(pos models.Position) string {
	ns := "N"
	if pos.Latitude < 0 {
		ns = "S"
	}
	ew := "E"
	if pos.Longitude < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.2f°%s, %.2f°%s", math.Abs(pos.Latitude), ns, math.Abs(pos.Longitude), ew)
}

// ParseCoordinates accepts "lat,lon" (whitespace allowed) and reports whether
// the query was a literal coordinate pair in range.
func ParseCoordinates(query string) (models.Position, bool) {
	parts := strings.Split(strings.TrimSpace(query), ",")
	if len(parts) != 2 {
		return models.Position{}, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return models.Position{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return models.Position{}, false
	}
	if math.Abs(lat) > 90 || math.Abs(lon) > 180 {
		return models.Position{}, false
	}

	return models.Position{Latitude: lat, Longitude: lon}, true
}

// Resolve turns a search query into a location. Literal coordinates skip the
// network entirely.
func Resolve(ctx context.Context, s Searcher, query string) (*Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	if pos, ok := ParseCoordinates(query); ok {
		return &Location{
			Latitude:  pos.Latitude,
			Longitude: pos.Longitude,
			Name:      FormatCoordinates(pos),
		}, nil
	}
	if s == nil {
		return nil, fmt.Errorf("place search is not configured")
	}

	return s.Search(ctx, query)
}

// Resolver names positions for display and never fails: when the reverse
// lookup errors or comes back empty it falls back to formatted coordinates.
type Resolver struct {
	reverser Reverser
	logger   *slog.Logger
}

// NewResolver creates a resolver. A nil reverser always yields coordinates.
func NewResolver(reverser Reverser, logger *slog.Logger) *Resolver {
	return &Resolver{reverser: reverser, logger: logger}
}

// PlaceName returns the display place for pos
func (r *Resolver) PlaceName(ctx context.Context, pos models.Position) models.Place {
	place := models.Place{Position: pos, Name: FormatCoordinates(pos)}
	if r == nil || r.reverser == nil {
		return place
	}

	name, err := r.reverser.Reverse(ctx, pos)
	if err != nil {
		r.logger.Warn("reverse geocoding failed, using coordinates",
			"lat", pos.Latitude,
			"lon", pos.Longitude,
			"error", err,
		)
		return place
	}
	if name = strings.TrimSpace(name); name != "" {
		place.Name = name
		place.Resolved = true
	}
	return place
}
