package openmeteo

import (
	"context"

	"github.com/ngmaloney/coat-terminal/internal/models"
)

// WeatherClient defines the interface for fetching current conditions
type WeatherClient interface {
	// CurrentObservation retrieves the current raw observation for a position.
	// The returned Hour is left at zero; callers stamp it from their own clock.
	CurrentObservation(ctx context.Context, pos models.Position) (*models.RawObservation, error)
}
