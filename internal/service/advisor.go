// Package service runs one coat check end to end: locate, fetch, evaluate
// and name the place.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ngmaloney/coat-terminal/internal/advisor"
	"github.com/ngmaloney/coat-terminal/internal/geocoding"
	"github.com/ngmaloney/coat-terminal/internal/geolocation"
	"github.com/ngmaloney/coat-terminal/internal/models"
	"github.com/ngmaloney/coat-terminal/internal/observability"
	"github.com/ngmaloney/coat-terminal/internal/openmeteo"
)

// Every failure surfaced by Advisor wraps exactly one of these.
var (
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrWeatherFetchFailed  = errors.New("weather fetch failed")
)

// UserMessage maps an Advisor error to the short text shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLocationUnavailable):
		return "Unable to determine your location."
	case errors.Is(err, ErrWeatherFetchFailed):
		return "Unable to fetch the weather right now."
	default:
		return "Something went wrong."
	}
}

// Advisor produces coat reports for positions.
type Advisor struct {
	weather openmeteo.WeatherClient
	locator geolocation.Locator
	places  *geocoding.Resolver
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewAdvisor wires an advisor. A nil locator behaves as Unsupported and a nil
// clock uses the real clock.
func NewAdvisor(
	weather openmeteo.WeatherClient,
	locator geolocation.Locator,
	places *geocoding.Resolver,
	clock clockwork.Clock,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Advisor {
	if locator == nil {
		locator = geolocation.Unsupported{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Advisor{
		weather: weather,
		locator: locator,
		places:  places,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

// CheckHere locates the device and then checks its position.
func (a *Advisor) CheckHere(ctx context.Context) (*models.Report, error) {
	res := a.locator.Locate(ctx)
	if !res.OK() {
		a.metrics.ObserveLocate(strings.ReplaceAll(string(res.Failure.Reason), " ", "_"))
		a.logger.Warn("locate failed", "reason", res.Failure.Reason, "error", res.Err())
		return nil, fmt.Errorf("%w: %w", ErrLocationUnavailable, res.Err())
	}
	a.metrics.ObserveLocate("success")

	return a.Check(ctx, res.Position)
}

// Check fetches the current weather for pos and builds a report. No partial
// report is returned on failure.
func (a *Advisor) Check(ctx context.Context, pos models.Position) (*models.Report, error) {
	obs, err := a.weather.CurrentObservation(ctx, pos)
	if err != nil {
		a.logger.Warn("weather fetch failed", "lat", pos.Latitude, "lon", pos.Longitude, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrWeatherFetchFailed, err)
	}
	if obs == nil {
		return nil, fmt.Errorf("%w: empty observation", ErrWeatherFetchFailed)
	}

	now := a.clock.Now()
	raw := *obs
	raw.Hour = localHour(raw, now)

	weather, decision := advisor.Evaluate(raw)
	place := a.places.PlaceName(ctx, pos)

	reasons := make([]string, len(decision.Reasons))
	for i, r := range decision.Reasons {
		reasons[i] = r.String()
	}
	a.metrics.ObserveDecision(decision.TakeCoat, reasons)

	a.logger.Info("coat check",
		"place", place.Name,
		"temperature", weather.Temperature,
		"perceived", weather.PerceivedTemperature,
		"hour", weather.Hour,
		"take_coat", decision.TakeCoat,
		"reasons", reasons,
	)

	return &models.Report{
		Place:      place,
		Weather:    weather,
		Decision:   decision,
		ObservedAt: now,
	}, nil
}

// localHour prefers the observed place's own clock and falls back to ours
// when the provider sent no time.
func localHour(obs models.RawObservation, now time.Time) int {
	if !obs.LocalTime.IsZero() {
		return obs.LocalTime.Hour()
	}
	return now.Hour()
}
