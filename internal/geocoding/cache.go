package geocoding

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ngmaloney/coat-terminal/internal/models"
	"github.com/ngmaloney/coat-terminal/internal/observability"
)

// CachedReverser wraps a Reverser with a sqlite-backed place-name cache.
// Positions are keyed at two decimal places (roughly 1 km).
type CachedReverser struct {
	inner   Reverser
	db      *sql.DB
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCachedReverser creates a cache decorator around a reverser. db must
// already carry the place_names schema (see database.Open).
func NewCachedReverser(inner Reverser, db *sql.DB, metrics *observability.Metrics, logger *slog.Logger) *CachedReverser {
	return &CachedReverser{
		inner:   inner,
		db:      db,
		metrics: metrics,
		logger:  logger,
	}
}

// Reverse returns the cached name for pos or asks the inner reverser.
func (c *CachedReverser) Reverse(ctx context.Context, pos models.Position) (string, error) {
	latKey, lonKey := cacheKey(pos)

	name, err := c.lookup(ctx, latKey, lonKey)
	if err != nil {
		// A broken cache must not break naming.
		c.logger.Warn("place cache lookup failed", "error", err)
	}
	if name != "" {
		c.metrics.ObserveCache(true)
		return name, nil
	}
	c.metrics.ObserveCache(false)

	name, err = c.inner.Reverse(ctx, pos)
	if err != nil {
		return "", err
	}

	// Only cache non-empty names so "not found" answers can be retried.
	if name != "" {
		if err := c.store(ctx, latKey, lonKey, name); err != nil {
			c.logger.Warn("place cache store failed", "error", err)
		}
	}
	return name, nil
}

func (c *CachedReverser) lookup(ctx context.Context, latKey, lonKey string) (string, error) {
	var name string
	err := c.db.QueryRowContext(ctx,
		"SELECT name FROM place_names WHERE lat_key = ? AND lon_key = ?",
		latKey, lonKey,
	).Scan(&name)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying place name: %w", err)
	}
	return name, nil
}

func (c *CachedReverser) store(ctx context.Context, latKey, lonKey, name string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO place_names (lat_key, lon_key, name)
		VALUES (?, ?, ?)
		ON CONFLICT(lat_key, lon_key) DO UPDATE SET
			name = excluded.name,
			created_at = CURRENT_TIMESTAMP
	`, latKey, lonKey, name)
	if err != nil {
		return fmt.Errorf("saving place name: %w", err)
	}
	return nil
}

func cacheKey(pos models.Position) (string, string) {
	return strconv.FormatFloat(pos.Latitude, 'f', 2, 64), strconv.FormatFloat(pos.Longitude, 'f', 2, 64)
}
