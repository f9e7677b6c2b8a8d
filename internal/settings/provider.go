package settings

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wheelhouse-quant/wheelhouse/pkg/logger"
	"github.com/wheelhouse-quant/wheelhouse/pkg/redis"
)

// Provider resolves named settings from the database with a short redis
// cache in front. A missing or unreadable value always falls back to the
// caller-supplied default; lookups never error.
type Provider struct {
	pool   *pgxpool.Pool
	cache  *redis.Cache
	logger *logger.Logger
}

// NewProvider creates a new settings provider
func NewProvider(pool *pgxpool.Pool, cache *redis.Cache, log *logger.Logger) *Provider {
	return &Provider{
		pool:   pool,
		cache:  cache,
		logger: log,
	}
}

// lookup fetches the raw string value, empty string meaning "not set"
func (p *Provider) lookup(ctx context.Context, name string) string {
	var value string

	if p.cache != nil {
		if found, _ := p.cache.Get(ctx, redis.SettingKey(name), &value); found {
			return value
		}
	}

	err := p.pool.QueryRow(ctx,
		`SELECT value FROM settings.named_values WHERE name = $1`, name,
	).Scan(&value)
	if err != nil {
		if err != pgx.ErrNoRows {
			p.logger.WithError(err).WithField("setting", name).Warn("Setting lookup failed")
		}
		return ""
	}

	if p.cache != nil {
		_ = p.cache.Set(ctx, redis.SettingKey(name), value, redis.TTLSetting)
	}

	return value
}

// Float returns the named setting as a float, or def when unset or malformed
func (p *Provider) Float(ctx context.Context, name string, def float64) float64 {
	raw := p.lookup(ctx, name)
	if raw == "" {
		return def
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

// Int returns the named setting as an int, or def when unset or malformed
func (p *Provider) Int(ctx context.Context, name string, def int) int {
	raw := p.lookup(ctx, name)
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// Bool returns the named setting as a bool, or def when unset or malformed
func (p *Provider) Bool(ctx context.Context, name string, def bool) bool {
	raw := p.lookup(ctx, name)
	if raw == "" {
		return def
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

// Set stores a named setting and invalidates its cache entry
func (p *Provider) Set(ctx context.Context, name, value string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO settings.named_values (name, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`, name, value)
	if err != nil {
		return err
	}

	if p.cache != nil {
		_ = p.cache.Delete(ctx, redis.SettingKey(name))
	}

	return nil
}

// Get returns the raw stored value and whether it was set. CLI helper.
func (p *Provider) Get(ctx context.Context, name string) (string, bool) {
	raw := p.lookup(ctx, name)
	return raw, raw != ""
}
