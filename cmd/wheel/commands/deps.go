package commands

import (
	"fmt"

	"github.com/wheelhouse-quant/wheelhouse/internal/marketdata"
	"github.com/wheelhouse-quant/wheelhouse/internal/positions"
	"github.com/wheelhouse-quant/wheelhouse/internal/qualitative"
	"github.com/wheelhouse-quant/wheelhouse/internal/recommend"
	"github.com/wheelhouse-quant/wheelhouse/internal/settings"
	"github.com/wheelhouse-quant/wheelhouse/internal/strategyconfig"
	"github.com/wheelhouse-quant/wheelhouse/internal/universe"
	"github.com/wheelhouse-quant/wheelhouse/pkg/config"
	"github.com/wheelhouse-quant/wheelhouse/pkg/database"
	"github.com/wheelhouse-quant/wheelhouse/pkg/logger"
	"github.com/wheelhouse-quant/wheelhouse/pkg/redis"
)

// deps bundles the wired application graph for commands
type deps struct {
	cfg      *config.Config
	logger   *logger.Logger
	db       *database.DB
	redis    *redis.Client
	cache    *redis.Cache
	settings *settings.Provider
	strategy *strategyconfig.Config
	recRepo  *recommend.Repository
	status   recommend.StatusStore
	pipeline *recommend.Pipeline
}

// initDeps wires the full dependency graph. Redis failure degrades to
// cacheless operation; the database is mandatory.
func initDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without cache")
		redisClient = nil
	}

	var cache *redis.Cache
	var status recommend.StatusStore = recommend.NewMemoryStatusStore()
	if redisClient != nil && redisClient.Enabled() {
		cache = redis.NewCache(redisClient, "wheel")
		status = recommend.NewRedisStatusStore(cache)
	}

	strategy, err := strategyconfig.LoadOrDefault(cfg.StrategyFile)
	if err != nil {
		return nil, fmt.Errorf("load strategy config: %w", err)
	}

	settingsProvider := settings.NewProvider(db.Pool, cache, log)
	market := marketdata.New(cfg, cache, log)
	analyzer := qualitative.New(cfg, log)

	universeRepo := universe.NewRepository(db.Pool)
	positionRepo := positions.NewRepository(db.Pool)
	recRepo := recommend.NewRepository(db.Pool)

	pipeline := recommend.NewPipeline(
		universeRepo,
		recRepo,
		market,
		positionRepo,
		settingsProvider,
		analyzer,
		strategy,
		status,
		log,
	)

	return &deps{
		cfg:      cfg,
		logger:   log,
		db:       db,
		redis:    redisClient,
		cache:    cache,
		settings: settingsProvider,
		strategy: strategy,
		recRepo:  recRepo,
		status:   status,
		pipeline: pipeline,
	}, nil
}

// close releases held connections
func (d *deps) close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.db != nil {
		d.db.Close()
	}
}
