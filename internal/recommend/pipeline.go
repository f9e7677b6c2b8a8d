package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
	"github.com/wheelhouse-quant/wheelhouse/internal/options"
	"github.com/wheelhouse-quant/wheelhouse/internal/strategyconfig"
	"github.com/wheelhouse-quant/wheelhouse/internal/universe"
	"github.com/wheelhouse-quant/wheelhouse/pkg/logger"
)

// ErrRunInProgress is returned when a second run is triggered while one is
// active. The active run is unaffected.
var ErrRunInProgress = errors.New("recommendation run already in progress")

// UniverseStore is the slice of universe persistence the pipeline needs
type UniverseStore interface {
	GetActiveTickers(ctx context.Context) ([]contracts.Ticker, map[string]*contracts.Quote, error)
	SaveScore(ctx context.Context, symbol string, score float64, analyzedAt time.Time) error
	UpsertQuote(ctx context.Context, q *contracts.Quote) error
}

// RecommendationStore persists recommendations with same-day supersede
type RecommendationStore interface {
	Save(ctx context.Context, rec *contracts.Recommendation) error
}

// Pipeline orchestrates universe selection, chain filtering and contract
// scoring into ranked recommendations. Only one run may be in flight
// system-wide; the mutex is held for the run's full duration.
type Pipeline struct {
	universeStore UniverseStore
	recStore      RecommendationStore
	market        contracts.MarketData
	positions     contracts.PositionSource
	settings      contracts.Settings
	qualitative   contracts.QualitativeAnalyzer
	strategy      *strategyconfig.Config
	status        StatusStore
	logger        *logger.Logger

	running sync.Mutex
	now     func() time.Time // injectable clock
	mcSeed  int64            // non-zero for reproducible simulation
}

// NewPipeline creates a new recommendation pipeline
func NewPipeline(
	universeStore UniverseStore,
	recStore RecommendationStore,
	market contracts.MarketData,
	positions contracts.PositionSource,
	settings contracts.Settings,
	qualitative contracts.QualitativeAnalyzer,
	strategy *strategyconfig.Config,
	status StatusStore,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		universeStore: universeStore,
		recStore:      recStore,
		market:        market,
		positions:     positions,
		settings:      settings,
		qualitative:   qualitative,
		strategy:      strategy,
		status:        status,
		logger:        log,
		now:           time.Now,
	}
}

// WithClock overrides the pipeline clock. Test helper.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// WithSimulationSeed makes Monte Carlo runs reproducible. Test helper.
func (p *Pipeline) WithSimulationSeed(seed int64) *Pipeline {
	p.mcSeed = seed
	return p
}

// candidate pairs a ticker with its fresh quote and universe score
type candidate struct {
	ticker contracts.Ticker
	quote  *contracts.Quote
	score  float64
}

// Generate runs the full pipeline once. A second call while a run is active
// returns ErrRunInProgress without touching the active run. Per-ticker
// failures are logged and counted, never fatal; the run aborts only on
// context cancellation, checked between ticker iterations.
func (p *Pipeline) Generate(ctx context.Context, progress contracts.ProgressFunc) (*contracts.RunResult, error) {
	if !p.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer p.running.Unlock()

	started := p.now()
	runID := fmt.Sprintf("run_%s", uuid.New().String())

	result := &contracts.RunResult{
		RunID:           runID,
		Recommendations: make([]contracts.Recommendation, 0),
		SkipReasons:     make(map[string]int),
		StartedAt:       started,
	}

	p.putStatus(ctx, runID, contracts.RunRunning, contracts.Progress{Message: "building universe"}, "", started)

	p.logger.WithFields(map[string]interface{}{
		"run_id": runID,
	}).Info("Starting recommendation run")

	// 1. Candidate universe: filter, score, top-K
	candidates, err := p.buildUniverse(ctx, result)
	if err != nil {
		p.putStatus(ctx, runID, contracts.RunFailed, contracts.Progress{}, err.Error(), started)
		return result, fmt.Errorf("build universe: %w", err)
	}

	// 2. Refresh quotes; a ticker with no obtainable price is dropped
	candidates = p.refreshQuotes(ctx, candidates, result)

	// 3. Exclude tickers with an open position
	candidates = p.excludePositions(ctx, candidates, result)

	// 4-5. Per-ticker chain selection, scoring, persistence
	total := len(candidates)
	for i, cand := range candidates {
		// Runs stay cancellable between tickers, never mid-ticker, so
		// already-persisted recommendations survive cancellation.
		select {
		case <-ctx.Done():
			p.putStatus(ctx, runID, contracts.RunFailed, contracts.Progress{Message: "cancelled"}, ctx.Err().Error(), started)
			result.Duration = p.now().Sub(started)
			return result, ctx.Err()
		default:
		}

		rec, skipReason, err := p.processTicker(ctx, cand)
		switch {
		case err != nil:
			result.Errored++
			p.logger.WithError(err).WithField("symbol", cand.ticker.Symbol).Warn("Ticker processing failed")
		case rec != nil:
			result.Recommendations = append(result.Recommendations, *rec)
		default:
			result.Skipped++
			result.SkipReasons[skipReason]++
		}
		result.Processed++

		prog := contracts.Progress{
			Message:          fmt.Sprintf("processed %s", cand.ticker.Symbol),
			CurrentTicker:    cand.ticker.Symbol,
			TotalTickers:     total,
			ProcessedTickers: i + 1,
			Recommendations:  len(result.Recommendations),
		}
		if progress != nil {
			progress(prog)
		}
		p.putStatus(ctx, runID, contracts.RunRunning, prog, "", started)
	}

	result.Duration = p.now().Sub(started)
	p.putStatus(ctx, runID, contracts.RunCompleted, contracts.Progress{
		Message:          "completed",
		TotalTickers:     total,
		ProcessedTickers: result.Processed,
		Recommendations:  len(result.Recommendations),
	}, "", started)

	p.logger.WithFields(map[string]interface{}{
		"run_id":          runID,
		"processed":       result.Processed,
		"skipped":         result.Skipped,
		"errored":         result.Errored,
		"recommendations": len(result.Recommendations),
		"duration":        result.Duration.Seconds(),
	}).Info("Recommendation run completed")

	return result, nil
}

// buildUniverse filters and scores active tickers, returning the top-K.
// Per-gate exclusion counts are folded into the run's skip counters.
func (p *Pipeline) buildUniverse(ctx context.Context, result *contracts.RunResult) ([]candidate, error) {
	now := p.now()

	filterCfg := universe.FilterConfigFromSettings(ctx, p.settings, p.strategy.Universe)
	filter := universe.NewFilter(filterCfg)
	scorer := universe.NewScorer(p.strategy.Scoring)

	tickers, quotes, err := p.universeStore.GetActiveTickers(ctx)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]int)
	candidates := make([]candidate, 0, len(tickers))

	for i := range tickers {
		t := &tickers[i]
		quote := quotes[t.Symbol]

		ok, reason := filter.Passes(t, quote, now)
		if !ok {
			excluded[reason]++
			continue
		}

		score := scorer.Score(t, quote)
		if err := p.universeStore.SaveScore(ctx, t.Symbol, score, now); err != nil {
			p.logger.WithError(err).WithField("symbol", t.Symbol).Warn("Failed to persist universe score")
		}

		candidates = append(candidates, candidate{ticker: *t, quote: quote, score: score})
	}

	for reason, n := range excluded {
		result.Skipped += n
		result.SkipReasons[reason] += n
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	topK := p.settings.Int(ctx, "selection.top_k", p.strategy.Selection.TopK)
	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}

	p.logger.WithFields(map[string]interface{}{
		"total":      len(tickers),
		"excluded":   excluded,
		"candidates": len(candidates),
	}).Info("Universe built")

	return candidates, nil
}

// refreshQuotes fetches current quotes for the candidate set, best-effort
func (p *Pipeline) refreshQuotes(ctx context.Context, candidates []candidate, result *contracts.RunResult) []candidate {
	kept := make([]candidate, 0, len(candidates))

	for _, cand := range candidates {
		quote, err := p.market.GetQuote(ctx, cand.ticker.Symbol)
		if err != nil {
			result.Skipped++
			result.SkipReasons["no_quote"]++
			p.logger.WithField("symbol", cand.ticker.Symbol).Debug("Dropping ticker without obtainable quote")
			continue
		}

		if err := p.universeStore.UpsertQuote(ctx, quote); err != nil {
			p.logger.WithError(err).WithField("symbol", cand.ticker.Symbol).Warn("Failed to persist quote")
		}

		cand.quote = quote
		kept = append(kept, cand)
	}

	return kept
}

// excludePositions drops tickers that already carry exposure
func (p *Pipeline) excludePositions(ctx context.Context, candidates []candidate, result *contracts.RunResult) []candidate {
	positions, err := p.positions.GetOpenPositions(ctx)
	if err != nil {
		// Position data is an exclusion refinement, not a gate; without it
		// the run proceeds on the full candidate set.
		p.logger.WithError(err).Warn("Failed to fetch open positions, skipping exclusion")
		return candidates
	}

	held := make(map[string]bool, len(positions))
	for _, pos := range positions {
		if pos.Quantity != 0 {
			held[pos.Symbol] = true
		}
	}

	kept := make([]candidate, 0, len(candidates))
	for _, cand := range candidates {
		if held[cand.ticker.Symbol] {
			result.Skipped++
			result.SkipReasons["open_position"]++
			continue
		}
		kept = append(kept, cand)
	}

	return kept
}

// processTicker runs expiration selection, chain filtering and contract
// scoring for one ticker, persisting at most one recommendation. Returns a
// skip reason when no contract qualified.
func (p *Pipeline) processTicker(ctx context.Context, cand candidate) (*contracts.Recommendation, string, error) {
	now := p.now()
	symbol := cand.ticker.Symbol

	dteMin := p.settings.Int(ctx, "options.dte_min", p.strategy.Options.DTEMin)
	dteMax := p.settings.Int(ctx, "options.dte_max", p.strategy.Options.DTEMax)

	expirations, err := p.market.GetOptionExpirations(ctx, symbol)
	if err != nil {
		return nil, "no_expirations", nil
	}

	expiration, err := options.SelectExpiration(expirations, now, dteMin, dteMax)
	if err != nil {
		return nil, "no_expirations", nil
	}

	chain, err := p.market.GetOptionChain(ctx, symbol, expiration)
	if err != nil {
		return nil, "no_chain", nil
	}

	chainCfg := options.ChainConfigFromSettings(ctx, p.settings, p.strategy.Options)
	filtered := options.NewChainFilter(chainCfg, p.logger).Filter(chain, now)
	if len(filtered) == 0 {
		return nil, "no_candidate_contracts", nil
	}

	blackoutDays := p.settings.Int(ctx, "universe.earnings_blackout_days", p.strategy.Universe.EarningsBlackoutDays)
	scorerCfg := options.ScorerConfigFromSettings(ctx, p.settings, p.strategy.Options, blackoutDays)
	scorerCfg.MonteCarloSeed = p.mcSeed
	scorer := options.NewScorer(scorerCfg, p.logger)

	qual := p.qualitative.Analyze(ctx, symbol, cand.quote.CurrentPrice, cand.ticker.Sector)

	// Top-1, not top-N: keep only the single highest-scoring contract
	var best *contracts.OptionContract
	var bestRationale contracts.Rationale

	for i := range filtered {
		rationale := scorer.Score(options.ScoreInput{
			Contract:     &filtered[i],
			CurrentPrice: cand.quote.CurrentPrice,
			EarningsDate: cand.ticker.NextEarningsDate,
			Qualitative:  &qual,
			Now:          now,
		})

		if best == nil || rationale.CompositeScore > bestRationale.CompositeScore {
			best = &filtered[i]
			bestRationale = rationale
		}
	}

	minScore := p.settings.Float(ctx, "selection.min_score_threshold", p.strategy.Selection.MinScoreThreshold)
	if best == nil || bestRationale.CompositeScore < minScore {
		return nil, "below_score_threshold", nil
	}

	rec := &contracts.Recommendation{
		Symbol:    symbol,
		Contract:  best,
		Score:     bestRationale.CompositeScore,
		Rationale: bestRationale,
		Status:    contracts.StatusProposed,
		CreatedAt: now,
	}

	if err := p.recStore.Save(ctx, rec); err != nil {
		return nil, "", fmt.Errorf("save recommendation: %w", err)
	}

	return rec, "", nil
}

// putStatus writes a status snapshot, best-effort
func (p *Pipeline) putStatus(ctx context.Context, runID string, state contracts.RunState, prog contracts.Progress, errMsg string, started time.Time) {
	if p.status == nil {
		return
	}

	err := p.status.Put(ctx, contracts.RunStatus{
		RunID:     runID,
		State:     state,
		Progress:  prog,
		Error:     errMsg,
		StartedAt: started,
		UpdatedAt: p.now(),
	})
	if err != nil {
		p.logger.WithError(err).Warn("Failed to update run status")
	}
}
