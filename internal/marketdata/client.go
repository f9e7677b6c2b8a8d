package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
	"github.com/wheelhouse-quant/wheelhouse/pkg/config"
	"github.com/wheelhouse-quant/wheelhouse/pkg/httputil"
	"github.com/wheelhouse-quant/wheelhouse/pkg/logger"
	"github.com/wheelhouse-quant/wheelhouse/pkg/redis"
)

const expiryDateLayout = "2006-01-02"

// Client is the market data gateway. Retry, backoff and rate limiting live
// here; callers only see a quote, a chain, or a data-unavailable error.
type Client struct {
	http    *httputil.Client
	cache   *redis.Cache
	baseURL string
	apiKey  string
	logger  *logger.Logger
}

// New creates a new market data client
func New(cfg *config.Config, cache *redis.Cache, log *logger.Logger) *Client {
	httpClient := httputil.New(log, cfg.Vendor.Timeout).
		WithRateLimit(cfg.Vendor.RequestsPerSec)

	return &Client{
		http:    httpClient,
		cache:   cache,
		baseURL: cfg.Vendor.BaseURL,
		apiKey:  cfg.Vendor.APIKey,
		logger:  log,
	}
}

// GetQuote fetches the current quote for a symbol. Recent quotes are served
// from cache to keep the pipeline's per-ticker round-trips cheap.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*contracts.Quote, error) {
	if c.cache != nil {
		var cached contracts.Quote
		if found, _ := c.cache.Get(ctx, redis.QuoteKey(symbol), &cached); found {
			return &cached, nil
		}
	}

	var resp quoteResponse
	endpoint := fmt.Sprintf("%s/quotes/%s?token=%s", c.baseURL, url.PathEscape(symbol), c.apiKey)
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		c.logger.WithError(err).WithField("symbol", symbol).Warn("Quote fetch failed")
		return nil, contracts.ErrNoQuote
	}

	if resp.Last <= 0 {
		return nil, contracts.ErrNoQuote
	}

	quote := &contracts.Quote{
		Symbol:        symbol,
		CurrentPrice:  resp.Last,
		Volatility30D: resp.Volatility30D,
		PutCallRatio:  resp.PutCallRatio,
		UpdatedAt:     time.Unix(resp.UpdatedUnix, 0),
	}

	// The vendor sometimes omits the 20-day average; the current session
	// volume stands in so liquidity gates still have a signal to work with.
	if resp.VolumeAvg20D != nil {
		quote.VolumeAvg20D = *resp.VolumeAvg20D
	} else {
		quote.VolumeAvg20D = resp.Volume
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, redis.QuoteKey(symbol), quote, redis.TTLQuote)
	}

	return quote, nil
}

// GetOptionExpirations fetches available expiration dates for a symbol
func (c *Client) GetOptionExpirations(ctx context.Context, symbol string) ([]time.Time, error) {
	var resp expirationsResponse
	endpoint := fmt.Sprintf("%s/options/expirations/%s?token=%s", c.baseURL, url.PathEscape(symbol), c.apiKey)
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		c.logger.WithError(err).WithField("symbol", symbol).Warn("Expirations fetch failed")
		return nil, contracts.ErrNoExpirations
	}

	expirations := make([]time.Time, 0, len(resp.Expirations))
	for _, raw := range resp.Expirations {
		exp, err := time.Parse(expiryDateLayout, raw)
		if err != nil {
			c.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"value":  raw,
			}).Warn("Skipping malformed expiration date")
			continue
		}
		expirations = append(expirations, exp)
	}

	if len(expirations) == 0 {
		return nil, contracts.ErrNoExpirations
	}

	return expirations, nil
}

// GetOptionChain fetches the full chain for a symbol and expiration.
// Malformed contracts are rejected individually and logged; the rest of the
// chain goes through.
func (c *Client) GetOptionChain(ctx context.Context, symbol string, expiration time.Time) ([]contracts.OptionContract, error) {
	var resp chainResponse
	endpoint := fmt.Sprintf("%s/options/chain/%s?expiration=%s&token=%s",
		c.baseURL, url.PathEscape(symbol), expiration.Format(expiryDateLayout), c.apiKey)
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		c.logger.WithError(err).WithField("symbol", symbol).Warn("Chain fetch failed")
		return nil, contracts.ErrNoChain
	}

	chain := make([]contracts.OptionContract, 0, len(resp.Contracts))
	for _, raw := range resp.Contracts {
		contract, err := c.parseContract(symbol, raw)
		if err != nil {
			c.logger.WithFields(map[string]interface{}{
				"symbol":   symbol,
				"contract": raw.ContractSymbol,
				"error":    err.Error(),
			}).Warn("Rejecting malformed contract")
			continue
		}
		chain = append(chain, contract)
	}

	return chain, nil
}

// parseContract validates and converts a vendor contract record
func (c *Client) parseContract(symbol string, raw chainContract) (contracts.OptionContract, error) {
	if raw.Strike <= 0 {
		return contracts.OptionContract{}, fmt.Errorf("non-positive strike %.2f", raw.Strike)
	}

	expiry, err := time.Parse(expiryDateLayout, raw.Expiry)
	if err != nil {
		return contracts.OptionContract{}, fmt.Errorf("malformed expiry %q", raw.Expiry)
	}

	var optType contracts.OptionType
	switch raw.Side {
	case "put":
		optType = contracts.OptionPut
	case "call":
		optType = contracts.OptionCall
	default:
		return contracts.OptionContract{}, fmt.Errorf("unknown option side %q", raw.Side)
	}

	return contracts.OptionContract{
		ContractSymbol: raw.ContractSymbol,
		Underlying:     symbol,
		Expiry:         expiry,
		Strike:         raw.Strike,
		Type:           optType,
		Bid:            raw.Bid,
		Ask:            raw.Ask,
		Last:           raw.Last,
		Delta:          raw.Delta,
		Gamma:          raw.Gamma,
		Theta:          raw.Theta,
		Vega:           raw.Vega,
		ImpliedVol:     raw.IV,
		OpenInterest:   raw.OpenInterest,
		Volume:         raw.Volume,
	}, nil
}
