package qualitative

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
	"github.com/wheelhouse-quant/wheelhouse/pkg/config"
	"github.com/wheelhouse-quant/wheelhouse/pkg/logger"
)

const systemPrompt = `You are an equity analyst scoring cash-secured put
candidates. Respond with a single JSON object:
{"qualitative_score": <0.0-1.0>, "thesis": "<one sentence>"}
Score 1.0 means an excellent underlying to be assigned shares of at the
current price; 0.0 means avoid entirely.`

const requestTimeout = 20 * time.Second

// Analyzer scores a ticker qualitatively through an OpenAI-compatible chat
// endpoint. Disabled mode and every failure path return the fixed neutral
// payload; Analyze never errors so a flaky LLM cannot stall a run.
type Analyzer struct {
	client  *openai.Client
	model   string
	enabled bool
	logger  *logger.Logger
}

// New creates a new qualitative analyzer
func New(cfg *config.Config, log *logger.Logger) *Analyzer {
	if !cfg.OpenAI.Enabled {
		return &Analyzer{enabled: false, logger: log}
	}

	ocfg := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		ocfg.BaseURL = cfg.OpenAI.BaseURL
	}

	return &Analyzer{
		client:  openai.NewClientWithConfig(ocfg),
		model:   cfg.OpenAI.Model,
		enabled: true,
		logger:  log,
	}
}

// Analyze returns the qualitative score for a ticker
func (a *Analyzer) Analyze(ctx context.Context, symbol string, price float64, sector string) contracts.QualitativeResult {
	if !a.enabled {
		return contracts.NeutralQualitative()
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	userPrompt := fmt.Sprintf("Ticker: %s\nCurrent price: %.2f\nSector: %s", symbol, price, sector)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		a.logger.WithError(err).WithField("symbol", symbol).Warn("Qualitative analysis failed, using neutral")
		return contracts.NeutralQualitative()
	}

	if len(resp.Choices) == 0 {
		return contracts.NeutralQualitative()
	}

	result, err := parseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		a.logger.WithError(err).WithField("symbol", symbol).Warn("Qualitative response unparseable, using neutral")
		return contracts.NeutralQualitative()
	}

	return result
}

// parseResponse extracts the JSON payload from the model reply, tolerating
// surrounding prose and markdown fences
func parseResponse(raw string) (contracts.QualitativeResult, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return contracts.QualitativeResult{}, fmt.Errorf("no JSON object in response")
	}

	var result contracts.QualitativeResult
	if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err != nil {
		return contracts.QualitativeResult{}, fmt.Errorf("decode response: %w", err)
	}

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 1 {
		result.Score = 1
	}

	return result, nil
}
