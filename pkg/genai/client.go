// Package genai enriches extracted claim text via the Anthropic API. The
// pipeline treats its output as an opaque annotated record; prompt and
// response quality are not this package's contract.
package genai

import (
	"context"
	"encoding/json"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/claims-cli/internal/resilience"
)

// Fields is the structured claim data the model is asked to produce.
// Every key is optional; amount and confidence stay loosely typed because
// models emit them as strings as often as numbers.
type Fields struct {
	ClaimID           string `json:"claim_id,omitempty"`
	IncidentDate      string `json:"incident_date,omitempty"`
	ClaimAmount       any    `json:"claim_amount,omitempty"`
	DamageDescription string `json:"damage_description,omitempty"`
	Summary           string `json:"summary,omitempty"`
	Confidence        any    `json:"confidence,omitempty"`
}

// Status labels an enrichment outcome.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome is the explicit result variant of an enrichment call: Ok carries
// fields, Skipped carries a reason, Failed carries a cause. No control flow
// by exception — callers switch on Status.
type Outcome struct {
	Status Status
	Fields Fields
	Reason string
	Err    error
}

// Ok builds a successful outcome.
func Ok(f Fields) Outcome { return Outcome{Status: StatusOK, Fields: f} }

// Skipped builds an intentionally-skipped outcome.
func Skipped(reason string) Outcome { return Outcome{Status: StatusSkipped, Reason: reason} }

// Failed builds a failed outcome.
func Failed(err error) Outcome { return Outcome{Status: StatusFailed, Err: err} }

// Client defines the enrichment operation used by the pipeline.
type Client interface {
	Enrich(ctx context.Context, doc string) Outcome
}

// Config holds client settings.
type Config struct {
	Key       string
	Model     string
	MaxTokens int64
	Prompt    string
	RPS       float64
}

// sdkClient implements Client using the official anthropic-sdk-go.
type sdkClient struct {
	client    sdk.Client
	model     string
	maxTokens int64
	prompt    string
	limiter   *rate.Limiter
	enabled   bool
}

// NewClient creates an enrichment client. With no API key the client is
// created disabled and every Enrich call reports Skipped, so the pipeline
// degrades to its regex fallback instead of erroring.
func NewClient(cfg Config) Client {
	c := &sdkClient{
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		prompt:    cfg.Prompt,
		enabled:   cfg.Key != "",
	}
	if c.maxTokens <= 0 {
		c.maxTokens = 1024
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = 2.0
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	if c.enabled {
		c.client = sdk.NewClient(option.WithAPIKey(cfg.Key))
	}
	return c
}

func (c *sdkClient) Enrich(ctx context.Context, doc string) Outcome {
	if !c.enabled {
		return Skipped("no API key configured")
	}
	if strings.TrimSpace(doc) == "" {
		return Skipped("empty document text")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Failed(eris.Wrap(err, "genai: rate limiter"))
	}

	prompt := c.prompt + "\n\nExtracted text:\n" + doc

	msg, err := resilience.DoVal(ctx, resilience.DefaultRetryConfig(), func(ctx context.Context) (*sdk.Message, error) {
		m, callErr := c.client.Messages.New(ctx, sdk.MessageNewParams{
			Model:     sdk.Model(c.model),
			MaxTokens: c.maxTokens,
			Messages: []sdk.MessageParam{
				sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
			},
		})
		if callErr != nil {
			return nil, eris.Wrap(callErr, "genai: create message")
		}
		return m, nil
	})
	if err != nil {
		return Failed(err)
	}

	var out strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}

	fields, ok := parseFields(out.String())
	if !ok {
		// Model replied with prose instead of JSON. Keep it as the summary
		// rather than treating the call as failed.
		zap.L().Debug("genai: non-JSON reply, keeping as summary")
		return Ok(Fields{Summary: strings.TrimSpace(out.String())})
	}
	return Ok(fields)
}

// parseFields tolerantly pulls a Fields JSON object out of model output,
// which may be wrapped in prose or code fences.
func parseFields(s string) (Fields, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return Fields{}, false
	}

	var f Fields
	if err := json.Unmarshal([]byte(s[start:end+1]), &f); err != nil {
		return Fields{}, false
	}
	return f, true
}
