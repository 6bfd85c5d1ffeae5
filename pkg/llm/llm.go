// Package llm wraps the Anthropic API behind the single text-in/text-out
// generation operation the SQL synthesizer needs.
package llm

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Generator produces response text for a prompt. Implementations may fail
// transiently and make no guarantee about output shape; callers own retry
// and validation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config configures the Anthropic-backed Generator.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
	// RateLimit caps requests per second across all callers sharing this
	// client. Zero disables limiting.
	RateLimit float64
}

type anthropicGenerator struct {
	client    sdk.Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
}

// NewAnthropic creates a Generator backed by the Anthropic messages API.
func NewAnthropic(cfg Config) Generator {
	g := &anthropicGenerator{
		client:    sdk.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
	if g.maxTokens <= 0 {
		g.maxTokens = 2048
	}
	if cfg.RateLimit > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return g
}

func (g *anthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "llm: rate limit wait")
		}
	}

	msg, err := g.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(g.model),
		MaxTokens: g.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: create message")
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	zap.L().Debug("generation complete",
		zap.String("model", string(msg.Model)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)
	return sb.String(), nil
}
