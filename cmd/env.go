package main

import (
	"context"

	"github.com/sells-group/member-search/internal/normalize"
	"github.com/sells-group/member-search/internal/processor"
	"github.com/sells-group/member-search/internal/store"
	"github.com/sells-group/member-search/internal/text2sql"
	"github.com/sells-group/member-search/pkg/llm"
)

// env bundles the wired pipeline components a command needs.
type env struct {
	Store     store.Store
	Processor *processor.Processor
}

func (e *env) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv opens the store and wires the full query pipeline from config.
func initEnv(ctx context.Context) (*env, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	matcher := normalize.NewMatcher(cfg.Normalizer.SimilarityThreshold, cfg.Normalizer.MaxCandidates)
	normalizer := normalize.NewQueryNormalizer(st, normalize.DefaultAbbreviations(), matcher)

	gen := llm.NewAnthropic(llm.Config{
		APIKey:    cfg.Anthropic.Key,
		Model:     cfg.Anthropic.Model,
		MaxTokens: cfg.Anthropic.MaxTokens,
		RateLimit: cfg.Anthropic.RateLimit,
	})
	synthesizer := text2sql.NewSynthesizer(gen, text2sql.SynthesizerConfig{
		Dialect:    store.Dialect(cfg.Store.Driver),
		MaxRetries: cfg.Synthesis.MaxRetries,
		RetryDelay: cfg.Synthesis.RetryDelay,
	})

	proc := processor.New(
		normalizer,
		synthesizer,
		text2sql.NewValidator(st),
		text2sql.NewExecutor(st),
		processor.NewQueryLogger(st),
	)

	return &env{Store: st, Processor: proc}, nil
}
