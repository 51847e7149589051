// Package oracle answers free-form questions through an external text
// generator. Every failure collapses into a fixed fallback answer.
package oracle

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-aletheia/internal/config"
)

// Silent is the answer given whenever the generator cannot produce one.
const Silent = "The oracle is silent."

const defaultTimeout = 15 * time.Second

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Oracle struct {
	generator Generator
	timeout   time.Duration
}

type Option func(*Oracle)

// WithTimeout bounds a single Respond call.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Oracle) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// New returns an Oracle backed by generator. A nil generator is allowed and
// always yields Silent.
func New(generator Generator, options ...Option) *Oracle {
	o := &Oracle{
		generator: generator,
		timeout:   defaultTimeout,
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// NewFromConfig wires an OpenAI generator when an API key is configured.
func NewFromConfig(cfg config.OracleConfig) *Oracle {
	opts := []Option{WithTimeout(cfg.GetOracleTimeout())}
	gen := NewOpenAI(cfg.GetOracleAPIKey(), cfg.GetOracleBaseURL(), cfg.GetOracleModel())
	if gen == nil {
		log.Info().Msg("No oracle API key configured, the oracle will stay silent")
		return New(nil, opts...)
	}
	log.Info().Str("model", gen.model).Msg("Oracle generator configured")
	return New(gen, opts...)
}

// Respond never fails.
func (o *Oracle) Respond(ctx context.Context, prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if o == nil || o.generator == nil || prompt == "" {
		return Silent
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	answer, err := o.generator.Generate(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("Oracle generator failed")
		return Silent
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Silent
	}
	return answer
}
