// Package oracle holds the Model Oracle: the opaque text scorer the essay
// evaluator calls once per rubric criterion.
package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/essaydesk/internal/server/config"
	"github.com/dmitrijs2005/essaydesk/internal/server/metrics"
)

// Oracle scores a text prompt. Implementations return a confidence in [0, 1]
// or an error; latency is theirs to manage, callers bound it with ctx.
type Oracle interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Func adapts a plain function to Oracle.
type Func func(ctx context.Context, text string) (float64, error)

func (f Func) Score(ctx context.Context, text string) (float64, error) {
	return f(ctx, text)
}

// Static always returns the same score. It backs demos and local runs
// without a model.
type Static struct {
	Value float64
}

func (s Static) Score(ctx context.Context, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.Value, nil
}

// instrumented reports every call to Prometheus.
type instrumented struct {
	next    Oracle
	backend string
	metrics *metrics.Metrics
}

// Instrument wraps o so each call is counted and timed under backend.
func Instrument(o Oracle, backend string, m *metrics.Metrics) Oracle {
	return &instrumented{next: o, backend: backend, metrics: m}
}

func (i *instrumented) Score(ctx context.Context, text string) (float64, error) {
	start := time.Now()
	v, err := i.next.Score(ctx, text)
	i.metrics.ObserveOracle(i.backend, time.Since(start), err)
	return v, err
}

// New builds the backend named by cfg.OracleBackend, wrapped with metrics.
func New(cfg *config.Config, m *metrics.Metrics) (Oracle, error) {
	var o Oracle

	switch cfg.OracleBackend {
	case config.OracleStatic:
		o = Static{Value: cfg.OracleStaticScore}
	case config.OracleHTTP:
		if cfg.OracleURL == "" {
			return nil, fmt.Errorf("http oracle requires an endpoint URL")
		}
		o = NewHTTPOracle(cfg.OracleURL, cfg.OracleAPIKey)
	case config.OracleOpenAI:
		if cfg.OracleAPIKey == "" {
			return nil, fmt.Errorf("openai oracle requires an API key")
		}
		o = NewOpenAIOracle(cfg.OracleAPIKey, cfg.OracleModel, cfg.OracleURL)
	default:
		return nil, fmt.Errorf("unknown oracle backend %q", cfg.OracleBackend)
	}

	return Instrument(o, cfg.OracleBackend, m), nil
}
