// Package publish hands a finished index to the optional external sinks
// (Redis, PostgreSQL, Kafka). The report file is always the primary output;
// sinks run only after it has been written and never alter it.
package publish

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/wordindex/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/wordindex/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/resilience"
)

// Summary describes a completed run.
type Summary struct {
	RunID      string    `json:"run_id"`
	Input      string    `json:"input"`
	Output     string    `json:"output"`
	Words      int       `json:"words"`
	Tokens     int       `json:"tokens"`
	Capacity   int       `json:"table_capacity"`
	Grows      int       `json:"table_grows"`
	ElapsedMS  float64   `json:"elapsed_ms"`
	FinishedAt time.Time `json:"finished_at"`
}

// Sink receives the finished index.
type Sink interface {
	Name() string
	Publish(ctx context.Context, sum Summary, entries []index.TermEntry) error
}

// Publisher fans a finished index out to every configured sink.
type Publisher struct {
	sinks   []Sink
	cfg     config.PublishConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Publisher. m may be nil.
func New(cfg config.PublishConfig, m *metrics.Metrics, sinks ...Sink) *Publisher {
	return &Publisher{
		sinks:   sinks,
		cfg:     cfg,
		metrics: m,
		logger:  logger.WithComponent("publish"),
	}
}

// Len returns the number of sinks.
func (p *Publisher) Len() int {
	return len(p.sinks)
}

// Publish sends the index to all sinks concurrently. Every sink is attempted
// even if another fails; all failures are reported together.
func (p *Publisher) Publish(ctx context.Context, sum Summary, entries []index.TermEntry) error {
	if len(p.sinks) == 0 {
		return nil
	}
	retry := resilience.RetryConfig{
		MaxAttempts:  p.cfg.MaxAttempts,
		InitialDelay: p.cfg.InitialDelay,
	}
	errs := make([]error, len(p.sinks))
	var g errgroup.Group
	for i, sink := range p.sinks {
		i, sink := i, sink
		g.Go(func() error {
			start := time.Now()
			err := resilience.Retry(ctx, sink.Name(), retry, func(ctx context.Context) error {
				return resilience.WithTimeout(ctx, p.cfg.Timeout, sink.Name(), func(ctx context.Context) error {
					return sink.Publish(ctx, sum, entries)
				})
			})
			status := "ok"
			if err != nil {
				status = "error"
				errs[i] = err
				p.logger.Error("sink publish failed",
					"sink", sink.Name(),
					"permanent", resilience.IsPermanent(err),
					"error", err,
				)
			} else {
				p.logger.Info("index published", "sink", sink.Name(), "words", len(entries), "duration", time.Since(start))
			}
			if p.metrics != nil {
				p.metrics.PublishTotal.WithLabelValues(sink.Name(), status).Inc()
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := errors.Join(errs...); err != nil {
		return apperrors.Newf(apperrors.ErrPublish, apperrors.ExitSink, "%v", err)
	}
	return nil
}

// FormatLines renders line numbers the way the report does: "1, 2, 3".
func FormatLines(lines []int) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(line))
	}
	return b.String()
}
