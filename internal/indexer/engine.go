// Package indexer drives a single indexing run: tokens from the input are
// streamed into the Robin Hood word table, and the finished table is sorted
// and written out as the report.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Adithya-Monish-Kumar-K/wordindex/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/wordindex/internal/indexer/report"
	"github.com/Adithya-Monish-Kumar-K/wordindex/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/wordindex/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/tracing"
)

// Stats describes the state of the word table.
type Stats struct {
	Tokens           int
	Words            int
	Capacity         int
	Grows            int
	MaxProbeDistance int
}

// Engine indexes one input into a Robin Hood word table and exports the
// sorted report. It is not safe for concurrent use.
type Engine struct {
	table   *index.Table
	tok     *tokenizer.Tokenizer
	cfg     config.IndexerConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
	tokens  int
}

// NewEngine creates an engine with an empty table. m may be nil.
func NewEngine(cfg config.IndexerConfig, m *metrics.Metrics) (*Engine, error) {
	e := &Engine{
		tok:     tokenizer.New(cfg.MaxWordLength),
		cfg:     cfg,
		logger:  logger.WithComponent("indexer"),
		metrics: m,
	}
	table, err := index.NewTable(cfg.InitialCapacity, index.WithGrowHook(e.onGrow))
	if err != nil {
		return nil, fmt.Errorf("creating word table: %w", err)
	}
	e.table = table
	return e, nil
}

func (e *Engine) onGrow(oldCapacity, newCapacity int) {
	e.logger.Debug("word table grown",
		"old_capacity", oldCapacity,
		"new_capacity", newCapacity,
		"words", e.table.Len(),
	)
	if e.metrics != nil {
		e.metrics.TableGrowsTotal.Inc()
	}
}

// IndexFile indexes the file at path.
func (e *Engine) IndexFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return apperrors.Newf(apperrors.ErrInputOpen, apperrors.ExitFailure, "%s: %v", path, err)
	}
	defer f.Close()
	return e.IndexReader(ctx, f)
}

// IndexReader streams every word of r into the table.
func (e *Engine) IndexReader(ctx context.Context, r io.Reader) error {
	_, span := tracing.StartChildSpan(ctx, "tokenize")
	n, err := e.tok.Scan(r, func(tok tokenizer.Token) {
		e.table.Insert(tok.Term, tok.Line)
	})
	e.tokens += n
	span.SetAttr("tokens", n)
	span.SetAttr("words", e.table.Len())
	e.observe("tokenize", span)
	if e.metrics != nil {
		e.metrics.TokensTotal.Add(float64(n))
	}
	if err != nil {
		return fmt.Errorf("indexing input: %w", err)
	}
	e.logger.Info("input indexed",
		"tokens", n,
		"words", e.table.Len(),
		"capacity", e.table.Capacity(),
	)
	return nil
}

// CheckOutput reports whether a report can be written to path without
// indexing anything. A directory or an unresolvable symlink is an
// output-open failure.
func (e *Engine) CheckOutput(path string) error {
	if _, err := report.ResolveTarget(path); err != nil {
		return apperrors.Newf(apperrors.ErrOutputOpen, apperrors.ExitFailure, "%s: %v", path, err)
	}
	return nil
}

// Export writes the sorted report to path and returns the entries written.
// Nothing is written to path unless the whole report was produced.
func (e *Engine) Export(ctx context.Context, path string) ([]index.TermEntry, error) {
	_, span := tracing.StartChildSpan(ctx, "export")
	defer e.observe("export", span)

	entries := e.table.Snapshot()
	span.SetAttr("words", len(entries))
	if err := report.WriteFile(path, entries); err != nil {
		if errors.Is(err, report.ErrCreate) {
			return nil, apperrors.Newf(apperrors.ErrOutputOpen, apperrors.ExitFailure, "%s: %v", path, err)
		}
		return nil, fmt.Errorf("exporting report: %w", err)
	}
	e.logger.Info("report written", "path", path, "words", len(entries))
	return entries, nil
}

// Lookup normalises word the way the tokenizer does and returns its lines.
func (e *Engine) Lookup(word string) ([]int, bool) {
	key := []byte(word)
	for i, c := range key {
		if c >= 'A' && c <= 'Z' {
			key[i] = c + ('a' - 'A')
		}
	}
	if limit := e.tok.MaxWordLength(); len(key) > limit {
		key = key[:limit]
	}
	lines, ok := e.table.Find(string(key))
	if !ok {
		return nil, false
	}
	return []int(lines), true
}

// WordCount returns the number of distinct words indexed so far.
func (e *Engine) WordCount() int {
	return e.table.Len()
}

// Stats returns the token count and the current shape of the word table.
func (e *Engine) Stats() Stats {
	return Stats{
		Tokens:           e.tokens,
		Words:            e.table.Len(),
		Capacity:         e.table.Capacity(),
		Grows:            e.table.Grows(),
		MaxProbeDistance: e.table.MaxProbeDistance(),
	}
}

// RecordMetrics copies the final table state into the gauges.
func (e *Engine) RecordMetrics() {
	if e.metrics == nil {
		return
	}
	s := e.Stats()
	e.metrics.DistinctWords.Set(float64(s.Words))
	e.metrics.TableCapacity.Set(float64(s.Capacity))
	e.metrics.MaxProbeDistance.Set(float64(s.MaxProbeDistance))
}

func (e *Engine) observe(phase string, span *tracing.Span) {
	d := span.End()
	if e.metrics != nil {
		e.metrics.PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
	}
}
