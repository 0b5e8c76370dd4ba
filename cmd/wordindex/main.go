// Command wordindex builds a word occurrence index of a text file.
//
//	wordindex [-config file] <input_file> <output_file>
//
// Every distinct lower-cased word of the input is listed in byte order with
// the ascending line numbers it appears on. The report is written
// atomically; on success the distinct word count and elapsed time are
// printed to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/wordindex/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/wordindex/internal/publish"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/wordindex/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/tracing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wordindex", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to YAML config file")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: wordindex [-config file] <input_file> <output_file>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return apperrors.ExitFailure
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return apperrors.ExitFailure
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to load config: %v\n", err)
		return apperrors.ExitFailure
	}
	logger.SetupWriter(stderr, cfg.Logging.Level, cfg.Logging.Format)

	if err := execute(ctx, cfg, fs.Arg(0), fs.Arg(1), stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return apperrors.ExitCode(err)
	}
	return apperrors.ExitOK
}

func execute(ctx context.Context, cfg *config.Config, input, output string, stdout io.Writer) error {
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	log := logger.FromContext(ctx)
	ctx, root := tracing.StartSpan(ctx, "wordindex", runID)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	checker := health.NewChecker()
	sinks, err := publish.FromConfig(cfg, checker)
	if err != nil {
		return apperrors.Newf(apperrors.ErrInvalidConfig, apperrors.ExitFailure, "%v", err)
	}
	defer func() {
		if err := sinks.Close(); err != nil {
			log.Warn("closing sinks", "error", err)
		}
	}()
	if checker.Len() > 0 {
		pctx, cancel := context.WithTimeout(ctx, cfg.Publish.Timeout)
		report := checker.Run(pctx)
		cancel()
		if err := report.Err(); err != nil {
			return apperrors.Newf(apperrors.ErrPreflight, apperrors.ExitSink, "%v", err)
		}
	}

	start := time.Now()
	engine, err := indexer.NewEngine(cfg.Indexer, m)
	if err != nil {
		return apperrors.Newf(apperrors.ErrInvalidConfig, apperrors.ExitFailure, "%v", err)
	}
	if err := engine.CheckOutput(output); err != nil {
		return err
	}
	if err := engine.IndexFile(ctx, input); err != nil {
		return err
	}
	entries, err := engine.Export(ctx, output)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Fprintf(stdout, "Index generated: %s\n", output)
	fmt.Fprintf(stdout, "Words: %d | Time: %.6f sec\n", engine.WordCount(), elapsed.Seconds())

	engine.RecordMetrics()
	stats := engine.Stats()
	log.Info("run complete",
		"input", input,
		"output", output,
		"words", stats.Words,
		"tokens", stats.Tokens,
		"capacity", stats.Capacity,
		"grows", stats.Grows,
		"max_probe_distance", stats.MaxProbeDistance,
		"elapsed", elapsed,
	)

	publisher := publish.New(cfg.Publish, m, sinks.List...)
	pubCtx, span := tracing.StartChildSpan(ctx, "publish")
	publishErr := publisher.Publish(pubCtx, publish.Summary{
		RunID:      runID,
		Input:      input,
		Output:     output,
		Words:      stats.Words,
		Tokens:     stats.Tokens,
		Capacity:   stats.Capacity,
		Grows:      stats.Grows,
		ElapsedMS:  float64(elapsed.Microseconds()) / 1000,
		FinishedAt: time.Now().UTC(),
	}, entries)
	span.SetAttr("sinks", publisher.Len())
	if d := span.End(); m != nil {
		m.PhaseDuration.WithLabelValues("publish").Observe(d.Seconds())
	}

	root.SetAttr("words", stats.Words)
	root.End()
	if cfg.Tracing.Enabled {
		root.Log(log)
	}
	if m != nil {
		if err := m.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			log.Error("writing metrics textfile", "path", cfg.Metrics.TextfilePath, "error", err)
		}
	}
	return publishErr
}
