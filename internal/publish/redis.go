package publish

import (
	"context"
	"path/filepath"
	"time"

	"github.com/Adithya-Monish-Kumar-K/wordindex/internal/indexer/index"
)

type hashStore interface {
	ReplaceHash(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error
}

// RedisSink stores the index as one hash per report, word -> "1, 2, 3".
type RedisSink struct {
	store  hashStore
	prefix string
	ttl    time.Duration
}

func NewRedisSink(store hashStore, prefix string, ttl time.Duration) *RedisSink {
	return &RedisSink{store: store, prefix: prefix, ttl: ttl}
}

func (s *RedisSink) Name() string { return "redis" }

// Key returns the hash key used for a report written to output.
func (s *RedisSink) Key(output string) string {
	return s.prefix + ":" + filepath.Base(output)
}

func (s *RedisSink) Publish(ctx context.Context, sum Summary, entries []index.TermEntry) error {
	fields := make(map[string]string, len(entries))
	for _, entry := range entries {
		fields[entry.Term] = FormatLines(entry.Lines)
	}
	return s.store.ReplaceHash(ctx, s.Key(sum.Output), fields, s.ttl)
}
