package publish

import (
	"context"

	"github.com/Adithya-Monish-Kumar-K/wordindex/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/kafka"
)

type eventPublisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// KafkaSink announces a finished report. The event carries the run summary
// keyed by output path, not the word list.
type KafkaSink struct {
	producer eventPublisher
}

func NewKafkaSink(producer eventPublisher) *KafkaSink {
	return &KafkaSink{producer: producer}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Publish(ctx context.Context, sum Summary, _ []index.TermEntry) error {
	return s.producer.Publish(ctx, kafka.Event{
		Key:   sum.Output,
		Value: sum,
	})
}
