package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/resilience"
)

func TestPublishUnencodableValueIsPermanent(t *testing.T) {
	p := NewProducer(config.KafkaConfig{Brokers: []string{"127.0.0.1:1"}, Topic: "index.complete"})
	t.Cleanup(func() { p.Close() })

	err := p.Publish(context.Background(), Event{Key: "k", Value: make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshaling event value")
	assert.True(t, resilience.IsPermanent(err))
}

func TestPingWithoutBrokers(t *testing.T) {
	p := NewProducer(config.KafkaConfig{Topic: "index.complete"})
	t.Cleanup(func() { p.Close() })

	err := p.Ping(context.Background())
	assert.EqualError(t, err, "no kafka brokers configured")
}
