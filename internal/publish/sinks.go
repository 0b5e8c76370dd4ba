package publish

import (
	"errors"
	"fmt"
	"io"

	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/redis"
)

// Sinks holds the sinks enabled by the configuration and the clients
// backing them.
type Sinks struct {
	List    []Sink
	closers []io.Closer
}

// Close releases every client.
func (s *Sinks) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FromConfig builds the enabled sinks and registers a reachability check for
// each of them on checker.
func FromConfig(cfg *config.Config, checker *health.Checker) (*Sinks, error) {
	s := &Sinks{}
	if cfg.Redis.Enabled {
		client := redis.NewClient(cfg.Redis)
		s.closers = append(s.closers, client)
		checker.Register("redis", client.Ping)
		s.List = append(s.List, NewRedisSink(client, cfg.Redis.KeyPrefix, cfg.Redis.TTL))
	}
	if cfg.Postgres.Enabled {
		client, err := postgres.New(cfg.Postgres)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("creating postgres sink: %w", err)
		}
		s.closers = append(s.closers, client)
		checker.Register("postgres", client.Ping)
		s.List = append(s.List, NewPostgresSink(client, cfg.Postgres.Table))
	}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		s.closers = append(s.closers, producer)
		checker.Register("kafka", producer.Ping)
		s.List = append(s.List, NewKafkaSink(producer))
	}
	return s, nil
}
