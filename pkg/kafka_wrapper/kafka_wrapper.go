// Package kafkawrapper publishes messages to Kafka.
package kafkawrapper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

var ErrProducerNotInitialized = errors.New("producer not initialized")

type ProducerConfig struct {
	Brokers      []string      `yaml:"brokers"`
	BatchSize    int           `yaml:"batch_size"`
	BatchBytes   int64         `yaml:"batch_bytes"`
	BatchTimeout time.Duration `yaml:"batch_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// Acks is one of none, one or all. Empty means one.
	Acks     string         `yaml:"acks"`
	Async    bool           `yaml:"async"`
	Balancer kafka.Balancer `yaml:"-"`
}

func (cfg *ProducerConfig) setDefaults() {
	if cfg.Balancer == nil {
		cfg.Balancer = &kafka.Hash{}
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchBytes == 0 {
		cfg.BatchBytes = 1 << 20
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
}

func parseAcks(s string) (kafka.RequiredAcks, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "one", "1":
		return kafka.RequireOne, nil
	case "none", "0":
		return kafka.RequireNone, nil
	case "all", "-1":
		return kafka.RequireAll, nil
	default:
		return 0, fmt.Errorf("unknown acks %q", s)
	}
}

// MessageWriter is the part of *kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	w MessageWriter
}

func NewProducer(cfg ProducerConfig) (*Producer, error) {
	cfg.setDefaults()
	acks, err := parseAcks(cfg.Acks)
	if err != nil {
		return nil, err
	}
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}

	return NewProducerWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               cfg.Balancer,
		BatchSize:              cfg.BatchSize,
		BatchBytes:             cfg.BatchBytes,
		BatchTimeout:           cfg.BatchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
		RequiredAcks:           acks,
		Async:                  cfg.Async,
	}), nil
}

// NewProducerWithWriter wraps an existing writer.
func NewProducerWithWriter(w MessageWriter) *Producer {
	return &Producer{w: w}
}

func (p *Producer) Publish(ctx context.Context, topic string, key []byte, value []byte, headers map[string]string) error {
	if p == nil || p.w == nil {
		return ErrProducerNotInitialized
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Topic:   topic,
		Key:     key,
		Value:   value,
		Headers: mapToHeaders(headers),
		Time:    time.Now(),
	})
}

// PublishJSON encodes v as the message value.
func (p *Producer) PublishJSON(ctx context.Context, topic string, key string, v any, headers map[string]string) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", topic, err)
	}
	return p.Publish(ctx, topic, []byte(key), b, headers)
}

// Close flushes pending messages.
func (p *Producer) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}

func mapToHeaders(m map[string]string) []kafka.Header {
	if len(m) == 0 {
		return nil
	}
	hs := make([]kafka.Header, 0, len(m))
	for k, v := range m {
		hs = append(hs, kafka.Header{Key: k, Value: []byte(v)})
	}
	return hs
}
