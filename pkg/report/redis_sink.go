package report

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/joripage/lob-engine/pkg/clock"
	"github.com/joripage/lob-engine/pkg/logging"
)

// RedisPublisher is the part of *redis.Client the sink needs.
type RedisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink publishes fills as JSON on a Redis pub/sub channel.
type RedisSink struct {
	*asyncSink
	client  RedisPublisher
	channel string
}

func NewRedisSink(client RedisPublisher, channel string, cfg AsyncConfig, clk clock.Clock, logger *logging.Logger) *RedisSink {
	s := &RedisSink{client: client, channel: channel}
	if logger == nil {
		logger = logging.NewNop()
	}
	s.asyncSink = newAsyncSink(cfg, clk, logger.Named("redis_sink"), s.publish)
	return s
}

func (s *RedisSink) publish(ctx context.Context, f Fill) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel, b).Err()
}
