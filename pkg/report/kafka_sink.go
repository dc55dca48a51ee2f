package report

import (
	"context"
	"strconv"

	"github.com/joripage/lob-engine/pkg/clock"
	"github.com/joripage/lob-engine/pkg/logging"
)

// JSONProducer is satisfied by *kafkawrapper.Producer.
type JSONProducer interface {
	PublishJSON(ctx context.Context, topic string, key string, v any, headers map[string]string) error
}

// KafkaSink writes fills to a Kafka topic keyed by order id.
type KafkaSink struct {
	*asyncSink
	producer JSONProducer
	topic    string
}

func NewKafkaSink(producer JSONProducer, topic string, cfg AsyncConfig, clk clock.Clock, logger *logging.Logger) *KafkaSink {
	s := &KafkaSink{producer: producer, topic: topic}
	if logger == nil {
		logger = logging.NewNop()
	}
	s.asyncSink = newAsyncSink(cfg, clk, logger.Named("kafka_sink"), s.publish)
	return s
}

func (s *KafkaSink) publish(ctx context.Context, f Fill) error {
	headers := map[string]string{"symbol": f.Symbol}
	return s.producer.PublishJSON(ctx, s.topic, strconv.FormatUint(f.OrderID, 10), f, headers)
}
