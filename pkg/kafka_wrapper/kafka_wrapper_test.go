package kafkawrapper

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducerConfigDefaults(t *testing.T) {
	cfg := ProducerConfig{Brokers: []string{"localhost:9092"}}
	cfg.setDefaults()

	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, int64(1<<20), cfg.BatchBytes)
	assert.Equal(t, 50*time.Millisecond, cfg.BatchTimeout)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.IsType(t, &kafka.Hash{}, cfg.Balancer)
}

func TestParseAcks(t *testing.T) {
	cases := map[string]kafka.RequiredAcks{
		"":     kafka.RequireOne,
		"one":  kafka.RequireOne,
		"NONE": kafka.RequireNone,
		"all":  kafka.RequireAll,
		"-1":   kafka.RequireAll,
	}
	for in, want := range cases {
		got, err := parseAcks(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, err := parseAcks("most")
	assert.Error(t, err)
}

func TestNewProducer_Validates(t *testing.T) {
	_, err := NewProducer(ProducerConfig{})
	assert.Error(t, err, "no brokers")

	_, err = NewProducer(ProducerConfig{Brokers: []string{"b:9092"}, Acks: "some"})
	assert.Error(t, err)

	p, err := NewProducer(ProducerConfig{Brokers: []string{"b:9092"}})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestPublishJSON(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w)

	err := p.PublishJSON(context.Background(), "fills", "42", map[string]int{"qty": 3}, map[string]string{"symbol": "ABC"})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "fills", msg.Topic)
	assert.Equal(t, []byte("42"), msg.Key)
	assert.Equal(t, []kafka.Header{{Key: "symbol", Value: []byte("ABC")}}, msg.Headers)

	var body map[string]int
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, 3, body["qty"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishJSON_EncodeError(t *testing.T) {
	p := NewProducerWithWriter(&fakeWriter{})
	assert.Error(t, p.PublishJSON(context.Background(), "t", "k", make(chan int), nil))
}

func TestMapToHeaders(t *testing.T) {
	assert.Nil(t, mapToHeaders(nil))
}

func TestNilProducer(t *testing.T) {
	var p *Producer

	assert.ErrorIs(t, p.Publish(context.Background(), "t", nil, nil, nil), ErrProducerNotInitialized)
	assert.NoError(t, p.Close())
}
