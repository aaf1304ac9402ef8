package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"khietan/pkg/kafka"
	"khietan/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Producer(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	mw := m.Producer()
	msg := kafka.Message{Topic: "room-events", Key: "1", Value: []byte(`{}`)}

	_ = mw(context.Background(), msg, func(context.Context, kafka.Message) error { return nil })
	_ = mw(context.Background(), msg, func(context.Context, kafka.Message) error { return errors.New("boom") })

	if got := testutil.ToFloat64(m.published.WithLabelValues("room-events", resultSuccess)); got != 1 {
		t.Errorf("success count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.published.WithLabelValues("room-events", resultError)); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
}

func TestMetrics_Consumer(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	msg := kafka.Message{Topic: "room-events"}

	_ = m.Consumer()(context.Background(), msg, func(context.Context, kafka.Message) error { return nil })

	if got := testutil.ToFloat64(m.consumed.WithLabelValues("room-events", resultSuccess)); got != 1 {
		t.Errorf("consumed = %v, want 1", got)
	}
}

func TestLogging_PassesErrorThrough(t *testing.T) {
	want := errors.New("broker down")
	mw := LoggingProducerMiddleware(logger.Discard())

	err := mw(context.Background(), kafka.Message{}, func(context.Context, kafka.Message) error { return want })
	if !errors.Is(err, want) {
		t.Errorf("err = %v, want %v", err, want)
	}

	cmw := LoggingConsumerMiddleware(logger.Discard())
	if err := cmw(context.Background(), kafka.Message{}, func(context.Context, kafka.Message) error { return nil }); err != nil {
		t.Errorf("consumer err = %v", err)
	}
}
