package roomcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"khietan/pkg/kafka"
	kafka_config "khietan/pkg/kafka/config"
	"khietan/pkg/logger"
	"khietan/pkg/mirror"
)

const DefaultInterval = 30 * time.Second

// Trigger signals that the cache should refresh. C may coalesce ticks.
type Trigger interface {
	C() <-chan struct{}
	Stop()
}

// tick is the shared coalescing channel behind every trigger.
type tick struct {
	ch       chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func (t *tick) init() {
	t.ch = make(chan struct{}, 1)
	t.done = make(chan struct{})
}

func (t *tick) fire() {
	select {
	case t.ch <- struct{}{}:
	default:
	}
}

func (t *tick) C() <-chan struct{} {
	return t.ch
}

func (t *tick) stop(fn func()) {
	t.stopOnce.Do(func() {
		close(t.done)
		if fn != nil {
			fn()
		}
	})
}

type IntervalTrigger struct {
	tick
	ticker *time.Ticker
}

// NewIntervalTrigger fires every d; a non-positive d uses DefaultInterval.
func NewIntervalTrigger(d time.Duration) *IntervalTrigger {
	if d <= 0 {
		d = DefaultInterval
	}
	t := &IntervalTrigger{ticker: time.NewTicker(d)}
	t.init()
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C:
				t.fire()
			}
		}
	}()
	return t
}

func (t *IntervalTrigger) Stop() {
	t.stop(t.ticker.Stop)
}

// ManualTrigger fires only when told to.
type ManualTrigger struct {
	tick
}

func NewManualTrigger() *ManualTrigger {
	t := &ManualTrigger{}
	t.init()
	return t
}

func (t *ManualTrigger) Fire() {
	select {
	case <-t.done:
	default:
		t.fire()
	}
}

func (t *ManualTrigger) Stop() {
	t.stop(nil)
}

// MirrorTrigger fires whenever the admin service announces a new snapshot.
type MirrorTrigger struct {
	tick
	sub *mirror.Subscription
	log *logger.Logger
}

func NewMirrorTrigger(ctx context.Context, store *mirror.Store, log *logger.Logger) (*MirrorTrigger, error) {
	sub, err := store.Subscribe(ctx)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.Discard()
	}
	t := &MirrorTrigger{sub: sub, log: log}
	t.init()
	go func() {
		for {
			select {
			case <-t.done:
				return
			case version, ok := <-sub.C():
				if !ok {
					return
				}
				t.log.Debug("room snapshot changed", "version", version)
				t.fire()
			}
		}
	}()
	return t, nil
}

func (t *MirrorTrigger) Stop() {
	t.stop(func() {
		if err := t.sub.Close(); err != nil {
			t.log.Warn("failed to close mirror subscription", "error", err)
		}
	})
}

// KafkaTrigger fires for every room change event consumed from Kafka. Accept, when
// set, rejects messages that are not room events; rejected messages are reported
// to the consumer as errors and never fire.
type KafkaTrigger struct {
	tick
	Accept func(msg kafka.Message) error

	consumer *kafka.Consumer
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewKafkaTrigger(accept func(msg kafka.Message) error) *KafkaTrigger {
	t := &KafkaTrigger{Accept: accept}
	t.init()
	return t
}

// StartKafkaTrigger consumes topic in the background until Stop is called.
func StartKafkaTrigger(cfg *kafka_config.Config, topic string, accept func(msg kafka.Message) error, log *logger.Logger) (*KafkaTrigger, error) {
	t := NewKafkaTrigger(accept)

	consumer, err := kafka.NewConsumer(cfg, topic, t.HandleMessage, log)
	if err != nil {
		return nil, fmt.Errorf("roomcache: kafka trigger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.consumer = consumer
	t.cancel = cancel
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error("room event consumer stopped", "topic", topic, "error", err)
		}
	}()
	return t, nil
}

func (t *KafkaTrigger) HandleMessage(ctx context.Context, msg kafka.Message) error {
	if t.Accept != nil {
		if err := t.Accept(msg); err != nil {
			return err
		}
	}
	t.fire()
	return nil
}

func (t *KafkaTrigger) Stop() {
	t.stop(func() {
		if t.cancel == nil {
			return
		}
		t.cancel()
		t.wg.Wait()
		_ = t.consumer.Close()
	})
}
