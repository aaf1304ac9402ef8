package roomevents

import (
	"context"
	"fmt"

	"khietan/pkg/kafka"
	"khietan/pkg/logger"
	"khietan/pkg/model"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type KafkaNotifier struct {
	publisher Publisher
	source    string
	log       *logger.Logger
}

func NewKafkaNotifier(publisher Publisher, source string, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{publisher: publisher, source: source, log: log}
}

func (n *KafkaNotifier) Notify(ctx context.Context, event Event) {
	msg, err := NewMessage(event, n.source)
	if err != nil {
		n.log.Error("failed to build room event message", "event_type", event.Type, "room_id", event.RoomID, "error", err)
		return
	}
	if err := n.publisher.Publish(ctx, msg); err != nil {
		n.log.Error("failed to publish room event", "event_type", event.Type, "room_id", event.RoomID, "error", err)
	}
}

// NewMessage encodes event for the room events topic, keyed by room.
func NewMessage(event Event, source string) (kafka.Message, error) {
	return kafka.NewMessage().
		WithKey(event.Key()).
		WithValue(event).
		WithEventID(event.ID).
		WithEventType(event.Type).
		WithSource(source).
		WithTimestamp(event.OccurredAt).
		Build()
}

func DecodeMessage(msg kafka.Message) (Event, error) {
	var event Event
	if err := msg.DecodeValue(&event); err != nil {
		return Event{}, kafka.NewPermanentError("decode room event", err)
	}
	if event.Type == "" {
		return Event{}, kafka.NewPermanentError("decode room event", fmt.Errorf("missing event type"))
	}
	return event, nil
}

// SnapshotPublisher is satisfied by *mirror.Store.
type SnapshotPublisher interface {
	NextVersion(ctx context.Context) (int64, error)
	PublishVersion(ctx context.Context, version int64, rooms []model.PublicRoom) (bool, error)
}

// SnapshotSource lists the rooms that make up a fresh mirror snapshot.
type SnapshotSource func(ctx context.Context) ([]model.PublicRoom, error)

// MirrorNotifier republishes the full public room list after every change.
type MirrorNotifier struct {
	source SnapshotSource
	store  SnapshotPublisher
	log    *logger.Logger
}

func NewMirrorNotifier(source SnapshotSource, store SnapshotPublisher, log *logger.Logger) *MirrorNotifier {
	return &MirrorNotifier{source: source, store: store, log: log}
}

// Notify reserves a version before reading the room list. A notifier that reads
// later therefore holds a higher version, and the store drops whichever snapshot
// arrives with a lower version than the one already stored.
func (n *MirrorNotifier) Notify(ctx context.Context, event Event) {
	version, err := n.store.NextVersion(ctx)
	if err != nil {
		n.log.Error("failed to reserve mirror version", "event_type", event.Type, "error", err)
		return
	}
	rooms, err := n.source(ctx)
	if err != nil {
		n.log.Error("failed to read rooms for mirror", "event_type", event.Type, "version", version, "error", err)
		return
	}
	stored, err := n.store.PublishVersion(ctx, version, rooms)
	if err != nil {
		n.log.Error("failed to publish room mirror", "event_type", event.Type, "version", version, "error", err)
		return
	}
	if !stored {
		n.log.Debug("room mirror already newer, snapshot dropped", "event_type", event.Type, "version", version)
		return
	}
	n.log.Debug("room mirror published", "event_type", event.Type, "version", version, "rooms", len(rooms))
}

type multiNotifier []Notifier

func (m multiNotifier) Notify(ctx context.Context, event Event) {
	for _, n := range m {
		n.Notify(ctx, event)
	}
}

// Multi notifies each non-nil notifier in order.
func Multi(notifiers ...Notifier) Notifier {
	var out multiNotifier
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	switch len(out) {
	case 0:
		return Nop()
	case 1:
		return out[0]
	default:
		return out
	}
}
