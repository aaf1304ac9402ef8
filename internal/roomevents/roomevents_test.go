package roomevents

import (
	"context"
	"errors"
	"testing"

	"khietan/pkg/kafka"
	"khietan/pkg/logger"
	"khietan/pkg/mirror"
	"khietan/pkg/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// ────────────────────────────────────────────────
// Fakes
// ────────────────────────────────────────────────

type recordingPublisher struct {
	msgs []kafka.Message
	err  error
}

func (p *recordingPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	p.msgs = append(p.msgs, msg)
	return p.err
}

type recordingStore struct {
	version   int64
	published [][]model.PublicRoom
	err       error
}

func (s *recordingStore) NextVersion(ctx context.Context) (int64, error) {
	s.version++
	return s.version, nil
}

func (s *recordingStore) PublishVersion(ctx context.Context, version int64, rooms []model.PublicRoom) (bool, error) {
	s.published = append(s.published, rooms)
	return s.err == nil, s.err
}

type countingNotifier struct{ events []Event }

func (c *countingNotifier) Notify(ctx context.Context, e Event) { c.events = append(c.events, e) }

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestEventKey(t *testing.T) {
	if got := NewEvent(RoomUpdated, 12, "").Key(); got != "12" {
		t.Errorf("Key() = %q, want 12", got)
	}
	if got := NewEvent(RoomsSynced, 0, "").Key(); got != "rooms" {
		t.Errorf("Key() = %q, want rooms", got)
	}
}

func TestKafkaNotifier_RoundTrip(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewKafkaNotifier(pub, "admin", logger.Discard())

	event := NewEvent(BookingAdded, 3, "b-1")
	n.Notify(context.Background(), event)

	if len(pub.msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.msgs))
	}
	msg := pub.msgs[0]
	if msg.Key != "3" || msg.GetEventType() != BookingAdded || msg.GetEventID() != event.ID {
		t.Errorf("message = key %q type %q id %q", msg.Key, msg.GetEventType(), msg.GetEventID())
	}
	if msg.Headers[kafka.HeaderSource] != "admin" {
		t.Errorf("source header = %q", msg.Headers[kafka.HeaderSource])
	}

	decoded, err := DecodeMessage(msg)
	if err != nil {
		t.Fatalf("DecodeMessage() error = %v", err)
	}
	if decoded.RoomID != 3 || decoded.BookingID != "b-1" || decoded.Type != BookingAdded {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestKafkaNotifier_SwallowsPublishErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	NewKafkaNotifier(pub, "admin", logger.Discard()).Notify(context.Background(), NewEvent(RoomDeleted, 1, ""))

	if len(pub.msgs) != 1 {
		t.Errorf("publish attempts = %d, want 1", len(pub.msgs))
	}
}

func TestDecodeMessage_Invalid(t *testing.T) {
	for _, raw := range []string{`not json`, `{"room_id":1}`} {
		_, err := DecodeMessage(kafka.Message{Value: []byte(raw)})
		if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
			t.Errorf("DecodeMessage(%s) error = %v, want permanent", raw, err)
		}
	}
}

func TestMirrorNotifier(t *testing.T) {
	store := &recordingStore{}
	rooms := []model.PublicRoom{{RoomID: 1, Name: "Lotus"}}
	n := NewMirrorNotifier(func(context.Context) ([]model.PublicRoom, error) { return rooms, nil }, store, logger.Discard())

	n.Notify(context.Background(), NewEvent(RoomCreated, 1, ""))

	if len(store.published) != 1 || store.published[0][0].Name != "Lotus" {
		t.Errorf("published = %+v", store.published)
	}
}

func TestMirrorNotifier_SourceFailureSkipsPublish(t *testing.T) {
	store := &recordingStore{}
	n := NewMirrorNotifier(func(context.Context) ([]model.PublicRoom, error) { return nil, errors.New("mongo down") }, store, logger.Discard())

	n.Notify(context.Background(), NewEvent(RoomCreated, 1, ""))

	if len(store.published) != 0 {
		t.Error("nothing should be published when the source fails")
	}
}

func TestMirrorNotifier_SlowerOlderReadDoesNotOverwrite(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := mirror.New(client)
	ctx := context.Background()

	reading := make(chan struct{})
	release := make(chan struct{})
	slow := NewMirrorNotifier(func(context.Context) ([]model.PublicRoom, error) {
		close(reading)
		<-release
		return []model.PublicRoom{{RoomID: 1, Status: model.StatusAvailable}}, nil
	}, store, logger.Discard())
	fast := NewMirrorNotifier(func(context.Context) ([]model.PublicRoom, error) {
		return []model.PublicRoom{{RoomID: 1, Status: model.StatusBooked}}, nil
	}, store, logger.Discard())

	done := make(chan struct{})
	go func() {
		defer close(done)
		slow.Notify(ctx, NewEvent(RoomUpdated, 1, ""))
	}()
	<-reading
	fast.Notify(ctx, NewEvent(RoomUpdated, 1, ""))
	close(release)
	<-done

	snap, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap.Version != 2 || len(snap.Rooms) != 1 || snap.Rooms[0].Status != model.StatusBooked {
		t.Errorf("snapshot = version %d rooms %+v, want version 2 with the booked room", snap.Version, snap.Rooms)
	}
}

func TestMulti(t *testing.T) {
	a, b := &countingNotifier{}, &countingNotifier{}
	Multi(a, nil, b).Notify(context.Background(), NewEvent(RoomUpdated, 1, ""))

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Errorf("a=%d b=%d, want 1 each", len(a.events), len(b.events))
	}
	if _, ok := Multi().(nopNotifier); !ok {
		t.Error("Multi() with no notifiers should be a no-op")
	}
	if Multi(a) != Notifier(a) {
		t.Error("Multi with one notifier should return it directly")
	}
}
