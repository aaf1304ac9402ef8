// Package mirror keeps a Redis copy of the public room list and announces every change
// on a pub/sub channel, so clients can refresh without polling the homepage API.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"khietan/pkg/model"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultPrefix = "khietan"

	snapshotSuffix = ":rooms"
	versionSuffix  = ":rooms:version"
	appliedSuffix  = ":rooms:applied"
	channelSuffix  = ":rooms:changed"
)

// Snapshot is the mirrored room list. A stored snapshot is never replaced by one with a lower Version.
type Snapshot struct {
	Version     int64              `json:"version"`
	PublishedAt time.Time          `json:"published_at"`
	Rooms       []model.PublicRoom `json:"rooms"`
}

type Store struct {
	client redis.UniversalClient
	prefix string
}

func New(client redis.UniversalClient) *Store {
	return NewWithPrefix(client, DefaultPrefix)
}

func NewWithPrefix(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) SnapshotKey() string { return s.prefix + snapshotSuffix }
func (s *Store) Channel() string     { return s.prefix + channelSuffix }

// publishScript stores the snapshot only when its version is newer than the one
// already applied, so a slow writer holding an older version cannot win.
var publishScript = redis.NewScript(`
local applied = tonumber(redis.call("GET", KEYS[2]) or "0")
local version = tonumber(ARGV[1])
if version <= applied then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2])
redis.call("SET", KEYS[2], ARGV[1])
redis.call("PUBLISH", ARGV[3], ARGV[1])
return 1
`)

// NextVersion reserves the version for a snapshot that is about to be read.
// Reserve before reading so a later reservation always sees later data.
func (s *Store) NextVersion(ctx context.Context) (int64, error) {
	version, err := s.client.Incr(ctx, s.prefix+versionSuffix).Result()
	if err != nil {
		return 0, fmt.Errorf("mirror: next version: %w", err)
	}
	return version, nil
}

// PublishVersion stores rooms under a version from NextVersion and announces it.
// It reports false, without error, when a newer snapshot is already stored.
func (s *Store) PublishVersion(ctx context.Context, version int64, rooms []model.PublicRoom) (bool, error) {
	if rooms == nil {
		rooms = []model.PublicRoom{}
	}

	payload, err := json.Marshal(Snapshot{Version: version, PublishedAt: time.Now().UTC(), Rooms: rooms})
	if err != nil {
		return false, fmt.Errorf("mirror: encode snapshot: %w", err)
	}

	stored, err := publishScript.Run(ctx, s.client,
		[]string{s.SnapshotKey(), s.prefix + appliedSuffix},
		strconv.FormatInt(version, 10), payload, s.Channel(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("mirror: publish snapshot: %w", err)
	}
	return stored == 1, nil
}

// Publish reserves a version and stores rooms under it.
func (s *Store) Publish(ctx context.Context, rooms []model.PublicRoom) (int64, error) {
	version, err := s.NextVersion(ctx)
	if err != nil {
		return 0, err
	}
	if _, err := s.PublishVersion(ctx, version, rooms); err != nil {
		return 0, err
	}
	return version, nil
}

// Load returns the current snapshot, or an empty one at version 0 when nothing was published yet.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	data, err := s.client.Get(ctx, s.SnapshotKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Snapshot{Rooms: []model.PublicRoom{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mirror: load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("mirror: decode snapshot: %w", err)
	}
	if snap.Rooms == nil {
		snap.Rooms = []model.PublicRoom{}
	}
	return &snap, nil
}

// Subscription delivers the version of every published snapshot.
type Subscription struct {
	pubsub *redis.PubSub
	ch     chan int64
	done   chan struct{}
}

// Subscribe waits for the subscription to be confirmed so no later publish is missed.
func (s *Store) Subscribe(ctx context.Context) (*Subscription, error) {
	pubsub := s.client.Subscribe(ctx, s.Channel())
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("mirror: subscribe: %w", err)
	}

	sub := &Subscription{
		pubsub: pubsub,
		ch:     make(chan int64, 1),
		done:   make(chan struct{}),
	}
	go sub.forward()
	return sub, nil
}

func (sub *Subscription) forward() {
	defer close(sub.ch)
	for msg := range sub.pubsub.Channel() {
		version, _ := strconv.ParseInt(msg.Payload, 10, 64)
		select {
		case sub.ch <- version:
		case <-sub.done:
			return
		default:
			// a refresh is already pending; the newer snapshot will be read anyway
		}
	}
}

func (sub *Subscription) C() <-chan int64 {
	return sub.ch
}

func (sub *Subscription) Close() error {
	select {
	case <-sub.done:
		return nil
	default:
		close(sub.done)
	}
	return sub.pubsub.Close()
}
