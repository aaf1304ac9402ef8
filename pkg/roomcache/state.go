// Package roomcache holds a client-side copy of the public room list. A State is
// refreshed from a Source whenever one of its Triggers fires; refreshes may overlap,
// and a result is only applied when no newer refresh has already been applied.
package roomcache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"khietan/pkg/logger"
	"khietan/pkg/model"
)

// ErrStale is returned by Refresh when a newer refresh was applied while this one was in flight.
var ErrStale = errors.New("roomcache: stale refresh discarded")

// Source fetches the current public room list.
type Source interface {
	Fetch(ctx context.Context) ([]model.PublicRoom, error)
}

type SourceFunc func(ctx context.Context) ([]model.PublicRoom, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]model.PublicRoom, error) {
	return f(ctx)
}

type Option func(*State)

func WithLogger(log *logger.Logger) Option {
	return func(s *State) { s.log = log }
}

// WithOnChange registers the re-render hook. It runs after every applied refresh,
// outside the state lock, with a copy of the new room list.
func WithOnChange(fn func(rooms []model.PublicRoom)) Option {
	return func(s *State) { s.onChange = fn }
}

type State struct {
	source   Source
	log      *logger.Logger
	onChange func([]model.PublicRoom)

	issued atomic.Uint64

	mu        sync.RWMutex
	applied   uint64
	rooms     []model.PublicRoom
	index     map[int]int
	updatedAt time.Time
}

func New(source Source, opts ...Option) *State {
	s := &State{
		source: source,
		log:    logger.Discard(),
		rooms:  []model.PublicRoom{},
		index:  map[int]int{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh fetches from the source and applies the result unless a refresh that
// started later has already been applied. A failed fetch leaves the state untouched.
func (s *State) Refresh(ctx context.Context) error {
	seq := s.issued.Add(1)

	rooms, err := s.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("roomcache: fetch: %w", err)
	}

	s.mu.Lock()
	if seq <= s.applied {
		s.mu.Unlock()
		s.log.Debug("discarding stale room refresh", "sequence", seq)
		return ErrStale
	}
	s.applied = seq
	s.rooms = normalize(rooms)
	s.index = make(map[int]int, len(s.rooms))
	for i, room := range s.rooms {
		s.index[room.RoomID] = i
	}
	s.updatedAt = time.Now()
	snapshot := cloneRooms(s.rooms)
	s.mu.Unlock()

	s.log.Debug("room cache refreshed", "sequence", seq, "rooms", len(snapshot))
	if s.onChange != nil {
		s.onChange(snapshot)
	}
	return nil
}

func (s *State) GetAll() []model.PublicRoom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRooms(s.rooms)
}

func (s *State) GetAvailable() []model.PublicRoom {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.PublicRoom{}
	for _, room := range s.rooms {
		if room.Available {
			out = append(out, cloneRoom(room))
		}
	}
	return out
}

func (s *State) Get(roomID int) (model.PublicRoom, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[roomID]
	if !ok {
		return model.PublicRoom{}, false
	}
	return cloneRoom(s.rooms[i]), true
}

// IsAvailable is false for unknown rooms.
func (s *State) IsAvailable(roomID int) bool {
	room, ok := s.Get(roomID)
	return ok && room.Available
}

// Sequence is the sequence number of the last applied refresh; zero before the first one.
func (s *State) Sequence() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applied
}

func (s *State) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Run refreshes once immediately and then on every trigger tick until ctx is done.
// Each tick starts its own refresh; Run waits for in-flight refreshes and stops
// the triggers before returning.
func (s *State) Run(ctx context.Context, triggers ...Trigger) error {
	ticks := make(chan struct{}, 1)
	var forwarders sync.WaitGroup
	for _, trigger := range triggers {
		forwarders.Add(1)
		go func(t Trigger) {
			defer forwarders.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-t.C():
					if !ok {
						return
					}
					select {
					case ticks <- struct{}{}:
					default:
					}
				}
			}
		}(trigger)
	}

	var inflight sync.WaitGroup
	refresh := func() {
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			if err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrStale) && ctx.Err() == nil {
				s.log.Warn("room cache refresh failed", "error", err)
			}
		}()
	}

	refresh()
	for {
		select {
		case <-ctx.Done():
			for _, trigger := range triggers {
				trigger.Stop()
			}
			forwarders.Wait()
			inflight.Wait()
			return ctx.Err()
		case <-ticks:
			refresh()
		}
	}
}

func normalize(rooms []model.PublicRoom) []model.PublicRoom {
	out := make([]model.PublicRoom, 0, len(rooms))
	for _, room := range rooms {
		room = cloneRoom(room)
		room.Available = model.IsAvailable(room.Status)
		out = append(out, room)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out
}

func cloneRooms(rooms []model.PublicRoom) []model.PublicRoom {
	out := make([]model.PublicRoom, len(rooms))
	for i, room := range rooms {
		out[i] = cloneRoom(room)
	}
	return out
}

func cloneRoom(room model.PublicRoom) model.PublicRoom {
	amenities := make([]string, len(room.Amenities))
	copy(amenities, room.Amenities)
	room.Amenities = amenities
	return room
}
