package roomevents

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	RoomCreated    = "room.created"
	RoomUpdated    = "room.updated"
	RoomDeleted    = "room.deleted"
	RoomsSynced    = "rooms.synced"
	BookingAdded   = "booking.added"
	BookingUpdated = "booking.updated"
	BookingDeleted = "booking.deleted"
)

// Event describes a committed change to the room collection.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	RoomID     int       `json:"room_id,omitempty"`
	BookingID  string    `json:"booking_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(eventType string, roomID int, bookingID string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		RoomID:     roomID,
		BookingID:  bookingID,
		OccurredAt: time.Now().UTC(),
	}
}

// Key is the partition key for the event; all changes to one room stay ordered.
func (e Event) Key() string {
	if e.RoomID == 0 {
		return "rooms"
	}
	return strconv.Itoa(e.RoomID)
}

// Notifier fans committed changes out to listeners. Implementations log their own
// failures; a change that reached storage is never rolled back because a listener failed.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Event) {}

func Nop() Notifier {
	return nopNotifier{}
}
