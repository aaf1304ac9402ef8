package model

import (
	"strings"
	"time"
)

const (
	StatusAvailable   = "available"
	StatusBooked      = "booked"
	StatusMaintenance = "maintenance"
)

type Room struct {
	ID          string    `json:"-" bson:"_id,omitempty"`
	RoomID      int       `json:"room_id" bson:"room_id" validate:"min=1"`
	Name        string    `json:"name" bson:"name" validate:"required,max=200"`
	Price       float64   `json:"price" bson:"price" validate:"gte=0"`
	Capacity    int       `json:"capacity" bson:"capacity" validate:"gte=1"`
	Description string    `json:"description" bson:"description" validate:"max=5000"`
	Amenities   []string  `json:"amenities" bson:"amenities" validate:"max=100,dive,max=100"`
	ImageURL    string    `json:"image_url" bson:"image_url" validate:"max=2048"`
	Status      string    `json:"status" bson:"status" validate:"required,max=32"`
	BookedUntil string    `json:"booked_until,omitempty" bson:"booked_until,omitempty" validate:"max=64"`
	Bookings    []Booking `json:"bookings" bson:"bookings"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// RoomInput is the wire shape for create, update and sync requests. Every field is
// optional at the decoding stage; presence rules are applied by the service.
type RoomInput struct {
	RoomID      *Number   `json:"room_id,omitempty" yaml:"room_id,omitempty"`
	ID          *Number   `json:"id,omitempty" yaml:"id,omitempty"`
	Name        *string   `json:"name,omitempty" yaml:"name,omitempty"`
	Price       *Number   `json:"price,omitempty" yaml:"price,omitempty"`
	Capacity    *Number   `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	Description *string   `json:"description,omitempty" yaml:"description,omitempty"`
	Amenities   *[]string `json:"amenities,omitempty" yaml:"amenities,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Status      *string   `json:"status,omitempty" yaml:"status,omitempty"`
	BookedUntil *string   `json:"booked_until,omitempty" yaml:"booked_until,omitempty"`
}

// MissingRequired lists the create-time required fields that are absent or empty.
func (in *RoomInput) MissingRequired() []string {
	var missing []string
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		missing = append(missing, "name")
	}
	if !in.Price.Present() {
		missing = append(missing, "price")
	}
	if !in.Capacity.Present() {
		missing = append(missing, "capacity")
	}
	return missing
}

// Identity returns the caller-supplied room id, accepting either room_id or the legacy id key.
func (in *RoomInput) Identity() (int, bool) {
	if in.RoomID.Present() {
		return in.RoomID.Int(), true
	}
	if in.ID.Present() {
		return in.ID.Int(), true
	}
	return 0, false
}

// ToRoom builds a room from the input with documented defaults for absent optional fields.
func (in *RoomInput) ToRoom() *Room {
	room := &Room{
		Price:     in.Price.Float(),
		Capacity:  in.Capacity.Int(),
		Amenities: []string{},
		Status:    StatusAvailable,
		Bookings:  []Booking{},
	}
	if id, ok := in.Identity(); ok {
		room.RoomID = id
	}
	if in.Name != nil {
		room.Name = *in.Name
	}
	if in.Description != nil {
		room.Description = *in.Description
	}
	if in.Amenities != nil {
		room.Amenities = append([]string{}, (*in.Amenities)...)
	}
	if in.ImageURL != nil {
		room.ImageURL = *in.ImageURL
	}
	if in.Status != nil && *in.Status != "" {
		room.Status = *in.Status
	}
	if in.BookedUntil != nil {
		room.BookedUntil = *in.BookedUntil
	}
	return room
}

// ToPatch converts the input into a typed partial update. Numbers supplied as
// empty strings are treated as absent.
func (in *RoomInput) ToPatch() *RoomPatch {
	patch := &RoomPatch{
		Name:        in.Name,
		Description: in.Description,
		Amenities:   in.Amenities,
		ImageURL:    in.ImageURL,
		Status:      in.Status,
		BookedUntil: in.BookedUntil,
	}
	if in.Price.Present() {
		price := in.Price.Float()
		patch.Price = &price
	}
	if in.Capacity.Present() {
		capacity := in.Capacity.Int()
		patch.Capacity = &capacity
	}
	return patch
}

// RoomPatch carries only the fields an update sets; nil means "leave untouched".
type RoomPatch struct {
	Name        *string   `validate:"omitempty,min=1,max=200"`
	Price       *float64  `validate:"omitempty,gte=0"`
	Capacity    *int      `validate:"omitempty,gte=1"`
	Description *string   `validate:"omitempty,max=5000"`
	Amenities   *[]string `validate:"omitempty,max=100,dive,max=100"`
	ImageURL    *string   `validate:"omitempty,max=2048"`
	Status      *string   `validate:"omitempty,min=1,max=32"`
	BookedUntil *string   `validate:"omitempty,max=64"`
}

func (p *RoomPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Capacity == nil && p.Description == nil &&
		p.Amenities == nil && p.ImageURL == nil && p.Status == nil && p.BookedUntil == nil
}

// Apply copies the patch onto room, mirroring what the storage update does.
func (p *RoomPatch) Apply(room *Room) {
	if p.Name != nil {
		room.Name = *p.Name
	}
	if p.Price != nil {
		room.Price = *p.Price
	}
	if p.Capacity != nil {
		room.Capacity = *p.Capacity
	}
	if p.Description != nil {
		room.Description = *p.Description
	}
	if p.Amenities != nil {
		room.Amenities = append([]string{}, (*p.Amenities)...)
	}
	if p.ImageURL != nil {
		room.ImageURL = *p.ImageURL
	}
	if p.Status != nil {
		room.Status = *p.Status
	}
	if p.BookedUntil != nil {
		room.BookedUntil = *p.BookedUntil
	}
}

type RoomStats struct {
	Total       int64 `json:"total"`
	Available   int64 `json:"available"`
	Booked      int64 `json:"booked"`
	Maintenance int64 `json:"maintenance"`
}

type SyncResult struct {
	Synced int `json:"synced"`
	Total  int `json:"total"`
}
