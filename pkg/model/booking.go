package model

import (
	"strings"
	"time"
)

const DefaultBookingStatus = "confirmed"

type Booking struct {
	BookingID      string    `json:"booking_id" bson:"booking_id" validate:"required,max=128"`
	GuestName      string    `json:"guest_name" bson:"guest_name" validate:"required,max=200"`
	GuestEmail     string    `json:"guest_email" bson:"guest_email" validate:"max=320"`
	GuestPhone     string    `json:"guest_phone" bson:"guest_phone" validate:"max=32"`
	CheckIn        string    `json:"check_in" bson:"check_in" validate:"required,max=64"`
	CheckOut       string    `json:"check_out" bson:"check_out" validate:"required,max=64"`
	NumberOfGuests int       `json:"number_of_guests" bson:"number_of_guests" validate:"gte=1"`
	TotalPrice     float64   `json:"total_price" bson:"total_price" validate:"gte=0"`
	Status         string    `json:"status" bson:"status" validate:"required,max=32"`
	Notes          string    `json:"notes" bson:"notes" validate:"max=2000"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// BookingInput is the wire shape for add and update booking requests.
type BookingInput struct {
	BookingID      *string `json:"booking_id,omitempty"`
	GuestName      *string `json:"guest_name,omitempty"`
	GuestEmail     *string `json:"guest_email,omitempty"`
	GuestPhone     *string `json:"guest_phone,omitempty"`
	CheckIn        *string `json:"check_in,omitempty"`
	CheckOut       *string `json:"check_out,omitempty"`
	NumberOfGuests *Number `json:"number_of_guests,omitempty"`
	TotalPrice     *Number `json:"total_price,omitempty"`
	Status         *string `json:"status,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

func (in *BookingInput) MissingRequired() []string {
	var missing []string
	if isBlank(in.GuestName) {
		missing = append(missing, "guest_name")
	}
	if isBlank(in.CheckIn) {
		missing = append(missing, "check_in")
	}
	if isBlank(in.CheckOut) {
		missing = append(missing, "check_out")
	}
	return missing
}

// ToBooking applies defaults for absent optional fields. BookingID is left empty when
// not supplied; the service generates one.
func (in *BookingInput) ToBooking() *Booking {
	b := &Booking{
		NumberOfGuests: 1,
		Status:         DefaultBookingStatus,
	}
	if in.BookingID != nil {
		b.BookingID = strings.TrimSpace(*in.BookingID)
	}
	if in.GuestName != nil {
		b.GuestName = *in.GuestName
	}
	if in.GuestEmail != nil {
		b.GuestEmail = *in.GuestEmail
	}
	if in.GuestPhone != nil {
		b.GuestPhone = *in.GuestPhone
	}
	if in.CheckIn != nil {
		b.CheckIn = *in.CheckIn
	}
	if in.CheckOut != nil {
		b.CheckOut = *in.CheckOut
	}
	if in.NumberOfGuests.Present() {
		b.NumberOfGuests = in.NumberOfGuests.Int()
	}
	if in.TotalPrice.Present() {
		b.TotalPrice = in.TotalPrice.Float()
	}
	if in.Status != nil && *in.Status != "" {
		b.Status = *in.Status
	}
	if in.Notes != nil {
		b.Notes = *in.Notes
	}
	return b
}

// ToPatch drops booking_id: the identity of an embedded booking never changes.
func (in *BookingInput) ToPatch() *BookingPatch {
	patch := &BookingPatch{
		GuestName:  in.GuestName,
		GuestEmail: in.GuestEmail,
		GuestPhone: in.GuestPhone,
		CheckIn:    in.CheckIn,
		CheckOut:   in.CheckOut,
		Status:     in.Status,
		Notes:      in.Notes,
	}
	if in.NumberOfGuests.Present() {
		n := in.NumberOfGuests.Int()
		patch.NumberOfGuests = &n
	}
	if in.TotalPrice.Present() {
		p := in.TotalPrice.Float()
		patch.TotalPrice = &p
	}
	return patch
}

type BookingPatch struct {
	GuestName      *string  `validate:"omitempty,nonblank,max=200"`
	GuestEmail     *string  `validate:"omitempty,max=320"`
	GuestPhone     *string  `validate:"omitempty,max=32"`
	CheckIn        *string  `validate:"omitempty,nonblank,max=64"`
	CheckOut       *string  `validate:"omitempty,nonblank,max=64"`
	NumberOfGuests *int     `validate:"omitempty,gte=1"`
	TotalPrice     *float64 `validate:"omitempty,gte=0"`
	Status         *string  `validate:"omitempty,max=32"`
	Notes          *string  `validate:"omitempty,max=2000"`
}

func (p *BookingPatch) IsEmpty() bool {
	return p.GuestName == nil && p.GuestEmail == nil && p.GuestPhone == nil && p.CheckIn == nil &&
		p.CheckOut == nil && p.NumberOfGuests == nil && p.TotalPrice == nil && p.Status == nil && p.Notes == nil
}

// MutationResult carries the raw storage counts for an embedded-document mutation.
type MutationResult struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
