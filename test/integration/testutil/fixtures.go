//go:build integration

package testutil

import "khietan/pkg/model"

// RoomBuilder produces admin API payloads.
type RoomBuilder struct {
	in model.RoomInput
}

func NewRoomBuilder() *RoomBuilder {
	name := "Garden View"
	description := "Quiet room facing the garden"
	status := "available"
	amenities := []string{"wifi", "breakfast"}
	return &RoomBuilder{in: model.RoomInput{
		Name:        &name,
		Price:       model.NewNumber(450000),
		Capacity:    model.NewNumber(2),
		Description: &description,
		Amenities:   &amenities,
		Status:      &status,
	}}
}

func (b *RoomBuilder) WithRoomID(id int) *RoomBuilder {
	b.in.RoomID = model.NewNumber(float64(id))
	return b
}

func (b *RoomBuilder) WithName(name string) *RoomBuilder {
	b.in.Name = &name
	return b
}

func (b *RoomBuilder) WithPrice(price float64) *RoomBuilder {
	b.in.Price = model.NewNumber(price)
	return b
}

func (b *RoomBuilder) WithStatus(status string) *RoomBuilder {
	b.in.Status = &status
	return b
}

func (b *RoomBuilder) WithoutCapacity() *RoomBuilder {
	b.in.Capacity = nil
	return b
}

func (b *RoomBuilder) Build() model.RoomInput {
	return b.in
}

func ValidRoom() model.RoomInput {
	return NewRoomBuilder().Build()
}

func Booking(guest, checkIn, checkOut string) model.BookingInput {
	return model.BookingInput{GuestName: &guest, CheckIn: &checkIn, CheckOut: &checkOut}
}
