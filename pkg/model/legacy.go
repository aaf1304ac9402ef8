package model

import "time"

// LegacyRoom is the bare-JSON room shape served by the relational surface, keyed by "id".
type LegacyRoom struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Capacity    int       `json:"capacity"`
	Description string    `json:"description"`
	Amenities   []string  `json:"amenities"`
	Status      string    `json:"status"`
	BookedUntil string    `json:"booked_until,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Public projects a legacy room down to the homepage view.
func (r *LegacyRoom) Public() PublicRoom {
	amenities := r.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return PublicRoom{
		RoomID:      r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Capacity:    r.Capacity,
		Description: r.Description,
		Amenities:   amenities,
		Status:      r.Status,
		Available:   IsAvailable(r.Status),
	}
}
