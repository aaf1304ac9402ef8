package model

// PublicRoom is the homepage view of a room. Bookings, image and timestamps never leave storage.
type PublicRoom struct {
	RoomID      int      `json:"room_id" bson:"room_id"`
	Name        string   `json:"name" bson:"name"`
	Price       float64  `json:"price" bson:"price"`
	Capacity    int      `json:"capacity" bson:"capacity"`
	Description string   `json:"description" bson:"description"`
	Amenities   []string `json:"amenities" bson:"amenities"`
	Status      string   `json:"status" bson:"status"`
	Available   bool     `json:"available" bson:"-"`
}

type RoomStatus struct {
	RoomID      int    `json:"room_id" bson:"room_id"`
	Name        string `json:"name" bson:"name"`
	Status      string `json:"status" bson:"status"`
	Available   bool   `json:"available" bson:"-"`
	BookedUntil string `json:"booked_until,omitempty" bson:"booked_until,omitempty"`
}

type AvailableRoom struct {
	RoomID    int      `json:"room_id" bson:"room_id"`
	Name      string   `json:"name" bson:"name"`
	Price     float64  `json:"price" bson:"price"`
	Capacity  int      `json:"capacity" bson:"capacity"`
	Amenities []string `json:"amenities" bson:"amenities"`
}

func IsAvailable(status string) bool {
	return status == StatusAvailable
}

// Public projects a full room down to its public view.
func (r *Room) Public() PublicRoom {
	amenities := r.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return PublicRoom{
		RoomID:      r.RoomID,
		Name:        r.Name,
		Price:       r.Price,
		Capacity:    r.Capacity,
		Description: r.Description,
		Amenities:   amenities,
		Status:      r.Status,
		Available:   IsAvailable(r.Status),
	}
}

func PublicRooms(rooms []Room) []PublicRoom {
	out := make([]PublicRoom, 0, len(rooms))
	for i := range rooms {
		out = append(out, rooms[i].Public())
	}
	return out
}
