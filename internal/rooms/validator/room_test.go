package validator

import (
	"errors"
	"strings"
	"testing"

	"khietan/pkg/model"
)

func validRoom() *model.Room {
	return &model.Room{
		RoomID:    1,
		Name:      "Phòng Hoa Sen",
		Price:     450000,
		Capacity:  2,
		Amenities: []string{"Wifi"},
		Status:    model.StatusAvailable,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(r *model.Room)
		expectValid bool
		field       string
	}{
		{
			name:        "valid room",
			mutate:      func(r *model.Room) {},
			expectValid: true,
		},
		{
			name:        "free room",
			mutate:      func(r *model.Room) { r.Price = 0 },
			expectValid: true,
		},
		{
			name:        "custom status accepted",
			mutate:      func(r *model.Room) { r.Status = "cleaning" },
			expectValid: true,
		},
		{
			name:        "negative price",
			mutate:      func(r *model.Room) { r.Price = -1 },
			expectValid: false,
			field:       "price",
		},
		{
			name:        "zero capacity",
			mutate:      func(r *model.Room) { r.Capacity = 0 },
			expectValid: false,
			field:       "capacity",
		},
		{
			name:        "empty name",
			mutate:      func(r *model.Room) { r.Name = "" },
			expectValid: false,
			field:       "name",
		},
		{
			name:        "name too long",
			mutate:      func(r *model.Room) { r.Name = strings.Repeat("a", 201) },
			expectValid: false,
			field:       "name",
		},
	}

	v := NewRoomValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := validRoom()
			tt.mutate(room)

			err := v.Validate(room)
			if tt.expectValid {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if verrs[0].Field != tt.field {
				t.Errorf("field = %q, want %q", verrs[0].Field, tt.field)
			}
		})
	}
}

func TestValidatePatch(t *testing.T) {
	v := NewRoomValidator()

	empty := ""
	if err := v.ValidatePatch(&model.RoomPatch{Name: &empty}); err == nil {
		t.Error("empty name in a patch must be rejected")
	}

	capacity := 0
	if err := v.ValidatePatch(&model.RoomPatch{Capacity: &capacity}); err == nil {
		t.Error("zero capacity in a patch must be rejected")
	}

	price := 0.0
	if err := v.ValidatePatch(&model.RoomPatch{Price: &price}); err != nil {
		t.Errorf("zero price is allowed, got %v", err)
	}

	if err := v.ValidatePatch(&model.RoomPatch{}); err != nil {
		t.Errorf("empty patch is valid, got %v", err)
	}
}
