package service

import (
	"context"
	"errors"
	"testing"

	legacyerrors "khietan/internal/legacy/errors"
	"khietan/internal/rooms/validator"
	apperrors "khietan/pkg/errors"
	"khietan/pkg/logger"
	"khietan/pkg/model"
)

type mockRoomRepository struct {
	findAllFunc  func(ctx context.Context) ([]model.LegacyRoom, error)
	findByIDFunc func(ctx context.Context, id int) (*model.LegacyRoom, error)
	insertFunc   func(ctx context.Context, room *model.LegacyRoom) error
	replaceFunc  func(ctx context.Context, id int, room *model.LegacyRoom) error
	deleteFunc   func(ctx context.Context, id int) error
}

func (m *mockRoomRepository) FindAll(ctx context.Context) ([]model.LegacyRoom, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []model.LegacyRoom{}, nil
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id int) (*model.LegacyRoom, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, legacyerrors.ErrNotFound
}

func (m *mockRoomRepository) Insert(ctx context.Context, room *model.LegacyRoom) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, room)
	}
	return nil
}

func (m *mockRoomRepository) Replace(ctx context.Context, id int, room *model.LegacyRoom) error {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, id, room)
	}
	return nil
}

func (m *mockRoomRepository) Delete(ctx context.Context, id int) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRoomRepository) Ping(ctx context.Context) error { return nil }

func newService(repo *mockRoomRepository) RoomService {
	return NewRoomService(repo, validator.NewRoomValidator(), logger.Discard())
}

func str(s string) *string { return &s }

func validInput() *model.RoomInput {
	return &model.RoomInput{
		Name:     str("  Garden   Room "),
		Price:    model.NewNumber(350000),
		Capacity: model.NewNumber(2),
	}
}

// ──────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────

func TestCreate_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		input *model.RoomInput
	}{
		{name: "empty", input: &model.RoomInput{}},
		{name: "blank name", input: &model.RoomInput{Name: str(" "), Price: model.NewNumber(1), Capacity: model.NewNumber(1)}},
		{name: "no capacity", input: &model.RoomInput{Name: str("A"), Price: model.NewNumber(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inserted := false
			svc := newService(&mockRoomRepository{insertFunc: func(context.Context, *model.LegacyRoom) error {
				inserted = true
				return nil
			}})

			_, err := svc.Create(context.Background(), tt.input)
			if !apperrors.HasCode(err, apperrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if apperrors.AsAppError(err).Message != missingFieldsMessage {
				t.Errorf("message = %q", apperrors.AsAppError(err).Message)
			}
			if inserted {
				t.Error("repository should not be called")
			}
		})
	}
}

func TestCreate_AppliesDefaultsAndIgnoresSuppliedID(t *testing.T) {
	var stored *model.LegacyRoom
	svc := newService(&mockRoomRepository{insertFunc: func(_ context.Context, room *model.LegacyRoom) error {
		stored = room
		room.ID = 5
		return nil
	}})

	in := validInput()
	in.ID = model.NewNumber(99)

	room, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if stored.Name != "Garden Room" {
		t.Errorf("name not normalized: %q", stored.Name)
	}
	if stored.Status != model.StatusAvailable {
		t.Errorf("status = %q, want available", stored.Status)
	}
	if stored.Amenities == nil || len(stored.Amenities) != 0 {
		t.Errorf("amenities = %v, want []", stored.Amenities)
	}
	if room.ID != 5 {
		t.Errorf("id = %d, want database-assigned 5", room.ID)
	}
}

func TestCreate_StorageFailure(t *testing.T) {
	svc := newService(&mockRoomRepository{insertFunc: func(context.Context, *model.LegacyRoom) error {
		return errors.New("disk I/O error")
	}})

	_, err := svc.Create(context.Background(), validInput())
	if !apperrors.HasCode(err, apperrors.CodeStorageUnavailable) {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
}

// ──────────────────────────────────────────────────────────────────────────
// Replace / Delete
// ──────────────────────────────────────────────────────────────────────────

func TestReplace_NotFound(t *testing.T) {
	svc := newService(&mockRoomRepository{replaceFunc: func(context.Context, int, *model.LegacyRoom) error {
		return legacyerrors.ErrNotFound
	}})

	_, err := svc.Replace(context.Background(), 3, validInput())
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if apperrors.AsAppError(err).Message != "Room not found" {
		t.Errorf("message = %q", apperrors.AsAppError(err).Message)
	}
}

func TestReplace_RequiresFullRow(t *testing.T) {
	svc := newService(&mockRoomRepository{})

	_, err := svc.Replace(context.Background(), 3, &model.RoomInput{Price: model.NewNumber(10)})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDelete_AlwaysSucceedsWhenStorageIsUp(t *testing.T) {
	svc := newService(&mockRoomRepository{})
	if err := svc.Delete(context.Background(), 12345); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

// ──────────────────────────────────────────────────────────────────────────
// Sync
// ──────────────────────────────────────────────────────────────────────────

func TestSync_UpsertsByID(t *testing.T) {
	existing := map[int]bool{1: true}
	var replaced, inserted []int

	svc := newService(&mockRoomRepository{
		replaceFunc: func(_ context.Context, id int, _ *model.LegacyRoom) error {
			if !existing[id] {
				return legacyerrors.ErrNotFound
			}
			replaced = append(replaced, id)
			return nil
		},
		insertFunc: func(_ context.Context, room *model.LegacyRoom) error {
			inserted = append(inserted, room.ID)
			return nil
		},
	})

	withID := func(id float64) model.RoomInput {
		in := *validInput()
		in.ID = model.NewNumber(id)
		return in
	}

	result, err := svc.Sync(context.Background(), []model.RoomInput{withID(1), withID(7), *validInput()})
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if result.Synced != 3 || result.Total != 3 {
		t.Errorf("result = %+v", result)
	}
	if len(replaced) != 1 || replaced[0] != 1 {
		t.Errorf("replaced = %v, want [1]", replaced)
	}
	if len(inserted) != 2 || inserted[0] != 7 || inserted[1] != 0 {
		t.Errorf("inserted = %v, want [7 0]", inserted)
	}
}

func TestSync_StopsAtFirstFailure(t *testing.T) {
	calls := 0
	svc := newService(&mockRoomRepository{insertFunc: func(context.Context, *model.LegacyRoom) error {
		calls++
		return nil
	}})

	inputs := []model.RoomInput{*validInput(), {Name: str("broken")}, *validInput()}
	result, err := svc.Sync(context.Background(), inputs)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if result.Synced != 1 || result.Total != 3 {
		t.Errorf("result = %+v, want 1 of 3", result)
	}
	if calls != 1 {
		t.Errorf("insert calls = %d, want 1", calls)
	}
	if details := apperrors.AsAppError(err).Details; details["index"] != 1 {
		t.Errorf("details = %v", details)
	}
}
