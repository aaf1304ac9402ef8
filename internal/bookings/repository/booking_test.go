package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingserrors "khietan/internal/bookings/errors"
	"khietan/pkg/config"
	"khietan/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestBuildBookingSet(t *testing.T) {
	status := "cancelled"
	guests := 3
	ts := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	set := BuildBookingSet(&model.BookingPatch{Status: &status, NumberOfGuests: &guests}, ts)

	want := map[string]any{
		"bookings.$.status":           status,
		"bookings.$.number_of_guests": guests,
		"updated_at":                  ts,
	}
	if len(set) != len(want) {
		t.Fatalf("set = %v, want %v", set, want)
	}
	for k, v := range want {
		if set[k] != v {
			t.Errorf("set[%q] = %v, want %v", k, set[k], v)
		}
	}
}

func TestBuildBookingSet_NeverTouchesBookingID(t *testing.T) {
	name := "Lan"
	set := BuildBookingSet(&model.BookingPatch{GuestName: &name}, time.Now())
	if _, ok := set["bookings.$.booking_id"]; ok {
		t.Error("booking_id must never be updated")
	}
	if _, ok := set["bookings.$.created_at"]; ok {
		t.Error("created_at must never be updated")
	}
}

func TestBuildBookingChangeFilter(t *testing.T) {
	status := "cancelled"
	guests := 3

	filter := BuildBookingChangeFilter(7, "b-1", &model.BookingPatch{Status: &status, NumberOfGuests: &guests})

	if filter["room_id"] != 7 {
		t.Errorf("room_id = %v, want 7", filter["room_id"])
	}
	elem := filter["bookings"].(bson.M)["$elemMatch"].(bson.M)
	if elem["booking_id"] != "b-1" {
		t.Errorf("booking_id = %v, want b-1", elem["booking_id"])
	}
	changed, ok := elem["$or"].(bson.A)
	if !ok || len(changed) != 2 {
		t.Fatalf("$or = %v, want one clause per patched field", elem["$or"])
	}
	first := changed[0].(bson.M)["number_of_guests"].(bson.M)
	if first["$ne"] != guests {
		t.Errorf("number_of_guests clause = %v", first)
	}
	second := changed[1].(bson.M)["status"].(bson.M)
	if second["$ne"] != status {
		t.Errorf("status clause = %v", second)
	}
}

func TestBuildBookingChangeFilter_EmptyPatch(t *testing.T) {
	filter := BuildBookingChangeFilter(7, "b-1", &model.BookingPatch{})

	elem := filter["bookings"].(bson.M)["$elemMatch"].(bson.M)
	if _, ok := elem["$or"]; ok {
		t.Error("empty patch must not build an empty $or")
	}
}

// ────────────────────────────────────────────────
// Update against a mocked deployment
// ────────────────────────────────────────────────

func newMockRepository(mt *mtest.T) *mongoBookingRepository {
	return &mongoBookingRepository{
		cfg:        &config.Config{WriteTimeout: time.Second},
		collection: mt.Coll,
	}
}

func countResponse(mt *mtest.T, n int64) bson.D {
	ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: n}})
}

func TestUpdate_ModifiedCounts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	status := "cancelled"

	mt.Run("changed field", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		result, err := newMockRepository(mt).Update(context.Background(), 7, "b-1", &model.BookingPatch{Status: &status})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Matched != 1 || result.Modified != 1 {
			t.Errorf("result = %+v, want matched 1 modified 1", result)
		}
	})

	mt.Run("same values leave the room untouched", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			countResponse(mt, 1),
		)

		result, err := newMockRepository(mt).Update(context.Background(), 7, "b-1", &model.BookingPatch{Status: &status})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Matched != 1 || result.Modified != 0 {
			t.Errorf("result = %+v, want matched 1 modified 0", result)
		}
	})

	mt.Run("missing booking", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			countResponse(mt, 0),
		)

		_, err := newMockRepository(mt).Update(context.Background(), 7, "missing", &model.BookingPatch{Status: &status})
		if !errors.Is(err, bookingserrors.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	mt.Run("empty patch only checks existence", func(mt *mtest.T) {
		mt.AddMockResponses(countResponse(mt, 1))

		result, err := newMockRepository(mt).Update(context.Background(), 7, "b-1", &model.BookingPatch{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Matched != 1 || result.Modified != 0 {
			t.Errorf("result = %+v, want matched 1 modified 0", result)
		}
	})
}
