package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "khietan/internal/bookings/errors"
	"khietan/pkg/config"
	"khietan/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookingRepository manages bookings embedded in room documents.
type BookingRepository interface {
	FindByRoomID(ctx context.Context, roomID int) ([]model.Booking, error)
	Add(ctx context.Context, roomID int, booking *model.Booking) (*model.MutationResult, error)
	Update(ctx context.Context, roomID int, bookingID string, patch *model.BookingPatch) (*model.MutationResult, error)
	Delete(ctx context.Context, roomID int, bookingID string) (*model.MutationResult, error)
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(cfg.MongoCollectionName),
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *mongoBookingRepository) FindByRoomID(ctx context.Context, roomID int) ([]model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"bookings": 1})

	var doc struct {
		Bookings []model.Booking `bson:"bookings"`
	}
	err := r.collection.FindOne(ctx, bson.M{"room_id": roomID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %d", bookingserrors.ErrRoomNotFound, roomID)
		}
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}

	if doc.Bookings == nil {
		return []model.Booking{}, nil
	}
	return doc.Bookings, nil
}

// Add pushes booking into the room's bookings array. The filter excludes rooms that
// already hold the booking id, so a zero match is resolved into "room missing" or
// "duplicate" with one extra count.
func (r *mongoBookingRepository) Add(ctx context.Context, roomID int, booking *model.Booking) (*model.MutationResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	ts := now()
	booking.CreatedAt = ts

	filter := bson.M{
		"room_id":             roomID,
		"bookings.booking_id": bson.M{"$ne": booking.BookingID},
	}
	update := bson.M{
		"$push": bson.M{"bookings": booking},
		"$set":  bson.M{"updated_at": ts},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to add booking: %w", err)
	}

	if result.MatchedCount == 0 {
		n, err := r.collection.CountDocuments(ctx, bson.M{"room_id": roomID})
		if err != nil {
			return nil, fmt.Errorf("failed to check room existence: %w", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: %d", bookingserrors.ErrRoomNotFound, roomID)
		}
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrDuplicateBookingID, booking.BookingID)
	}

	return &model.MutationResult{Matched: result.MatchedCount, Modified: result.ModifiedCount}, nil
}

// Update sets the patched fields of the booking. The room's updated_at moves only when
// at least one field differs from its stored value, so an update that changes nothing
// reports matched 1 and modified 0.
func (r *mongoBookingRepository) Update(ctx context.Context, roomID int, bookingID string, patch *model.BookingPatch) (*model.MutationResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if patch != nil && !patch.IsEmpty() {
		filter := BuildBookingChangeFilter(roomID, bookingID, patch)
		update := bson.M{"$set": BuildBookingSet(patch, now())}

		result, err := r.collection.UpdateOne(ctx, filter, update)
		if err != nil {
			return nil, fmt.Errorf("failed to update booking: %w", err)
		}
		if result.MatchedCount > 0 {
			return &model.MutationResult{Matched: result.MatchedCount, Modified: result.ModifiedCount}, nil
		}
	}

	n, err := r.collection.CountDocuments(ctx, bson.M{"room_id": roomID, "bookings.booking_id": bookingID})
	if err != nil {
		return nil, fmt.Errorf("failed to check booking existence: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: room %d booking %s", bookingserrors.ErrNotFound, roomID, bookingID)
	}
	return &model.MutationResult{Matched: n, Modified: 0}, nil
}

// Delete pulls the booking. Filtering on the booking id makes matched == 0 mean
// that either the room or the booking is absent.
func (r *mongoBookingRepository) Delete(ctx context.Context, roomID int, bookingID string) (*model.MutationResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"room_id": roomID, "bookings.booking_id": bookingID}
	update := bson.M{
		"$pull": bson.M{"bookings": bson.M{"booking_id": bookingID}},
		"$set":  bson.M{"updated_at": now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: room %d booking %s", bookingserrors.ErrNotFound, roomID, bookingID)
	}

	return &model.MutationResult{Matched: result.MatchedCount, Modified: result.ModifiedCount}, nil
}

// BuildBookingSet renders positional $set paths for the matched booking plus the
// room's updated_at.
func BuildBookingSet(patch *model.BookingPatch, updatedAt time.Time) bson.M {
	set := bson.M{"updated_at": updatedAt}
	for _, e := range bookingFields(patch) {
		set["bookings.$."+e.Key] = e.Value
	}
	return set
}

// BuildBookingChangeFilter matches the room only while the booking holds a value
// that differs from the patch in at least one field. The positional $ in the update
// then addresses the element matched by $elemMatch.
func BuildBookingChangeFilter(roomID int, bookingID string, patch *model.BookingPatch) bson.M {
	elem := bson.M{"booking_id": bookingID}

	fields := bookingFields(patch)
	if len(fields) > 0 {
		changed := make(bson.A, 0, len(fields))
		for _, e := range fields {
			changed = append(changed, bson.M{e.Key: bson.M{"$ne": e.Value}})
		}
		elem["$or"] = changed
	}

	return bson.M{"room_id": roomID, "bookings": bson.M{"$elemMatch": elem}}
}

func bookingFields(patch *model.BookingPatch) bson.D {
	var fields bson.D
	if patch == nil {
		return fields
	}

	put := func(field string, value any) {
		fields = append(fields, bson.E{Key: field, Value: value})
	}
	if patch.GuestName != nil {
		put("guest_name", *patch.GuestName)
	}
	if patch.GuestEmail != nil {
		put("guest_email", *patch.GuestEmail)
	}
	if patch.GuestPhone != nil {
		put("guest_phone", *patch.GuestPhone)
	}
	if patch.CheckIn != nil {
		put("check_in", *patch.CheckIn)
	}
	if patch.CheckOut != nil {
		put("check_out", *patch.CheckOut)
	}
	if patch.NumberOfGuests != nil {
		put("number_of_guests", *patch.NumberOfGuests)
	}
	if patch.TotalPrice != nil {
		put("total_price", *patch.TotalPrice)
	}
	if patch.Status != nil {
		put("status", *patch.Status)
	}
	if patch.Notes != nil {
		put("notes", *patch.Notes)
	}
	return fields
}
