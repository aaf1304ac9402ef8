package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	roomserrors "khietan/internal/rooms/errors"
	"khietan/pkg/config"
	"khietan/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RoomRepository interface {
	FindAll(ctx context.Context) ([]model.Room, error)
	FindByRoomID(ctx context.Context, roomID int) (*model.Room, error)
	NextRoomID(ctx context.Context) (int, error)
	Insert(ctx context.Context, room *model.Room) error
	Update(ctx context.Context, roomID int, patch *model.RoomPatch) (*model.Room, error)
	Delete(ctx context.Context, roomID int) error
	CountByStatus(ctx context.Context) (*model.RoomStats, error)
}

type mongoRoomRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:        cfg,
		collection: db.Collection(cfg.MongoCollectionName),
	}
}

// withTimeout bounds ctx by timeout, keeping an earlier caller deadline if there is one.
func (r *mongoRoomRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoRoomRepository) FindAll(ctx context.Context) ([]model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "room_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer cursor.Close(ctx)

	rooms := []model.Room{}
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	if rooms == nil {
		rooms = []model.Room{}
	}
	return rooms, nil
}

func (r *mongoRoomRepository) FindByRoomID(ctx context.Context, roomID int) (*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var room model.Room
	err := r.collection.FindOne(ctx, bson.M{"room_id": roomID}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %d", roomserrors.ErrNotFound, roomID)
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

// NextRoomID returns max(room_id)+1, or 1 for an empty collection.
func (r *mongoRoomRepository) NextRoomID(ctx context.Context) (int, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.FindOne().
		SetSort(bson.D{{Key: "room_id", Value: -1}}).
		SetProjection(bson.M{"room_id": 1})

	var last struct {
		RoomID int `bson:"room_id"`
	}
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 1, nil
		}
		return 0, fmt.Errorf("failed to read last room id: %w", err)
	}
	return last.RoomID + 1, nil
}

func (r *mongoRoomRepository) Insert(ctx context.Context, room *model.Room) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	ts := now()
	room.CreatedAt = ts
	room.UpdatedAt = ts
	if room.Amenities == nil {
		room.Amenities = []string{}
	}
	if room.Bookings == nil {
		room.Bookings = []model.Booking{}
	}

	result, err := r.collection.InsertOne(ctx, room)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %d", roomserrors.ErrDuplicateRoomID, room.RoomID)
		}
		return fmt.Errorf("failed to insert room: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		room.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRoomRepository) Update(ctx context.Context, roomID int, patch *model.RoomPatch) (*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": BuildRoomSet(patch, now())}

	var room model.Room
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"room_id": roomID}, update, opts).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %d", roomserrors.ErrNotFound, roomID)
		}
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	return &room, nil
}

func (r *mongoRoomRepository) Delete(ctx context.Context, roomID int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"room_id": roomID})
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %d", roomserrors.ErrNotFound, roomID)
	}
	return nil
}

func (r *mongoRoomRepository) CountByStatus(ctx context.Context) (*model.RoomStats, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count := func(filter bson.M) (int64, error) {
		n, err := r.collection.CountDocuments(ctx, filter)
		if err != nil {
			return 0, fmt.Errorf("failed to count rooms: %w", err)
		}
		return n, nil
	}

	var stats model.RoomStats
	var err error
	if stats.Total, err = count(bson.M{}); err != nil {
		return nil, err
	}
	if stats.Available, err = count(bson.M{"status": model.StatusAvailable}); err != nil {
		return nil, err
	}
	if stats.Booked, err = count(bson.M{"status": model.StatusBooked}); err != nil {
		return nil, err
	}
	if stats.Maintenance, err = count(bson.M{"status": model.StatusMaintenance}); err != nil {
		return nil, err
	}
	return &stats, nil
}

// BuildRoomSet renders the $set document for a partial update. room_id, bookings and
// created_at are never part of it; updated_at always is.
func BuildRoomSet(patch *model.RoomPatch, updatedAt time.Time) bson.M {
	set := bson.M{"updated_at": updatedAt}
	if patch == nil {
		return set
	}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Capacity != nil {
		set["capacity"] = *patch.Capacity
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Amenities != nil {
		set["amenities"] = *patch.Amenities
	}
	if patch.ImageURL != nil {
		set["image_url"] = *patch.ImageURL
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.BookedUntil != nil {
		set["booked_until"] = *patch.BookedUntil
	}
	return set
}
