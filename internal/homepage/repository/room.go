package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	homepageerrors "khietan/internal/homepage/errors"
	"khietan/pkg/config"
	"khietan/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	publicProjection = bson.M{
		"_id":         0,
		"room_id":     1,
		"name":        1,
		"price":       1,
		"capacity":    1,
		"description": 1,
		"amenities":   1,
		"status":      1,
	}
	statusProjection = bson.M{
		"_id":          0,
		"room_id":      1,
		"name":         1,
		"status":       1,
		"booked_until": 1,
	}
	availableProjection = bson.M{
		"_id":       0,
		"room_id":   1,
		"name":      1,
		"price":     1,
		"capacity":  1,
		"amenities": 1,
	}
	byRoomID = bson.D{{Key: "room_id", Value: 1}}
)

// PublicRoomRepository only reads. Bookings, images and timestamps are projected away
// by the server and never reach this process.
type PublicRoomRepository interface {
	FindAll(ctx context.Context) ([]model.PublicRoom, error)
	FindByRoomID(ctx context.Context, roomID int) (*model.PublicRoom, error)
	FindStatus(ctx context.Context, roomID int) (*model.RoomStatus, error)
	FindAvailable(ctx context.Context) ([]model.AvailableRoom, error)
}

type mongoPublicRoomRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoPublicRoomRepository(cfg *config.Config) PublicRoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPublicRoomRepository{
		cfg:        cfg,
		collection: db.Collection(cfg.MongoCollectionName),
	}
}

func (r *mongoPublicRoomRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := r.cfg.ReadTimeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoPublicRoomRepository) FindAll(ctx context.Context) ([]model.PublicRoom, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetProjection(publicProjection).SetSort(byRoomID)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query public rooms: %w", err)
	}
	defer cursor.Close(ctx)

	rooms := []model.PublicRoom{}
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode public rooms: %w", err)
	}
	return MarkAvailability(rooms), nil
}

func (r *mongoPublicRoomRepository) FindByRoomID(ctx context.Context, roomID int) (*model.PublicRoom, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var room model.PublicRoom
	opts := options.FindOne().SetProjection(publicProjection)
	if err := r.collection.FindOne(ctx, bson.M{"room_id": roomID}, opts).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %d", homepageerrors.ErrNotFound, roomID)
		}
		return nil, fmt.Errorf("failed to find public room: %w", err)
	}

	room.Available = model.IsAvailable(room.Status)
	if room.Amenities == nil {
		room.Amenities = []string{}
	}
	return &room, nil
}

func (r *mongoPublicRoomRepository) FindStatus(ctx context.Context, roomID int) (*model.RoomStatus, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var status model.RoomStatus
	opts := options.FindOne().SetProjection(statusProjection)
	if err := r.collection.FindOne(ctx, bson.M{"room_id": roomID}, opts).Decode(&status); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %d", homepageerrors.ErrNotFound, roomID)
		}
		return nil, fmt.Errorf("failed to find room status: %w", err)
	}

	status.Available = model.IsAvailable(status.Status)
	return &status, nil
}

// FindAvailable filters on status in the query itself rather than in memory.
func (r *mongoPublicRoomRepository) FindAvailable(ctx context.Context) ([]model.AvailableRoom, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetProjection(availableProjection).SetSort(byRoomID)
	cursor, err := r.collection.Find(ctx, bson.M{"status": model.StatusAvailable}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query available rooms: %w", err)
	}
	defer cursor.Close(ctx)

	rooms := []model.AvailableRoom{}
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode available rooms: %w", err)
	}
	for i := range rooms {
		if rooms[i].Amenities == nil {
			rooms[i].Amenities = []string{}
		}
	}
	return rooms, nil
}

// MarkAvailability derives the available flag from status and fills nil amenities.
func MarkAvailability(rooms []model.PublicRoom) []model.PublicRoom {
	if rooms == nil {
		return []model.PublicRoom{}
	}
	for i := range rooms {
		rooms[i].Available = model.IsAvailable(rooms[i].Status)
		if rooms[i].Amenities == nil {
			rooms[i].Amenities = []string{}
		}
	}
	return rooms
}
