package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"khietan/internal/migrations/mongo/validators"
	"khietan/pkg/logger"
)

var RoomIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "room_id", Value: 1}},
		Options: options.Index().SetName("room_id_unique").SetUnique(true).SetSparse(true),
	},
	{
		Keys:    bson.D{{Key: "status", Value: 1}},
		Options: options.Index().SetName("status"),
	},
	{
		Keys:    bson.D{{Key: "bookings.booking_id", Value: 1}},
		Options: options.Index().SetName("bookings_booking_id"),
	},
}

// RunMigration creates or updates the room collection's schema validator and indexes.
// It is safe to run repeatedly.
func RunMigration(ctx context.Context, db *mongo.Database, collection string, log *logger.Logger) error {
	log.Info("Running room collection migration", "database", db.Name(), "collection", collection)

	if err := ensureCollection(ctx, db, collection, validators.RoomValidator, log); err != nil {
		return fmt.Errorf("failed to ensure collection %s: %w", collection, err)
	}
	if err := ensureIndexes(ctx, db, collection, RoomIndexes, log); err != nil {
		return fmt.Errorf("failed to ensure indexes for %s: %w", collection, err)
	}

	log.Info("Room collection migration applied", "collection", collection)
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	created, err := db.Collection(name).Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "indexes", created)
	return nil
}
