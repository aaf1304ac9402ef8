package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	legacyerrors "khietan/internal/legacy/errors"
	"khietan/pkg/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoomRecord is one row of the legacy rooms table. Amenities are stored as JSON text.
type RoomRecord struct {
	ID          int            `gorm:"primaryKey;autoIncrement"`
	Name        string         `gorm:"size:200;not null"`
	Price       float64        `gorm:"not null"`
	Capacity    int            `gorm:"not null"`
	Description string         `gorm:"type:text"`
	Amenities   datatypes.JSON `gorm:"column:amenities"`
	Status      string         `gorm:"size:32;not null;default:available"`
	BookedUntil *string        `gorm:"size:64"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (RoomRecord) TableName() string {
	return "rooms"
}

// resetIDSequence moves the Postgres id sequence past rows inserted with an explicit id.
const resetIDSequence = `SELECT setval(pg_get_serial_sequence('rooms', 'id'), (SELECT MAX(id) FROM rooms))`

// replaceColumns is everything a full-row update rewrites.
var replaceColumns = []string{"name", "price", "capacity", "description", "amenities", "status", "booked_until", "updated_at"}

type RoomRepository interface {
	FindAll(ctx context.Context) ([]model.LegacyRoom, error)
	FindByID(ctx context.Context, id int) (*model.LegacyRoom, error)
	Insert(ctx context.Context, room *model.LegacyRoom) error
	Replace(ctx context.Context, id int, room *model.LegacyRoom) error
	Delete(ctx context.Context, id int) error
	Ping(ctx context.Context) error
}

type gormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) RoomRepository {
	return &gormRoomRepository{db: db}
}

func (r *gormRoomRepository) FindAll(ctx context.Context) ([]model.LegacyRoom, error) {
	var records []RoomRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	rooms := make([]model.LegacyRoom, 0, len(records))
	for i := range records {
		rooms = append(rooms, records[i].toModel())
	}
	return rooms, nil
}

func (r *gormRoomRepository) FindByID(ctx context.Context, id int) (*model.LegacyRoom, error) {
	var record RoomRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, legacyerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	room := record.toModel()
	return &room, nil
}

// Insert honours room.ID when set; otherwise the database assigns one and it is written back.
// On Postgres an explicit id also advances the id sequence so later inserts do not collide.
func (r *gormRoomRepository) Insert(ctx context.Context, room *model.LegacyRoom) error {
	record, err := fromModel(room)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	db := r.db.WithContext(ctx)
	if record.ID == 0 || db.Dialector.Name() != "postgres" {
		err = db.Create(&record).Error
	} else {
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			return tx.Exec(resetIDSequence).Error
		})
	}
	if err != nil {
		return err
	}

	room.ID = record.ID
	room.CreatedAt = record.CreatedAt
	room.UpdatedAt = record.UpdatedAt
	return nil
}

// Replace rewrites every column of the row, including the ones set to zero values.
func (r *gormRoomRepository) Replace(ctx context.Context, id int, room *model.LegacyRoom) error {
	record, err := fromModel(room)
	if err != nil {
		return err
	}
	record.ID = 0
	record.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&RoomRecord{}).
		Where("id = ?", id).
		Select(replaceColumns).
		Updates(&record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return legacyerrors.ErrNotFound
	}
	return nil
}

// Delete succeeds whether or not the row existed.
func (r *gormRoomRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&RoomRecord{}).Error
}

func (r *gormRoomRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (rec *RoomRecord) toModel() model.LegacyRoom {
	amenities := []string{}
	if len(rec.Amenities) > 0 {
		if err := json.Unmarshal(rec.Amenities, &amenities); err != nil || amenities == nil {
			amenities = []string{}
		}
	}

	room := model.LegacyRoom{
		ID:          rec.ID,
		Name:        rec.Name,
		Price:       rec.Price,
		Capacity:    rec.Capacity,
		Description: rec.Description,
		Amenities:   amenities,
		Status:      rec.Status,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if rec.BookedUntil != nil {
		room.BookedUntil = *rec.BookedUntil
	}
	return room
}

func fromModel(room *model.LegacyRoom) (RoomRecord, error) {
	amenities := room.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	encoded, err := json.Marshal(amenities)
	if err != nil {
		return RoomRecord{}, err
	}

	record := RoomRecord{
		ID:          room.ID,
		Name:        room.Name,
		Price:       room.Price,
		Capacity:    room.Capacity,
		Description: room.Description,
		Amenities:   datatypes.JSON(encoded),
		Status:      room.Status,
	}
	if room.BookedUntil != "" {
		bookedUntil := room.BookedUntil
		record.BookedUntil = &bookedUntil
	}
	return record, nil
}
