package service

import (
	"context"
	"errors"
	"strings"

	legacyerrors "khietan/internal/legacy/errors"
	"khietan/internal/legacy/repository"
	"khietan/internal/rooms/validator"
	apperrors "khietan/pkg/errors"
	"khietan/pkg/logger"
	"khietan/pkg/model"
	"khietan/pkg/sanitizer"
)

const missingFieldsMessage = "Missing required fields: name, price, capacity"

// RoomService is the relational counterpart of the admin room service. Updates
// replace the whole row and deletes never report a missing room.
type RoomService interface {
	List(ctx context.Context) ([]model.LegacyRoom, error)
	Get(ctx context.Context, id int) (*model.LegacyRoom, error)
	Create(ctx context.Context, in *model.RoomInput) (*model.LegacyRoom, error)
	Replace(ctx context.Context, id int, in *model.RoomInput) (*model.LegacyRoom, error)
	Delete(ctx context.Context, id int) error
	Sync(ctx context.Context, inputs []model.RoomInput) (*model.SyncResult, error)
}

type roomService struct {
	repo      repository.RoomRepository
	validator *validator.RoomValidator
	log       *logger.Logger
}

func NewRoomService(repo repository.RoomRepository, validator *validator.RoomValidator, log *logger.Logger) RoomService {
	return &roomService{
		repo:      repo,
		validator: validator,
		log:       log,
	}
}

func (s *roomService) List(ctx context.Context) ([]model.LegacyRoom, error) {
	rooms, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list legacy rooms", "error", err)
		return nil, apperrors.StorageUnavailable(err)
	}
	return rooms, nil
}

func (s *roomService) Get(ctx context.Context, id int) (*model.LegacyRoom, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, "Failed to get legacy room", id)
	}
	return room, nil
}

func (s *roomService) Create(ctx context.Context, in *model.RoomInput) (*model.LegacyRoom, error) {
	room, err := s.build(in)
	if err != nil {
		return nil, err
	}
	room.ID = 0

	if err := s.repo.Insert(ctx, room); err != nil {
		s.log.Error("Failed to create legacy room", "name", room.Name, "error", err)
		return nil, apperrors.StorageUnavailable(err)
	}

	s.log.Info("Legacy room created", "id", room.ID, "name", room.Name)
	return room, nil
}

func (s *roomService) Replace(ctx context.Context, id int, in *model.RoomInput) (*model.LegacyRoom, error) {
	room, err := s.build(in)
	if err != nil {
		return nil, err
	}
	room.ID = id

	if err := s.repo.Replace(ctx, id, room); err != nil {
		return nil, s.translate(err, "Failed to update legacy room", id)
	}

	s.log.Info("Legacy room updated", "id", id)
	return room, nil
}

func (s *roomService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete legacy room", "id", id, "error", err)
		return apperrors.StorageUnavailable(err)
	}
	s.log.Info("Legacy room deleted", "id", id)
	return nil
}

// Sync replaces rows whose id exists and inserts the rest, keeping a supplied id.
// The first failing record stops the batch.
func (s *roomService) Sync(ctx context.Context, inputs []model.RoomInput) (*model.SyncResult, error) {
	result := &model.SyncResult{Total: len(inputs)}

	for i := range inputs {
		if err := s.syncOne(ctx, &inputs[i]); err != nil {
			s.log.Error("Legacy room sync stopped",
				"index", i,
				"synced", result.Synced,
				"total", result.Total,
				"error", err,
			)
			appErr := apperrors.AsAppError(err)
			details := map[string]any{"synced": result.Synced, "total": result.Total, "index": i}
			for k, v := range appErr.Details {
				details[k] = v
			}
			appErr.Details = details
			return result, appErr
		}
		result.Synced++
	}

	s.log.Info("Legacy rooms synchronized", "synced", result.Synced, "total", result.Total)
	return result, nil
}

func (s *roomService) syncOne(ctx context.Context, in *model.RoomInput) error {
	room, err := s.build(in)
	if err != nil {
		return err
	}

	id, hasID := in.Identity()
	if !hasID {
		room.ID = 0
		if err := s.repo.Insert(ctx, room); err != nil {
			return apperrors.StorageUnavailable(err)
		}
		return nil
	}

	err = s.repo.Replace(ctx, id, room)
	if !errors.Is(err, legacyerrors.ErrNotFound) {
		if err != nil {
			return apperrors.StorageUnavailable(err)
		}
		return nil
	}

	room.ID = id
	if err := s.repo.Insert(ctx, room); err != nil {
		return apperrors.StorageUnavailable(err)
	}
	return nil
}

// build turns a full-row input into a sanitized, validated legacy room.
func (s *roomService) build(in *model.RoomInput) (*model.LegacyRoom, error) {
	if missing := in.MissingRequired(); len(missing) > 0 {
		return nil, apperrors.Validation(missingFieldsMessage, map[string]any{"missing": missing})
	}

	patch := in.ToPatch()
	if err := s.validator.ValidatePatch(patch); err != nil {
		s.log.Warn("Legacy room validation failed", "error", err)
		return nil, apperrors.Validation("Room validation failed", map[string]any{"errors": err})
	}

	full := in.ToRoom()
	room := &model.LegacyRoom{
		Name:        sanitizer.NormalizeName(full.Name),
		Price:       full.Price,
		Capacity:    full.Capacity,
		Description: strings.TrimSpace(full.Description),
		Amenities:   sanitizer.NormalizeAmenities(full.Amenities),
		Status:      sanitizer.NormalizeStatus(full.Status),
		BookedUntil: strings.TrimSpace(full.BookedUntil),
	}
	if id, ok := in.Identity(); ok {
		room.ID = id
	}
	if room.Status == "" {
		room.Status = model.StatusAvailable
	}
	return room, nil
}

func (s *roomService) translate(err error, msg string, id int) error {
	if errors.Is(err, legacyerrors.ErrNotFound) {
		return apperrors.NotFound("Room")
	}
	s.log.Error(msg, "id", id, "error", err)
	return apperrors.StorageUnavailable(err)
}
