package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"khietan/internal/roomevents"
	roomserrors "khietan/internal/rooms/errors"
	"khietan/internal/rooms/repository"
	"khietan/internal/rooms/validator"
	"khietan/pkg/config"
	apperrors "khietan/pkg/errors"
	"khietan/pkg/model"
	"khietan/pkg/sanitizer"
)

// MaxCreateAttempts bounds the retries when a concurrent create claims the same room id.
const MaxCreateAttempts = 3

type RoomService interface {
	List(ctx context.Context) ([]model.Room, error)
	Get(ctx context.Context, roomID int) (*model.Room, error)
	Create(ctx context.Context, in *model.RoomInput) (*model.Room, error)
	Update(ctx context.Context, roomID int, in *model.RoomInput) (*model.Room, error)
	Delete(ctx context.Context, roomID int) error
	Sync(ctx context.Context, inputs []model.RoomInput) (*model.SyncResult, error)
	Stats(ctx context.Context) (*model.RoomStats, error)
}

type roomService struct {
	repo      repository.RoomRepository
	validator *validator.RoomValidator
	notifier  roomevents.Notifier
	cfg       *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	validator *validator.RoomValidator,
	notifier roomevents.Notifier,
	cfg *config.Config,
) RoomService {
	if notifier == nil {
		notifier = roomevents.Nop()
	}
	return &roomService{
		repo:      repo,
		validator: validator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

func (s *roomService) List(ctx context.Context) ([]model.Room, error) {
	rooms, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list rooms", "error", err)
		return nil, apperrors.StorageUnavailable(err)
	}
	return rooms, nil
}

func (s *roomService) Get(ctx context.Context, roomID int) (*model.Room, error) {
	room, err := s.repo.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, s.translate(err, "Failed to get room", roomID)
	}
	return room, nil
}

func (s *roomService) Create(ctx context.Context, in *model.RoomInput) (*model.Room, error) {
	if missing := in.MissingRequired(); len(missing) > 0 {
		return nil, apperrors.Validation("Missing required fields: name, price, capacity", map[string]any{
			"missing": missing,
		})
	}

	room := in.ToRoom()
	s.sanitize(room)

	var lastErr error
	for attempt := 1; attempt <= MaxCreateAttempts; attempt++ {
		nextID, err := s.repo.NextRoomID(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to compute next room id", "error", err)
			return nil, apperrors.StorageUnavailable(err)
		}
		room.RoomID = nextID

		if err := s.validate(room); err != nil {
			return nil, err
		}

		err = s.repo.Insert(ctx, room)
		if err == nil {
			s.cfg.Log.Info("Room created successfully",
				"room_id", room.RoomID,
				"inserted_id", room.ID,
				"name", room.Name,
			)
			s.notifier.Notify(ctx, roomevents.NewEvent(roomevents.RoomCreated, room.RoomID, ""))
			return room, nil
		}
		if !errors.Is(err, roomserrors.ErrDuplicateRoomID) {
			s.cfg.Log.Error("Failed to create room", "name", room.Name, "error", err)
			return nil, apperrors.StorageUnavailable(err)
		}

		lastErr = err
		s.cfg.Log.Warn("Room id taken by a concurrent create, retrying",
			"room_id", room.RoomID,
			"attempt", attempt,
		)
	}

	return nil, apperrors.Conflict(fmt.Sprintf("Could not allocate a room id after %d attempts", MaxCreateAttempts)).
		WithDetails(map[string]any{"error": lastErr.Error()})
}

func (s *roomService) Update(ctx context.Context, roomID int, in *model.RoomInput) (*model.Room, error) {
	patch := in.ToPatch()
	s.sanitizePatch(patch)

	if err := s.validator.ValidatePatch(patch); err != nil {
		s.cfg.Log.Warn("Room update validation failed", "room_id", roomID, "error", err)
		return nil, apperrors.Validation("Room validation failed", map[string]any{"errors": err})
	}

	room, err := s.repo.Update(ctx, roomID, patch)
	if err != nil {
		return nil, s.translate(err, "Failed to update room", roomID)
	}

	s.cfg.Log.Info("Room updated successfully", "room_id", roomID)
	s.notifier.Notify(ctx, roomevents.NewEvent(roomevents.RoomUpdated, roomID, ""))
	return room, nil
}

func (s *roomService) Delete(ctx context.Context, roomID int) error {
	if err := s.repo.Delete(ctx, roomID); err != nil {
		return s.translate(err, "Failed to delete room", roomID)
	}

	s.cfg.Log.Info("Room deleted successfully", "room_id", roomID)
	s.notifier.Notify(ctx, roomevents.NewEvent(roomevents.RoomDeleted, roomID, ""))
	return nil
}

// Sync upserts each record by room_id in order. It is not atomic: the first failing
// record stops the batch and the error carries how many records were already applied.
func (s *roomService) Sync(ctx context.Context, inputs []model.RoomInput) (*model.SyncResult, error) {
	result := &model.SyncResult{Total: len(inputs)}

	for i := range inputs {
		if err := s.syncOne(ctx, &inputs[i]); err != nil {
			s.cfg.Log.Error("Room sync stopped",
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

	s.cfg.Log.Info("Rooms synchronized", "synced", result.Synced, "total", result.Total)
	if result.Synced > 0 {
		s.notifier.Notify(ctx, roomevents.NewEvent(roomevents.RoomsSynced, 0, ""))
	}
	return result, nil
}

func (s *roomService) syncOne(ctx context.Context, in *model.RoomInput) error {
	roomID, hasID := in.Identity()
	if hasID {
		_, err := s.repo.FindByRoomID(ctx, roomID)
		switch {
		case err == nil:
			patch := in.ToPatch()
			s.sanitizePatch(patch)
			if err := s.validator.ValidatePatch(patch); err != nil {
				return apperrors.Validation("Room validation failed", map[string]any{"room_id": roomID, "errors": err})
			}
			if _, err := s.repo.Update(ctx, roomID, patch); err != nil {
				return s.translate(err, "Failed to sync room", roomID)
			}
			return nil
		case !errors.Is(err, roomserrors.ErrNotFound):
			return apperrors.StorageUnavailable(err)
		}
	}

	if missing := in.MissingRequired(); len(missing) > 0 {
		return apperrors.Validation("Missing required fields: name, price, capacity", map[string]any{
			"missing": missing,
		})
	}

	room := in.ToRoom()
	s.sanitize(room)
	if !hasID {
		nextID, err := s.repo.NextRoomID(ctx)
		if err != nil {
			return apperrors.StorageUnavailable(err)
		}
		room.RoomID = nextID
	}
	if err := s.validate(room); err != nil {
		return err
	}
	if err := s.repo.Insert(ctx, room); err != nil {
		if errors.Is(err, roomserrors.ErrDuplicateRoomID) {
			return apperrors.Conflict(fmt.Sprintf("Room %d already exists", room.RoomID))
		}
		return apperrors.StorageUnavailable(err)
	}
	return nil
}

func (s *roomService) Stats(ctx context.Context) (*model.RoomStats, error) {
	stats, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to compute room stats", "error", err)
		return nil, apperrors.StorageUnavailable(err)
	}
	return stats, nil
}

func (s *roomService) validate(room *model.Room) error {
	if err := s.validator.Validate(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "name", room.Name, "error", err)
		return apperrors.Validation("Room validation failed", map[string]any{"errors": err})
	}
	return nil
}

func (s *roomService) translate(err error, msg string, roomID int) error {
	if errors.Is(err, roomserrors.ErrNotFound) {
		return apperrors.NotFound("Room")
	}
	s.cfg.Log.Error(msg, "room_id", roomID, "error", err)
	return apperrors.StorageUnavailable(err)
}

func (s *roomService) sanitize(room *model.Room) {
	room.Name = sanitizer.NormalizeName(room.Name)
	room.Description = strings.TrimSpace(room.Description)
	room.Amenities = sanitizer.NormalizeAmenities(room.Amenities)
	room.ImageURL = sanitizer.NormalizeImageURL(room.ImageURL)
	room.Status = sanitizer.NormalizeStatus(room.Status)
	room.BookedUntil = strings.TrimSpace(room.BookedUntil)
}

func (s *roomService) sanitizePatch(patch *model.RoomPatch) {
	if patch.Name != nil {
		name := sanitizer.NormalizeName(*patch.Name)
		patch.Name = &name
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		patch.Description = &description
	}
	if patch.Amenities != nil {
		amenities := sanitizer.NormalizeAmenities(*patch.Amenities)
		patch.Amenities = &amenities
	}
	if patch.ImageURL != nil {
		imageURL := sanitizer.NormalizeImageURL(*patch.ImageURL)
		patch.ImageURL = &imageURL
	}
	if patch.Status != nil {
		status := sanitizer.NormalizeStatus(*patch.Status)
		patch.Status = &status
	}
	if patch.BookedUntil != nil {
		bookedUntil := strings.TrimSpace(*patch.BookedUntil)
		patch.BookedUntil = &bookedUntil
	}
}
