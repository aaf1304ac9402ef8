package service

import (
	"context"
	"errors"

	homepageerrors "khietan/internal/homepage/errors"
	"khietan/internal/homepage/repository"
	"khietan/pkg/logger"
	apperrors "khietan/pkg/errors"
	"khietan/pkg/model"
)

// PublicRoomService is the read-only projector behind the homepage surface.
type PublicRoomService interface {
	ListPublic(ctx context.Context) ([]model.PublicRoom, error)
	GetPublic(ctx context.Context, roomID int) (*model.PublicRoom, error)
	GetStatus(ctx context.Context, roomID int) (*model.RoomStatus, error)
	ListAvailable(ctx context.Context) ([]model.AvailableRoom, error)
}

type publicRoomService struct {
	repo repository.PublicRoomRepository
	log  *logger.Logger
}

func NewPublicRoomService(repo repository.PublicRoomRepository, log *logger.Logger) PublicRoomService {
	return &publicRoomService{repo: repo, log: log}
}

func (s *publicRoomService) ListPublic(ctx context.Context) ([]model.PublicRoom, error) {
	rooms, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.translate(err, "Failed to list public rooms", 0)
	}
	return rooms, nil
}

func (s *publicRoomService) GetPublic(ctx context.Context, roomID int) (*model.PublicRoom, error) {
	room, err := s.repo.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, s.translate(err, "Failed to get public room", roomID)
	}
	return room, nil
}

func (s *publicRoomService) GetStatus(ctx context.Context, roomID int) (*model.RoomStatus, error) {
	status, err := s.repo.FindStatus(ctx, roomID)
	if err != nil {
		return nil, s.translate(err, "Failed to get room status", roomID)
	}
	return status, nil
}

func (s *publicRoomService) ListAvailable(ctx context.Context) ([]model.AvailableRoom, error) {
	rooms, err := s.repo.FindAvailable(ctx)
	if err != nil {
		return nil, s.translate(err, "Failed to list available rooms", 0)
	}
	return rooms, nil
}

func (s *publicRoomService) translate(err error, msg string, roomID int) error {
	if errors.Is(err, homepageerrors.ErrNotFound) {
		return apperrors.NotFound("Room")
	}
	s.log.Error(msg, "room_id", roomID, "error", err)
	return apperrors.StorageUnavailable(err)
}
