package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	homepageerrors "khietan/internal/homepage/errors"
	apperrors "khietan/pkg/errors"
	"khietan/pkg/logger"
	"khietan/pkg/model"
)

type mockPublicRoomRepository struct {
	findAllFunc       func(ctx context.Context) ([]model.PublicRoom, error)
	findByRoomIDFunc  func(ctx context.Context, roomID int) (*model.PublicRoom, error)
	findStatusFunc    func(ctx context.Context, roomID int) (*model.RoomStatus, error)
	findAvailableFunc func(ctx context.Context) ([]model.AvailableRoom, error)
}

func (m *mockPublicRoomRepository) FindAll(ctx context.Context) ([]model.PublicRoom, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []model.PublicRoom{}, nil
}

func (m *mockPublicRoomRepository) FindByRoomID(ctx context.Context, roomID int) (*model.PublicRoom, error) {
	if m.findByRoomIDFunc != nil {
		return m.findByRoomIDFunc(ctx, roomID)
	}
	return nil, homepageerrors.ErrNotFound
}

func (m *mockPublicRoomRepository) FindStatus(ctx context.Context, roomID int) (*model.RoomStatus, error) {
	if m.findStatusFunc != nil {
		return m.findStatusFunc(ctx, roomID)
	}
	return nil, homepageerrors.ErrNotFound
}

func (m *mockPublicRoomRepository) FindAvailable(ctx context.Context) ([]model.AvailableRoom, error) {
	if m.findAvailableFunc != nil {
		return m.findAvailableFunc(ctx)
	}
	return []model.AvailableRoom{}, nil
}

func TestGetPublic_NotFound(t *testing.T) {
	svc := NewPublicRoomService(&mockPublicRoomRepository{}, logger.Discard())

	_, err := svc.GetPublic(context.Background(), 7)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound || appErr.Message != "Room not found" {
		t.Errorf("got %v", err)
	}
}

func TestGetStatus(t *testing.T) {
	repo := &mockPublicRoomRepository{
		findStatusFunc: func(ctx context.Context, roomID int) (*model.RoomStatus, error) {
			return &model.RoomStatus{RoomID: roomID, Status: model.StatusBooked, BookedUntil: "2024-06-03", Available: false}, nil
		},
	}
	svc := NewPublicRoomService(repo, logger.Discard())

	status, err := svc.GetStatus(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Available || status.BookedUntil != "2024-06-03" {
		t.Errorf("status = %+v", status)
	}
}

func TestListPublic_StorageUnavailable(t *testing.T) {
	repo := &mockPublicRoomRepository{
		findAllFunc: func(ctx context.Context) ([]model.PublicRoom, error) {
			return nil, fmt.Errorf("failed to query public rooms: %w", errors.New("no reachable servers"))
		},
	}
	svc := NewPublicRoomService(repo, logger.Discard())

	_, err := svc.ListPublic(context.Background())
	if !apperrors.HasCode(err, apperrors.CodeStorageUnavailable) {
		t.Errorf("got %v", err)
	}
}

func TestListAvailable(t *testing.T) {
	repo := &mockPublicRoomRepository{
		findAvailableFunc: func(ctx context.Context) ([]model.AvailableRoom, error) {
			return []model.AvailableRoom{{RoomID: 1, Name: "Lotus"}}, nil
		},
	}
	svc := NewPublicRoomService(repo, logger.Discard())

	rooms, err := svc.ListAvailable(context.Background())
	if err != nil || len(rooms) != 1 {
		t.Errorf("rooms = %v, err = %v", rooms, err)
	}
}
