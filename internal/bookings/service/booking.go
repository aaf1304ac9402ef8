package service

import (
	"context"
	"errors"
	"strings"

	bookingserrors "khietan/internal/bookings/errors"
	"khietan/internal/bookings/repository"
	"khietan/internal/bookings/validator"
	"khietan/internal/roomevents"
	"khietan/pkg/config"
	apperrors "khietan/pkg/errors"
	"khietan/pkg/model"
	"khietan/pkg/sanitizer"

	"github.com/google/uuid"
)

type BookingService interface {
	List(ctx context.Context, roomID int) ([]model.Booking, error)
	Add(ctx context.Context, roomID int, in *model.BookingInput) (*model.Booking, error)
	Update(ctx context.Context, roomID int, bookingID string, in *model.BookingInput) (*model.MutationResult, error)
	Delete(ctx context.Context, roomID int, bookingID string) (*model.MutationResult, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	notifier  roomevents.Notifier
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	notifier roomevents.Notifier,
	cfg *config.Config,
) BookingService {
	if notifier == nil {
		notifier = roomevents.Nop()
	}
	return &bookingService{
		repo:      repo,
		validator: validator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

func (s *bookingService) List(ctx context.Context, roomID int) ([]model.Booking, error) {
	bookings, err := s.repo.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, s.translate(err, "Failed to list bookings", roomID, "")
	}
	return bookings, nil
}

func (s *bookingService) Add(ctx context.Context, roomID int, in *model.BookingInput) (*model.Booking, error) {
	if missing := in.MissingRequired(); len(missing) > 0 {
		return nil, apperrors.Validation("Missing required fields: guest_name, check_in, check_out", map[string]any{
			"missing": missing,
		})
	}

	booking := in.ToBooking()
	if booking.BookingID == "" {
		booking.BookingID = uuid.NewString()
	}
	s.sanitize(booking)

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed",
			"room_id", roomID,
			"guest_name", booking.GuestName,
			"error", err,
		)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"errors": err})
	}

	if _, err := s.repo.Add(ctx, roomID, booking); err != nil {
		return nil, s.translate(err, "Failed to add booking", roomID, booking.BookingID)
	}

	s.cfg.Log.Info("Booking added successfully",
		"room_id", roomID,
		"booking_id", booking.BookingID,
		"check_in", booking.CheckIn,
		"check_out", booking.CheckOut,
	)
	s.notifier.Notify(ctx, roomevents.NewEvent(roomevents.BookingAdded, roomID, booking.BookingID))
	return booking, nil
}

func (s *bookingService) Update(ctx context.Context, roomID int, bookingID string, in *model.BookingInput) (*model.MutationResult, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, apperrors.Validation("Invalid booking id", nil)
	}

	patch := in.ToPatch()
	s.sanitizePatch(patch)
	if err := s.validator.ValidatePatch(patch); err != nil {
		s.cfg.Log.Warn("Booking update validation failed",
			"room_id", roomID,
			"booking_id", bookingID,
			"error", err,
		)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"errors": err})
	}

	result, err := s.repo.Update(ctx, roomID, bookingID, patch)
	if err != nil {
		return nil, s.translate(err, "Failed to update booking", roomID, bookingID)
	}

	s.cfg.Log.Info("Booking updated",
		"room_id", roomID,
		"booking_id", bookingID,
		"matched", result.Matched,
		"modified", result.Modified,
	)
	s.notifier.Notify(ctx, roomevents.NewEvent(roomevents.BookingUpdated, roomID, bookingID))
	return result, nil
}

func (s *bookingService) Delete(ctx context.Context, roomID int, bookingID string) (*model.MutationResult, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, apperrors.Validation("Invalid booking id", nil)
	}

	result, err := s.repo.Delete(ctx, roomID, bookingID)
	if err != nil {
		return nil, s.translate(err, "Failed to delete booking", roomID, bookingID)
	}

	s.cfg.Log.Info("Booking deleted",
		"room_id", roomID,
		"booking_id", bookingID,
		"matched", result.Matched,
		"modified", result.Modified,
	)
	s.notifier.Notify(ctx, roomevents.NewEvent(roomevents.BookingDeleted, roomID, bookingID))
	return result, nil
}

func (s *bookingService) translate(err error, msg string, roomID int, bookingID string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrRoomNotFound):
		return apperrors.NotFound("Room")
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFound("Room or booking")
	case errors.Is(err, bookingserrors.ErrDuplicateBookingID):
		return apperrors.Conflict("Booking id already exists in this room").
			WithDetails(map[string]any{"booking_id": bookingID})
	}

	s.cfg.Log.Error(msg,
		"room_id", roomID,
		"booking_id", bookingID,
		"error", err,
	)
	return apperrors.StorageUnavailable(err)
}

func (s *bookingService) sanitize(booking *model.Booking) {
	booking.GuestName = sanitizer.NormalizeName(booking.GuestName)
	booking.GuestEmail = sanitizer.NormalizeEmail(booking.GuestEmail)
	booking.GuestPhone = sanitizer.NormalizePhone(booking.GuestPhone)
	booking.CheckIn = strings.TrimSpace(booking.CheckIn)
	booking.CheckOut = strings.TrimSpace(booking.CheckOut)
	booking.Status = sanitizer.NormalizeStatus(booking.Status)
	booking.Notes = strings.TrimSpace(booking.Notes)
}

func (s *bookingService) sanitizePatch(patch *model.BookingPatch) {
	apply := func(p **string, fn func(string) string) {
		if *p != nil {
			v := fn(**p)
			*p = &v
		}
	}
	apply(&patch.GuestName, sanitizer.NormalizeName)
	apply(&patch.GuestEmail, sanitizer.NormalizeEmail)
	apply(&patch.GuestPhone, sanitizer.NormalizePhone)
	apply(&patch.CheckIn, strings.TrimSpace)
	apply(&patch.CheckOut, strings.TrimSpace)
	apply(&patch.Status, sanitizer.NormalizeStatus)
	apply(&patch.Notes, strings.TrimSpace)
}
