package validator

import (
	"errors"
	"fmt"

	"khietan/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

type RoomValidator struct {
	validate *validator.Validate
}

func NewRoomValidator() *RoomValidator {
	return &RoomValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *RoomValidator) Validate(room *model.Room) error {
	return v.check(room)
}

func (v *RoomValidator) ValidatePatch(patch *model.RoomPatch) error {
	return v.check(patch)
}

func (v *RoomValidator) check(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

var fieldNames = map[string]string{
	"RoomID":      "room_id",
	"Name":        "name",
	"Price":       "price",
	"Capacity":    "capacity",
	"Description": "description",
	"Amenities":   "amenities",
	"ImageURL":    "image_url",
	"Status":      "status",
	"BookedUntil": "booked_until",
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		field, ok := fieldNames[err.StructField()]
		if !ok {
			field = err.Field()
		}
		validationErrors = append(validationErrors, ValidationError{
			Field:   field,
			Message: message(err),
		})
	}

	return validationErrors
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		if err.Kind().String() == "string" {
			return "cannot be empty"
		}
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", err.Param())
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}
