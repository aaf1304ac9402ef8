package validator

import (
	"errors"
	"fmt"
	"strings"

	"khietan/pkg/logger"
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
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("nonblank", validateNonBlank); err != nil {
		log.Fatal("Failed to register 'nonblank' validator",
			"error", err,
		)
	}

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// validateNonBlank rejects strings made only of whitespace.
func validateNonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	return v.check(booking)
}

func (v *BookingValidator) ValidatePatch(patch *model.BookingPatch) error {
	return v.check(patch)
}

func (v *BookingValidator) check(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

var fieldNames = map[string]string{
	"BookingID":      "booking_id",
	"GuestName":      "guest_name",
	"GuestEmail":     "guest_email",
	"GuestPhone":     "guest_phone",
	"CheckIn":        "check_in",
	"CheckOut":       "check_out",
	"NumberOfGuests": "number_of_guests",
	"TotalPrice":     "total_price",
	"Status":         "status",
	"Notes":          "notes",
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		field, ok := fieldNames[err.StructField()]
		if !ok {
			field = err.Field()
		}

		var msg string
		switch err.Tag() {
		case "required", "nonblank":
			msg = "is required"
		case "max":
			msg = fmt.Sprintf("must be at most %s", err.Param())
		case "gte":
			msg = fmt.Sprintf("must be greater than or equal to %s", err.Param())
		default:
			msg = fmt.Sprintf("failed %s validation", err.Tag())
		}

		validationErrors = append(validationErrors, ValidationError{Field: field, Message: msg})
	}

	return validationErrors
}
