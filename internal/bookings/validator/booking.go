package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MuhammadFeyaz/go2koereskole/internal/bookings/conflict"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/logger"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/model"
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
	validate         *validator.Validate
	allowedLocations map[string]struct{}
	maxDurationMin   int
	logger           *logger.Logger
}

// NewBookingValidator builds the input gate for booking admission. The
// allowed pickup locations and the duration cap are injected from config so
// the list exists in exactly one place.
func NewBookingValidator(log *logger.Logger, allowedLocations []string, maxDurationMin int) *BookingValidator {
	allowed := make(map[string]struct{}, len(allowedLocations))
	for _, loc := range allowedLocations {
		allowed[loc] = struct{}{}
	}

	log.Info("Booking validator initialized",
		"allowed_locations", len(allowedLocations),
		"max_duration_min", maxDurationMin,
	)

	return &BookingValidator{
		validate:         validator.New(),
		allowedLocations: allowed,
		maxDurationMin:   maxDurationMin,
		logger:           log,
	}
}

// Validate rejects malformed bookings before they reach conflict resolution.
// In particular, a booking whose date or start time does not parse is turned
// away here rather than being admitted unchecked.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if _, ok := v.allowedLocations[booking.Location]; !ok {
		return ValidationErrors{
			ValidationError{
				Field:   "Location",
				Message: fmt.Sprintf("%q is not an allowed pickup location", booking.Location),
			},
		}
	}

	if booking.DurationMin > v.maxDurationMin {
		return ValidationErrors{
			ValidationError{
				Field:   "DurationMin",
				Message: fmt.Sprintf("duration (%d min) exceeds the maximum lesson length (%d min)", booking.DurationMin, v.maxDurationMin),
			},
		}
	}

	if _, ok := conflict.FromBooking(booking); !ok {
		return ValidationErrors{
			ValidationError{
				Field:   "Date",
				Message: fmt.Sprintf("date %q and start time %q do not form a valid instant", booking.Date, booking.StartTime),
			},
		}
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "datetime":
			message = fmt.Sprintf("%s must match the format %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
