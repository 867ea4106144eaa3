package validator

import (
	"io"
	"testing"

	"github.com/MuhammadFeyaz/go2koereskole/pkg/config"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/logger"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/model"
)

func newTestValidator() *BookingValidator {
	log := logger.New(logger.Config{Output: io.Discard, Level: logger.ERROR})
	return NewBookingValidator(log, config.DefaultAllowedLocations, config.DefaultMaxLessonDurationMin)
}

func validBooking() *model.Booking {
	return &model.Booking{
		StudentID:   "student-1",
		StudentName: "Mette Jensen",
		Location:    config.DefaultAllowedLocations[0],
		Date:        "2025-03-10",
		StartTime:   "10:00",
		DurationMin: 60,
		Status:      model.StatusPending,
	}
}

func TestValidateAcceptsWellFormedBooking(t *testing.T) {
	v := newTestValidator()
	if err := v.Validate(validBooking()); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name   string
		mutate func(b *model.Booking)
	}{
		{"missing student id", func(b *model.Booking) { b.StudentID = "" }},
		{"missing location", func(b *model.Booking) { b.Location = "" }},
		{"location not on allowed list", func(b *model.Booking) { b.Location = "Odense – Banegård" }},
		{"date wrong format", func(b *model.Booking) { b.Date = "10/03/2025" }},
		{"date not a real day", func(b *model.Booking) { b.Date = "2025-02-30" }},
		{"time wrong format", func(b *model.Booking) { b.StartTime = "10am" }},
		{"time out of range", func(b *model.Booking) { b.StartTime = "25:00" }},
		{"zero duration", func(b *model.Booking) { b.DurationMin = 0 }},
		{"negative duration", func(b *model.Booking) { b.DurationMin = -30 }},
		{"duration over cap", func(b *model.Booking) { b.DurationMin = config.DefaultMaxLessonDurationMin + 1 }},
		{"invalid status", func(b *model.Booking) { b.Status = "MAYBE" }},
		{"bad email", func(b *model.Booking) { b.StudentEmail = "not-an-email" }},
		{"oversized note", func(b *model.Booking) {
			for len(b.Note) <= 500 {
				b.Note += "aaaaaaaaaa"
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)
			if err := v.Validate(b); err == nil {
				t.Errorf("Validate() accepted booking with %s", tt.name)
			}
		})
	}
}

func TestValidateReportsFieldNames(t *testing.T) {
	v := newTestValidator()

	b := validBooking()
	b.Location = "Odense – Banegård"
	err := v.Validate(b)
	if err == nil {
		t.Fatal("Validate() accepted unknown location")
	}

	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}
	if len(verrs) != 1 || verrs[0].Field != "Location" {
		t.Errorf("errors = %v, want single Location error", verrs)
	}
}
