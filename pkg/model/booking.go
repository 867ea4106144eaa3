package model

import "time"

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusDenied   = "DENIED"
)

// Booking is one requested or confirmed driving lesson. Date and StartTime
// are civil wall-clock values ("2006-01-02" and "15:04"); the school operates
// in a single locale, so no timezone is attached.
type Booking struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StudentID    string    `json:"student_id" bson:"student_id" validate:"required"`
	StudentName  string    `json:"student_name" bson:"student_name" validate:"omitempty,max=100"`
	StudentEmail string    `json:"student_email" bson:"student_email" validate:"omitempty,email"`
	StudentPhone string    `json:"student_phone" bson:"student_phone" validate:"omitempty,max=30"`
	Location     string    `json:"location" bson:"location" validate:"required"`
	Date         string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string    `json:"start_time" bson:"start_time" validate:"required,datetime=15:04"`
	DurationMin  int       `json:"duration_min" bson:"duration_min" validate:"required,min=1"`
	LessonType   string    `json:"lesson_type" bson:"lesson_type" validate:"omitempty,max=100"`
	Note         string    `json:"note" bson:"note" validate:"omitempty,max=500"`
	Status       string    `json:"status" bson:"status" validate:"required,oneof=PENDING APPROVED DENIED"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// IsActive reports whether the booking participates in overlap checks.
// Denied bookings are inert: they never block another interval.
func (b *Booking) IsActive() bool {
	return b.Status != StatusDenied
}
