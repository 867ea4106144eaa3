package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MuhammadFeyaz/go2koereskole/pkg/kafka"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/model"
)

const (
	TypeCreated  = "booking.created"
	TypeApproved = "booking.approved"
	TypeDenied   = "booking.denied"
)

// Event is the booking lifecycle record published for downstream consumers
// (reminder jobs, analytics). Publishing is best-effort and never gates the
// booking decision itself.
type Event struct {
	Type        string    `json:"type"`
	BookingID   string    `json:"booking_id"`
	StudentID   string    `json:"student_id"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
	DurationMin int       `json:"duration_min"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func New(eventType string, b *model.Booking) Event {
	return Event{
		Type:        eventType,
		BookingID:   b.ID,
		StudentID:   b.StudentID,
		Location:    b.Location,
		Date:        b.Date,
		StartTime:   b.StartTime,
		DurationMin: b.DurationMin,
		Status:      b.Status,
		OccurredAt:  time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher is used when no Kafka brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

type KafkaPublisher struct {
	producer *kafka.Producer
}

func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, event.BookingID, value)
}
