package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	AppointmentRequested   = "appointment.requested"
	AppointmentConfirmed   = "appointment.confirmed"
	AppointmentCompleted   = "appointment.completed"
	AppointmentCancelled   = "appointment.cancelled"
	AppointmentNoShow      = "appointment.no_show"
	AppointmentRescheduled = "appointment.rescheduled"
	AppointmentReminder    = "appointment.reminder"
	LawyerApproved         = "lawyer.approved"
	LawyerRejected         = "lawyer.rejected"
	LawyerSuspended        = "lawyer.suspended"
	LawyerReinstated       = "lawyer.reinstated"
)

// Event is the envelope written to the topic. Key orders events of one aggregate.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func New(eventType, key string, data any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// NewPublisher writes to topic on brokers; with no brokers events are only logged
func NewPublisher(brokers []string, topic string, log *zap.Logger) Publisher {
	log = log.With(zap.String("component", "events"))
	if len(brokers) == 0 || topic == "" {
		log.Info("KAFKA_BROKERS not set, domain events are logged only")
		return &Noop{log: log}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
	return &kafkaPublisher{writer: writer, log: log}
}

func (p *kafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode event %s: %w", e.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.Key),
			Value: value,
			Time:  e.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(e.Type)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.log.Error("Failed to publish events", zap.Error(err), zap.Int("count", len(msgs)))
		return fmt.Errorf("publish events: %w", err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop drops events after logging them at debug level
type Noop struct {
	log *zap.Logger
}

func (n *Noop) Publish(ctx context.Context, events ...Event) error {
	if n.log == nil {
		return nil
	}
	for _, e := range events {
		n.log.Debug("Event", zap.String("type", e.Type), zap.String("key", e.Key))
	}
	return nil
}

func (n *Noop) Close() error { return nil }
