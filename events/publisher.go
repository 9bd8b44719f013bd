package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	AssessmentCreated   = "assessment.created"
	PrescriptionUpdated = "prescription.updated"
)

// Event is a domain notification published after a committed change.
type Event struct {
	Type           string    `json:"type"`
	AssessmentID   string    `json:"assessmentID,omitempty"`
	PatientID      string    `json:"patientID"`
	DoctorID       string    `json:"doctorID,omitempty"`
	PrescriptionID string    `json:"prescriptionID,omitempty"`
	TokenID        string    `json:"tokenID,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Publisher sends domain events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON messages keyed by patient ID, so all
// events of one patient land on the same partition.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

// NewPublisher returns a Kafka publisher, or a publisher that drops every
// event when no brokers are configured.
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 || topic == "" {
		return nopPublisher{}
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &KafkaPublisher{writer: writer, timeout: 10 * time.Second}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.PatientID),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

func (nopPublisher) Close() error { return nil }
