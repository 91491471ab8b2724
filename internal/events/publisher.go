package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"gymroster/internal/enrollment"
	"gymroster/internal/logger"
	"gymroster/internal/metrics"
)

// Conn is the subset of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

type EnrollmentEvent struct {
	EventID          uuid.UUID `json:"event_id"`
	EventType        string    `json:"event_type"`
	ClientNumber     string    `json:"client_number"`
	ActivityCode     string    `json:"activity_code"`
	FromActivityCode string    `json:"from_activity_code,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// NatsPublisher implements enrollment.Notifier by publishing each change on
// a subject named after its event type.
type NatsPublisher struct {
	conn Conn
	now  func() time.Time
}

func NewNatsPublisher(natsURL string) (*NatsPublisher, *nats.Conn, error) {
	nc, err := nats.Connect(natsURL, nats.Name("gymroster"))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to nats: %w", err)
	}
	return NewPublisher(nc), nc, nil
}

func NewPublisher(conn Conn) *NatsPublisher {
	return &NatsPublisher{conn: conn, now: time.Now}
}

func (p *NatsPublisher) Notify(ctx context.Context, evt enrollment.Event) error {
	event := EnrollmentEvent{
		EventID:      uuid.New(),
		EventType:    string(evt.Type),
		ClientNumber: evt.Client.Number,
		ActivityCode: evt.Activity.Code,
		OccurredAt:   p.now().UTC(),
	}
	if evt.From != nil {
		event.FromActivityCode = evt.From.Code
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}

	subject := string(evt.Type)
	if err := p.conn.Publish(subject, eventJSON); err != nil {
		metrics.RecordNotification("nats", "failed")
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	metrics.RecordNotification("nats", "published")
	logger.Debug("published event", "subject", subject, "event_id", event.EventID.String())
	return nil
}
