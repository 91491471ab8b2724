package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymroster/internal/activity"
	"gymroster/internal/client"
	"gymroster/internal/enrollment"
)

type fakeConn struct {
	subject string
	data    []byte
	err     error
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	c.subject = subject
	c.data = data
	return c.err
}

func TestNotify_Reassigned(t *testing.T) {
	conn := &fakeConn{}
	p := NewPublisher(conn)
	p.now = func() time.Time { return time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC) }

	err := p.Notify(context.Background(), enrollment.Event{
		Type:     enrollment.EventReassigned,
		Client:   client.Client{Number: "S001"},
		Activity: activity.Activity{Code: "AC02"},
		From:     &activity.Activity{Code: "AC01"},
	})
	require.NoError(t, err)

	assert.Equal(t, "enrollment.reassigned", conn.subject)

	var got EnrollmentEvent
	require.NoError(t, json.Unmarshal(conn.data, &got))
	assert.NotEqual(t, uuid.Nil, got.EventID)
	assert.Equal(t, "S001", got.ClientNumber)
	assert.Equal(t, "AC02", got.ActivityCode)
	assert.Equal(t, "AC01", got.FromActivityCode)
	assert.True(t, got.OccurredAt.Equal(time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)))
}

func TestNotify_EnrolledOmitsSource(t *testing.T) {
	conn := &fakeConn{}

	err := NewPublisher(conn).Notify(context.Background(), enrollment.Event{
		Type:     enrollment.EventEnrolled,
		Client:   client.Client{Number: "S001"},
		Activity: activity.Activity{Code: "AC01"},
	})
	require.NoError(t, err)

	assert.Equal(t, "enrollment.created", conn.subject)
	assert.NotContains(t, string(conn.data), "from_activity_code")
}

func TestNotify_PublishError(t *testing.T) {
	conn := &fakeConn{err: errors.New("nats: connection closed")}

	err := NewPublisher(conn).Notify(context.Background(), enrollment.Event{Type: enrollment.EventUnenrolled})
	assert.ErrorContains(t, err, "connection closed")
}
