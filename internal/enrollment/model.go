package enrollment

import (
	"gymroster/internal/activity"
	"gymroster/internal/client"
)

type Enrollment struct {
	ClientNumber string `db:"client_number" json:"client_number"`
	ActivityCode string `db:"activity_code" json:"activity_code"`
}

// Detail is one row of the enrollment listing.
type Detail struct {
	ActivityCode string `db:"activity_code" json:"activity_code"`
	ActivityName string `db:"activity_name" json:"activity_name"`
	ClientNumber string `db:"client_number" json:"client_number"`
	ClientName   string `db:"client_name" json:"client_name"`
	NationalID   string `db:"national_id" json:"national_id"`
}

type EnrollRequest struct {
	ClientNumber string `json:"client_number" binding:"required"`
	ActivityCode string `json:"activity_code" binding:"required"`
}

type ReassignRequest struct {
	ClientNumber     string `json:"client_number" binding:"required"`
	FromActivityCode string `json:"from_activity_code" binding:"required"`
	ToActivityCode   string `json:"to_activity_code" binding:"required"`
}

type EventType string

const (
	EventEnrolled   EventType = "enrollment.created"
	EventUnenrolled EventType = "enrollment.deleted"
	EventReassigned EventType = "enrollment.reassigned"
)

// Event describes a committed change to the enrollment relation. From is
// only set for reassignments.
type Event struct {
	Type     EventType
	Client   client.Client
	Activity activity.Activity
	From     *activity.Activity
}
