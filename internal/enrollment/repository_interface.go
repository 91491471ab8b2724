package enrollment

import (
	"context"

	"gymroster/internal/activity"
	"gymroster/internal/client"
)

type Repository interface {
	Exists(ctx context.Context, clientNumber, activityCode string) (bool, error)
	// Insert adds the pair and reports false when it was already present.
	Insert(ctx context.Context, clientNumber, activityCode string) (bool, error)
	// Delete removes the pair and reports false when it was absent.
	Delete(ctx context.Context, clientNumber, activityCode string) (bool, error)
	ListDetails(ctx context.Context) ([]Detail, error)
	ActivitiesOf(ctx context.Context, clientNumber string) ([]activity.Activity, error)
	MembersOf(ctx context.Context, activityCode string) ([]client.Client, error)
}
