package enrollment

import (
	"context"
	"errors"
)

// Notifier is told about enrollment changes after they commit.
type Notifier interface {
	Notify(ctx context.Context, evt Event) error
}

// Notifiers fans an event out to every member and joins their errors.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, evt Event) error {
	var errs []error
	for _, n := range ns {
		if err := n.Notify(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
