package enrollment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gymroster/internal/activity"
	"gymroster/internal/apperrors"
	"gymroster/internal/client"
	"gymroster/internal/db"
	"gymroster/internal/logger"
	"gymroster/internal/metrics"
)

var (
	ErrAlreadyEnrolled    = fmt.Errorf("client already enrolled in activity: %w", apperrors.ErrConflict)
	ErrEnrollmentNotFound = fmt.Errorf("enrollment %w", apperrors.ErrNotFound)
	ErrSameActivity       = fmt.Errorf("source and target activity are the same: %w", apperrors.ErrNoOp)
)

var tracer = otel.Tracer("gymroster/enrollment")

type Service interface {
	Enroll(ctx context.Context, clientNumber, activityCode string) (*Enrollment, error)
	Unenroll(ctx context.Context, clientNumber, activityCode string) error
	Reassign(ctx context.Context, clientNumber, fromCode, toCode string) (*Enrollment, error)

	ListEnrollments(ctx context.Context) ([]Detail, error)
	ActivitiesForClient(ctx context.Context, clientNumber string) ([]activity.Activity, error)
	MembersOfActivity(ctx context.Context, activityCode string) ([]client.Client, error)
}

type service struct {
	repo       Repository
	clients    client.Repository
	activities activity.Repository
	tx         db.Transactor
	notifier   Notifier
}

func NewService(repo Repository, clients client.Repository, activities activity.Repository, tx db.Transactor, notifier Notifier) Service {
	return &service{
		repo:       repo,
		clients:    clients,
		activities: activities,
		tx:         tx,
		notifier:   notifier,
	}
}

func (s *service) Enroll(ctx context.Context, clientNumber, activityCode string) (*Enrollment, error) {
	ctx, span := tracer.Start(ctx, "Enrollment.Enroll")
	defer span.End()
	span.SetAttributes(attribute.String("client.number", clientNumber), attribute.String("activity.code", activityCode))

	var evt Event
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		c, err := s.client(ctx, clientNumber)
		if err != nil {
			return err
		}
		a, err := s.activity(ctx, activityCode)
		if err != nil {
			return err
		}

		// Advisory only: the insert below is the authoritative check.
		exists, err := s.repo.Exists(ctx, clientNumber, activityCode)
		if err != nil {
			return apperrors.Persistence("check enrollment", err)
		}
		if exists {
			return ErrAlreadyEnrolled
		}

		if err := s.insert(ctx, clientNumber, activityCode); err != nil {
			return err
		}

		evt = Event{Type: EventEnrolled, Client: *c, Activity: *a}
		return nil
	})
	if err != nil {
		return nil, s.fail(span, "enroll", err)
	}

	metrics.RecordEnrollment("enroll", "ok")
	logger.Info("client enrolled", "client", clientNumber, "activity", activityCode)
	s.notify(ctx, evt)

	return &Enrollment{ClientNumber: clientNumber, ActivityCode: activityCode}, nil
}

func (s *service) Unenroll(ctx context.Context, clientNumber, activityCode string) error {
	ctx, span := tracer.Start(ctx, "Enrollment.Unenroll")
	defer span.End()
	span.SetAttributes(attribute.String("client.number", clientNumber), attribute.String("activity.code", activityCode))

	var evt Event
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		deleted, err := s.repo.Delete(ctx, clientNumber, activityCode)
		if err != nil {
			return apperrors.Persistence("delete enrollment", err)
		}
		if !deleted {
			return ErrEnrollmentNotFound
		}

		evt, err = s.event(ctx, EventUnenrolled, clientNumber, activityCode)
		return err
	})
	if err != nil {
		return s.fail(span, "unenroll", err)
	}

	metrics.RecordEnrollment("unenroll", "ok")
	logger.Info("client unenrolled", "client", clientNumber, "activity", activityCode)
	s.notify(ctx, evt)

	return nil
}

// Reassign moves a client from one activity to another. Both writes share
// one transaction so the client is never left in neither or both.
func (s *service) Reassign(ctx context.Context, clientNumber, fromCode, toCode string) (*Enrollment, error) {
	ctx, span := tracer.Start(ctx, "Enrollment.Reassign")
	defer span.End()
	span.SetAttributes(
		attribute.String("client.number", clientNumber),
		attribute.String("activity.from", fromCode),
		attribute.String("activity.to", toCode),
	)

	if strings.TrimSpace(fromCode) == strings.TrimSpace(toCode) {
		return nil, s.fail(span, "reassign", ErrSameActivity)
	}

	var evt Event
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		c, err := s.client(ctx, clientNumber)
		if err != nil {
			return err
		}
		to, err := s.activity(ctx, toCode)
		if err != nil {
			return err
		}

		deleted, err := s.repo.Delete(ctx, clientNumber, fromCode)
		if err != nil {
			return apperrors.Persistence("delete enrollment", err)
		}
		if !deleted {
			return ErrEnrollmentNotFound
		}

		if err := s.insert(ctx, clientNumber, toCode); err != nil {
			return err
		}

		from, err := s.activity(ctx, fromCode)
		if err != nil {
			return err
		}
		evt = Event{Type: EventReassigned, Client: *c, Activity: *to, From: from}
		return nil
	})
	if err != nil {
		return nil, s.fail(span, "reassign", err)
	}

	metrics.RecordEnrollment("reassign", "ok")
	logger.Info("client reassigned", "client", clientNumber, "from", fromCode, "to", toCode)
	s.notify(ctx, evt)

	return &Enrollment{ClientNumber: clientNumber, ActivityCode: toCode}, nil
}

func (s *service) ListEnrollments(ctx context.Context) ([]Detail, error) {
	details, err := s.repo.ListDetails(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list enrollments", err)
	}
	return details, nil
}

func (s *service) ActivitiesForClient(ctx context.Context, clientNumber string) ([]activity.Activity, error) {
	var activities []activity.Activity
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.client(ctx, clientNumber); err != nil {
			return err
		}
		var err error
		activities, err = s.repo.ActivitiesOf(ctx, clientNumber)
		return apperrors.Persistence("list client activities", err)
	})
	if err != nil {
		return nil, apperrors.Persistence("list client activities", err)
	}
	return activities, nil
}

func (s *service) MembersOfActivity(ctx context.Context, activityCode string) ([]client.Client, error) {
	var members []client.Client
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.activity(ctx, activityCode); err != nil {
			return err
		}
		var err error
		members, err = s.repo.MembersOf(ctx, activityCode)
		return apperrors.Persistence("list activity members", err)
	})
	if err != nil {
		return nil, apperrors.Persistence("list activity members", err)
	}
	return members, nil
}

func (s *service) insert(ctx context.Context, clientNumber, activityCode string) error {
	inserted, err := s.repo.Insert(ctx, clientNumber, activityCode)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrAlreadyEnrolled
		}
		return apperrors.Persistence("insert enrollment", err)
	}
	if !inserted {
		return ErrAlreadyEnrolled
	}
	return nil
}

func (s *service) client(ctx context.Context, number string) (*client.Client, error) {
	c, err := s.clients.FindByNumber(ctx, number)
	if err != nil {
		return nil, apperrors.Persistence("find client", err)
	}
	if c == nil {
		return nil, client.ErrClientNotFound
	}
	return c, nil
}

func (s *service) activity(ctx context.Context, code string) (*activity.Activity, error) {
	a, err := s.activities.FindByCode(ctx, code)
	if err != nil {
		return nil, apperrors.Persistence("find activity", err)
	}
	if a == nil {
		return nil, activity.ErrActivityNotFound
	}
	return a, nil
}

func (s *service) event(ctx context.Context, typ EventType, clientNumber, activityCode string) (Event, error) {
	c, err := s.client(ctx, clientNumber)
	if err != nil {
		return Event{}, err
	}
	a, err := s.activity(ctx, activityCode)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: typ, Client: *c, Activity: *a}, nil
}

// fail records the outcome of a rejected operation and returns the error
// the caller should see.
func (s *service) fail(span trace.Span, op string, err error) error {
	err = apperrors.Persistence(op, err)

	switch {
	case errors.Is(err, apperrors.ErrNoOp):
		metrics.RecordEnrollment(op, "noop")
		logger.Info("enrollment change skipped", "operation", op, "reason", err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		metrics.RecordEnrollment(op, "conflict")
		logger.Info("enrollment change rejected", "operation", op, "reason", err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		metrics.RecordEnrollment(op, "not_found")
	default:
		metrics.RecordEnrollment(op, "error")
		logger.Error("enrollment change failed", "operation", op, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s *service) notify(ctx context.Context, evt Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, evt); err != nil {
		logger.Warn("enrollment notification failed", "type", string(evt.Type), "client", evt.Client.Number, "error", err)
	}
}
