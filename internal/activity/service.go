package activity

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"

	"gymroster/internal/apperrors"
	"gymroster/internal/db"
	"gymroster/internal/logger"
	"gymroster/internal/metrics"
	"gymroster/internal/trainer"
)

var (
	ErrActivityNotFound = fmt.Errorf("activity %w", apperrors.ErrNotFound)
	ErrScheduleConflict = fmt.Errorf("trainer already booked for that slot: %w", apperrors.ErrConflict)
	ErrDuplicateCode    = fmt.Errorf("activity code already registered: %w", apperrors.ErrConflict)
	ErrInvalidActivity  = fmt.Errorf("activity needs a name and a non-negative price: %w", apperrors.ErrInvalidInput)
)

type Service interface {
	Create(ctx context.Context, req SaveActivityRequest) (*Activity, error)
	Update(ctx context.Context, code string, req SaveActivityRequest) (*Activity, error)
	Get(ctx context.Context, code string) (*Activity, error)
	List(ctx context.Context) ([]Activity, error)
	Delete(ctx context.Context, code string) error
}

type service struct {
	repo    Repository
	checker *scheduleChecker
	tx      db.Transactor
}

func NewService(repo Repository, trainers trainer.Repository, tx db.Transactor) Service {
	return &service{
		repo:    repo,
		checker: &scheduleChecker{repo: repo, trainers: trainers, tx: tx},
		tx:      tx,
	}
}

func (s *service) Create(ctx context.Context, req SaveActivityRequest) (*Activity, error) {
	a, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	a.Code = strings.ToUpper(strings.TrimSpace(req.Code))

	err = s.save(ctx, a, false)
	if err != nil {
		return nil, err
	}
	logger.Info("activity created", "code", a.Code, "weekday", a.Weekday, "hour", a.Hour)
	return a, nil
}

func (s *service) Update(ctx context.Context, code string, req SaveActivityRequest) (*Activity, error) {
	a, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	a.Code = code

	if err := s.save(ctx, a, true); err != nil {
		return nil, err
	}
	logger.Info("activity updated", "code", a.Code, "weekday", a.Weekday, "hour", a.Hour)
	return a, nil
}

// save writes a inside one transaction after the trainer slot check. A
// conflicting slot aborts the transaction before anything is written.
func (s *service) save(ctx context.Context, a *Activity, update bool) error {
	ctx, span := otel.Tracer("gymroster/activity").Start(ctx, "Service.Save")
	defer span.End()

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if update {
			existing, err := s.repo.FindByCode(ctx, a.Code)
			if err != nil {
				return apperrors.Persistence("find activity", err)
			}
			if existing == nil {
				return ErrActivityNotFound
			}
		} else if a.Code == "" {
			last, err := s.repo.LastCode(ctx)
			if err != nil {
				return apperrors.Persistence("next activity code", err)
			}
			a.Code = db.NextCode(last, 2, 2, "AC01")
		} else {
			existing, err := s.repo.FindByCode(ctx, a.Code)
			if err != nil {
				return apperrors.Persistence("find activity", err)
			}
			if existing != nil {
				return ErrDuplicateCode
			}
		}

		if a.HasTrainer() {
			excluding := ""
			if update {
				excluding = a.Code
			}
			taken, err := s.checker.occupied(ctx, *a.TrainerCode, a.Weekday, a.Hour, excluding)
			if err != nil {
				return err
			}
			if taken {
				return s.conflict(a)
			}
		}

		write := s.repo.Create
		if update {
			write = s.repo.Update
		}
		if err := write(ctx, a); err != nil {
			switch {
			case trainerSlotKey.ViolatedBy(err) && a.HasTrainer():
				return s.conflict(a)
			case db.IsUniqueViolation(err):
				return ErrDuplicateCode
			}
			return apperrors.Persistence("save activity", err)
		}
		return nil
	})
	if err != nil && !apperrors.IsKnown(err) {
		logger.Error("activity save failed", "code", a.Code, "error", err)
		return apperrors.Persistence("save activity", err)
	}
	return err
}

func (s *service) conflict(a *Activity) error {
	logger.Info("schedule conflict", "trainer", *a.TrainerCode, "weekday", a.Weekday, "hour", a.Hour)
	metrics.RecordScheduleConflict()
	return &ScheduleConflictError{TrainerCode: *a.TrainerCode, Weekday: a.Weekday, Hour: a.Hour}
}

func (s *service) Get(ctx context.Context, code string) (*Activity, error) {
	a, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, apperrors.Persistence("find activity", err)
	}
	if a == nil {
		return nil, ErrActivityNotFound
	}
	return a, nil
}

func (s *service) List(ctx context.Context) ([]Activity, error) {
	activities, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list activities", err)
	}
	return activities, nil
}

func (s *service) Delete(ctx context.Context, code string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		deleted, err := s.repo.Delete(ctx, code)
		if err != nil {
			return apperrors.Persistence("delete activity", err)
		}
		if !deleted {
			return ErrActivityNotFound
		}
		return nil
	})
	if err != nil {
		return apperrors.Persistence("delete activity", err)
	}
	logger.Info("activity deleted", "code", code)
	return nil
}

func fromRequest(req SaveActivityRequest) (*Activity, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Price < 0 {
		return nil, ErrInvalidActivity
	}
	day, err := ParseWeekday(req.Weekday)
	if err != nil {
		return nil, err
	}
	if req.Hour == nil {
		return nil, ErrInvalidHour
	}
	if err := ValidateHour(*req.Hour); err != nil {
		return nil, err
	}

	a := &Activity{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Weekday:     day,
		Hour:        *req.Hour,
	}
	if tc := strings.ToUpper(strings.TrimSpace(req.TrainerCode)); tc != "" {
		a.TrainerCode = &tc
	}
	return a, nil
}
