package activity

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"gymroster/internal/apperrors"
	"gymroster/internal/db"
	"gymroster/internal/trainer"
)

// ScheduleChecker answers whether a trainer already leads an activity at a
// given weekday and hour.
type ScheduleChecker interface {
	IsOccupied(ctx context.Context, trainerCode, weekday string, hour int, excludingCode string) (bool, error)
}

type scheduleChecker struct {
	repo     Repository
	trainers trainer.Repository
	tx       db.Transactor
}

func NewScheduleChecker(repo Repository, trainers trainer.Repository, tx db.Transactor) ScheduleChecker {
	return &scheduleChecker{
		repo:     repo,
		trainers: trainers,
		tx:       tx,
	}
}

func (c *scheduleChecker) IsOccupied(ctx context.Context, trainerCode, weekday string, hour int, excludingCode string) (bool, error) {
	ctx, span := otel.Tracer("gymroster/activity").Start(ctx, "ScheduleChecker.IsOccupied")
	defer span.End()
	span.SetAttributes(
		attribute.String("trainer.code", trainerCode),
		attribute.String("slot.weekday", weekday),
		attribute.Int("slot.hour", hour),
	)

	day, err := ParseWeekday(weekday)
	if err != nil {
		return false, err
	}
	if err := ValidateHour(hour); err != nil {
		return false, err
	}

	var occupied bool
	err = c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		occupied, err = c.occupied(ctx, strings.ToUpper(strings.TrimSpace(trainerCode)), day, hour, excludingCode)
		return err
	})
	if err != nil {
		return false, apperrors.Persistence("check trainer slot", err)
	}
	return occupied, nil
}

// occupied runs on whatever transaction ctx carries so that Save can reuse
// it before writing.
func (c *scheduleChecker) occupied(ctx context.Context, trainerCode string, day Weekday, hour int, excludingCode string) (bool, error) {
	t, err := c.trainers.FindByCode(ctx, trainerCode)
	if err != nil {
		return false, apperrors.Persistence("find trainer", err)
	}
	if t == nil {
		return false, trainer.ErrTrainerNotFound
	}

	taken, err := c.repo.SlotTaken(ctx, trainerCode, day, hour, excludingCode)
	if err != nil {
		return false, apperrors.Persistence("check trainer slot", err)
	}
	return taken, nil
}
