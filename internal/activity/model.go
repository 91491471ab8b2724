package activity

import (
	"fmt"
	"strings"

	"gymroster/internal/apperrors"
)

type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

var weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var (
	ErrInvalidWeekday = fmt.Errorf("weekday must be an English day name: %w", apperrors.ErrInvalidInput)
	ErrInvalidHour    = fmt.Errorf("hour must be between 0 and 23: %w", apperrors.ErrInvalidInput)
)

// ParseWeekday accepts any casing and returns the canonical name.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	for _, d := range weekdays {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", ErrInvalidWeekday
}

func ValidateHour(hour int) error {
	if hour < 0 || hour > 23 {
		return ErrInvalidHour
	}
	return nil
}

type Activity struct {
	Code        string  `db:"code" json:"code"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description,omitempty"`
	Price       int64   `db:"price" json:"price"`
	Weekday     Weekday `db:"weekday" json:"weekday"`
	Hour        int     `db:"hour" json:"hour"`
	TrainerCode *string `db:"trainer_code" json:"trainer_code"`
}

func (a Activity) HasTrainer() bool {
	return a.TrainerCode != nil && *a.TrainerCode != ""
}

type SaveActivityRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"min=0"`
	Weekday     string `json:"weekday" binding:"required"`
	Hour        *int   `json:"hour" binding:"required,min=0,max=23"`
	TrainerCode string `json:"trainer_code"`
}

// ScheduleConflictError names the slot a trainer is already booked for.
type ScheduleConflictError struct {
	TrainerCode string
	Weekday     Weekday
	Hour        int
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("trainer %s already has an activity on %s at %02d:00", e.TrainerCode, e.Weekday, e.Hour)
}

func (e *ScheduleConflictError) Unwrap() error {
	return ErrScheduleConflict
}
