package activity

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymroster/internal/apperrors"
	"gymroster/internal/db"
	"gymroster/internal/db/dbtest"
	"gymroster/internal/trainer"
)

func hour(h int) *int { return &h }

type fixture struct {
	conn    *sqlx.DB
	svc     Service
	checker ScheduleChecker
}

func newFixture(t *testing.T) *fixture {
	conn := dbtest.NewSQLite(t)
	dbtest.Exec(t, conn, "INSERT INTO trainers (code, national_id, name) VALUES (?, ?, ?)", "T001", "87654321X", "Marta")
	dbtest.Exec(t, conn, "INSERT INTO trainers (code, national_id, name) VALUES (?, ?, ?)", "T002", "87654321Y", "Pablo")

	repo := NewRepository(conn)
	trainers := trainer.NewRepository(conn)
	tx := db.NewTxManager(conn)

	return &fixture{
		conn:    conn,
		svc:     NewService(repo, trainers, tx),
		checker: NewScheduleChecker(repo, trainers, tx),
	}
}

func (f *fixture) count(t *testing.T) int {
	var n int
	require.NoError(t, f.conn.Get(&n, "SELECT COUNT(*) FROM activities"))
	return n
}

func TestCreate_GeneratesCodes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, SaveActivityRequest{Name: "Yoga", Price: 100, Weekday: "monday", Hour: hour(10), TrainerCode: "t001"})
	require.NoError(t, err)
	assert.Equal(t, "AC01", a.Code)
	assert.Equal(t, Monday, a.Weekday)
	assert.Equal(t, "T001", *a.TrainerCode)

	b, err := f.svc.Create(ctx, SaveActivityRequest{Name: "Spin", Price: 0, Weekday: "Friday", Hour: hour(0)})
	require.NoError(t, err)
	assert.Equal(t, "AC02", b.Code)
	assert.Nil(t, b.TrainerCode)
}

func TestScheduleConflictSymmetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	x, err := f.svc.Create(ctx, SaveActivityRequest{Name: "Yoga", Price: 100, Weekday: "Monday", Hour: hour(10), TrainerCode: "T001"})
	require.NoError(t, err)
	y, err := f.svc.Create(ctx, SaveActivityRequest{Name: "Pilates", Price: 90, Weekday: "Tuesday", Hour: hour(10), TrainerCode: "T001"})
	require.NoError(t, err)

	occupied, err := f.checker.IsOccupied(ctx, "T001", "Monday", 10, y.Code)
	require.NoError(t, err)
	assert.True(t, occupied)

	occupied, err = f.checker.IsOccupied(ctx, "T001", "Monday", 10, x.Code)
	require.NoError(t, err)
	assert.False(t, occupied)

	_, err = f.svc.Update(ctx, y.Code, SaveActivityRequest{Name: "Pilates", Price: 90, Weekday: "Monday", Hour: hour(10), TrainerCode: "T001"})
	var sce *ScheduleConflictError
	require.ErrorAs(t, err, &sce)
	assert.Equal(t, Monday, sce.Weekday)

	stored, err := f.svc.Get(ctx, y.Code)
	require.NoError(t, err)
	assert.Equal(t, Tuesday, stored.Weekday)
}

func TestCreate_ConflictWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, SaveActivityRequest{Name: "Yoga", Price: 100, Weekday: "Monday", Hour: hour(10), TrainerCode: "T001"})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, SaveActivityRequest{Name: "Box", Price: 50, Weekday: "MONDAY", Hour: hour(10), TrainerCode: "T001"})
	assert.ErrorIs(t, err, ErrScheduleConflict)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, 1, f.count(t))

	// same slot under another trainer is fine
	_, err = f.svc.Create(ctx, SaveActivityRequest{Name: "Box", Price: 50, Weekday: "Monday", Hour: hour(10), TrainerCode: "T002"})
	assert.NoError(t, err)
}

func TestUpdate_SelfExclusion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, SaveActivityRequest{Name: "Yoga", Price: 100, Weekday: "Monday", Hour: hour(10), TrainerCode: "T001"})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, a.Code, SaveActivityRequest{Name: "Yoga flow", Price: 120, Weekday: "Monday", Hour: hour(10), TrainerCode: "T001"})
	require.NoError(t, err)
	assert.Equal(t, "Yoga flow", updated.Name)

	stored, err := f.svc.Get(ctx, a.Code)
	require.NoError(t, err)
	assert.Equal(t, int64(120), stored.Price)
}

func TestSave_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{
			name: "unknown trainer",
			run: func() error {
				_, err := f.svc.Create(ctx, SaveActivityRequest{Name: "Yoga", Price: 1, Weekday: "Monday", Hour: hour(9), TrainerCode: "T999"})
				return err
			},
			wantErr: trainer.ErrTrainerNotFound,
		},
		{
			name: "update missing activity",
			run: func() error {
				_, err := f.svc.Update(ctx, "AC99", SaveActivityRequest{Name: "Yoga", Price: 1, Weekday: "Monday", Hour: hour(9)})
				return err
			},
			wantErr: ErrActivityNotFound,
		},
		{
			name: "bad weekday",
			run: func() error {
				_, err := f.svc.Create(ctx, SaveActivityRequest{Name: "Yoga", Price: 1, Weekday: "Someday", Hour: hour(9)})
				return err
			},
			wantErr: ErrInvalidWeekday,
		},
		{
			name: "bad hour",
			run: func() error {
				_, err := f.svc.Create(ctx, SaveActivityRequest{Name: "Yoga", Price: 1, Weekday: "Monday", Hour: hour(24)})
				return err
			},
			wantErr: ErrInvalidHour,
		},
		{
			name: "negative price",
			run: func() error {
				_, err := f.svc.Create(ctx, SaveActivityRequest{Name: "Yoga", Price: -5, Weekday: "Monday", Hour: hour(9)})
				return err
			},
			wantErr: ErrInvalidActivity,
		},
		{
			name: "duplicate explicit code",
			run: func() error {
				if _, err := f.svc.Create(ctx, SaveActivityRequest{Code: "AC50", Name: "Yoga", Weekday: "Monday", Hour: hour(9)}); err != nil {
					return err
				}
				_, err := f.svc.Create(ctx, SaveActivityRequest{Code: "ac50", Name: "Yoga", Weekday: "Monday", Hour: hour(9)})
				return err
			},
			wantErr: ErrDuplicateCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.wantErr)
		})
	}
}

func TestIsOccupied_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.checker.IsOccupied(ctx, "T001", "Funday", 10, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = f.checker.IsOccupied(ctx, "T001", "Monday", 30, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = f.checker.IsOccupied(ctx, "T404", "Monday", 10, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	occupied, err := f.checker.IsOccupied(ctx, "T001", "Monday", 10, "")
	assert.NoError(t, err)
	assert.False(t, occupied)
}

func TestCreate_CodesPastNinetyNine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dbtest.Exec(t, f.conn, "INSERT INTO activities (code, name, price, weekday, hour) VALUES (?, ?, ?, ?, ?)", "AC99", "Box", 10, "Friday", 8)
	dbtest.Exec(t, f.conn, "INSERT INTO activities (code, name, price, weekday, hour) VALUES (?, ?, ?, ?, ?)", "AC100", "Row", 10, "Friday", 9)

	occupied, err := f.checker.IsOccupied(ctx, "T001", "Monday", 10, "")
	require.NoError(t, err)
	assert.False(t, occupied)

	a, err := f.svc.Create(ctx, SaveActivityRequest{Name: "Yoga", Price: 100, Weekday: "Monday", Hour: hour(10), TrainerCode: "T001"})
	require.NoError(t, err)
	assert.Equal(t, "AC101", a.Code)
	assert.Equal(t, 3, f.count(t))
}

// staleCodes hands out a code that is already taken, as a concurrent writer
// would.
type staleCodes struct {
	Repository
}

func (staleCodes) LastCode(context.Context) (string, error) { return "", nil }

func TestCreate_CodeCollisionIsNotAConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dbtest.Exec(t, f.conn, "INSERT INTO activities (code, name, price, weekday, hour) VALUES (?, ?, ?, ?, ?)", "AC01", "Box", 10, "Friday", 8)

	trainers := trainer.NewRepository(f.conn)
	svc := NewService(staleCodes{NewRepository(f.conn)}, trainers, db.NewTxManager(f.conn))

	_, err := svc.Create(ctx, SaveActivityRequest{Name: "Yoga", Price: 100, Weekday: "Monday", Hour: hour(10), TrainerCode: "T001"})
	assert.ErrorIs(t, err, ErrDuplicateCode)
	var conflict *ScheduleConflictError
	assert.False(t, errors.As(err, &conflict))
	assert.Equal(t, 1, f.count(t))
}

func TestIsOccupied_NormalizesTrainerCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, SaveActivityRequest{Name: "Yoga", Price: 100, Weekday: "Monday", Hour: hour(10), TrainerCode: "T001"})
	require.NoError(t, err)

	occupied, err := f.checker.IsOccupied(ctx, " t001 ", "monday", 10, "")
	require.NoError(t, err)
	assert.True(t, occupied)
}

func TestService_DeleteCascadesEnrollments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, SaveActivityRequest{Name: "Yoga", Price: 100, Weekday: "Monday", Hour: hour(10)})
	require.NoError(t, err)
	dbtest.Exec(t, f.conn, "INSERT INTO clients (number, national_id, name, start_date, category) VALUES (?, ?, ?, ?, ?)", "S001", "12345678Z", "Luis", "01/01/2024", "A")
	dbtest.Exec(t, f.conn, "INSERT INTO enrollments (client_number, activity_code) VALUES (?, ?)", "S001", a.Code)

	require.NoError(t, f.svc.Delete(ctx, a.Code))
	assert.ErrorIs(t, f.svc.Delete(ctx, a.Code), ErrActivityNotFound)

	var n int
	require.NoError(t, f.conn.Get(&n, "SELECT COUNT(*) FROM enrollments"))
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, f.count(t))
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	activities, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, activities)

	_, err = f.svc.Create(ctx, SaveActivityRequest{Name: "Yoga", Weekday: "Monday", Hour: hour(10)})
	require.NoError(t, err)

	activities, err = f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, activities, 1)
}
