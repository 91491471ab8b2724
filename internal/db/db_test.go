package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymroster/internal/db"
	"gymroster/internal/db/dbtest"
)

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := db.Connect("mysql", "whatever")
	assert.Error(t, err)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	conn := dbtest.NewSQLite(t)

	require.NoError(t, db.RunMigrations(conn))

	var n int
	require.NoError(t, conn.Get(&n, "SELECT COUNT(*) FROM enrollments"))
	assert.Equal(t, 0, n)
}

func TestSchema_TrainerSlotIsUnique(t *testing.T) {
	conn := dbtest.NewSQLite(t)
	dbtest.Exec(t, conn, "INSERT INTO trainers (code, national_id, name) VALUES (?, ?, ?)", "T001", "12345678A", "Ana")
	dbtest.Exec(t, conn, "INSERT INTO activities (code, name, price, weekday, hour, trainer_code) VALUES (?, ?, ?, ?, ?, ?)", "AC01", "Yoga", 100, "Monday", 10, "T001")

	_, err := conn.Exec("INSERT INTO activities (code, name, price, weekday, hour, trainer_code) VALUES (?, ?, ?, ?, ?, ?)", "AC02", "Pilates", 80, "Monday", 10, "T001")
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))

	// unassigned activities never collide
	dbtest.Exec(t, conn, "INSERT INTO activities (code, name, price, weekday, hour) VALUES (?, ?, ?, ?, ?)", "AC03", "Spin", 50, "Monday", 10)
	dbtest.Exec(t, conn, "INSERT INTO activities (code, name, price, weekday, hour) VALUES (?, ?, ?, ?, ?)", "AC04", "Box", 50, "Monday", 10)
}

func TestSchema_RejectsInvalidHourAndPrice(t *testing.T) {
	conn := dbtest.NewSQLite(t)

	_, err := conn.Exec("INSERT INTO activities (code, name, price, weekday, hour) VALUES (?, ?, ?, ?, ?)", "AC01", "Yoga", 10, "Monday", 24)
	assert.Error(t, err)

	_, err = conn.Exec("INSERT INTO activities (code, name, price, weekday, hour) VALUES (?, ?, ?, ?, ?)", "AC01", "Yoga", -1, "Monday", 9)
	assert.Error(t, err)
}

func TestSchema_EnrollmentsCascade(t *testing.T) {
	conn := dbtest.NewSQLite(t)
	dbtest.Exec(t, conn, "INSERT INTO clients (number, national_id, name, start_date, category) VALUES (?, ?, ?, ?, ?)", "S001", "12345678Z", "Luis", "01/01/2024", "A")
	dbtest.Exec(t, conn, "INSERT INTO activities (code, name, price, weekday, hour) VALUES (?, ?, ?, ?, ?)", "AC01", "Yoga", 100, "Monday", 10)
	dbtest.Exec(t, conn, "INSERT INTO enrollments (client_number, activity_code) VALUES (?, ?)", "S001", "AC01")

	dbtest.Exec(t, conn, "DELETE FROM clients WHERE number = ?", "S001")

	var n int
	require.NoError(t, conn.Get(&n, "SELECT COUNT(*) FROM enrollments"))
	assert.Equal(t, 0, n)
}

func TestWithinTransaction(t *testing.T) {
	insert := func(ctx context.Context, conn db.Executor, code string) error {
		_, err := conn.ExecContext(ctx, conn.Rebind("INSERT INTO activities (code, name, price, weekday, hour) VALUES (?, 'x', 1, 'Monday', 1)"), code)
		return err
	}
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		fn        func(m *db.TxManager) func(ctx context.Context) error
		wantErr   error
		wantPanic bool
		wantRows  int
	}{
		{
			name: "commits on success",
			fn: func(m *db.TxManager) func(ctx context.Context) error {
				return func(ctx context.Context) error {
					return insert(ctx, db.Conn(ctx, nil), "AC01")
				}
			},
			wantRows: 1,
		},
		{
			name: "rolls back on error",
			fn: func(m *db.TxManager) func(ctx context.Context) error {
				return func(ctx context.Context) error {
					if err := insert(ctx, db.Conn(ctx, nil), "AC01"); err != nil {
						return err
					}
					return errBoom
				}
			},
			wantErr:  errBoom,
			wantRows: 0,
		},
		{
			name: "rolls back on panic",
			fn: func(m *db.TxManager) func(ctx context.Context) error {
				return func(ctx context.Context) error {
					_ = insert(ctx, db.Conn(ctx, nil), "AC01")
					panic("boom")
				}
			},
			wantPanic: true,
			wantRows:  0,
		},
		{
			name: "nested call joins outer transaction",
			fn: func(m *db.TxManager) func(ctx context.Context) error {
				return func(ctx context.Context) error {
					err := m.WithinTransaction(ctx, func(inner context.Context) error {
						assert.Same(t, db.Conn(ctx, nil), db.Conn(inner, nil))
						return insert(inner, db.Conn(inner, nil), "AC01")
					})
					if err != nil {
						return err
					}
					return errBoom
				}
			},
			wantErr:  errBoom,
			wantRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dbtest.NewSQLite(t)
			m := db.NewTxManager(conn)

			run := func() error { return m.WithinTransaction(context.Background(), tt.fn(m)) }
			if tt.wantPanic {
				assert.Panics(t, func() { _ = run() })
			} else {
				err := run()
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.NoError(t, err)
				}
			}

			var n int
			require.NoError(t, conn.Get(&n, "SELECT COUNT(*) FROM activities"))
			assert.Equal(t, tt.wantRows, n)
		})
	}
}

func TestConn_OutsideTransaction(t *testing.T) {
	conn := dbtest.NewSQLite(t)
	assert.Same(t, conn, db.Conn(context.Background(), conn))
	assert.False(t, db.InTransaction(context.Background()))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, db.IsUniqueViolation(nil))
	assert.False(t, db.IsUniqueViolation(errors.New("connection refused")))
	assert.True(t, db.IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, db.IsUniqueViolation(&pq.Error{Code: "23503"}))
}

func TestUniqueKey_ViolatedBy(t *testing.T) {
	slot := db.UniqueKey{Name: "idx_activities_trainer_slot", Columns: "activities.trainer_code, activities.weekday, activities.hour"}
	pkey := db.UniqueKey{Name: "activities_pkey", Columns: "activities.code"}

	t.Run("postgres", func(t *testing.T) {
		err := &pq.Error{Code: "23505", Constraint: "idx_activities_trainer_slot"}
		assert.True(t, slot.ViolatedBy(err))
		assert.False(t, pkey.ViolatedBy(err))
		assert.False(t, slot.ViolatedBy(&pq.Error{Code: "23503", Constraint: "idx_activities_trainer_slot"}))
	})

	t.Run("sqlite", func(t *testing.T) {
		conn := dbtest.NewSQLite(t)
		dbtest.Exec(t, conn, "INSERT INTO trainers (code, national_id, name) VALUES (?, ?, ?)", "T001", "12345678A", "Ana")
		dbtest.Exec(t, conn, "INSERT INTO activities (code, name, price, weekday, hour, trainer_code) VALUES (?, ?, ?, ?, ?, ?)", "AC01", "Yoga", 100, "Monday", 10, "T001")

		_, slotErr := conn.Exec("INSERT INTO activities (code, name, price, weekday, hour, trainer_code) VALUES (?, ?, ?, ?, ?, ?)", "AC02", "Pilates", 80, "Monday", 10, "T001")
		require.Error(t, slotErr)
		assert.True(t, slot.ViolatedBy(slotErr))
		assert.False(t, pkey.ViolatedBy(slotErr))

		_, pkErr := conn.Exec("INSERT INTO activities (code, name, price, weekday, hour, trainer_code) VALUES (?, ?, ?, ?, ?, ?)", "AC01", "Spin", 80, "Friday", 9, "T001")
		require.Error(t, pkErr)
		assert.True(t, pkey.ViolatedBy(pkErr))
		assert.False(t, slot.ViolatedBy(pkErr))
	})

	assert.False(t, slot.ViolatedBy(nil))
	assert.False(t, slot.ViolatedBy(errors.New("connection refused")))
}

func TestExists(t *testing.T) {
	conn := dbtest.NewSQLite(t)
	dbtest.Exec(t, conn, "INSERT INTO trainers (code, national_id, name) VALUES (?, ?, ?)", "T001", "12345678A", "Ana")

	ok, err := db.Exists(context.Background(), conn, "SELECT EXISTS(SELECT 1 FROM trainers WHERE code = ?)", "T001")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.Exists(context.Background(), conn, "SELECT EXISTS(SELECT 1 FROM trainers WHERE code = ?)", "T999")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNextCode(t *testing.T) {
	tests := []struct {
		last      string
		prefixLen int
		width     int
		first     string
		want      string
	}{
		{"", 1, 3, "S001", "S001"},
		{"S001", 1, 3, "S001", "S002"},
		{"S099", 1, 3, "S001", "S100"},
		{"T009", 1, 3, "T001", "T010"},
		{"AC01", 2, 2, "AC01", "AC02"},
		{"AC99", 2, 2, "AC01", "AC100"},
		{"s001", 1, 3, "S001", "S001"},
		{"SX01", 1, 3, "S001", "S001"},
		{"S", 1, 3, "S001", "S001"},
	}

	for _, tt := range tests {
		t.Run(tt.last, func(t *testing.T) {
			assert.Equal(t, tt.want, db.NextCode(tt.last, tt.prefixLen, tt.width, tt.first))
		})
	}
}
