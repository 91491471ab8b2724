package activity

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"gymroster/internal/db"
)

type SQLRepository struct {
	db *sqlx.DB
}

func NewRepository(conn *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: conn}
}

func (r *SQLRepository) FindByCode(ctx context.Context, code string) (*Activity, error) {
	q := db.Conn(ctx, r.db)
	query := `
		SELECT code, name, description, price, weekday, hour, trainer_code
		FROM activities
		WHERE code = ?
	`

	var a Activity
	err := sqlx.GetContext(ctx, q, &a, q.Rebind(query), code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SQLRepository) ListAll(ctx context.Context) ([]Activity, error) {
	query := `
		SELECT code, name, description, price, weekday, hour, trainer_code
		FROM activities
		ORDER BY code
	`

	activities := []Activity{}
	if err := sqlx.SelectContext(ctx, db.Conn(ctx, r.db), &activities, query); err != nil {
		return nil, err
	}
	return activities, nil
}

var trainerSlotKey = db.UniqueKey{
	Name:    "idx_activities_trainer_slot",
	Columns: "activities.trainer_code, activities.weekday, activities.hour",
}

// LastCode returns the generated code with the highest number. Codes are
// ordered by length first so AC100 sorts after AC99.
func (r *SQLRepository) LastCode(ctx context.Context) (string, error) {
	query := `
		SELECT code FROM activities
		WHERE code LIKE 'AC%'
		ORDER BY LENGTH(code) DESC, code DESC
		LIMIT 1
	`

	var last string
	err := sqlx.GetContext(ctx, db.Conn(ctx, r.db), &last, query)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return last, err
}

// SlotTaken reports whether another activity led by the trainer occupies
// the slot. An empty excludingCode excludes nothing.
func (r *SQLRepository) SlotTaken(ctx context.Context, trainerCode string, day Weekday, hour int, excludingCode string) (bool, error) {
	return db.Exists(ctx, db.Conn(ctx, r.db), `
		SELECT EXISTS(
			SELECT 1 FROM activities
			WHERE trainer_code = ? AND weekday = ? AND hour = ? AND code <> ?
		)`, trainerCode, string(day), hour, excludingCode)
}

func (r *SQLRepository) Create(ctx context.Context, a *Activity) error {
	q := db.Conn(ctx, r.db)
	query := `
		INSERT INTO activities (code, name, description, price, weekday, hour, trainer_code)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, q.Rebind(query),
		a.Code, a.Name, a.Description, a.Price, string(a.Weekday), a.Hour, a.TrainerCode)
	return err
}

func (r *SQLRepository) Update(ctx context.Context, a *Activity) error {
	q := db.Conn(ctx, r.db)
	query := `
		UPDATE activities
		SET name = ?, description = ?, price = ?, weekday = ?, hour = ?, trainer_code = ?
		WHERE code = ?
	`
	_, err := q.ExecContext(ctx, q.Rebind(query),
		a.Name, a.Description, a.Price, string(a.Weekday), a.Hour, a.TrainerCode, a.Code)
	return err
}

// Delete removes the activity and all of its enrollments.
func (r *SQLRepository) Delete(ctx context.Context, code string) (bool, error) {
	q := db.Conn(ctx, r.db)

	if _, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM enrollments WHERE activity_code = ?`), code); err != nil {
		return false, err
	}

	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM activities WHERE code = ?`), code)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
