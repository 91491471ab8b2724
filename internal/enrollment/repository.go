package enrollment

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gymroster/internal/activity"
	"gymroster/internal/client"
	"gymroster/internal/db"
)

type SQLRepository struct {
	db *sqlx.DB
}

func NewRepository(conn *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: conn}
}

func (r *SQLRepository) Exists(ctx context.Context, clientNumber, activityCode string) (bool, error) {
	return db.Exists(ctx, db.Conn(ctx, r.db), `
		SELECT EXISTS(
			SELECT 1 FROM enrollments WHERE client_number = ? AND activity_code = ?
		)`, clientNumber, activityCode)
}

func (r *SQLRepository) Insert(ctx context.Context, clientNumber, activityCode string) (bool, error) {
	q := db.Conn(ctx, r.db)
	query := `
		INSERT INTO enrollments (client_number, activity_code)
		VALUES (?, ?)
		ON CONFLICT DO NOTHING
	`
	res, err := q.ExecContext(ctx, q.Rebind(query), clientNumber, activityCode)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *SQLRepository) Delete(ctx context.Context, clientNumber, activityCode string) (bool, error) {
	q := db.Conn(ctx, r.db)
	query := `DELETE FROM enrollments WHERE client_number = ? AND activity_code = ?`

	res, err := q.ExecContext(ctx, q.Rebind(query), clientNumber, activityCode)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLRepository) ListDetails(ctx context.Context) ([]Detail, error) {
	query := `
		SELECT a.code AS activity_code, a.name AS activity_name,
		       c.number AS client_number, c.name AS client_name, c.national_id AS national_id
		FROM enrollments e
		JOIN activities a ON a.code = e.activity_code
		JOIN clients c ON c.number = e.client_number
		ORDER BY a.code, c.number
	`

	details := []Detail{}
	if err := sqlx.SelectContext(ctx, db.Conn(ctx, r.db), &details, query); err != nil {
		return nil, err
	}
	return details, nil
}

func (r *SQLRepository) ActivitiesOf(ctx context.Context, clientNumber string) ([]activity.Activity, error) {
	q := db.Conn(ctx, r.db)
	query := `
		SELECT a.code, a.name, a.description, a.price, a.weekday, a.hour, a.trainer_code
		FROM activities a
		JOIN enrollments e ON e.activity_code = a.code
		WHERE e.client_number = ?
		ORDER BY a.code
	`

	activities := []activity.Activity{}
	if err := sqlx.SelectContext(ctx, q, &activities, q.Rebind(query), clientNumber); err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *SQLRepository) MembersOf(ctx context.Context, activityCode string) ([]client.Client, error) {
	q := db.Conn(ctx, r.db)
	query := `
		SELECT c.number, c.national_id, c.name, c.birth_date, c.phone, c.email, c.start_date, c.category
		FROM clients c
		JOIN enrollments e ON e.client_number = c.number
		WHERE e.activity_code = ?
		ORDER BY c.number
	`

	members := []client.Client{}
	if err := sqlx.SelectContext(ctx, q, &members, q.Rebind(query), activityCode); err != nil {
		return nil, err
	}
	return members, nil
}
