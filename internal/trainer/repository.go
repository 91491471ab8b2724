package trainer

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

func (r *SQLRepository) FindByCode(ctx context.Context, code string) (*Trainer, error) {
	q := db.Conn(ctx, r.db)
	query := `
		SELECT code, national_id, name, phone, email, hire_date, nickname
		FROM trainers
		WHERE code = ?
	`

	var t Trainer
	err := sqlx.GetContext(ctx, q, &t, q.Rebind(query), code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *SQLRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	return db.Exists(ctx, db.Conn(ctx, r.db),
		`SELECT EXISTS(SELECT 1 FROM trainers WHERE national_id = ?)`, nationalID)
}

var nationalIDKey = db.UniqueKey{Name: "trainers_national_id_key", Columns: "trainers.national_id"}

func (r *SQLRepository) LastCode(ctx context.Context) (string, error) {
	query := `
		SELECT code FROM trainers
		WHERE code LIKE 'T%'
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

func (r *SQLRepository) Create(ctx context.Context, t *Trainer) error {
	q := db.Conn(ctx, r.db)
	query := `
		INSERT INTO trainers (code, national_id, name, phone, email, hire_date, nickname)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, q.Rebind(query),
		t.Code, t.NationalID, t.Name, t.Phone, t.Email, t.HireDate, t.Nickname)
	return err
}

// Delete removes the trainer. Activities it led stay scheduled with no
// trainer through the ON DELETE SET NULL foreign key.
func (r *SQLRepository) Delete(ctx context.Context, code string) (bool, error) {
	q := db.Conn(ctx, r.db)
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM trainers WHERE code = ?`), code)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
