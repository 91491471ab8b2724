package client

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

const clientColumns = `number, national_id, name, birth_date, phone, email, start_date, category`

func (r *SQLRepository) FindByNumber(ctx context.Context, number string) (*Client, error) {
	q := db.Conn(ctx, r.db)
	query := `SELECT ` + clientColumns + ` FROM clients WHERE number = ?`

	var c Client
	err := sqlx.GetContext(ctx, q, &c, q.Rebind(query), number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *SQLRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	return db.Exists(ctx, db.Conn(ctx, r.db),
		`SELECT EXISTS(SELECT 1 FROM clients WHERE national_id = ?)`, nationalID)
}

var nationalIDKey = db.UniqueKey{Name: "clients_national_id_key", Columns: "clients.national_id"}

func (r *SQLRepository) LastNumber(ctx context.Context) (string, error) {
	q := db.Conn(ctx, r.db)

	query := `
		SELECT number FROM clients
		WHERE number LIKE 'S%'
		ORDER BY LENGTH(number) DESC, number DESC
		LIMIT 1
	`

	var last string
	err := sqlx.GetContext(ctx, q, &last, query)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return last, err
}

func (r *SQLRepository) Create(ctx context.Context, c *Client) error {
	q := db.Conn(ctx, r.db)
	query := `
		INSERT INTO clients (number, national_id, name, birth_date, phone, email, start_date, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, q.Rebind(query),
		c.Number, c.NationalID, c.Name, c.BirthDate, c.Phone, c.Email, c.StartDate, string(c.Category))
	return err
}

// Update rewrites every column except the number.
func (r *SQLRepository) Update(ctx context.Context, c *Client) (bool, error) {
	q := db.Conn(ctx, r.db)
	query := `
		UPDATE clients
		SET national_id = ?, name = ?, birth_date = ?, phone = ?, email = ?, start_date = ?, category = ?
		WHERE number = ?
	`
	res, err := q.ExecContext(ctx, q.Rebind(query),
		c.NationalID, c.Name, c.BirthDate, c.Phone, c.Email, c.StartDate, string(c.Category), c.Number)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes the client together with every enrollment it holds.
func (r *SQLRepository) Delete(ctx context.Context, number string) (bool, error) {
	q := db.Conn(ctx, r.db)

	if _, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM enrollments WHERE client_number = ?`), number); err != nil {
		return false, err
	}

	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM clients WHERE number = ?`), number)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
