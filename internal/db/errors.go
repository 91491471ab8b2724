package db

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	sqlite3 "modernc.org/sqlite/lib"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a primary key or unique
// constraint failure from either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}

	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		switch coded.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// UniqueKey identifies one unique constraint in both dialects. Postgres
// reports the constraint or index Name; SQLite reports the indexed Columns
// as "table.col, table.col".
type UniqueKey struct {
	Name    string
	Columns string
}

// ViolatedBy reports whether err is a unique violation of k rather than of
// some other key on the same table.
func (k UniqueKey) ViolatedBy(err error) bool {
	if !IsUniqueViolation(err) {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint == k.Name
	}

	msg := err.Error()
	i := strings.Index(msg, "UNIQUE constraint failed: ")
	if i < 0 {
		return false
	}
	failed := msg[i+len("UNIQUE constraint failed: "):]
	if j := strings.Index(failed, " ("); j >= 0 {
		failed = failed[:j]
	}
	return failed == k.Columns || failed == "index '"+k.Name+"'"
}
