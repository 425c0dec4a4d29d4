// Package repository defines the persistence layer.  Repositories return
// (nil, nil) when a looked-up row does not exist and reserve errors for
// real failures, so callers can tell "absent" from "storage broken".
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateKey is returned when an insert or update is rejected by a
// unique index.  Services translate it into a duplicate-resource error.
var ErrDuplicateKey = errors.New("duplicate key")

const (
	mysqlDuplicateEntry = 1062
	pgUniqueViolation   = "23505"
)

// isDuplicateKey reports whether err is a unique-constraint violation.
// GORM's TranslateError covers the common case; the driver checks catch
// errors that reach us untranslated (raw Exec, older dialectors).
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	return false
}

// classify maps a driver error onto the repository's sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isDuplicateKey(err) {
		return ErrDuplicateKey
	}
	return err
}
