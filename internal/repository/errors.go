package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// IsDuplicateKeyErr reports a unique constraint violation from any supported store.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	// sqlite (extended code 2067) when the dialector does not translate
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyErr reports a foreign key violation: a reference to a missing
// parent on insert, or a delete of a row that is still referenced.
func IsForeignKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}

	// sqlite (extended code 787)
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// IsNotFoundErr reports gorm's record-not-found sentinel.
func IsNotFoundErr(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
