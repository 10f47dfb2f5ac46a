package sqlitefk

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// RowQuerier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type RowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ForeignKeysEnabled reports whether the connection serving q enforces
// foreign keys.
func ForeignKeysEnabled(ctx context.Context, q RowQuerier) (bool, error) {
	var on int
	if err := q.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on); err != nil {
		return false, fmt.Errorf("sqlitefk: read foreign_keys: %w", err)
	}
	return on == 1, nil
}

// IsForeignKeyViolation reports whether err is a sqlite foreign key failure.
func IsForeignKeyViolation(err error) bool {
	return hasExtendedCode(err, sqlite3.ErrConstraintForeignKey)
}

// IsCheckViolation reports whether err is a sqlite CHECK constraint failure.
func IsCheckViolation(err error) bool {
	return hasExtendedCode(err, sqlite3.ErrConstraintCheck)
}

// IsConstraintViolation reports whether err is any sqlite constraint failure.
func IsConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

func hasExtendedCode(err error, code sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == code
}
