package booktest

import (
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"pollex.nl/shelf/sqlitefk"
)

var (
	// ErrInvalid is matched by every validation failure.
	ErrInvalid = errors.New("booktest: invalid record")
	// ErrNotFound is returned when a looked up or written record does not exist.
	ErrNotFound = errors.New("booktest: not found")
	// ErrMissingReference is returned when a write points at a row that does not exist.
	ErrMissingReference = errors.New("booktest: missing reference")
)

// ValidationError lists the rejected fields of a record.
type ValidationError struct {
	Entity string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, field+" "+e.Fields[field])
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalid, e.Entity, strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// classify maps driver and lookup errors of an operation onto the package
// sentinels, keeping the original error in the chain.
func classify(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case sqlitefk.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %s: %w", ErrMissingReference, what, err)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
