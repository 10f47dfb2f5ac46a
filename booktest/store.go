package booktest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"pollex.nl/shelf"
)

// Store reads and writes the booktest model of one schema variant.
type Store struct {
	db     *sql.DB // nil inside InTx
	run    shelf.Runner
	schema *Schema
	valid  *Validator
	logger *slog.Logger
	trace  bool
}

type Option func(*Store)

// WithLogger sets the logger used for store events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithQueryLogging logs every statement at debug level.
func WithQueryLogging() Option {
	return func(s *Store) { s.trace = true }
}

func NewStore(db *sql.DB, schema *Schema, opts ...Option) *Store {
	s := &Store{
		db:     db,
		schema: schema,
		valid:  NewValidator(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.run = s.runner(db)

	return s
}

func (s *Store) runner(r shelf.Runner) shelf.Runner {
	if s.trace {
		return shelf.WithLogging(r, s.logger)
	}
	return r
}

// Schema returns the declarations the store works against.
func (s *Store) Schema() *Schema {
	return s.schema
}

// InTx runs fn with a store bound to a single transaction. The transaction
// commits when fn returns nil and rolls back when it returns an error or
// panics. Calls nested inside fn join the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) (err error) {
	if s.db == nil {
		return fn(s)
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	tx := *s
	tx.db = nil
	tx.run = s.runner(sqlTx)

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.ErrorContext(ctx, "rollback failed", "error", rbErr)
			}
		}
	}()

	if err = fn(&tx); err != nil {
		return err
	}

	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
