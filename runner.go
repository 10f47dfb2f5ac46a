package shelf

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/Masterminds/squirrel"
)

// Runner executes statements. *sql.DB, *sql.Tx and *LogRunner satisfy it.
type Runner = squirrel.StdSqlCtx

// LogRunner logs every statement before handing it to the wrapped Runner.
type LogRunner struct {
	Runner Runner
	Logger *slog.Logger
}

var _ Runner = (*LogRunner)(nil)

// WithLogging wraps db so that each statement is logged at debug level.
func WithLogging(db Runner, logger *slog.Logger) *LogRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRunner{Runner: db, Logger: logger}
}

func (r *LogRunner) log(ctx context.Context, query string, args []any) {
	r.Logger.DebugContext(ctx, "query", "sql", query, "args", args)
}

func (r *LogRunner) Query(query string, args ...any) (*sql.Rows, error) {
	r.log(context.Background(), query, args)
	return r.Runner.Query(query, args...)
}

func (r *LogRunner) QueryRow(query string, args ...any) *sql.Row {
	r.log(context.Background(), query, args)
	return r.Runner.QueryRow(query, args...)
}

func (r *LogRunner) Exec(query string, args ...any) (sql.Result, error) {
	r.log(context.Background(), query, args)
	return r.Runner.Exec(query, args...)
}

func (r *LogRunner) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	r.log(ctx, query, args)
	return r.Runner.QueryContext(ctx, query, args...)
}

func (r *LogRunner) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	r.log(ctx, query, args)
	return r.Runner.QueryRowContext(ctx, query, args...)
}

func (r *LogRunner) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	r.log(ctx, query, args)
	return r.Runner.ExecContext(ctx, query, args...)
}
