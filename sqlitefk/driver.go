package sqlitefk

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sync"

	"github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver name carrying the connect hooks.
const DriverName = "sqlite3_fk"

// ForeignKeysPragma is issued once on every new connection.
const ForeignKeysPragma = "PRAGMA foreign_keys = ON;"

// Hook runs on a freshly opened connection before the pool hands it out.
// A failing hook fails the connection.
type Hook func(conn *sqlite3.SQLiteConn) error

type namedHook struct {
	name string
	hook Hook
}

var (
	mu    sync.RWMutex
	hooks []namedHook
)

func init() {
	OnConnect("foreign_keys", EnableForeignKeys)

	sql.Register(DriverName, &sqlite3.SQLiteDriver{ConnectHook: runHooks})
}

// OnConnect registers hook under name, replacing any hook of the same name.
// Hooks run in registration order and apply to connections opened after
// the call.
func OnConnect(name string, hook Hook) {
	mu.Lock()
	defer mu.Unlock()

	if ix := slices.IndexFunc(hooks, func(h namedHook) bool { return h.name == name }); ix >= 0 {
		hooks[ix].hook = hook
		return
	}
	hooks = append(hooks, namedHook{name: name, hook: hook})
}

// RemoveHook unregisters the hook registered under name.
func RemoveHook(name string) {
	mu.Lock()
	defer mu.Unlock()

	hooks = slices.DeleteFunc(hooks, func(h namedHook) bool { return h.name == name })
}

func runHooks(conn *sqlite3.SQLiteConn) error {
	mu.RLock()
	current := slices.Clone(hooks)
	mu.RUnlock()

	for _, h := range current {
		if err := h.hook(conn); err != nil {
			return fmt.Errorf("sqlitefk: connect hook %s: %w", h.name, err)
		}
	}
	return nil
}

// EnableForeignKeys turns on foreign-key enforcement for the lifetime of conn.
func EnableForeignKeys(conn *sqlite3.SQLiteConn) error {
	_, err := conn.Exec(ForeignKeysPragma, nil)
	return err
}

// Open opens dsn through DriverName and verifies a connection can be made.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitefk: open: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitefk: connect: %w", err)
	}

	return db, nil
}
