package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour and driver used by the store.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// IsValid returns true if the dialect is supported
func (d Dialect) IsValid() bool {
	switch d {
	case SQLite, Postgres:
		return true
	default:
		return false
	}
}

// driverName is the database/sql driver registered for the dialect.
func (d Dialect) driverName() string {
	return string(d)
}

// dsn adapts a connection string for the driver. SQLite paths get
// per-connection pragmas so every pooled connection waits on locks.
func (d Dialect) dsn(connStr string) string {
	if d != SQLite || strings.Contains(connStr, "?") {
		return connStr
	}
	return connStr + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// rebind rewrites ? placeholders into the dialect's positional form.
func (d Dialect) rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// dateExpr selects the date column as YYYY-MM-DD text.
func (d Dialect) dateExpr() string {
	if d == Postgres {
		return `to_char("date", 'YYYY-MM-DD')`
	}
	return `"date"`
}

// monthFilter matches rows whose date year and month equal two parameters.
func (d Dialect) monthFilter() string {
	if d == Postgres {
		return `EXTRACT(YEAR FROM "date") = ? AND EXTRACT(MONTH FROM "date") = ?`
	}
	return `CAST(strftime('%Y', "date") AS INTEGER) = ? AND CAST(strftime('%m', "date") AS INTEGER) = ?`
}

// Options configures the persistence handle.
type Options struct {
	Dialect         Dialect
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB is the process-wide connection pool. It is built once at startup and
// passed to whoever needs a session.
type DB struct {
	db      *sql.DB
	dialect Dialect
}

// Open creates the connection pool and verifies the store is reachable.
func Open(ctx context.Context, opts Options) (*DB, error) {
	if !opts.Dialect.IsValid() {
		return nil, fmt.Errorf("unsupported dialect: %q", opts.Dialect)
	}
	if opts.DSN == "" {
		return nil, fmt.Errorf("empty connection string")
	}

	if opts.Dialect == SQLite {
		if err := os.MkdirAll(filepath.Dir(opts.DSN), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	sqlDB, err := sql.Open(opts.Dialect.driverName(), opts.Dialect.dsn(opts.DSN))
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Dialect, err)
	}

	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{db: sqlDB, dialect: opts.Dialect}, nil
}

// Ping checks the store is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

// Stats exposes pool statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// WithSession pins one pooled connection for the duration of fn and returns
// it to the pool afterwards, also when fn fails or panics.
func (db *DB) WithSession(ctx context.Context, fn func(*Session) error) (err error) {
	conn, err := db.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire session: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("release session: %w", cerr)
		}
	}()

	return fn(&Session{conn: conn, dialect: db.dialect})
}

// Session is a scoped handle to a single connection. It must not outlive
// the WithSession callback that produced it.
type Session struct {
	conn    *sql.Conn
	dialect Dialect
}

// Queries runs statements on the session connection in auto-commit mode.
func (s *Session) Queries() *Queries {
	return New(s.conn, s.dialect)
}

// InTx runs fn inside a transaction on the session connection and commits
// it. An error or panic from fn rolls the transaction back.
func (s *Session) InTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// No-op (sql.ErrTxDone) once committed.
	defer tx.Rollback()

	if err := fn(New(tx, s.dialect)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
