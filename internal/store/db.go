package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// dialect holds the few SQL fragments that differ between backends.
type dialect struct {
	name string
	// departureSeconds converts schedule.departure_time into seconds since midnight.
	departureSeconds string
	// timeParam wraps a placeholder bound to an "HH:MM:SS" string.
	timeParam string
	numbered  bool // $1, $2... instead of ?
}

var (
	postgresDialect = dialect{
		name:             "postgres",
		departureSeconds: "CAST(EXTRACT(EPOCH FROM departure_time) AS INTEGER)",
		timeParam:        "CAST(? AS TIME)",
		numbered:         true,
	}
	sqliteDialect = dialect{
		name:             "sqlite",
		departureSeconds: "(CAST(strftime('%s', departure_time) AS INTEGER) % 86400)",
		timeParam:        "?",
	}
)

// rebind rewrites ? placeholders for backends that use numbered ones.
func (d dialect) rebind(query string) string {
	if !d.numbered {
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

// DB is the connection pool shared by all repositories. It is created once at
// startup and must be closed by its owner.
type DB struct {
	sql     *sql.DB
	pool    *pgxpool.Pool // nil for SQLite
	dialect dialect
}

// Open connects to Postgres when dsn is a postgres:// URL and to a SQLite file otherwise.
func Open(ctx context.Context, dsn string) (*DB, error) {
	if isPostgres(dsn) {
		return openPostgres(ctx, dsn)
	}
	return openSQLite(ctx, sqlitePath(dsn))
}

func openPostgres(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &DB{sql: stdlib.OpenDBFromPool(pool), pool: pool, dialect: postgresDialect}, nil
}

// Driver returns the backend name: "postgres" or "sqlite".
func (db *DB) Driver() string { return db.dialect.name }

// Ping checks that the store is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.sql.PingContext(ctx)
}

// Stats exposes pool statistics for metrics.
func (db *DB) Stats() sql.DBStats { return db.sql.Stats() }

// Close releases the pool.
func (db *DB) Close() error {
	err := db.sql.Close()
	if db.pool != nil {
		db.pool.Close()
	}
	return err
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func sqlitePath(dsn string) string {
	return strings.TrimPrefix(dsn, "sqlite://")
}
