// Package sqldb implements the candidate store on top of sqlx. Queries are
// written with '?' placeholders and rebound for the active driver, so the same
// repository serves PostgreSQL (pgx) and the embedded SQLite store.
package sqldb

import (
	_ "embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"resumeflow/internal/config"
)

const (
	driverPostgres = "pgx"
	driverSQLite   = "sqlite"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

func init() {
	sqlx.BindDriver(driverSQLite, sqlx.QUESTION)
}

// NewDB opens the database selected by cfg.Driver.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath)
	case "", "postgres":
		db, err := sqlx.Connect(driverPostgres, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		db.SetMaxOpenConns(cfg.MaxOpen)
		db.SetMaxIdleConns(cfg.MaxIdle)
		return db, nil
	default:
		return nil, fmt.Errorf("sqldb.NewDB: unsupported driver %q", cfg.Driver)
	}
}

// OpenSQLite opens (or creates) a SQLite database at path and applies the
// embedded schema. An empty path or ":memory:" opens a private in-memory
// database. Writes are serialised through a single connection.
func OpenSQLite(path string) (*sqlx.DB, error) {
	inMemory := path == "" || path == ":memory:"
	if inMemory {
		path = ":memory:"
	}
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"

	db, err := sqlx.Connect(driverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to sqlite: %w", err)
	}
	// An in-memory database is private to its connection. A file database
	// would otherwise fail read-then-write transactions with SQLITE_BUSY
	// when two of them upgrade their locks at once.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying sqlite schema: %w", err)
	}
	return db, nil
}
