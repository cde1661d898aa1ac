package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// applicationName tags connections in pg_stat_activity.
const applicationName = "ai2aim-core"

// connectTimeout bounds the initial ping.
const connectTimeout = 10 * time.Second

// DB is the pool shared by the credential store, the state store and the
// advisory lock.
type DB struct {
	*sql.DB
}

// Config sizes the pool. Credential and state queries are short single-row
// statements, so a small pool suffices.
type Config struct {
	URL string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConfig returns pool settings for url.
func DefaultConfig(url string) Config {
	return Config{
		URL:             url,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}
}

// Connect opens the pool and pings it within connectTimeout.
func Connect(ctx context.Context, cfg Config) (*DB, error) {
	db, err := sql.Open("postgres", withApplicationName(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// withApplicationName adds application_name to URL-style DSNs that lack it.
// Key/value DSNs are returned unchanged.
func withApplicationName(dsn string) string {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return dsn
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}
	q := u.Query()
	if q.Get("application_name") != "" {
		return dsn
	}
	q.Set("application_name", applicationName)
	u.RawQuery = q.Encode()
	return u.String()
}

// InitSchema creates the oauth_states and platform_credentials tables. It is idempotent.
func (db *DB) InitSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// Ping reports readiness.
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// NullTime maps a credential expiry to a nullable column.
func NullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
