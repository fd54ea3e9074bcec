package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InitPostgres initializes and returns a PostgreSQL connection pool
func InitPostgres(databaseURL string) (*pgxpool.Pool, error) {
	// Configure connection pool
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// A single journal needs very few connections
	config.MaxConns = 5
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30
	config.HealthCheckPeriod = time.Minute * 5

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createTables(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pool, nil
}

// PgxConn is the subset of *pgxpool.Pool the store needs; *pgxpool.Pool,
// *pgx.Conn and pgx.Tx all satisfy it
type PgxConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// createTables creates the key-value table if it doesn't exist
func createTables(ctx context.Context, conn PgxConn) error {
	kvTable := `
		CREATE TABLE IF NOT EXISTS kv_store (
			key VARCHAR(255) PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`
	if _, err := conn.Exec(ctx, kvTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// PostgresStore keeps each value as one row of kv_store
type PostgresStore struct {
	conn PgxConn
}

// NewPostgresStore stores values in kv_store through conn, usually the pool
// returned by InitPostgres
func NewPostgresStore(conn PgxConn) *PostgresStore {
	return &PostgresStore{conn: conn}
}

// Get returns the stored value, reporting false when there is no row for key
func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	query := `SELECT value FROM kv_store WHERE key = $1`
	err := s.conn.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %q from PostgreSQL: %w", key, err)
	}
	return value, true, nil
}

// Set upserts the whole value stored under key
func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`
	if _, err := s.conn.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set %q in PostgreSQL: %w", key, err)
	}
	return nil
}
