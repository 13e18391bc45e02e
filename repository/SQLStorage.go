package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/models"

	"go.uber.org/zap"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

const createKVTable = `CREATE TABLE IF NOT EXISTS kv_store (
	name TEXT PRIMARY KEY,
	content TEXT NOT NULL
)`

// SQLStorage keeps each key as one row of kv_store. It speaks both the
// sqlite3 and postgres dialects.
type SQLStorage struct {
	db       *sql.DB
	getQuery string
	setQuery string
	logger   *zap.Logger
}

func NewSQLStorage(ctx context.Context, conn *sql.DB, driver string, logger *zap.Logger) (*SQLStorage, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SQLStorage{db: conn, logger: logger}
	switch driver {
	case DriverSQLite:
		s.getQuery = "SELECT content FROM kv_store WHERE name = ?"
		s.setQuery = "INSERT INTO kv_store (name, content) VALUES (?, ?) ON CONFLICT (name) DO UPDATE SET content = excluded.content"
	case DriverPostgres:
		s.getQuery = "SELECT content FROM kv_store WHERE name = $1"
		s.setQuery = "INSERT INTO kv_store (name, content) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET content = excluded.content"
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	err := conn.PingContext(ctx)
	if err != nil {
		return nil, err
	}
	_, err = conn.ExecContext(ctx, createKVTable)
	if err != nil {
		return nil, fmt.Errorf("create kv_store: %w", err)
	}
	return s, nil
}

func (s *SQLStorage) Get(ctx context.Context, key string) (value string, found bool, err error) {
	row := s.db.QueryRowContext(ctx, s.getQuery, key)
	err = row.Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = nil
			return
		}
		s.logger.Error("kv_store get failed", zap.String("key", key), zap.Error(err))
		err = models.ErrServerError
		return
	}
	found = true
	return
}

func (s *SQLStorage) Set(ctx context.Context, key string, value string) (err error) {
	_, err = s.db.ExecContext(ctx, s.setQuery, key, value)
	if err != nil {
		s.logger.Error("kv_store set failed", zap.String("key", key), zap.Error(err))
		err = models.ErrServerError
	}
	return
}
