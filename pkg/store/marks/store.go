// Package marks persists client performance marks in PostgreSQL.
package marks

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/de-tools/blocks/pkg/models/domain"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

const Schema = `
	CREATE TABLE IF NOT EXISTS performance_marks (
		session_id VARCHAR(64) NOT NULL,
		name VARCHAR(128) NOT NULL,
		value DOUBLE PRECISION NOT NULL,
		attributes JSONB,
		recorded_at TIMESTAMPTZ NOT NULL
	);
`

const insertMark = `
	INSERT INTO performance_marks (session_id, name, value, attributes, recorded_at)
	VALUES ($1, $2, $3, $4, $5)
`

type Settings struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// Open connects to the database and creates the marks table if needed.
func Open(ctx context.Context, settings Settings) (*sql.DB, error) {
	db, err := sql.Open("postgres", settings.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if settings.MaxOpenConns > 0 {
		db.SetMaxOpenConns(settings.MaxOpenConns)
	}
	if settings.MaxIdleConns > 0 {
		db.SetMaxIdleConns(settings.MaxIdleConns)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create performance_marks table: %w", err)
	}
	return db, nil
}

type Store interface {
	SaveMarks(ctx context.Context, marks []domain.PerformanceMark) error
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{db: db}, nil
}

// SaveMarks writes a batch in one transaction; either every mark lands or none do.
func (s *defaultStore) SaveMarks(ctx context.Context, marks []domain.PerformanceMark) error {
	if len(marks) == 0 {
		return nil
	}
	logger := zerolog.Ctx(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			logger.Warn().Err(err).Msg("failed to roll back marks transaction")
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertMark)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		if err := stmt.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close insert statement")
		}
	}(stmt)

	for _, m := range marks {
		attrs, err := encodeAttributes(m.Attributes)
		if err != nil {
			return fmt.Errorf("mark %s: %w", m.Name, err)
		}
		if _, err := stmt.ExecContext(ctx, m.SessionID, m.Name, m.Value, attrs, m.Timestamp.UTC()); err != nil {
			return fmt.Errorf("failed to insert mark %s: %w", m.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit marks: %w", err)
	}
	return nil
}

func encodeAttributes(attrs map[string]string) (any, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode attributes: %w", err)
	}
	return string(raw), nil
}
