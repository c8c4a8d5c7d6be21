// Package postgres provides a PostgreSQL-backed implementation of
// [history.Store] using a pgx connection pool.
//
// Usage:
//
//	store, err := postgres.NewStore(ctx, dsn)
//	if err != nil { … }
//	defer store.Close()
//
//	_ = store.SaveAttempt(ctx, attempt)
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fonema/fonema/internal/history"
	"github.com/fonema/fonema/pkg/score"
)

// Compile-time interface check.
var _ history.Store = (*Store)(nil)

const ddlAttempts = `
CREATE TABLE IF NOT EXISTS attempts (
    id          BIGSERIAL    PRIMARY KEY,
    session_id  TEXT         NOT NULL,
    deck_name   TEXT         NOT NULL DEFAULT '',
    phrase      TEXT         NOT NULL,
    spoken      TEXT         NOT NULL DEFAULT '',
    percentage  INTEGER      NOT NULL,
    worst_word  TEXT         NOT NULL DEFAULT '',
    band        TEXT         NOT NULL,
    at          TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_attempts_session_id
    ON attempts (session_id);

CREATE INDEX IF NOT EXISTS idx_attempts_session_at
    ON attempts (session_id, at);
`

// Store is the PostgreSQL-backed attempt store. All operations are safe for
// concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to the PostgreSQL database at dsn, verifies the
// connection, and runs [Migrate] to ensure the attempts table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("history postgres: parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("history postgres: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("history postgres: ping: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("history postgres: migrate: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Migrate creates the attempts table and its indexes if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, ddlAttempts); err != nil {
		return fmt.Errorf("create attempts table: %w", err)
	}
	return nil
}

// Close releases all connections held by the underlying pool. Call it when
// the Store is no longer needed, typically via defer.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping verifies database connectivity. Suitable as a readiness check.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// SaveAttempt implements [history.Store].
func (s *Store) SaveAttempt(ctx context.Context, a history.Attempt) error {
	const q = `
		INSERT INTO attempts
		    (session_id, deck_name, phrase, spoken, percentage, worst_word, band, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.pool.Exec(ctx, q,
		a.SessionID,
		a.DeckName,
		a.Phrase,
		a.Spoken,
		a.Percentage,
		a.WorstWord,
		string(a.Band),
		a.At,
	)
	if err != nil {
		return fmt.Errorf("history postgres: save attempt: %w", err)
	}
	return nil
}

// ListAttempts implements [history.Store]. Attempts are returned oldest
// first.
func (s *Store) ListAttempts(ctx context.Context, sessionID string) ([]history.Attempt, error) {
	const q = `
		SELECT session_id, deck_name, phrase, spoken, percentage, worst_word, band, at
		FROM   attempts
		WHERE  session_id = $1
		ORDER  BY at, id`

	rows, err := s.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("history postgres: list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []history.Attempt
	for rows.Next() {
		var a history.Attempt
		var band string
		if err := rows.Scan(&a.SessionID, &a.DeckName, &a.Phrase, &a.Spoken,
			&a.Percentage, &a.WorstWord, &band, &a.At); err != nil {
			return nil, fmt.Errorf("history postgres: scan attempt: %w", err)
		}
		a.Band = score.Band(band)
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history postgres: iterate attempts: %w", err)
	}

	if len(attempts) == 0 {
		return nil, history.ErrNotFound
	}
	return attempts, nil
}

// SessionStats implements [history.Store] with a server-side aggregate.
func (s *Store) SessionStats(ctx context.Context, sessionID string) (history.Stats, error) {
	const q = `
		SELECT COUNT(*), COALESCE(AVG(percentage), 0), COALESCE(MAX(percentage), 0)
		FROM   attempts
		WHERE  session_id = $1`

	var stats history.Stats
	err := s.pool.QueryRow(ctx, q, sessionID).Scan(
		&stats.Attempts, &stats.MeanPercentage, &stats.BestPercentage,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return history.Stats{}, history.ErrNotFound
		}
		return history.Stats{}, fmt.Errorf("history postgres: session stats: %w", err)
	}
	if stats.Attempts == 0 {
		return history.Stats{}, history.ErrNotFound
	}
	return stats, nil
}
