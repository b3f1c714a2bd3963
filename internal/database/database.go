// Package database persists final match results in PostgreSQL through pgx.
// Persistence is best-effort: a store built over a nil pool skips every
// write, so matches run fine without a database.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MatchResult is the final standing of one match.
type MatchResult struct {
	MatchID    uuid.UUID
	WinnerID   int
	WinnerName string
	Turns      int
	Standings  []PlayerStanding
	FinishedAt time.Time
}

// PlayerStanding is one player's final position and balance.
type PlayerStanding struct {
	PlayerID int    `json:"playerId"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	Coins    int    `json:"coins"`
	Finished bool   `json:"finished"`
}

// Store writes match results. The zero value (nil pool) is a no-op store.
type Store struct {
	pool *pgxpool.Pool
}

// New builds a store over pool; pool may be nil.
func New(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

// Connect opens a pgx pool against url and verifies it with a ping.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	return pool, nil
}

// SaveResult inserts a finished match. Standings are stored as a JSONB
// column; pgx encodes the slice directly.
func (s *Store) SaveResult(ctx context.Context, res MatchResult) error {
	if s == nil || s.pool == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO match_results (match_id, winner_id, winner_name, turns, standings, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (match_id) DO NOTHING`,
		res.MatchID, res.WinnerID, res.WinnerName, res.Turns, res.Standings, res.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("database: save result: %w", err)
	}
	return nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}
