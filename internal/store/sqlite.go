// internal/store/sqlite.go
//
// SQLite implementation of Store.
// Games live in `games`; the guess history is append-only in `guesses`
// keyed by (game_id, seq), so re-saving a game only inserts new guesses.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/flaggle/internal/apperr"
	"github.com/robalobadob/flaggle/internal/game"
)

// SQLite is a database-backed Store.
type SQLite struct{ db *sql.DB }

// NewSQLiteStore wraps a migrated database handle.
func NewSQLiteStore(db *sql.DB) *SQLite { return &SQLite{db: db} }

// Save upserts the game row and appends unseen guesses in one transaction.
func (s *SQLite) Save(ctx context.Context, g *game.Game) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var finished any
	if !g.FinishedAt.IsZero() {
		finished = g.FinishedAt.UTC().Format(time.RFC3339Nano)
	}
	_, err = tx.ExecContext(ctx, `
        INSERT INTO games
            (id, mode, variant, player_id, target_code, attempts_used, max_attempts,
             completed, won, gave_up, start_hint, end_hint, flag_revealed, created_at, finished_at)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
        ON CONFLICT(id) DO UPDATE SET
            attempts_used = excluded.attempts_used,
            completed     = excluded.completed,
            won           = excluded.won,
            gave_up       = excluded.gave_up,
            start_hint    = excluded.start_hint,
            end_hint      = excluded.end_hint,
            flag_revealed = excluded.flag_revealed,
            finished_at   = excluded.finished_at`,
		g.ID, string(g.Mode), string(g.Variant), g.PlayerID, g.Target, g.AttemptsUsed, g.MaxAttempts,
		g.Completed, g.Won, g.GaveUp, g.StartHint, g.EndHint, g.FlagRevealed,
		g.CreatedAt.UTC().Format(time.RFC3339Nano), finished,
	)
	if err != nil {
		return fmt.Errorf("upsert game %s: %w", g.ID, err)
	}

	for i, gs := range g.Guesses {
		if _, err := tx.ExecContext(ctx, `
            INSERT OR IGNORE INTO guesses (game_id, seq, country_code, similarity, created_at)
            VALUES (?,?,?,?,?)`,
			g.ID, i, gs.Code, gs.Similarity, gs.At.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert guess %d of %s: %w", i, g.ID, err)
		}
	}
	return tx.Commit()
}

// Get loads a game and its guesses; apperr.ErrNotFound if missing.
func (s *SQLite) Get(ctx context.Context, id string) (*game.Game, error) {
	var (
		g             game.Game
		mode, variant string
		created       string
		finished      sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
        SELECT id, mode, variant, player_id, target_code, attempts_used, max_attempts,
               completed, won, gave_up, start_hint, end_hint, flag_revealed, created_at, finished_at
        FROM games WHERE id=?`, id,
	).Scan(&g.ID, &mode, &variant, &g.PlayerID, &g.Target, &g.AttemptsUsed, &g.MaxAttempts,
		&g.Completed, &g.Won, &g.GaveUp, &g.StartHint, &g.EndHint, &g.FlagRevealed, &created, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("game %q", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}
	g.Mode, g.Variant = game.Mode(mode), game.Variant(variant)
	g.CreatedAt = parseTime(created)
	if finished.Valid {
		g.FinishedAt = parseTime(finished.String)
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT country_code, similarity, created_at
        FROM guesses WHERE game_id=? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("load guesses %s: %w", id, err)
	}
	defer rows.Close()

	g.Guesses = []game.Guess{}
	for rows.Next() {
		var gs game.Guess
		var at string
		if err := rows.Scan(&gs.Code, &gs.Similarity, &at); err != nil {
			return nil, err
		}
		gs.At = parseTime(at)
		g.Guesses = append(g.Guesses, gs)
	}
	return &g, rows.Err()
}

// parseTime parses RFC3339 timestamps; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
