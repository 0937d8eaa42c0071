package daily

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/robalobadob/flaggle/internal/game"
)

// Result is one player's winning daily game.
type Result struct {
	PlayerID  string `json:"playerId"`
	Date      string `json:"date"`
	Attempts  int    `json:"attempts"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// LBRow is one leaderboard line.
type LBRow struct {
	PlayerID  string `json:"playerId"`
	Attempts  int    `json:"attempts"`
	ElapsedMs int64  `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Target returns the country code for date. The first caller for a date
// stores candidate; everyone after reads the stored value.
func (s *Store) Target(ctx context.Context, date, candidate string) (string, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_puzzles(date, country_code) VALUES (?, ?)`, date, candidate,
	); err != nil {
		return "", fmt.Errorf("insert daily puzzle: %w", err)
	}
	var code string
	err := s.db.QueryRowContext(ctx,
		`SELECT country_code FROM daily_puzzles WHERE date=?`, date,
	).Scan(&code)
	return code, err
}

func (s *Store) AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE player_id=? AND date=?`, playerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult ignores a second result for the same player and date.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(player_id, date, attempts, elapsed_ms)
         VALUES (?, ?, ?, ?)`, r.PlayerID, r.Date, r.Attempts, r.ElapsedMs,
	)
	return err
}

// Leaderboard returns the fastest winners for date.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT player_id, attempts, elapsed_ms
        FROM daily_results
        WHERE date=?
        ORDER BY elapsed_ms ASC, attempts ASC, created_at ASC
        LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Attempts, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecordCompletion stores the result of a won daily game. Other games are
// ignored.
func (s *Store) RecordCompletion(ctx context.Context, g *game.Game) error {
	if g.Mode != game.ModeDaily || !g.Won || g.PlayerID == "" {
		return nil
	}
	return s.InsertResult(ctx, Result{
		PlayerID:  g.PlayerID,
		Date:      DateKey(g.CreatedAt),
		Attempts:  g.AttemptsUsed,
		ElapsedMs: g.FinishedAt.Sub(g.CreatedAt).Milliseconds(),
	})
}
