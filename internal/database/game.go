// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nope-cardgame/nopebot/internal/history"
)

// InsertActionRecords persists a batch of played-action records in one
// transaction. Records that already exist (same id) are skipped, so the
// historian can safely re-deliver after a crash.
func InsertActionRecords(ctx context.Context, records []history.Record) error {
	if len(records) == 0 {
		return nil
	}

	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			INSERT INTO nope_actions (id, game_id, bot_id, username, action_type, explanation, cards, played_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING
		`
		for _, rec := range records {
			cards, err := json.Marshal(rec.Cards)
			if err != nil {
				return fmt.Errorf("marshal cards for record %s: %w", rec.ID, err)
			}
			playedAt := time.UnixMilli(rec.Timestamp)
			if _, err := tx.Exec(ctx, q,
				rec.ID, rec.GameID, rec.BotID, rec.Username,
				rec.ActionType, rec.Explanation, cards, playedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx insert action records: %w", err)
	}
	return nil
}

// UpsertGameResult stores the final standings of a finished game.
func UpsertGameResult(ctx context.Context, rec history.Record) error {
	rankings, err := json.Marshal(rec.Rankings)
	if err != nil {
		return fmt.Errorf("marshal rankings for game %s: %w", rec.GameID, err)
	}
	q := `
		INSERT INTO nope_games (id, rankings, ended_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET rankings = EXCLUDED.rankings, ended_at = EXCLUDED.ended_at
	`
	endedAt := time.UnixMilli(rec.Timestamp)
	if _, err := DB.Exec(ctx, q, rec.GameID, rankings, endedAt); err != nil {
		return fmt.Errorf("upsert game result %s: %w", rec.GameID, err)
	}
	return nil
}

// GameActionCount returns how many actions are stored for one game.
func GameActionCount(ctx context.Context, gameID string) (int, error) {
	var count int
	err := DB.QueryRow(ctx, `SELECT COUNT(*) FROM nope_actions WHERE game_id = $1`, gameID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count actions for game %s: %w", gameID, err)
	}
	return count, nil
}
