package store

import (
	"fmt"

	"github.com/avelars/melodex/internal/domain"
)

// SaveRun records the summary of one pipeline execution.
func (db *DB) SaveRun(run *domain.Run) error {
	_, err := db.NamedExec(`
		INSERT INTO runs (id, started_at, finished_at, parsed, skipped, merged,
			matched, unmatched, failed, enriched)
		VALUES (:id, :started_at, :finished_at, :parsed, :skipped, :merged,
			:matched, :unmatched, :failed, :enriched)`, run)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// ListRuns returns run summaries, most recent first.
func (db *DB) ListRuns(limit int) ([]domain.Run, error) {
	var runs []domain.Run
	err := db.Select(&runs, `SELECT * FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
