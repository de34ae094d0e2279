// Run persistence and queries.
package history

import (
	"database/sql"
	"fmt"
	"time"
)

// SaveRun records a run and its stage results in one transaction. A
// missing run ID is generated; the effective ID is returned.
func (s *Store) SaveRun(run Run) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return "", ErrStoreDetached
	}

	if run.ID == "" {
		run.ID = generateUUID()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, started_at, duration_ms, quick, net, coverage, passed)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Duration.Milliseconds(),
		boolInt(run.Quick),
		boolInt(run.Net),
		boolInt(run.Coverage),
		boolInt(run.Passed),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for i, stage := range run.Stages {
		_, err = tx.Exec(
			`INSERT INTO stage_results (run_id, ordinal, name, status, duration_ms, detail)
             VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, i, stage.Name, stage.Status, stage.Duration.Milliseconds(), stage.Detail,
		)
		if err != nil {
			return "", fmt.Errorf("insert stage %s: %w", stage.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return run.ID, nil
}

// ListRuns returns up to limit runs, newest first, without their stage
// results. limit <= 0 means no limit.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil, ErrStoreDetached
	}

	query := `SELECT run_id, started_at, duration_ms, quick, net, coverage, passed
              FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given ID including its stage results.
// Returns ErrRunNotFound when no such run exists.
func (s *Store) GetRun(id string) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return Run{}, ErrStoreDetached
	}

	row := s.db.QueryRow(
		`SELECT run_id, started_at, duration_ms, quick, net, coverage, passed
         FROM runs WHERE run_id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := s.db.Query(
		`SELECT ordinal, name, status, duration_ms, detail
         FROM stage_results WHERE run_id = ? ORDER BY ordinal`, id)
	if err != nil {
		return Run{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var stage StageResult
		var durationMS int64
		var detail sql.NullString
		if err := rows.Scan(&stage.Ordinal, &stage.Name, &stage.Status, &durationMS, &detail); err != nil {
			return Run{}, err
		}
		stage.Duration = time.Duration(durationMS) * time.Millisecond
		stage.Detail = detail.String
		run.Stages = append(run.Stages, stage)
	}
	return run, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var startedAt string
	var durationMS int64
	var quick, net, coverage, passed int

	if err := row.Scan(&run.ID, &startedAt, &durationMS, &quick, &net, &coverage, &passed); err != nil {
		return Run{}, err
	}

	ts, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}

	run.StartedAt = ts
	run.Duration = time.Duration(durationMS) * time.Millisecond
	run.Quick = quick != 0
	run.Net = net != 0
	run.Coverage = coverage != 0
	run.Passed = passed != 0
	return run, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
