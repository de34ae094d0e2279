// Schema DDL for the run-history database.
package history

const (
	createRuns = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    quick INTEGER NOT NULL,
    net INTEGER NOT NULL,
    coverage INTEGER NOT NULL,
    passed INTEGER NOT NULL
);`

	createStageResults = `CREATE TABLE IF NOT EXISTS stage_results (
    run_id TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    name TEXT NOT NULL,
    status TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    detail TEXT,
    PRIMARY KEY (run_id, ordinal),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);`
)

// Index DDL for the history listing queries.
const (
	idxRunsStarted        = `CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);`
	idxStageResultsStatus = `CREATE INDEX IF NOT EXISTS idx_stage_results_status ON stage_results(status);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createRuns,
	createStageResults,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxRunsStarted,
	idxStageResultsStatus,
}
