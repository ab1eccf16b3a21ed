package sqlite

// Schema DDL. The database persists across runs, so every statement is
// idempotent. Clause pattern lists are stored as JSON arrays in TEXT
// columns; SQLite never needs to query inside them.
const (
	createStandards = `CREATE TABLE IF NOT EXISTS standards (
    name TEXT PRIMARY KEY,
    registered_at TEXT NOT NULL
);`

	createClauses = `CREATE TABLE IF NOT EXISTS clauses (
    clause_ref TEXT PRIMARY KEY,
    standard TEXT NOT NULL,
    clause_id TEXT NOT NULL,
    citation TEXT,
    description TEXT,
    patterns TEXT NOT NULL,
    expressions TEXT,
    evidence TEXT,
    FOREIGN KEY (standard) REFERENCES standards(name)
);`

	createRuns = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    requirement_count INTEGER NOT NULL,
    test_case_count INTEGER NOT NULL,
    covered_count INTEGER NOT NULL,
    partial_count INTEGER NOT NULL,
    not_covered_count INTEGER NOT NULL,
    coverage_percentage REAL NOT NULL,
    partial_percentage REAL NOT NULL,
    warnings TEXT
);`

	createMappings = `CREATE TABLE IF NOT EXISTS mappings (
    mapping_id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,
    requirement_id TEXT NOT NULL,
    clause_ref TEXT NOT NULL,
    confidence REAL NOT NULL,
    matched_pattern TEXT,
    rationale TEXT,
    level TEXT,
    accepted INTEGER NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id)
);`

	createLinks = `CREATE TABLE IF NOT EXISTS links (
    link_id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,
    requirement_id TEXT NOT NULL,
    test_case_id TEXT NOT NULL,
    clause_refs TEXT,
    coverage_state TEXT NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id)
);`

	createReports = `CREATE TABLE IF NOT EXISTS reports (
    report_id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,
    test_case_id TEXT NOT NULL,
    overall_score REAL NOT NULL,
    classification TEXT NOT NULL,
    report TEXT NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id)
);`

	createMappingsRunIndex = `CREATE INDEX IF NOT EXISTS idx_mappings_run ON mappings(run_id);`
	createLinksRunIndex    = `CREATE INDEX IF NOT EXISTS idx_links_run ON links(run_id);`
	createReportsRunIndex  = `CREATE INDEX IF NOT EXISTS idx_reports_run ON reports(run_id);`
)

// schemaStatements lists every DDL statement in execution order.
var schemaStatements = []string{
	createStandards,
	createClauses,
	createRuns,
	createMappings,
	createLinks,
	createReports,
	createMappingsRunIndex,
	createLinksRunIndex,
	createReportsRunIndex,
}
