package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/types"
)

// Run is one recorded traceability build.
type Run struct {
	RunID            string                `json:"run_id"`
	CreatedAt        time.Time             `json:"created_at"`
	RequirementCount int                   `json:"requirement_count"`
	TestCaseCount    int                   `json:"test_case_count"`
	Summary          types.CoverageSummary `json:"summary"`
	Warnings         []string              `json:"warnings,omitempty"`
}

// RecordedMapping is a persisted mapping with its acceptance flag. Mappings
// below the acceptance threshold are recorded too; an auditor needs to see
// what was proposed and rejected, not just what was kept.
type RecordedMapping struct {
	types.ComplianceMapping
	Accepted bool `json:"accepted"`
}

// RecordRun persists one traceability build: the matrix, every proposed
// mapping, and the validation reports. Links receive UUID v7 identifiers as
// they are recorded. Returns the new run id.
func (s *Store) RecordRun(matrix *types.TraceabilityMatrix, mappings []types.ComplianceMapping, reports []types.ComplianceValidationReport, threshold float64) (string, error) {
	db, err := s.handle()
	if err != nil {
		return "", err
	}

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	runID := generateUUID()
	now := time.Now().UTC().Format(time.RFC3339)

	testCases := make(map[string]bool)
	for _, link := range matrix.Links {
		testCases[link.TestCaseID] = true
	}

	warnings, err := marshalStrings(matrix.Warnings)
	if err != nil {
		return "", err
	}
	if _, err := tx.Exec(
		`INSERT INTO runs
		 (run_id, created_at, requirement_count, test_case_count,
		  covered_count, partial_count, not_covered_count,
		  coverage_percentage, partial_percentage, warnings)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, now, matrix.Summary.TotalRequirements, len(testCases),
		matrix.Summary.CoveredCount, matrix.Summary.PartialCount,
		matrix.Summary.NotCoveredCount, matrix.Summary.CoveragePercentage,
		matrix.Summary.PartialPercentage, warnings,
	); err != nil {
		return "", fmt.Errorf("persisting run: %w", err)
	}

	for _, m := range mappings {
		accepted := 0
		if m.Confidence >= threshold && m.Confidence <= 1 {
			accepted = 1
		}
		if _, err := tx.Exec(
			`INSERT INTO mappings
			 (mapping_id, run_id, requirement_id, clause_ref, confidence,
			  matched_pattern, rationale, level, accepted)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			generateUUID(), runID, m.RequirementID, m.ClauseRef, m.Confidence,
			m.MatchedPattern, m.Rationale, m.Level, accepted,
		); err != nil {
			return "", fmt.Errorf("persisting mapping %s -> %s: %w", m.RequirementID, m.ClauseRef, err)
		}
	}

	for _, link := range matrix.Links {
		if _, err := tx.Exec(
			`INSERT INTO links
			 (link_id, run_id, requirement_id, test_case_id, clause_refs, coverage_state)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			generateUUID(), runID, link.RequirementID, link.TestCaseID,
			strings.Join(link.ClauseRefs, ";"), link.CoverageState,
		); err != nil {
			return "", fmt.Errorf("persisting link %s/%s: %w", link.RequirementID, link.TestCaseID, err)
		}
	}

	for _, report := range reports {
		encoded, err := json.Marshal(report)
		if err != nil {
			return "", fmt.Errorf("encoding report for %s: %w", report.TestCaseID, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO reports
			 (report_id, run_id, test_case_id, overall_score, classification, report)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			generateUUID(), runID, report.TestCaseID, report.OverallScore,
			report.Classification, string(encoded),
		); err != nil {
			return "", fmt.Errorf("persisting report for %s: %w", report.TestCaseID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	s.logger.Debug("run recorded", "run_id", runID, "links", len(matrix.Links))
	return runID, nil
}

// ListRuns returns all recorded runs, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		`SELECT run_id, created_at, requirement_count, test_case_count,
		        covered_count, partial_count, not_covered_count,
		        coverage_percentage, partial_percentage, warnings
		 FROM runs ORDER BY created_at DESC, run_id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := hydrateRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns one run by id. Returns ErrRunNotFound when absent.
func (s *Store) GetRun(runID string) (Run, error) {
	db, err := s.handle()
	if err != nil {
		return Run{}, err
	}

	rows, err := db.Query(
		`SELECT run_id, created_at, requirement_count, test_case_count,
		        covered_count, partial_count, not_covered_count,
		        coverage_percentage, partial_percentage, warnings
		 FROM runs WHERE run_id = ?`, runID,
	)
	if err != nil {
		return Run{}, fmt.Errorf("querying run %s: %w", runID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return hydrateRun(rows)
}

// FetchMappings returns every mapping recorded for a run, with acceptance
// flags, ordered by requirement id then clause ref.
func (s *Store) FetchMappings(runID string) ([]RecordedMapping, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		`SELECT requirement_id, clause_ref, confidence, matched_pattern, rationale, level, accepted
		 FROM mappings WHERE run_id = ? ORDER BY requirement_id, clause_ref`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying mappings for run %s: %w", runID, err)
	}
	defer rows.Close()

	var mappings []RecordedMapping
	for rows.Next() {
		var m RecordedMapping
		var matched, rationale, level sql.NullString
		var accepted int
		if err := rows.Scan(&m.RequirementID, &m.ClauseRef, &m.Confidence,
			&matched, &rationale, &level, &accepted); err != nil {
			return nil, fmt.Errorf("scanning mapping: %w", err)
		}
		m.MatchedPattern = matched.String
		m.Rationale = rationale.String
		m.Level = level.String
		m.Accepted = accepted != 0
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// FetchLinks returns every link recorded for a run, ordered by requirement
// id then test case id.
func (s *Store) FetchLinks(runID string) ([]types.TraceabilityLink, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		`SELECT link_id, requirement_id, test_case_id, clause_refs, coverage_state
		 FROM links WHERE run_id = ? ORDER BY requirement_id, test_case_id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying links for run %s: %w", runID, err)
	}
	defer rows.Close()

	var links []types.TraceabilityLink
	for rows.Next() {
		var link types.TraceabilityLink
		var refs sql.NullString
		if err := rows.Scan(&link.LinkID, &link.RequirementID, &link.TestCaseID,
			&refs, &link.CoverageState); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		if refs.String != "" {
			link.ClauseRefs = strings.Split(refs.String, ";")
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// FetchReports returns every validation report recorded for a run, ordered
// by test case id.
func (s *Store) FetchReports(runID string) ([]types.ComplianceValidationReport, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		`SELECT report FROM reports WHERE run_id = ? ORDER BY test_case_id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying reports for run %s: %w", runID, err)
	}
	defer rows.Close()

	var reports []types.ComplianceValidationReport
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		var report types.ComplianceValidationReport
		if err := json.Unmarshal([]byte(encoded), &report); err != nil {
			return nil, fmt.Errorf("decoding report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// hydrateRun scans the current row of a runs query into a Run.
func hydrateRun(rows *sql.Rows) (Run, error) {
	var run Run
	var createdAt string
	var warnings sql.NullString
	if err := rows.Scan(&run.RunID, &createdAt, &run.RequirementCount,
		&run.TestCaseCount, &run.Summary.CoveredCount, &run.Summary.PartialCount,
		&run.Summary.NotCoveredCount, &run.Summary.CoveragePercentage,
		&run.Summary.PartialPercentage, &warnings); err != nil {
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	run.Summary.TotalRequirements = run.RequirementCount

	parsed, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parsing run timestamp: %w", err)
	}
	run.CreatedAt = parsed

	if run.Warnings, err = unmarshalStrings(warnings.String); err != nil {
		return Run{}, err
	}
	return run, nil
}
