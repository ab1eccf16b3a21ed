// Package export renders traceability matrices and validation reports for
// downstream consumption. JSON output is stable: identical matrices render
// byte-identically, so exports can be diffed across generation cycles.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/types"
)

// Supported export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// refSeparator joins multiple clause references within one CSV cell.
const refSeparator = ";"

// Matrix renders a traceability matrix in the named format.
func Matrix(w io.Writer, matrix *types.TraceabilityMatrix, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, matrix)
	case FormatCSV:
		return matrixCSV(w, matrix)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// Reports renders validation reports plus their summary in the named format.
func Reports(w io.Writer, reports []types.ComplianceValidationReport, summary types.ComplianceSummary, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, struct {
			Reports []types.ComplianceValidationReport `json:"reports"`
			Summary types.ComplianceSummary            `json:"summary"`
		}{Reports: reports, Summary: summary})
	case FormatCSV:
		return reportsCSV(w, reports)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// matrixCSV writes the link list, the gap list, and the coverage summary as
// blank-line-separated sections, each with its own header row.
func matrixCSV(w io.Writer, matrix *types.TraceabilityMatrix) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"requirement_id", "test_case_id", "coverage_state", "clause_refs"}); err != nil {
		return err
	}
	for _, link := range matrix.Links {
		record := []string{
			link.RequirementID,
			link.TestCaseID,
			link.CoverageState,
			strings.Join(link.ClauseRefs, refSeparator),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	if len(matrix.Gaps) > 0 {
		if err := cw.Write([]string{}); err != nil {
			return err
		}
		if err := cw.Write([]string{"requirement_id", "coverage_state", "missing_clauses"}); err != nil {
			return err
		}
		for _, gap := range matrix.Gaps {
			record := []string{
				gap.RequirementID,
				gap.CoverageState,
				strings.Join(gap.MissingClauses, refSeparator),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	if err := cw.Write([]string{}); err != nil {
		return err
	}
	if err := cw.Write([]string{"total_requirements", "covered", "partial", "not_covered", "coverage_percentage"}); err != nil {
		return err
	}
	summary := []string{
		strconv.Itoa(matrix.Summary.TotalRequirements),
		strconv.Itoa(matrix.Summary.CoveredCount),
		strconv.Itoa(matrix.Summary.PartialCount),
		strconv.Itoa(matrix.Summary.NotCoveredCount),
		strconv.FormatFloat(matrix.Summary.CoveragePercentage, 'f', 2, 64),
	}
	if err := cw.Write(summary); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

// reportsCSV writes one row per test case report.
func reportsCSV(w io.Writer, reports []types.ComplianceValidationReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"test_case_id", "overall_score", "classification", "evidence_gaps"}); err != nil {
		return err
	}
	for _, report := range reports {
		record := []string{
			report.TestCaseID,
			strconv.FormatFloat(report.OverallScore, 'f', 2, 64),
			report.Classification,
			strings.Join(report.EvidenceGaps, refSeparator),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
