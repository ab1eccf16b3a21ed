// Package validator implements the compliance validator: it scores a test
// case against a set of clause references by combining mapping confidence
// with structural completeness checks on the test case's text. The
// validator only reads; test cases are never mutated.
package validator

import (
	"fmt"
	"math"
	"strings"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/registry"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/types"
)

// Score weighting: mapping confidence contributes 60%, structural evidence
// completeness 40%.
const (
	confidenceWeight = 0.6
	evidenceWeight   = 0.4
)

// missingEvidenceCap limits a clause score when any required-evidence
// descriptor is entirely absent from the test case: compliance intent
// without verification coverage.
const missingEvidenceCap = 50.0

// emptyRefsScore is the overall score of a test case with no compliance
// obligations; such a test case is trivially compliant.
const emptyRefsScore = 100.0

// Validator scores test cases against clause references using a clause
// registry and the mapper's output.
type Validator struct {
	registry *registry.Registry
}

// New creates a validator over the given registry.
func New(reg *registry.Registry) *Validator {
	return &Validator{registry: reg}
}

// Validate computes a compliance validation report for the test case
// against the given clause references. Mapping confidence between the test
// case's parent requirement and each clause is looked up from mappings, not
// recomputed. An unresolvable clause reference returns an error wrapping
// ErrUnknownClause or ErrUnknownStandard.
func (v *Validator) Validate(tc types.TestCase, clauseRefs []string, mappings []types.ComplianceMapping) (types.ComplianceValidationReport, error) {
	report := types.ComplianceValidationReport{TestCaseID: tc.ID}

	if len(clauseRefs) == 0 {
		report.OverallScore = emptyRefsScore
		report.Classification = types.Classify(report.OverallScore)
		return report, nil
	}

	confidence := confidenceIndex(tc.RequirementID, mappings)
	content := strings.ToLower(tc.Content())

	var total float64
	for _, ref := range clauseRefs {
		clause, err := v.registry.LookupRef(ref)
		if err != nil {
			return types.ComplianceValidationReport{}, fmt.Errorf("validating test case %s: %w", tc.ID, err)
		}

		score := scoreClause(clause, confidence[ref], content)
		total += score.Score
		report.PerClause = append(report.PerClause, score)

		for _, descriptor := range score.MissingEvidence {
			report.EvidenceGaps = append(report.EvidenceGaps,
				fmt.Sprintf("%s: %s", ref, descriptor))
		}
		if rec := recommend(score); rec != "" {
			report.Recommendations = append(report.Recommendations, rec)
		}
	}

	report.OverallScore = round2(total / float64(len(clauseRefs)))
	report.Classification = types.Classify(report.OverallScore)
	return report, nil
}

// Summarize aggregates validation reports across test cases.
func Summarize(reports []types.ComplianceValidationReport) types.ComplianceSummary {
	summary := types.ComplianceSummary{TotalTestCases: len(reports)}
	if len(reports) == 0 {
		return summary
	}

	var total float64
	for _, report := range reports {
		total += report.OverallScore
		switch report.Classification {
		case types.ClassificationCompliant:
			summary.Compliant++
		case types.ClassificationPartial:
			summary.Partial++
		case types.ClassificationNonCompliant:
			summary.NonCompliant++
		}
	}
	summary.AverageScore = round2(total / float64(len(reports)))
	summary.ComplianceRate = round2(float64(summary.Compliant) / float64(len(reports)) * 100)
	return summary
}

// scoreClause blends mapping confidence with evidence completeness for one
// clause. content must already be lowercased.
func scoreClause(clause types.Clause, confidence float64, content string) types.ClauseScore {
	score := types.ClauseScore{
		ClauseRef:         clause.Ref(),
		MappingConfidence: confidence,
	}

	found := 0
	for _, descriptor := range clause.Evidence {
		if strings.Contains(content, strings.ToLower(descriptor)) {
			found++
		} else {
			score.MissingEvidence = append(score.MissingEvidence, descriptor)
		}
	}

	completeness := 1.0
	if len(clause.Evidence) > 0 {
		completeness = float64(found) / float64(len(clause.Evidence))
	}
	score.EvidenceCompleteness = round2(completeness)

	raw := (confidenceWeight*confidence + evidenceWeight*completeness) * 100
	if len(score.MissingEvidence) > 0 && raw > missingEvidenceCap {
		raw = missingEvidenceCap
	}
	score.Score = round2(raw)
	return score
}

// recommend produces a follow-up suggestion for a weak clause score.
func recommend(score types.ClauseScore) string {
	switch {
	case len(score.MissingEvidence) > 0:
		return fmt.Sprintf("add test steps for %s demonstrating: %s",
			score.ClauseRef, strings.Join(score.MissingEvidence, ", "))
	case score.Score < types.PartialThreshold:
		return fmt.Sprintf("strengthen verification of %s: mapping confidence %.2f is too weak",
			score.ClauseRef, score.MappingConfidence)
	default:
		return ""
	}
}

// confidenceIndex indexes the mapper's output by clause ref for one
// requirement, keeping the highest confidence per clause.
func confidenceIndex(requirementID string, mappings []types.ComplianceMapping) map[string]float64 {
	index := make(map[string]float64)
	for _, m := range mappings {
		if m.RequirementID != requirementID {
			continue
		}
		if m.Confidence > index[m.ClauseRef] {
			index[m.ClauseRef] = m.Confidence
		}
	}
	return index
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
