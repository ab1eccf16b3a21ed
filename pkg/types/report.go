package types

// Compliance classification values for a validation report.
const (
	ClassificationCompliant    = "compliant"
	ClassificationPartial      = "partial"
	ClassificationNonCompliant = "non_compliant"
)

// Classification score thresholds. A score of exactly
// CompliantThreshold classifies as compliant; exactly PartialThreshold as
// partial.
const (
	CompliantThreshold = 85.0
	PartialThreshold   = 50.0
)

// Classify maps an overall score (0-100) to a classification value.
func Classify(score float64) string {
	switch {
	case score >= CompliantThreshold:
		return ClassificationCompliant
	case score >= PartialThreshold:
		return ClassificationPartial
	default:
		return ClassificationNonCompliant
	}
}

// ClauseScore is the per-clause component of a validation report.
type ClauseScore struct {
	// ClauseRef is the scored clause in "STANDARD.clause_id" form.
	ClauseRef string `json:"clause_ref"`

	// MappingConfidence is the mapper's confidence between the test
	// case's parent requirement and this clause, 0 when unmapped.
	MappingConfidence float64 `json:"mapping_confidence"`

	// EvidenceCompleteness is the fraction of the clause's
	// required-evidence descriptors found in the test case text.
	EvidenceCompleteness float64 `json:"evidence_completeness"`

	// Score is the blended per-clause score (0-100). Capped at 50 when
	// any required-evidence descriptor is absent from the test case.
	Score float64 `json:"score"`

	// MissingEvidence lists the descriptors absent from the test case.
	MissingEvidence []string `json:"missing_evidence,omitempty"`
}

// ComplianceValidationReport is the validator's output for one test case.
// The report is attached alongside the test case; the test case itself is
// never mutated.
type ComplianceValidationReport struct {
	TestCaseID string `json:"test_case_id"`

	// PerClause holds one entry per validated clause reference, in the
	// order the references were supplied.
	PerClause []ClauseScore `json:"per_clause"`

	// OverallScore is the mean of the per-clause scores, or 100 when no
	// clause references were supplied.
	OverallScore float64 `json:"overall_score"`

	// Classification is compliant, partial, or non_compliant.
	Classification string `json:"classification"`

	// EvidenceGaps lists "CLAUSE_REF: descriptor" entries for every
	// absent required-evidence descriptor.
	EvidenceGaps []string `json:"evidence_gaps,omitempty"`

	// Recommendations suggests concrete follow-ups for failed or
	// partial clauses.
	Recommendations []string `json:"recommendations,omitempty"`
}

// ComplianceSummary aggregates validation reports across test cases.
type ComplianceSummary struct {
	TotalTestCases int     `json:"total_test_cases"`
	Compliant      int     `json:"compliant"`
	Partial        int     `json:"partial"`
	NonCompliant   int     `json:"non_compliant"`
	AverageScore   float64 `json:"average_score"`

	// ComplianceRate is the percentage of test cases classified
	// compliant, rounded to two decimals.
	ComplianceRate float64 `json:"compliance_rate"`
}
