package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/registry"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/types"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.NewRegistry()
	require.NoError(t, r.RegisterStandard("SAFE", []types.Clause{
		{
			ID:          "logging",
			Description: "Access logging",
			Patterns:    []string{"log"},
			Evidence:    []string{"audit log", "timestamp"},
		},
		{
			ID:          "bare",
			Description: "Clause with no evidence descriptors",
			Patterns:    []string{"bare"},
		},
	}, false))
	return r
}

func mapping(req, ref string, confidence float64) types.ComplianceMapping {
	return types.ComplianceMapping{RequirementID: req, ClauseRef: ref, Confidence: confidence}
}

func testCase(content string) types.TestCase {
	return types.TestCase{
		ID:            "TC-100",
		Title:         content,
		Type:          types.TestCaseCompliance,
		Priority:      types.PriorityHigh,
		RequirementID: "REQ-100",
	}
}

func TestValidateEmptyRefs(t *testing.T) {
	v := New(testRegistry(t))

	report, err := v.Validate(testCase("anything"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, report.OverallScore)
	assert.Equal(t, types.ClassificationCompliant, report.Classification)
	assert.Empty(t, report.PerClause)
}

func TestValidateFullEvidence(t *testing.T) {
	v := New(testRegistry(t))
	tc := testCase("Check the audit log entry carries a timestamp")

	report, err := v.Validate(tc, []string{"SAFE.logging"},
		[]types.ComplianceMapping{mapping("REQ-100", "SAFE.logging", 0.9)})
	require.NoError(t, err)

	require.Len(t, report.PerClause, 1)
	clause := report.PerClause[0]
	assert.Equal(t, 1.0, clause.EvidenceCompleteness)
	assert.Equal(t, 94.0, clause.Score) // 0.6*0.9 + 0.4*1.0, times 100
	assert.Equal(t, 94.0, report.OverallScore)
	assert.Equal(t, types.ClassificationCompliant, report.Classification)
	assert.Empty(t, report.EvidenceGaps)
}

func TestValidateMissingEvidenceCapsScore(t *testing.T) {
	v := New(testRegistry(t))
	tc := testCase("Check the audit log entry") // no timestamp

	report, err := v.Validate(tc, []string{"SAFE.logging"},
		[]types.ComplianceMapping{mapping("REQ-100", "SAFE.logging", 0.9)})
	require.NoError(t, err)

	require.Len(t, report.PerClause, 1)
	clause := report.PerClause[0]
	assert.Equal(t, 0.5, clause.EvidenceCompleteness)
	assert.Equal(t, 50.0, clause.Score) // capped despite high confidence
	assert.Equal(t, []string{"timestamp"}, clause.MissingEvidence)
	assert.Equal(t, []string{"SAFE.logging: timestamp"}, report.EvidenceGaps)
	assert.Equal(t, types.ClassificationPartial, report.Classification)
	require.NotEmpty(t, report.Recommendations)
	assert.Contains(t, report.Recommendations[0], "timestamp")
}

func TestValidateNoEvidenceDescriptors(t *testing.T) {
	v := New(testRegistry(t))
	tc := testCase("bare check")

	report, err := v.Validate(tc, []string{"SAFE.bare"},
		[]types.ComplianceMapping{mapping("REQ-100", "SAFE.bare", 0.5)})
	require.NoError(t, err)

	require.Len(t, report.PerClause, 1)
	assert.Equal(t, 1.0, report.PerClause[0].EvidenceCompleteness)
	assert.Equal(t, 70.0, report.PerClause[0].Score)
	assert.Equal(t, types.ClassificationPartial, report.Classification)
}

func TestValidateClassificationBoundaries(t *testing.T) {
	v := New(testRegistry(t))
	tc := testCase("Check the audit log entry carries a timestamp")

	tests := []struct {
		confidence float64
		wantScore  float64
		want       string
	}{
		{0.75, 85.0, types.ClassificationCompliant},
		{0.74, 84.4, types.ClassificationPartial},
		{0.0, 40.0, types.ClassificationNonCompliant},
	}

	for _, tt := range tests {
		report, err := v.Validate(tc, []string{"SAFE.logging"},
			[]types.ComplianceMapping{mapping("REQ-100", "SAFE.logging", tt.confidence)})
		require.NoError(t, err)
		assert.Equal(t, tt.wantScore, report.OverallScore, "confidence %v", tt.confidence)
		assert.Equal(t, tt.want, report.Classification, "confidence %v", tt.confidence)
	}
}

func TestValidateUnmappedClause(t *testing.T) {
	v := New(testRegistry(t))
	tc := testCase("Check the audit log entry carries a timestamp")

	// No mapping for the clause: confidence contributes zero.
	report, err := v.Validate(tc, []string{"SAFE.logging"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 40.0, report.OverallScore)
	assert.Equal(t, types.ClassificationNonCompliant, report.Classification)
}

func TestValidateUnknownClause(t *testing.T) {
	v := New(testRegistry(t))

	_, err := v.Validate(testCase("anything"), []string{"SAFE.nope"}, nil)
	assert.ErrorIs(t, err, types.ErrUnknownClause)

	_, err = v.Validate(testCase("anything"), []string{"NOPE.clause"}, nil)
	assert.ErrorIs(t, err, types.ErrUnknownStandard)
}

func TestValidateMultipleClauses(t *testing.T) {
	v := New(testRegistry(t))
	tc := testCase("bare check of the audit log entry with timestamp")

	report, err := v.Validate(tc, []string{"SAFE.logging", "SAFE.bare"},
		[]types.ComplianceMapping{
			mapping("REQ-100", "SAFE.logging", 1.0),
			mapping("REQ-100", "SAFE.bare", 1.0),
		})
	require.NoError(t, err)

	require.Len(t, report.PerClause, 2)
	assert.Equal(t, 100.0, report.PerClause[0].Score)
	assert.Equal(t, 100.0, report.PerClause[1].Score)
	assert.Equal(t, 100.0, report.OverallScore)
}

func TestSummarize(t *testing.T) {
	reports := []types.ComplianceValidationReport{
		{TestCaseID: "TC-1", OverallScore: 94, Classification: types.ClassificationCompliant},
		{TestCaseID: "TC-2", OverallScore: 70, Classification: types.ClassificationPartial},
		{TestCaseID: "TC-3", OverallScore: 40, Classification: types.ClassificationNonCompliant},
	}

	summary := Summarize(reports)
	assert.Equal(t, 3, summary.TotalTestCases)
	assert.Equal(t, 1, summary.Compliant)
	assert.Equal(t, 1, summary.Partial)
	assert.Equal(t, 1, summary.NonCompliant)
	assert.Equal(t, 68.0, summary.AverageScore)
	assert.Equal(t, 33.33, summary.ComplianceRate)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.TotalTestCases)
	assert.Equal(t, 0.0, empty.AverageScore)
}
