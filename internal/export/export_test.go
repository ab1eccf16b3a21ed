package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/types"
)

func sampleMatrix() *types.TraceabilityMatrix {
	return &types.TraceabilityMatrix{
		Links: []types.TraceabilityLink{
			{
				RequirementID: "REQ-1",
				TestCaseID:    "TC-1",
				ClauseRefs:    []string{"GDPR.consent", "HIPAA.privacy_rule"},
				CoverageState: types.CoverageCovered,
			},
			{
				RequirementID: "REQ-2",
				TestCaseID:    "TC-2",
				CoverageState: types.CoveragePartial,
			},
		},
		Summary: types.CoverageSummary{
			TotalRequirements:  2,
			CoveredCount:       1,
			PartialCount:       1,
			CoveragePercentage: 50,
			PartialPercentage:  50,
		},
		PerStandard: map[string]types.StandardCoverage{
			"GDPR": {MappedRequirementCount: 2, CoveredCount: 1},
		},
		Gaps: []types.Gap{
			{
				RequirementID:  "REQ-2",
				CoverageState:  types.CoveragePartial,
				MissingClauses: []string{"GDPR.security_of_processing"},
			},
		},
	}
}

func TestMatrixJSON(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, Matrix(&first, sampleMatrix(), FormatJSON))
	require.NoError(t, Matrix(&second, sampleMatrix(), FormatJSON))

	// Byte-identical across renders of the same matrix.
	assert.Equal(t, first.String(), second.String())
	assert.Contains(t, first.String(), `"total_requirements": 2`)
	assert.Contains(t, first.String(), `"GDPR.consent"`)
}

func TestMatrixCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Matrix(&buf, sampleMatrix(), FormatCSV))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "requirement_id,test_case_id,coverage_state,clause_refs", lines[0])
	assert.Equal(t, "REQ-1,TC-1,covered,GDPR.consent;HIPAA.privacy_rule", lines[1])
	assert.Equal(t, "REQ-2,TC-2,partial,", lines[2])
	assert.Contains(t, buf.String(), "REQ-2,partial,GDPR.security_of_processing")
	assert.Contains(t, buf.String(), "total_requirements,covered,partial,not_covered,coverage_percentage")
	assert.Contains(t, buf.String(), "2,1,1,0,50.00")
}

func TestMatrixUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Matrix(&buf, sampleMatrix(), "xml")
	assert.Error(t, err)
}

func TestReports(t *testing.T) {
	reports := []types.ComplianceValidationReport{
		{
			TestCaseID:     "TC-1",
			OverallScore:   94,
			Classification: types.ClassificationCompliant,
		},
		{
			TestCaseID:     "TC-2",
			OverallScore:   50,
			Classification: types.ClassificationPartial,
			EvidenceGaps:   []string{"GDPR.consent: consent"},
		},
	}
	summary := types.ComplianceSummary{TotalTestCases: 2, Compliant: 1, Partial: 1}

	var jsonBuf bytes.Buffer
	require.NoError(t, Reports(&jsonBuf, reports, summary, FormatJSON))
	assert.Contains(t, jsonBuf.String(), `"total_test_cases": 2`)

	var csvBuf bytes.Buffer
	require.NoError(t, Reports(&csvBuf, reports, summary, FormatCSV))
	lines := strings.Split(strings.TrimRight(csvBuf.String(), "\n"), "\n")
	assert.Equal(t, "test_case_id,overall_score,classification,evidence_gaps", lines[0])
	assert.Equal(t, "TC-1,94.00,compliant,", lines[1])
	assert.Equal(t, "TC-2,50.00,partial,GDPR.consent: consent", lines[2])
}
