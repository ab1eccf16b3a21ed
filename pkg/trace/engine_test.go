package trace

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/registry"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/types"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.NewRegistry()
	require.NoError(t, r.RegisterStandard("PRIV", []types.Clause{
		{ID: "consent", Description: "Consent", Patterns: []string{"consent"}},
		{ID: "encryption", Description: "Encryption", Patterns: []string{"encrypt"}},
	}, false))
	require.NoError(t, r.RegisterStandard("AUDIT", []types.Clause{
		{ID: "trail", Description: "Audit trail", Patterns: []string{"audit"}},
	}, false))
	return r
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return New(testRegistry(t), Config{})
}

func requirement(id string, refs ...string) types.Requirement {
	return types.Requirement{
		ID:             id,
		Description:    "requirement " + id,
		Type:           types.RequirementCompliance,
		Priority:       types.PriorityHigh,
		ComplianceRefs: refs,
	}
}

func testCase(id, reqID string, refs ...string) types.TestCase {
	return types.TestCase{
		ID:             id,
		Title:          "test case " + id,
		Type:           types.TestCaseCompliance,
		Priority:       types.PriorityHigh,
		RequirementID:  reqID,
		ComplianceRefs: refs,
	}
}

func TestBuildCoverageStates(t *testing.T) {
	e := testEngine(t)

	requirements := []types.Requirement{
		requirement("REQ-1", "PRIV.consent"),
		requirement("REQ-2", "PRIV.consent", "PRIV.encryption"),
		requirement("REQ-3", "AUDIT.trail"),
	}
	testCases := []types.TestCase{
		testCase("TC-1", "REQ-1", "PRIV.consent"),
		testCase("TC-2", "REQ-2", "PRIV.consent"), // encryption left unverified
	}

	matrix, err := e.Build(context.Background(), requirements, testCases, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, matrix.Summary.TotalRequirements)
	assert.Equal(t, 1, matrix.Summary.CoveredCount)
	assert.Equal(t, 1, matrix.Summary.PartialCount)
	assert.Equal(t, 1, matrix.Summary.NotCoveredCount)
	assert.Equal(t, 33.33, matrix.Summary.CoveragePercentage)
	assert.Equal(t, 33.33, matrix.Summary.PartialPercentage)

	require.Len(t, matrix.Links, 2)
	assert.Equal(t, types.CoverageCovered, matrix.Links[0].CoverageState)
	assert.Equal(t, []string{"PRIV.consent"}, matrix.Links[0].ClauseRefs)
	assert.Equal(t, types.CoveragePartial, matrix.Links[1].CoverageState)

	require.Len(t, matrix.Gaps, 2)
	assert.Equal(t, "REQ-2", matrix.Gaps[0].RequirementID)
	assert.Equal(t, types.CoveragePartial, matrix.Gaps[0].CoverageState)
	assert.Equal(t, []string{"PRIV.encryption"}, matrix.Gaps[0].MissingClauses)
	assert.Equal(t, "REQ-3", matrix.Gaps[1].RequirementID)
	assert.Equal(t, types.CoverageNotCovered, matrix.Gaps[1].CoverageState)
	assert.Equal(t, []string{"AUDIT.trail"}, matrix.Gaps[1].MissingClauses)
}

func TestBuildSummarySumsToTotal(t *testing.T) {
	e := testEngine(t)

	requirements := []types.Requirement{
		requirement("REQ-1", "PRIV.consent"),
		requirement("REQ-2"),
		requirement("REQ-3", "AUDIT.trail"),
		requirement("REQ-4", "PRIV.encryption"),
	}
	testCases := []types.TestCase{
		testCase("TC-1", "REQ-1", "PRIV.consent"),
		testCase("TC-2", "REQ-2"),
		testCase("TC-3", "REQ-4"),
	}

	matrix, err := e.Build(context.Background(), requirements, testCases, nil)
	require.NoError(t, err)

	sum := matrix.Summary.CoveredCount + matrix.Summary.PartialCount + matrix.Summary.NotCoveredCount
	assert.Equal(t, matrix.Summary.TotalRequirements, sum)
}

func TestBuildVacuousCoverage(t *testing.T) {
	e := testEngine(t)

	// A requirement with no clause obligations and at least one test case
	// is covered; there is nothing left to verify.
	requirements := []types.Requirement{requirement("REQ-1")}
	testCases := []types.TestCase{testCase("TC-1", "REQ-1")}

	matrix, err := e.Build(context.Background(), requirements, testCases, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, matrix.Summary.CoveredCount)
	assert.Empty(t, matrix.Gaps)
}

func TestBuildOrphanTestCase(t *testing.T) {
	e := testEngine(t)

	requirements := []types.Requirement{requirement("REQ-1")}
	testCases := []types.TestCase{
		testCase("TC-2", "REQ-404"),
		testCase("TC-1", "REQ-404"),
	}

	matrix, err := e.Build(context.Background(), requirements, testCases, nil)
	assert.Nil(t, matrix)

	var orphan *types.OrphanTestCaseError
	require.ErrorAs(t, err, &orphan)
	assert.Equal(t, []string{"TC-1", "TC-2"}, orphan.TestCaseIDs)
}

func TestBuildDependencyCycle(t *testing.T) {
	e := testEngine(t)

	a := requirement("REQ-A")
	a.Dependencies = []string{"REQ-B"}
	b := requirement("REQ-B")
	b.Dependencies = []string{"REQ-C"}
	c := requirement("REQ-C")
	c.Dependencies = []string{"REQ-A"}

	matrix, err := e.Build(context.Background(), []types.Requirement{a, b, c}, nil, nil)
	assert.Nil(t, matrix)

	var cycle *types.CyclicDependencyError
	require.ErrorAs(t, err, &cycle)
	require.NotEmpty(t, cycle.Cycle)
	assert.Equal(t, cycle.Cycle[0], cycle.Cycle[len(cycle.Cycle)-1])
	assert.Len(t, cycle.Cycle, 4)
}

func TestBuildAcyclicDependenciesAccepted(t *testing.T) {
	e := testEngine(t)

	a := requirement("REQ-A")
	a.Dependencies = []string{"REQ-B", "REQ-C"}
	b := requirement("REQ-B")
	b.Dependencies = []string{"REQ-C"}
	c := requirement("REQ-C")

	matrix, err := e.Build(context.Background(), []types.Requirement{a, b, c}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, matrix.Summary.NotCoveredCount)
}

func TestBuildUnknownDependencyWarns(t *testing.T) {
	e := testEngine(t)

	a := requirement("REQ-A")
	a.Dependencies = []string{"REQ-GONE"}

	matrix, err := e.Build(context.Background(), []types.Requirement{a}, nil, nil)
	require.NoError(t, err)
	require.Len(t, matrix.Warnings, 1)
	assert.Contains(t, matrix.Warnings[0], "REQ-GONE")
}

func TestBuildThresholdInclusive(t *testing.T) {
	e := testEngine(t)

	requirements := []types.Requirement{requirement("REQ-1")}
	testCases := []types.TestCase{testCase("TC-1", "REQ-1")}
	mappings := []types.ComplianceMapping{
		{RequirementID: "REQ-1", ClauseRef: "PRIV.consent", Confidence: 0.5},
		{RequirementID: "REQ-1", ClauseRef: "PRIV.encryption", Confidence: 0.49},
	}

	matrix, err := e.Build(context.Background(), requirements, testCases, mappings)
	require.NoError(t, err)

	// Exactly at threshold is accepted, just below is not: the consent
	// obligation exists and is unverified, encryption never became one.
	require.Len(t, matrix.Gaps, 1)
	assert.Equal(t, []string{"PRIV.consent"}, matrix.Gaps[0].MissingClauses)
	assert.Equal(t, 1, matrix.Summary.PartialCount)
}

func TestBuildConfidenceOutOfRange(t *testing.T) {
	e := testEngine(t)

	requirements := []types.Requirement{requirement("REQ-1")}
	testCases := []types.TestCase{testCase("TC-1", "REQ-1")}
	mappings := []types.ComplianceMapping{
		{RequirementID: "REQ-1", ClauseRef: "PRIV.consent", Confidence: 1.5},
	}

	matrix, err := e.Build(context.Background(), requirements, testCases, mappings)
	require.NoError(t, err)

	// Excluded from coverage, reported as a warning.
	assert.Equal(t, 1, matrix.Summary.CoveredCount)
	require.Len(t, matrix.Warnings, 1)
	assert.Contains(t, matrix.Warnings[0], "outside [0,1]")
}

func TestBuildUnknownClauseRefWarns(t *testing.T) {
	e := testEngine(t)

	requirements := []types.Requirement{requirement("REQ-1", "GHOST.clause")}
	testCases := []types.TestCase{testCase("TC-1", "REQ-1", "GHOST.clause")}

	matrix, err := e.Build(context.Background(), requirements, testCases, nil)
	require.NoError(t, err)

	// The unknown reference still participates in coverage as an opaque
	// obligation; the anomaly is surfaced as a warning.
	assert.Equal(t, 1, matrix.Summary.CoveredCount)
	require.Len(t, matrix.Warnings, 1)
	assert.Contains(t, matrix.Warnings[0], "GHOST.clause")

	ghost := matrix.PerStandard["GHOST"]
	assert.Equal(t, 1, ghost.MappedRequirementCount)
	assert.Equal(t, 1, ghost.CoveredCount)
}

func TestBuildPerStandard(t *testing.T) {
	e := testEngine(t)

	requirements := []types.Requirement{
		requirement("REQ-1", "PRIV.consent", "AUDIT.trail"),
		requirement("REQ-2", "PRIV.encryption"),
	}
	testCases := []types.TestCase{
		testCase("TC-1", "REQ-1", "PRIV.consent", "AUDIT.trail"),
	}

	matrix, err := e.Build(context.Background(), requirements, testCases, nil)
	require.NoError(t, err)

	priv := matrix.PerStandard["PRIV"]
	assert.Equal(t, 2, priv.MappedRequirementCount)
	assert.Equal(t, 1, priv.CoveredCount)

	audit := matrix.PerStandard["AUDIT"]
	assert.Equal(t, 1, audit.MappedRequirementCount)
	assert.Equal(t, 1, audit.CoveredCount)
}

func TestBuildMappingsExtendObligations(t *testing.T) {
	e := testEngine(t)

	// The requirement declares nothing; an accepted mapping adds an
	// obligation the test case does not verify.
	requirements := []types.Requirement{requirement("REQ-1")}
	testCases := []types.TestCase{testCase("TC-1", "REQ-1")}
	mappings := []types.ComplianceMapping{
		{RequirementID: "REQ-1", ClauseRef: "AUDIT.trail", Confidence: 0.8},
	}

	matrix, err := e.Build(context.Background(), requirements, testCases, mappings)
	require.NoError(t, err)
	assert.Equal(t, 1, matrix.Summary.PartialCount)
	require.Len(t, matrix.Gaps, 1)
	assert.Equal(t, []string{"AUDIT.trail"}, matrix.Gaps[0].MissingClauses)
}

func TestBuildDeterministic(t *testing.T) {
	e := testEngine(t)

	requirements := []types.Requirement{
		requirement("REQ-2", "PRIV.encryption"),
		requirement("REQ-1", "PRIV.consent", "AUDIT.trail"),
	}
	testCases := []types.TestCase{
		testCase("TC-2", "REQ-1", "AUDIT.trail"),
		testCase("TC-1", "REQ-1", "PRIV.consent"),
		testCase("TC-3", "REQ-2", "PRIV.encryption"),
	}
	mappings := []types.ComplianceMapping{
		{RequirementID: "REQ-1", ClauseRef: "PRIV.consent", Confidence: 0.9},
	}

	first, err := e.Build(context.Background(), requirements, testCases, mappings)
	require.NoError(t, err)
	second, err := e.Build(context.Background(), requirements, testCases, mappings)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))

	// Links are ordered by requirement id, then test case id.
	var order []string
	for _, link := range first.Links {
		order = append(order, link.RequirementID+"/"+link.TestCaseID)
	}
	assert.Equal(t, []string{"REQ-1/TC-1", "REQ-1/TC-2", "REQ-2/TC-3"}, order)
}

func TestBuildParallelMatchesSequential(t *testing.T) {
	reg := testRegistry(t)
	sequential := New(reg, Config{})
	parallel := New(reg, Config{Workers: 4})

	var requirements []types.Requirement
	var testCases []types.TestCase
	for _, id := range []string{"REQ-1", "REQ-2", "REQ-3", "REQ-4", "REQ-5", "REQ-6"} {
		requirements = append(requirements, requirement(id, "PRIV.consent"))
		testCases = append(testCases, testCase("TC-"+id, id, "PRIV.consent"))
	}

	want, err := sequential.Build(context.Background(), requirements, testCases, nil)
	require.NoError(t, err)
	got, err := parallel.Build(context.Background(), requirements, testCases, nil)
	require.NoError(t, err)

	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, string(wantJSON), string(gotJSON))
}

func TestBuildCancelled(t *testing.T) {
	e := testEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	requirements := []types.Requirement{requirement("REQ-1")}
	matrix, err := e.Build(ctx, requirements, nil, nil)
	assert.Nil(t, matrix)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildMonotonicCoverage(t *testing.T) {
	e := testEngine(t)

	requirements := []types.Requirement{requirement("REQ-1", "PRIV.consent", "PRIV.encryption")}

	before, err := e.Build(context.Background(), requirements, []types.TestCase{
		testCase("TC-1", "REQ-1", "PRIV.consent"),
	}, nil)
	require.NoError(t, err)

	after, err := e.Build(context.Background(), requirements, []types.TestCase{
		testCase("TC-1", "REQ-1", "PRIV.consent"),
		testCase("TC-2", "REQ-1", "PRIV.encryption"),
	}, nil)
	require.NoError(t, err)

	// Adding a test case never lowers a requirement's coverage state.
	beforeState := before.Links[0].CoverageState
	afterState := after.Links[0].CoverageState
	assert.GreaterOrEqual(t, types.CoverageRank(afterState), types.CoverageRank(beforeState))
	assert.Equal(t, types.CoverageCovered, afterState)
}

func TestBuildEmptyInputs(t *testing.T) {
	e := testEngine(t)

	matrix, err := e.Build(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, matrix.Summary.TotalRequirements)
	assert.Equal(t, 0.0, matrix.Summary.CoveragePercentage)
	assert.Empty(t, matrix.Links)
	assert.Empty(t, matrix.Gaps)
}

func TestBuildDuplicateRequirementWarns(t *testing.T) {
	e := testEngine(t)

	requirements := []types.Requirement{requirement("REQ-1"), requirement("REQ-1")}
	matrix, err := e.Build(context.Background(), requirements, nil, nil)
	require.NoError(t, err)
	require.Len(t, matrix.Warnings, 1)
	assert.Contains(t, matrix.Warnings[0], "duplicate requirement id REQ-1")
}
