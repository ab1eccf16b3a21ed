package types

// Coverage state values for a requirement. States are ordered: a requirement
// gains rank as test cases and clause coverage are added within one build.
const (
	CoverageNotCovered = "not_covered"
	CoveragePartial    = "partial"
	CoverageCovered    = "covered"
)

// coverageRanks orders coverage states from weakest to strongest.
var coverageRanks = map[string]int{
	CoverageNotCovered: 0,
	CoveragePartial:    1,
	CoverageCovered:    2,
}

// CoverageRank returns the ordering rank of a coverage state
// (not_covered < partial < covered). Unknown states rank below not_covered.
func CoverageRank(state string) int {
	rank, ok := coverageRanks[state]
	if !ok {
		return -1
	}
	return rank
}

// ValidCoverageState reports whether s is a recognized coverage state.
func ValidCoverageState(s string) bool {
	_, ok := coverageRanks[s]
	return ok
}

// TraceabilityLink is a derived edge between a requirement and one of its
// test cases. Links are never hand-authored; the traceability engine
// recomputes the full link set on every build.
type TraceabilityLink struct {
	// LinkID is a UUID v7, generated when the link is recorded in the
	// audit store. Empty on a freshly built in-memory matrix.
	LinkID string `json:"link_id,omitempty"`

	// RequirementID and TestCaseID reference entities known to the
	// engine. Both always exist in the build's input sets.
	RequirementID string `json:"requirement_id"`
	TestCaseID    string `json:"test_case_id"`

	// ClauseRefs lists the clause references the test case contributes
	// toward the requirement's obligations, sorted.
	ClauseRefs []string `json:"clause_refs,omitempty"`

	// CoverageState is the owning requirement's coverage state.
	CoverageState string `json:"coverage_state"`
}
