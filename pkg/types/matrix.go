package types

// CoverageSummary aggregates per-requirement coverage states.
// CoveredCount + PartialCount + NotCoveredCount always equals
// TotalRequirements.
type CoverageSummary struct {
	TotalRequirements int `json:"total_requirements"`
	CoveredCount      int `json:"covered_count"`
	PartialCount      int `json:"partial_count"`
	NotCoveredCount   int `json:"not_covered_count"`

	// CoveragePercentage counts only fully covered requirements,
	// rounded to two decimals. Partial requirements are reported
	// separately in PartialPercentage and never count toward full
	// coverage.
	CoveragePercentage float64 `json:"coverage_percentage"`
	PartialPercentage  float64 `json:"partial_percentage"`
}

// StandardCoverage is the per-standard slice of the coverage breakdown.
type StandardCoverage struct {
	// MappedRequirementCount is the number of requirements with at
	// least one clause obligation under this standard.
	MappedRequirementCount int `json:"mapped_requirement_count"`

	// CoveredCount is how many of those requirements are fully covered.
	CoveredCount int `json:"covered_count"`
}

// Gap names a requirement whose clause obligations are not fully verified,
// with the specific missing clause references called out.
type Gap struct {
	RequirementID  string   `json:"requirement_id"`
	CoverageState  string   `json:"coverage_state"`
	MissingClauses []string `json:"missing_clauses"`
}

// TraceabilityMatrix is the result of one traceability engine build: the
// flat link list plus the derived aggregate views. All slices are sorted
// deterministically so identical inputs produce byte-identical matrices.
type TraceabilityMatrix struct {
	// Links is the flat link list, sorted by requirement id then test
	// case id.
	Links []TraceabilityLink `json:"links"`

	// Summary is the aggregate coverage view.
	Summary CoverageSummary `json:"summary"`

	// PerStandard breaks coverage down by standard name.
	PerStandard map[string]StandardCoverage `json:"per_standard"`

	// Gaps lists requirements with clause obligations that are
	// not_covered or partial, sorted by requirement id.
	Gaps []Gap `json:"gaps"`

	// Warnings records soft anomalies found during the build (unknown
	// clause references, out-of-range confidences, unknown dependency
	// ids), sorted. Warnings never prevent a matrix from being produced.
	Warnings []string `json:"warnings,omitempty"`
}
