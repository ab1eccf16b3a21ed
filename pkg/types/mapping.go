package types

// Traceability level values for a mapping. Informational only; levels are
// never used in scoring or coverage computation.
const (
	LevelDirect   = "direct"
	LevelIndirect = "indirect"
	LevelRelated  = "related"
)

// validLevels is the set of recognized traceability level values.
var validLevels = map[string]bool{
	LevelDirect:   true,
	LevelIndirect: true,
	LevelRelated:  true,
}

// ValidLevel reports whether l is a recognized traceability level.
func ValidLevel(l string) bool { return validLevels[l] }

// ComplianceMapping links a requirement to a clause with a confidence score.
// Produced only by the mapper; many-to-many in both directions. Mappings
// below the acceptance threshold are retained for audit but excluded from
// coverage computation by the traceability engine.
type ComplianceMapping struct {
	// RequirementID is the mapped requirement.
	RequirementID string `json:"requirement_id"`

	// ClauseRef is the mapped clause in "STANDARD.clause_id" form.
	ClauseRef string `json:"clause_ref"`

	// Confidence is the match strength in [0,1].
	Confidence float64 `json:"confidence"`

	// MatchedPattern is the first clause pattern that matched, kept for
	// audit and explanation.
	MatchedPattern string `json:"matched_pattern"`

	// Rationale is a short human-readable explanation of the match.
	Rationale string `json:"rationale"`

	// Level is the traceability level (direct, indirect, related).
	Level string `json:"level"`
}

// Validate checks that the mapping is well-formed. It returns a sentinel
// error from this package on failure.
func (m ComplianceMapping) Validate() error {
	if m.RequirementID == "" {
		return ErrMissingRequirementID
	}
	if _, _, err := SplitClauseRef(m.ClauseRef); err != nil {
		return err
	}
	if m.Confidence < 0 || m.Confidence > 1 {
		return ErrInvalidConfidence
	}
	return nil
}
