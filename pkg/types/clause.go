package types

import "strings"

// Clause is a single citable regulatory provision within a standard.
// Clauses are created at registry initialization or through an explicit
// custom-standard registration and are read-only thereafter.
type Clause struct {
	// Standard is the standard name the clause belongs to
	// (e.g. "FDA_21_CFR_820").
	Standard string `json:"standard" yaml:"standard"`

	// ID identifies the clause within its standard
	// (e.g. "design_controls").
	ID string `json:"id" yaml:"id"`

	// Citation is the human-readable provision reference
	// (e.g. "820.30(a)" or "Article 25").
	Citation string `json:"citation,omitempty" yaml:"citation"`

	// Description is a human-readable summary of the provision.
	Description string `json:"description" yaml:"description"`

	// Patterns holds case-insensitive keywords and phrases matched by
	// substring against requirement text.
	Patterns []string `json:"patterns" yaml:"patterns"`

	// Expressions holds regular expressions applied case-insensitively
	// to requirement text, augmenting Patterns.
	Expressions []string `json:"expressions,omitempty" yaml:"expressions"`

	// Evidence lists required-evidence descriptors. The validator checks
	// each descriptor for case-insensitive containment in test case text.
	Evidence []string `json:"evidence,omitempty" yaml:"evidence"`
}

// Ref returns the clause reference in "STANDARD.clause_id" form.
func (c Clause) Ref() string {
	return c.Standard + "." + c.ID
}

// Validate checks that the clause is well-formed. It returns a sentinel
// error from this package on failure.
func (c Clause) Validate() error {
	if c.Standard == "" || c.ID == "" {
		return ErrMissingID
	}
	if strings.Contains(c.Standard, ".") {
		return ErrInvalidClauseRef
	}
	if len(c.Patterns) == 0 && len(c.Expressions) == 0 {
		return ErrNoPatterns
	}
	return nil
}

// SplitClauseRef splits a "STANDARD.clause_id" reference into its standard
// and clause id parts. Returns ErrInvalidClauseRef when either part is empty
// or the separator is missing. The clause id may itself contain dots.
func SplitClauseRef(ref string) (standard, clauseID string, err error) {
	standard, clauseID, ok := strings.Cut(ref, ".")
	if !ok || standard == "" || clauseID == "" {
		return "", "", ErrInvalidClauseRef
	}
	return standard, clauseID, nil
}

// StandardOf returns the standard part of a clause reference, or the empty
// string when the reference is malformed.
func StandardOf(ref string) string {
	standard, _, err := SplitClauseRef(ref)
	if err != nil {
		return ""
	}
	return standard
}
