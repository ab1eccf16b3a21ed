package types

import "strings"

// Requirement type values. Each requirement declares exactly one.
const (
	RequirementFunctional    = "functional"
	RequirementNonFunctional = "non_functional"
	RequirementPerformance   = "performance"
	RequirementSecurity      = "security"
	RequirementCompliance    = "compliance"
	RequirementUsability     = "usability"
	RequirementReliability   = "reliability"
)

// validRequirementTypes is the set of recognized requirement type values.
var validRequirementTypes = map[string]bool{
	RequirementFunctional:    true,
	RequirementNonFunctional: true,
	RequirementPerformance:   true,
	RequirementSecurity:      true,
	RequirementCompliance:    true,
	RequirementUsability:     true,
	RequirementReliability:   true,
}

// Priority levels shared by requirements and test cases.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// validPriorities is the set of recognized priority values.
var validPriorities = map[string]bool{
	PriorityCritical: true,
	PriorityHigh:     true,
	PriorityMedium:   true,
	PriorityLow:      true,
}

// ValidRequirementType reports whether t is a recognized requirement type.
func ValidRequirementType(t string) bool { return validRequirementTypes[t] }

// ValidPriority reports whether p is a recognized priority value.
func ValidPriority(p string) bool { return validPriorities[p] }

// Requirement is a software requirement produced by an upstream extraction
// collaborator. The core treats it as immutable input; only ComplianceRefs
// may be extended with clause references discovered by the mapper.
type Requirement struct {
	// ID is the unique requirement identifier, stable across re-generation.
	ID string `json:"id"`

	// Description is the free-text requirement statement.
	Description string `json:"description"`

	// Type is one of the Requirement* constants.
	Type string `json:"type"`

	// Priority is one of the Priority* constants.
	Priority string `json:"priority"`

	// SourceSection names the document section the requirement came from.
	SourceSection string `json:"source_section,omitempty"`

	// ComplianceRefs holds clause references ("STANDARD.clause_id"),
	// supplied by the caller or discovered by the mapper.
	ComplianceRefs []string `json:"compliance_refs,omitempty"`

	// Context is surrounding document text kept for matching.
	Context string `json:"context,omitempty"`

	// AcceptanceCriteria lists the acceptance criteria statements.
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty"`

	// Dependencies lists IDs of requirements this one depends on.
	Dependencies []string `json:"dependencies,omitempty"`

	// RawText is the unprocessed source text of the requirement.
	RawText string `json:"raw_text,omitempty"`
}

// Validate checks that the requirement is well-formed. It returns a sentinel
// error from this package on failure.
func (r Requirement) Validate() error {
	if r.ID == "" {
		return ErrMissingID
	}
	if r.Description == "" {
		return ErrMissingDescription
	}
	if !validRequirementTypes[r.Type] {
		return ErrInvalidRequirementType
	}
	if !validPriorities[r.Priority] {
		return ErrInvalidPriority
	}
	for _, ref := range r.ComplianceRefs {
		if _, _, err := SplitClauseRef(ref); err != nil {
			return err
		}
	}
	return nil
}

// Text returns the matchable text of the requirement: description, context,
// acceptance criteria, and raw text joined with newlines. The mapper scans
// this string for clause patterns.
func (r Requirement) Text() string {
	parts := make([]string, 0, 3+len(r.AcceptanceCriteria))
	parts = append(parts, r.Description)
	if r.Context != "" {
		parts = append(parts, r.Context)
	}
	parts = append(parts, r.AcceptanceCriteria...)
	if r.RawText != "" {
		parts = append(parts, r.RawText)
	}
	return strings.Join(parts, "\n")
}
