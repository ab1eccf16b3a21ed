package types

import "strings"

// Test case type values.
const (
	TestCasePositive    = "positive"
	TestCaseNegative    = "negative"
	TestCaseBoundary    = "boundary"
	TestCaseIntegration = "integration"
	TestCasePerformance = "performance"
	TestCaseSecurity    = "security"
	TestCaseUsability   = "usability"
	TestCaseCompliance  = "compliance"
)

// validTestCaseTypes is the set of recognized test case type values.
var validTestCaseTypes = map[string]bool{
	TestCasePositive:    true,
	TestCaseNegative:    true,
	TestCaseBoundary:    true,
	TestCaseIntegration: true,
	TestCasePerformance: true,
	TestCaseSecurity:    true,
	TestCaseUsability:   true,
	TestCaseCompliance:  true,
}

// ValidTestCaseType reports whether t is a recognized test case type.
func ValidTestCaseType(t string) bool { return validTestCaseTypes[t] }

// TestStep is a single ordered step within a test case.
type TestStep struct {
	// StepNumber orders the step within the test case, starting at 1.
	StepNumber int `json:"step_number"`

	// Action describes what the tester or harness does.
	Action string `json:"action"`

	// ExpectedResult describes the outcome the step must produce.
	ExpectedResult string `json:"expected_result"`

	// DataInputs holds optional named inputs for the step.
	DataInputs map[string]string `json:"data_inputs,omitempty"`

	// Preconditions and Postconditions are optional step-level conditions.
	Preconditions  string `json:"preconditions,omitempty"`
	Postconditions string `json:"postconditions,omitempty"`
}

// TestCase is a generated test case produced by an upstream generation
// collaborator. The core never mutates it; validation results are attached
// alongside it in a ComplianceValidationReport.
type TestCase struct {
	// ID is the unique test case identifier.
	ID string `json:"id"`

	// Title is the human-readable test case name.
	Title string `json:"title"`

	// Description explains what the test case verifies.
	Description string `json:"description,omitempty"`

	// Type is one of the TestCase* constants.
	Type string `json:"type"`

	// Priority is one of the Priority* constants.
	Priority string `json:"priority"`

	// RequirementID is the single requirement this test case was
	// generated from. It must reference a requirement known to the
	// traceability engine.
	RequirementID string `json:"requirement_id"`

	// ComplianceRefs holds clause references ("STANDARD.clause_id")
	// this test case claims to verify.
	ComplianceRefs []string `json:"compliance_refs,omitempty"`

	// Steps is the ordered step sequence.
	Steps []TestStep `json:"steps"`

	// Prerequisites lists setup conditions that must hold before the
	// first step runs.
	Prerequisites []string `json:"prerequisites,omitempty"`

	// ExpectedOutcome summarizes the overall expected result.
	ExpectedOutcome string `json:"expected_outcome,omitempty"`

	// PassCriteria and FailCriteria define the verdict rules.
	PassCriteria []string `json:"pass_criteria,omitempty"`
	FailCriteria []string `json:"fail_criteria,omitempty"`

	// EvidenceArtifacts holds opaque identifiers attached by the
	// evidence collection collaborator. Stored, never interpreted.
	EvidenceArtifacts []string `json:"evidence_artifacts,omitempty"`
}

// Validate checks that the test case is well-formed. It returns a sentinel
// error from this package on failure.
func (tc TestCase) Validate() error {
	if tc.ID == "" {
		return ErrMissingID
	}
	if tc.Title == "" {
		return ErrMissingTitle
	}
	if tc.RequirementID == "" {
		return ErrMissingRequirementID
	}
	if !validTestCaseTypes[tc.Type] {
		return ErrInvalidTestCaseType
	}
	if !validPriorities[tc.Priority] {
		return ErrInvalidPriority
	}
	return nil
}

// Content returns all searchable text of the test case: title, description,
// step actions and expected results, expected outcome, and pass/fail
// criteria joined with newlines. The validator scans this string for
// required-evidence descriptors.
func (tc TestCase) Content() string {
	parts := make([]string, 0, 4+2*len(tc.Steps)+len(tc.PassCriteria)+len(tc.FailCriteria))
	parts = append(parts, tc.Title)
	if tc.Description != "" {
		parts = append(parts, tc.Description)
	}
	for _, step := range tc.Steps {
		parts = append(parts, step.Action, step.ExpectedResult)
	}
	if tc.ExpectedOutcome != "" {
		parts = append(parts, tc.ExpectedOutcome)
	}
	parts = append(parts, tc.PassCriteria...)
	parts = append(parts, tc.FailCriteria...)
	return strings.Join(parts, "\n")
}
