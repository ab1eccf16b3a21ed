package types

import (
	"errors"
	"fmt"
	"strings"
)

// Registry errors. Always surfaced to the caller, never silently ignored.
var (
	ErrDuplicateStandard = errors.New("standard already registered")
	ErrUnknownStandard   = errors.New("unknown standard")
	ErrUnknownClause     = errors.New("unknown clause")
	ErrInvalidPattern    = errors.New("invalid clause pattern expression")
	ErrNoPatterns        = errors.New("clause has no patterns")
)

// Entity validation errors.
var (
	ErrMissingID              = errors.New("identifier must not be empty")
	ErrMissingDescription     = errors.New("description must not be empty")
	ErrMissingTitle           = errors.New("title must not be empty")
	ErrMissingRequirementID   = errors.New("requirement id must not be empty")
	ErrInvalidRequirementType = errors.New("invalid requirement type")
	ErrInvalidTestCaseType    = errors.New("invalid test case type")
	ErrInvalidPriority        = errors.New("invalid priority")
	ErrInvalidClauseRef       = errors.New("invalid clause reference")
	ErrInvalidConfidence      = errors.New("confidence must be in [0,1]")
)

// OrphanTestCaseError is the fatal referential-integrity error raised by the
// traceability engine when test cases reference requirement ids absent from
// the input set. No partial matrix is returned alongside it.
type OrphanTestCaseError struct {
	// TestCaseIDs lists the offending test case ids, sorted.
	TestCaseIDs []string
}

func (e *OrphanTestCaseError) Error() string {
	return fmt.Sprintf("orphan test cases reference unknown requirements: %s",
		strings.Join(e.TestCaseIDs, ", "))
}

// CyclicDependencyError is raised when requirement dependencies form a
// cycle. The engine rejects cyclic inputs instead of looping.
type CyclicDependencyError struct {
	// Cycle lists the requirement ids along one detected cycle, in
	// order, with the first id repeated at the end.
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("requirement dependency cycle: %s",
		strings.Join(e.Cycle, " -> "))
}
