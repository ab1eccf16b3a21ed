// Package registry implements the clause registry: a catalog of compliance
// standards and their clauses, each carrying matchable patterns and
// required-evidence descriptors. A Registry is an explicitly constructed
// value, never process-global, so independent standard sets can coexist.
package registry

import (
	"fmt"
	"iter"
	"regexp"
	"slices"
	"strings"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/types"
)

// Registry holds registered standards and their clauses. Clauses are
// read-only after registration. Registry is not safe for concurrent
// mutation; register all standards before sharing it across builds.
type Registry struct {
	// standards maps standard name to its clauses, sorted by clause id.
	standards map[string][]types.Clause

	// compiled maps clause ref to the clause's compiled expressions.
	compiled map[string][]*regexp.Regexp
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		standards: make(map[string][]types.Clause),
		compiled:  make(map[string][]*regexp.Regexp),
	}
}

// RegisterStandard adds a named standard with its clauses. Registering a
// name that already exists returns ErrDuplicateStandard unless overwrite is
// set. Clause expressions are compiled here; a malformed expression rejects
// the whole standard with an error wrapping ErrInvalidPattern.
func (r *Registry) RegisterStandard(name string, clauses []types.Clause, overwrite bool) error {
	if name == "" {
		return types.ErrUnknownStandard
	}
	if strings.Contains(name, ".") {
		return types.ErrInvalidClauseRef
	}
	if _, exists := r.standards[name]; exists && !overwrite {
		return fmt.Errorf("registering standard %q: %w", name, types.ErrDuplicateStandard)
	}

	registered := make([]types.Clause, 0, len(clauses))
	compiled := make(map[string][]*regexp.Regexp, len(clauses))
	for _, clause := range clauses {
		clause.Standard = name
		if err := clause.Validate(); err != nil {
			return fmt.Errorf("registering clause %q of %q: %w", clause.ID, name, err)
		}
		exprs := make([]*regexp.Regexp, 0, len(clause.Expressions))
		for _, expr := range clause.Expressions {
			re, err := regexp.Compile("(?i)" + expr)
			if err != nil {
				return fmt.Errorf("compiling expression %q for clause %q: %w",
					expr, clause.Ref(), types.ErrInvalidPattern)
			}
			exprs = append(exprs, re)
		}
		registered = append(registered, clause)
		compiled[clause.Ref()] = exprs
	}

	slices.SortFunc(registered, func(a, b types.Clause) int {
		return strings.Compare(a.ID, b.ID)
	})

	// Drop any previously compiled expressions when overwriting.
	for _, old := range r.standards[name] {
		delete(r.compiled, old.Ref())
	}

	r.standards[name] = registered
	for ref, exprs := range compiled {
		r.compiled[ref] = exprs
	}
	return nil
}

// Standards returns the registered standard names, sorted.
func (r *Registry) Standards() []string {
	names := make([]string, 0, len(r.standards))
	for name := range r.standards {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// HasStandard reports whether the named standard is registered.
func (r *Registry) HasStandard(name string) bool {
	_, ok := r.standards[name]
	return ok
}

// Lookup returns the clause identified by (standard, clauseID).
// Returns ErrUnknownStandard or ErrUnknownClause when absent.
func (r *Registry) Lookup(standard, clauseID string) (types.Clause, error) {
	clauses, ok := r.standards[standard]
	if !ok {
		return types.Clause{}, fmt.Errorf("standard %q: %w", standard, types.ErrUnknownStandard)
	}
	for _, clause := range clauses {
		if clause.ID == clauseID {
			return clause, nil
		}
	}
	return types.Clause{}, fmt.Errorf("clause %q of %q: %w", clauseID, standard, types.ErrUnknownClause)
}

// LookupRef resolves a "STANDARD.clause_id" reference.
func (r *Registry) LookupRef(ref string) (types.Clause, error) {
	standard, clauseID, err := types.SplitClauseRef(ref)
	if err != nil {
		return types.Clause{}, fmt.Errorf("clause ref %q: %w", ref, err)
	}
	return r.Lookup(standard, clauseID)
}

// HasRef reports whether the clause reference resolves in this registry.
func (r *Registry) HasRef(ref string) bool {
	_, err := r.LookupRef(ref)
	return err == nil
}

// All returns a lazy, restartable sequence of clauses, optionally filtered
// by standard name (empty = every standard). Iteration order is
// deterministic: standards sorted by name, clauses sorted by id.
func (r *Registry) All(standard string) iter.Seq[types.Clause] {
	return func(yield func(types.Clause) bool) {
		if standard != "" {
			for _, clause := range r.standards[standard] {
				if !yield(clause) {
					return
				}
			}
			return
		}
		for _, name := range r.Standards() {
			for _, clause := range r.standards[name] {
				if !yield(clause) {
					return
				}
			}
		}
	}
}

// ScanResult reports how a clause's patterns matched a piece of text.
type ScanResult struct {
	// Matched is the number of patterns and expressions that matched.
	Matched int

	// Total is the clause's pattern plus expression count.
	Total int

	// FirstMatch is the first pattern or expression source that
	// matched, in clause declaration order.
	FirstMatch string
}

// Scan applies the referenced clause's patterns to text: case-insensitive
// substring matching for keywords, compiled regular expressions for
// augmenting expressions. The registry performs no NLP; pattern quality is
// the clause author's responsibility.
func (r *Registry) Scan(ref, text string) (ScanResult, error) {
	clause, err := r.LookupRef(ref)
	if err != nil {
		return ScanResult{}, err
	}

	result := ScanResult{Total: len(clause.Patterns) + len(clause.Expressions)}
	lower := strings.ToLower(text)
	for _, pattern := range clause.Patterns {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			result.Matched++
			if result.FirstMatch == "" {
				result.FirstMatch = pattern
			}
		}
	}
	for i, re := range r.compiled[ref] {
		if re.MatchString(text) {
			result.Matched++
			if result.FirstMatch == "" {
				result.FirstMatch = clause.Expressions[i]
			}
		}
	}
	return result, nil
}
