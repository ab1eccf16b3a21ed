// Package trace implements the traceability engine: it builds the
// requirement/test-case/clause link graph and derives the aggregate views
// over it (coverage summary, per-standard breakdown, gap list). The engine
// recomputes the full graph on every build instead of patching it
// incrementally, so the derived views can never drift from their sources.
package trace

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/registry"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/types"
)

// DefaultThreshold is the default acceptance threshold: mappings with
// confidence below it are retained for audit but excluded from coverage
// computation. The boundary is inclusive.
const DefaultThreshold = 0.5

// Config holds engine parameters. Zero values select defaults.
type Config struct {
	// Threshold is the mapping acceptance threshold in (0,1].
	// Zero selects DefaultThreshold.
	Threshold float64

	// Workers is the per-requirement fan-out width. Values below two
	// compute sequentially.
	Workers int

	// Logger receives debug and warning events. Nil selects
	// slog.Default().
	Logger *slog.Logger
}

// Engine builds traceability matrices. It is a pure computation over an
// immutable input snapshot: independent Build calls may run in parallel
// with no coordination.
type Engine struct {
	registry  *registry.Registry
	threshold float64
	workers   int
	logger    *slog.Logger
}

// New creates an engine over the given registry.
func New(reg *registry.Registry, cfg Config) *Engine {
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		registry:  reg,
		threshold: threshold,
		workers:   cfg.Workers,
		logger:    logger,
	}
}

// Threshold returns the engine's acceptance threshold.
func (e *Engine) Threshold() float64 { return e.threshold }

// requirementResult is the per-requirement slice of a build, computed
// independently for each requirement.
type requirementResult struct {
	state    string
	links    []types.TraceabilityLink
	missing  []string
	required []string
}

// Build assembles the traceability matrix for one generation cycle.
//
// Referential-integrity violations are fatal: a test case whose
// requirement id is absent from requirements fails the build with
// *types.OrphanTestCaseError, and a dependency cycle among requirements
// fails it with *types.CyclicDependencyError. No partial matrix is returned
// on failure. All other anomalies are collected into the matrix's Warnings.
//
// Only mappings with confidence at or above the acceptance threshold
// participate in coverage computation; the rest are the caller's to retain
// for audit. Identical inputs yield byte-identical matrices.
func (e *Engine) Build(ctx context.Context, requirements []types.Requirement, testCases []types.TestCase, mappings []types.ComplianceMapping) (*types.TraceabilityMatrix, error) {
	known := make(map[string]bool, len(requirements))
	warnings := newWarningSet()
	for _, req := range requirements {
		if known[req.ID] {
			warnings.add(fmt.Sprintf("duplicate requirement id %s", req.ID))
		}
		known[req.ID] = true
	}

	if orphans := orphanTestCases(testCases, known); len(orphans) > 0 {
		return nil, &types.OrphanTestCaseError{TestCaseIDs: orphans}
	}
	if cycle := dependencyCycle(requirements, known, warnings); cycle != nil {
		return nil, &types.CyclicDependencyError{Cycle: cycle}
	}

	accepted := e.acceptMappings(mappings, known, warnings)
	grouped := groupTestCases(testCases)

	results, err := e.computeAll(ctx, requirements, grouped, accepted, warnings)
	if err != nil {
		return nil, err
	}

	matrix := e.assemble(requirements, results, warnings)
	e.logger.Debug("traceability matrix built",
		slog.Int("requirements", len(requirements)),
		slog.Int("test_cases", len(testCases)),
		slog.Int("links", len(matrix.Links)),
		slog.Int("warnings", len(matrix.Warnings)),
	)
	return matrix, nil
}

// orphanTestCases returns the sorted ids of test cases referencing unknown
// requirements. An orphan signals an upstream generation bug and is
// reported, never silently dropped.
func orphanTestCases(testCases []types.TestCase, known map[string]bool) []string {
	var orphans []string
	for _, tc := range testCases {
		if !known[tc.RequirementID] {
			orphans = append(orphans, tc.ID)
		}
	}
	slices.Sort(orphans)
	return slices.Compact(orphans)
}

// dependencyCycle searches the requirement dependency graph for a cycle and
// returns one cycle path when found, with the first id repeated at the end.
// Dependencies on unknown requirement ids are soft anomalies, recorded as
// warnings and skipped. Traversal order is deterministic.
func dependencyCycle(requirements []types.Requirement, known map[string]bool, warnings *warningSet) []string {
	deps := make(map[string][]string, len(requirements))
	ids := make([]string, 0, len(requirements))
	for _, req := range requirements {
		ids = append(ids, req.ID)
		edges := slices.Clone(req.Dependencies)
		slices.Sort(edges)
		for _, dep := range edges {
			if !known[dep] {
				warnings.add(fmt.Sprintf("requirement %s depends on unknown requirement %s", req.ID, dep))
				continue
			}
			deps[req.ID] = append(deps[req.ID], dep)
		}
	}
	slices.Sort(ids)

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(ids))
	var path []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		state[id] = visiting
		path = append(path, id)
		for _, dep := range deps[id] {
			switch state[dep] {
			case visiting:
				start := slices.Index(path, dep)
				cycle = append(slices.Clone(path[start:]), dep)
				return true
			case unvisited:
				if visit(dep) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		return false
	}

	for _, id := range ids {
		if state[id] == unvisited && visit(id) {
			return cycle
		}
	}
	return nil
}

// acceptMappings partitions mappings by requirement, keeping only those at
// or above the acceptance threshold. Out-of-range confidences and unknown
// clause references are soft anomalies.
func (e *Engine) acceptMappings(mappings []types.ComplianceMapping, known map[string]bool, warnings *warningSet) map[string][]string {
	accepted := make(map[string][]string)
	for _, m := range mappings {
		if m.Confidence < 0 || m.Confidence > 1 {
			warnings.add(fmt.Sprintf("mapping %s -> %s has confidence %g outside [0,1]",
				m.RequirementID, m.ClauseRef, m.Confidence))
			continue
		}
		if !known[m.RequirementID] {
			warnings.add(fmt.Sprintf("mapping references unknown requirement %s", m.RequirementID))
			continue
		}
		if !e.registry.HasRef(m.ClauseRef) {
			warnings.add(fmt.Sprintf("mapping for %s references unknown clause %s",
				m.RequirementID, m.ClauseRef))
		}
		if m.Confidence >= e.threshold {
			accepted[m.RequirementID] = append(accepted[m.RequirementID], m.ClauseRef)
		}
	}
	return accepted
}

// groupTestCases groups test cases by requirement id, sorted by test case
// id within each group.
func groupTestCases(testCases []types.TestCase) map[string][]types.TestCase {
	grouped := make(map[string][]types.TestCase)
	for _, tc := range testCases {
		grouped[tc.RequirementID] = append(grouped[tc.RequirementID], tc)
	}
	for id := range grouped {
		slices.SortFunc(grouped[id], func(a, b types.TestCase) int {
			return strings.Compare(a.ID, b.ID)
		})
	}
	return grouped
}

// computeAll fans per-requirement coverage computation out across workers.
// Each requirement's result depends only on its own test cases and
// mappings, so the fan-out needs no locking: each goroutine writes a
// distinct slice index. Cancellation is cooperative; partially computed
// results are discarded safely since they are pure.
func (e *Engine) computeAll(ctx context.Context, requirements []types.Requirement, grouped map[string][]types.TestCase, accepted map[string][]string, warnings *warningSet) ([]requirementResult, error) {
	results := make([]requirementResult, len(requirements))

	if e.workers < 2 || len(requirements) < 2 {
		for i, req := range requirements {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = e.computeRequirement(req, grouped[req.ID], accepted[req.ID], warnings)
		}
		return results, nil
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				req := requirements[i]
				results[i] = e.computeRequirement(req, grouped[req.ID], accepted[req.ID], warnings)
			}
		}()
	}

	var cancelled error
feed:
	for i := range requirements {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return results, nil
}

// computeRequirement determines one requirement's coverage state and links.
//
// The requirement's clause obligations are the union of its declared clause
// references and the accepted mapping references. It is covered when at
// least one test case links to it and every obligation is referenced by at
// least one of those test cases; partial when test cases exist but some
// obligation is unmet; not_covered with zero test cases.
func (e *Engine) computeRequirement(req types.Requirement, testCases []types.TestCase, acceptedRefs []string, warnings *warningSet) requirementResult {
	required := unionSorted(req.ComplianceRefs, acceptedRefs)
	for _, ref := range req.ComplianceRefs {
		if !e.registry.HasRef(ref) {
			warnings.add(fmt.Sprintf("requirement %s references unknown clause %s", req.ID, ref))
		}
	}

	if len(testCases) == 0 {
		return requirementResult{
			state:    types.CoverageNotCovered,
			missing:  required,
			required: required,
		}
	}

	requiredSet := make(map[string]bool, len(required))
	for _, ref := range required {
		requiredSet[ref] = false
	}

	links := make([]types.TraceabilityLink, 0, len(testCases))
	for _, tc := range testCases {
		var contributed []string
		for _, ref := range tc.ComplianceRefs {
			if _, obligated := requiredSet[ref]; obligated {
				requiredSet[ref] = true
				contributed = append(contributed, ref)
			}
		}
		slices.Sort(contributed)
		links = append(links, types.TraceabilityLink{
			RequirementID: req.ID,
			TestCaseID:    tc.ID,
			ClauseRefs:    slices.Compact(contributed),
		})
	}

	var missing []string
	for _, ref := range required {
		if !requiredSet[ref] {
			missing = append(missing, ref)
		}
	}

	state := types.CoverageCovered
	if len(missing) > 0 {
		state = types.CoveragePartial
	}
	for i := range links {
		links[i].CoverageState = state
	}
	return requirementResult{
		state:    state,
		links:    links,
		missing:  missing,
		required: required,
	}
}

// assemble builds the four matrix views from the per-requirement results.
// Sums in the coverage summary always equal the total requirement count.
func (e *Engine) assemble(requirements []types.Requirement, results []requirementResult, warnings *warningSet) *types.TraceabilityMatrix {
	matrix := &types.TraceabilityMatrix{
		PerStandard: make(map[string]types.StandardCoverage),
	}
	matrix.Summary.TotalRequirements = len(requirements)

	type indexed struct {
		req    types.Requirement
		result requirementResult
	}
	ordered := make([]indexed, len(requirements))
	for i, req := range requirements {
		ordered[i] = indexed{req: req, result: results[i]}
	}
	slices.SortFunc(ordered, func(a, b indexed) int {
		return strings.Compare(a.req.ID, b.req.ID)
	})

	for _, entry := range ordered {
		result := entry.result
		switch result.state {
		case types.CoverageCovered:
			matrix.Summary.CoveredCount++
		case types.CoveragePartial:
			matrix.Summary.PartialCount++
		default:
			matrix.Summary.NotCoveredCount++
		}

		matrix.Links = append(matrix.Links, result.links...)

		if len(result.required) > 0 && result.state != types.CoverageCovered {
			matrix.Gaps = append(matrix.Gaps, types.Gap{
				RequirementID:  entry.req.ID,
				CoverageState:  result.state,
				MissingClauses: result.missing,
			})
		}

		for _, standard := range standardsOf(result.required, entry.req.ID, warnings) {
			coverage := matrix.PerStandard[standard]
			coverage.MappedRequirementCount++
			if result.state == types.CoverageCovered {
				coverage.CoveredCount++
			}
			matrix.PerStandard[standard] = coverage
		}
	}

	if total := matrix.Summary.TotalRequirements; total > 0 {
		matrix.Summary.CoveragePercentage = round2(float64(matrix.Summary.CoveredCount) / float64(total) * 100)
		matrix.Summary.PartialPercentage = round2(float64(matrix.Summary.PartialCount) / float64(total) * 100)
	}

	matrix.Warnings = warnings.sorted()
	return matrix
}

// standardsOf extracts the distinct, sorted standard names from a
// requirement's clause obligations. Malformed references are warned about
// and skipped.
func standardsOf(refs []string, requirementID string, warnings *warningSet) []string {
	seen := make(map[string]bool, len(refs))
	var standards []string
	for _, ref := range refs {
		standard := types.StandardOf(ref)
		if standard == "" {
			warnings.add(fmt.Sprintf("requirement %s has malformed clause reference %q", requirementID, ref))
			continue
		}
		if !seen[standard] {
			seen[standard] = true
			standards = append(standards, standard)
		}
	}
	slices.Sort(standards)
	return standards
}

// unionSorted returns the sorted, deduplicated union of two ref slices.
func unionSorted(a, b []string) []string {
	union := make([]string, 0, len(a)+len(b))
	union = append(union, a...)
	union = append(union, b...)
	slices.Sort(union)
	return slices.Compact(union)
}

// warningSet collects soft anomalies from concurrent workers and produces
// a deduplicated, sorted warning list.
type warningSet struct {
	mu       sync.Mutex
	messages map[string]bool
}

func newWarningSet() *warningSet {
	return &warningSet{messages: make(map[string]bool)}
}

func (w *warningSet) add(message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages[message] = true
}

func (w *warningSet) sorted() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.messages) == 0 {
		return nil
	}
	sorted := make([]string, 0, len(w.messages))
	for message := range w.messages {
		sorted = append(sorted, message)
	}
	slices.Sort(sorted)
	return sorted
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
