// Package mapper implements the compliance mapper: given a requirement's
// text it proposes (clause, confidence) pairs by applying the clause
// registry's patterns. The mapper never filters by threshold; retaining or
// discarding low-confidence mappings is the traceability engine's concern.
package mapper

import (
	"fmt"
	"strings"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/registry"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/types"
)

// DefaultContextBoost is the confidence added when the requirement's
// declared type is compliance or security.
const DefaultContextBoost = 0.1

// directIndicators mark phrasing that ties a requirement directly to a
// regulatory obligation.
var directIndicators = []string{
	"shall comply with", "must meet", "required by", "mandated by",
	"in accordance with", "as specified in",
}

// indirectIndicators mark advisory or best-practice phrasing.
var indirectIndicators = []string{
	"should consider", "recommended", "best practice", "guidance",
	"may require", "could impact",
}

// Mapper proposes compliance mappings for requirements using a clause
// registry's patterns. Mapping is deterministic: identical registry state
// and requirement text produce bit-identical results.
type Mapper struct {
	registry *registry.Registry
	boost    float64
}

// New creates a mapper over the given registry. contextBoost is added to
// the confidence of compliance- and security-typed requirements; pass
// DefaultContextBoost for the standard behavior.
func New(reg *registry.Registry, contextBoost float64) *Mapper {
	return &Mapper{registry: reg, boost: contextBoost}
}

// Map proposes zero or more compliance mappings for the requirement. For
// each clause in the registry, confidence is the fraction of the clause's
// patterns that matched, plus the context boost when applicable, capped at
// 1.0. A requirement with zero matches yields an empty slice; absence of
// regulatory relevance is valid, not an error. Ties are both retained.
// Results are ordered by (standard, clause id), the registry's iteration
// order.
func (m *Mapper) Map(req types.Requirement) ([]types.ComplianceMapping, error) {
	text := req.Text()
	boosted := req.Type == types.RequirementCompliance || req.Type == types.RequirementSecurity
	level := traceabilityLevel(text)

	var mappings []types.ComplianceMapping
	for clause := range m.registry.All("") {
		ref := clause.Ref()
		scan, err := m.registry.Scan(ref, text)
		if err != nil {
			return nil, fmt.Errorf("scanning clause %s: %w", ref, err)
		}
		if scan.Matched == 0 || scan.Total == 0 {
			continue
		}

		confidence := float64(scan.Matched) / float64(scan.Total)
		if boosted {
			confidence += m.boost
		}
		if confidence > 1.0 {
			confidence = 1.0
		}

		mappings = append(mappings, types.ComplianceMapping{
			RequirementID:  req.ID,
			ClauseRef:      ref,
			Confidence:     confidence,
			MatchedPattern: scan.FirstMatch,
			Rationale: fmt.Sprintf("matched %d of %d patterns for %s",
				scan.Matched, scan.Total, ref),
			Level: level,
		})
	}
	return mappings, nil
}

// MapAll maps every requirement in order and concatenates the results.
func (m *Mapper) MapAll(requirements []types.Requirement) ([]types.ComplianceMapping, error) {
	var all []types.ComplianceMapping
	for _, req := range requirements {
		mappings, err := m.Map(req)
		if err != nil {
			return nil, fmt.Errorf("mapping requirement %s: %w", req.ID, err)
		}
		all = append(all, mappings...)
	}
	return all, nil
}

// traceabilityLevel classifies the requirement phrasing as direct, indirect,
// or related based on indicator phrases.
func traceabilityLevel(text string) string {
	lower := strings.ToLower(text)
	for _, indicator := range directIndicators {
		if strings.Contains(lower, indicator) {
			return types.LevelDirect
		}
	}
	for _, indicator := range indirectIndicators {
		if strings.Contains(lower, indicator) {
			return types.LevelIndirect
		}
	}
	return types.LevelRelated
}
