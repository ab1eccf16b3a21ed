// Shared helpers for tracemat CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/internal/catalog"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/internal/sqlite"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/registry"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/types"
)

// loadRequirements reads and validates a JSON array of requirements.
func loadRequirements(path string) ([]types.Requirement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading requirements: %w", err)
	}

	var requirements []types.Requirement
	if err := json.Unmarshal(data, &requirements); err != nil {
		return nil, fmt.Errorf("parsing requirements %s: %w", path, err)
	}
	for _, req := range requirements {
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("requirement %q: %w", req.ID, err)
		}
	}
	return requirements, nil
}

// loadTestCases reads and validates a JSON array of test cases.
func loadTestCases(path string) ([]types.TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading test cases: %w", err)
	}

	var testCases []types.TestCase
	if err := json.Unmarshal(data, &testCases); err != nil {
		return nil, fmt.Errorf("parsing test cases %s: %w", path, err)
	}
	for _, tc := range testCases {
		if err := tc.Validate(); err != nil {
			return nil, fmt.Errorf("test case %q: %w", tc.ID, err)
		}
	}
	return testCases, nil
}

// attachStore resolves the data directory and attaches the audit store. The
// caller must defer store.Detach().
func attachStore() (*sqlite.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	store := sqlite.NewStore(logger)
	if err := store.Attach(dataDir); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}
	return store, nil
}

// buildRegistry assembles the effective clause registry: built-in standards,
// then standards persisted in the audit store, then any catalog files named
// on the command line. Later layers shadow earlier ones.
func buildRegistry(store *sqlite.Store, catalogPaths []string) (*registry.Registry, error) {
	reg, err := registry.Builtin()
	if err != nil {
		return nil, err
	}
	if store != nil {
		if err := store.LoadStandards(reg, true); err != nil {
			return nil, fmt.Errorf("loading stored standards: %w", err)
		}
	}
	for _, path := range catalogPaths {
		if err := catalog.LoadInto(reg, path, true); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}
