// Package catalog loads custom compliance standards from YAML files into a
// clause registry. A catalog file holds one or more standards:
//
//	standards:
//	  - name: INTERNAL_SOP
//	    clauses:
//	      - id: retention
//	        citation: "9.2"
//	        description: Records retention periods
//	        patterns: [retention, archive]
//	        expressions: ['\b7\s*years\b']
//	        evidence: [retention schedule]
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/registry"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/types"
)

// File is the parsed form of a catalog file.
type File struct {
	Standards []Standard `yaml:"standards"`
}

// Standard is one named standard in a catalog file.
type Standard struct {
	Name    string         `yaml:"name"`
	Clauses []types.Clause `yaml:"clauses"`
}

// Load parses a catalog file. Registration, and therefore pattern
// compilation, happens later in Apply.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	if len(file.Standards) == 0 {
		return nil, fmt.Errorf("catalog %s declares no standards", path)
	}
	for _, std := range file.Standards {
		if std.Name == "" {
			return nil, fmt.Errorf("catalog %s: standard with empty name", path)
		}
		if len(std.Clauses) == 0 {
			return nil, fmt.Errorf("catalog %s: standard %s has no clauses", path, std.Name)
		}
	}
	return &file, nil
}

// Apply registers every standard in the file. With overwrite unset, a name
// collision with an already registered standard fails with
// ErrDuplicateStandard and leaves later standards unregistered.
func (f *File) Apply(reg *registry.Registry, overwrite bool) error {
	for _, std := range f.Standards {
		if err := reg.RegisterStandard(std.Name, std.Clauses, overwrite); err != nil {
			return fmt.Errorf("applying standard %s: %w", std.Name, err)
		}
	}
	return nil
}

// LoadInto loads a catalog file and registers its standards in one step.
func LoadInto(reg *registry.Registry, path string, overwrite bool) error {
	file, err := Load(path)
	if err != nil {
		return err
	}
	return file.Apply(reg, overwrite)
}
