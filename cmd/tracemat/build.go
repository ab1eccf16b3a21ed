// Build command runs the full traceability pipeline.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/internal/export"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/mapper"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/trace"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/types"
)

var (
	buildRequirements string
	buildTestCases    string
	buildCatalogs     []string
	buildOut          string
	buildFormat       string
	buildRecord       bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the traceability matrix for a set of requirements and test cases",
	Long: `Build maps every requirement against the clause registry, derives the
traceability matrix, and renders it.

Example:
  tracemat build --requirements reqs.json --test-cases tcs.json
  tracemat build --requirements reqs.json --test-cases tcs.json --format csv --out matrix.csv
  tracemat build --requirements reqs.json --test-cases tcs.json --record`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildRequirements, "requirements", "", "requirements JSON file (required)")
	buildCmd.Flags().StringVar(&buildTestCases, "test-cases", "", "test cases JSON file (required)")
	buildCmd.Flags().StringArrayVar(&buildCatalogs, "catalog", nil, "custom standard catalog YAML file (repeatable)")
	buildCmd.Flags().StringVar(&buildOut, "out", "", "output file (default: stdout)")
	buildCmd.Flags().StringVar(&buildFormat, "format", export.FormatJSON, "output format (json, csv)")
	buildCmd.Flags().BoolVar(&buildRecord, "record", false, "record the run in the audit store")
	_ = buildCmd.MarkFlagRequired("requirements")
	_ = buildCmd.MarkFlagRequired("test-cases")
}

func runBuild(cmd *cobra.Command, args []string) error {
	requirements, err := loadRequirements(buildRequirements)
	if err != nil {
		return err
	}
	testCases, err := loadTestCases(buildTestCases)
	if err != nil {
		return err
	}

	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	reg, err := buildRegistry(store, buildCatalogs)
	if err != nil {
		return err
	}

	m := mapper.New(reg, cfg.contextBoost)
	mappings, err := m.MapAll(requirements)
	if err != nil {
		return err
	}

	engine := trace.New(reg, trace.Config{
		Threshold: cfg.threshold,
		Workers:   cfg.workers,
		Logger:    logger,
	})
	matrix, err := engine.Build(cmd.Context(), requirements, testCases, mappings)
	if err != nil {
		var orphan *types.OrphanTestCaseError
		if errors.As(err, &orphan) {
			return fmt.Errorf("inputs are inconsistent: %w", err)
		}
		return err
	}

	for _, warning := range matrix.Warnings {
		logger.Warn(warning)
	}

	if buildRecord {
		runID, err := store.RecordRun(matrix, mappings, nil, engine.Threshold())
		if err != nil {
			return fmt.Errorf("recording run: %w", err)
		}
		logger.Info("run recorded", "run_id", runID)
	}

	out := io.Writer(os.Stdout)
	if buildOut != "" {
		f, err := os.Create(buildOut)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if buildOut == "" && buildFormat == export.FormatJSON && !flagJSON {
		printMatrixSummary(matrix)
		return nil
	}
	return export.Matrix(out, matrix, buildFormat)
}

// printMatrixSummary renders the coverage summary and gap list as tables.
func printMatrixSummary(matrix *types.TraceabilityMatrix) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TOTAL\tCOVERED\tPARTIAL\tNOT COVERED\tCOVERAGE")
	fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.2f%%\n",
		matrix.Summary.TotalRequirements,
		matrix.Summary.CoveredCount,
		matrix.Summary.PartialCount,
		matrix.Summary.NotCoveredCount,
		matrix.Summary.CoveragePercentage,
	)
	w.Flush()

	if len(matrix.Gaps) == 0 {
		return
	}
	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REQUIREMENT\tSTATE\tMISSING CLAUSES")
	for _, gap := range matrix.Gaps {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			gap.RequirementID, gap.CoverageState, strings.Join(gap.MissingClauses, ", "))
	}
	w.Flush()
}
