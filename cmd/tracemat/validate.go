// Validate command scores test cases against their clause references.
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/internal/export"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/mapper"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/types"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/validator"
)

var (
	validateRequirements string
	validateTestCases    string
	validateCatalogs     []string
	validateOut          string
	validateFormat       string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate test cases against their compliance clause references",
	Long: `Validate scores each test case against the clauses it claims to verify,
combining mapping confidence with evidence completeness checks.

Example:
  tracemat validate --requirements reqs.json --test-cases tcs.json
  tracemat validate --requirements reqs.json --test-cases tcs.json --json`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateRequirements, "requirements", "", "requirements JSON file (required)")
	validateCmd.Flags().StringVar(&validateTestCases, "test-cases", "", "test cases JSON file (required)")
	validateCmd.Flags().StringArrayVar(&validateCatalogs, "catalog", nil, "custom standard catalog YAML file (repeatable)")
	validateCmd.Flags().StringVar(&validateOut, "out", "", "output file (default: stdout)")
	validateCmd.Flags().StringVar(&validateFormat, "format", export.FormatJSON, "output format (json, csv)")
	_ = validateCmd.MarkFlagRequired("requirements")
	_ = validateCmd.MarkFlagRequired("test-cases")
}

func runValidate(cmd *cobra.Command, args []string) error {
	requirements, err := loadRequirements(validateRequirements)
	if err != nil {
		return err
	}
	testCases, err := loadTestCases(validateTestCases)
	if err != nil {
		return err
	}

	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	reg, err := buildRegistry(store, validateCatalogs)
	if err != nil {
		return err
	}

	m := mapper.New(reg, cfg.contextBoost)
	mappings, err := m.MapAll(requirements)
	if err != nil {
		return err
	}

	v := validator.New(reg)
	reports := make([]types.ComplianceValidationReport, 0, len(testCases))
	for _, tc := range testCases {
		report, err := v.Validate(tc, tc.ComplianceRefs, mappings)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}
	summary := validator.Summarize(reports)

	out := io.Writer(os.Stdout)
	if validateOut != "" {
		f, err := os.Create(validateOut)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if validateOut == "" && validateFormat == export.FormatJSON && !flagJSON {
		printReportTable(reports, summary)
		return nil
	}
	return export.Reports(out, reports, summary, validateFormat)
}

// printReportTable renders validation reports as a table with a summary line.
func printReportTable(reports []types.ComplianceValidationReport, summary types.ComplianceSummary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TEST CASE\tSCORE\tCLASSIFICATION\tGAPS")
	for _, report := range reports {
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%d\n",
			report.TestCaseID, report.OverallScore, report.Classification, len(report.EvidenceGaps))
	}
	w.Flush()

	fmt.Printf("\n%d test cases: %d compliant, %d partial, %d non-compliant (avg %.2f, rate %.2f%%)\n",
		summary.TotalTestCases, summary.Compliant, summary.Partial,
		summary.NonCompliant, summary.AverageScore, summary.ComplianceRate)
}
