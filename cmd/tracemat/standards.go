// Standards commands manage the clause registry catalog.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/internal/catalog"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/types"
)

var standardsOverwrite bool

var standardsCmd = &cobra.Command{
	Use:   "standards",
	Short: "Manage compliance standards",
}

var standardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered standards",
	RunE:  runStandardsList,
}

var standardsShowCmd = &cobra.Command{
	Use:   "show <standard>",
	Short: "Show the clauses of one standard",
	Args:  cobra.ExactArgs(1),
	RunE:  runStandardsShow,
}

var standardsAddCmd = &cobra.Command{
	Use:   "add <catalog.yaml>",
	Short: "Register custom standards from a catalog file",
	Long: `Add registers the standards in a YAML catalog file and persists them in
the audit store, so later builds pick them up automatically.

Example:
  tracemat standards add internal-sop.yaml
  tracemat standards add internal-sop.yaml --overwrite`,
	Args: cobra.ExactArgs(1),
	RunE: runStandardsAdd,
}

func init() {
	standardsAddCmd.Flags().BoolVar(&standardsOverwrite, "overwrite", false, "replace standards that are already registered")

	standardsCmd.AddCommand(standardsListCmd)
	standardsCmd.AddCommand(standardsShowCmd)
	standardsCmd.AddCommand(standardsAddCmd)
}

func runStandardsList(cmd *cobra.Command, args []string) error {
	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	reg, err := buildRegistry(store, nil)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(reg.Standards())
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STANDARD\tCLAUSES")
	for _, name := range reg.Standards() {
		count := 0
		for range reg.All(name) {
			count++
		}
		fmt.Fprintf(w, "%s\t%d\n", name, count)
	}
	return w.Flush()
}

func runStandardsShow(cmd *cobra.Command, args []string) error {
	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	reg, err := buildRegistry(store, nil)
	if err != nil {
		return err
	}

	name := args[0]
	if !reg.HasStandard(name) {
		return fmt.Errorf("standard %q: %w", name, types.ErrUnknownStandard)
	}

	if flagJSON {
		var clauses []types.Clause
		for clause := range reg.All(name) {
			clauses = append(clauses, clause)
		}
		return printJSON(clauses)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CLAUSE\tCITATION\tPATTERNS\tEVIDENCE")
	for clause := range reg.All(name) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			clause.ID, clause.Citation,
			strings.Join(clause.Patterns, ", "),
			strings.Join(clause.Evidence, ", "))
	}
	return w.Flush()
}

func runStandardsAdd(cmd *cobra.Command, args []string) error {
	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	reg, err := buildRegistry(store, nil)
	if err != nil {
		return err
	}
	if err := catalog.LoadInto(reg, args[0], standardsOverwrite); err != nil {
		return err
	}
	if err := store.SaveStandards(reg); err != nil {
		return fmt.Errorf("persisting standards: %w", err)
	}

	fmt.Printf("Registered standards from %s\n", args[0])
	return nil
}
