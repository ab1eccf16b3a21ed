// Runs commands inspect recorded traceability builds.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded traceability runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one recorded run with its links and mappings",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	runs, err := store.ListRuns()
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(runs)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tCREATED\tREQS\tTESTS\tCOVERAGE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f%%\n",
			run.RunID, run.CreatedAt.Format(time.RFC3339),
			run.RequirementCount, run.TestCaseCount,
			run.Summary.CoveragePercentage)
	}
	return w.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	runID := args[0]
	run, err := store.GetRun(runID)
	if err != nil {
		return err
	}
	links, err := store.FetchLinks(runID)
	if err != nil {
		return err
	}
	mappings, err := store.FetchMappings(runID)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(struct {
			Run      any `json:"run"`
			Links    any `json:"links"`
			Mappings any `json:"mappings"`
		}{Run: run, Links: links, Mappings: mappings})
	}

	fmt.Printf("Run %s (%s)\n", run.RunID, run.CreatedAt.Format(time.RFC3339))
	fmt.Printf("%d requirements, %d test cases, %.2f%% covered\n\n",
		run.RequirementCount, run.TestCaseCount, run.Summary.CoveragePercentage)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REQUIREMENT\tTEST CASE\tSTATE\tCLAUSES")
	for _, link := range links {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			link.RequirementID, link.TestCaseID, link.CoverageState,
			strings.Join(link.ClauseRefs, ", "))
	}
	w.Flush()

	if len(mappings) > 0 {
		fmt.Println()
		w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "REQUIREMENT\tCLAUSE\tCONFIDENCE\tACCEPTED")
		for _, m := range mappings {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%t\n",
				m.RequirementID, m.ClauseRef, m.Confidence, m.Accepted)
		}
		w.Flush()
	}

	for _, warning := range run.Warnings {
		fmt.Printf("warning: %s\n", warning)
	}
	return nil
}
