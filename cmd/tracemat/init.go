// Init command prepares the configuration and data directories.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration and audit store",
	Long: `Init creates the configuration directory with a default config.yaml and
initializes the audit database, seeding it with the built-in standards.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	// Config dir and config.yaml are created by PersistentPreRunE.
	configDir, err := resolveConfigDir()
	if err != nil {
		return err
	}

	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	reg, err := buildRegistry(store, nil)
	if err != nil {
		return err
	}
	if err := store.SaveStandards(reg); err != nil {
		return fmt.Errorf("seeding standards: %w", err)
	}

	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}
	fmt.Printf("Initialized tracemat: config in %s, audit store in %s\n", configDir, dataDir)
	return nil
}
