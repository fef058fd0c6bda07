// Package cmd defines the curveconv CLI.
//
//	curveconv convert   - convert a master catalog export to Curve format
//	curveconv validate  - check a mapping file without converting
//	curveconv version   - display version information
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/curvetools/curveconv/internal/logging"
)

var (
	verbose   bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "curveconv",
	Short: "Convert Master Catalog exports to the Curve Work Import format",
	Long: `curveconv transforms tabular master catalog exports (CSV or XLSX) into
the Curve Work Import layout, driven entirely by a declarative YAML
mapping: per-column transforms, per-column validations, lookup tables,
and row-level share-total checks.

Every input row yields an output row; transform and validation failures
are collected into an error report rather than aborting the run. With
--strict, any diagnostic turns the run verdict into failure.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "info"
		if verbose {
			level = "debug"
		}
		logging.Setup(level, logFormat)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
}
