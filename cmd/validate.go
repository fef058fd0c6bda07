package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/curvetools/curveconv/internal/mapping"
)

var validateMappingPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a mapping file without converting anything",
	Long: `The validate command loads and compiles a YAML mapping file, reporting
schema errors such as unknown transform or validation directives,
duplicate destination columns, references to undeclared lookup tables,
and required fields that name no destination column.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := mapping.Load(validateMappingPath)
		if err != nil {
			return err
		}
		fmt.Printf("Mapping OK: %d columns, %d lookup tables, %d required fields\n",
			len(schema.Columns), len(schema.Lookups), len(schema.Rules.RequiredFields))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateMappingPath, "map", "", "YAML mapping file")
	validateCmd.MarkFlagRequired("map")
}
