package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/curvetools/curveconv/internal/convert"
	"github.com/curvetools/curveconv/internal/mapping"
	"github.com/curvetools/curveconv/internal/tabio"
)

var (
	inPath      string
	outPath     string
	mappingPath string
	errorsPath  string
	strict      bool
	workers     int
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an input table using a mapping file",
	Long: `The convert command reads a master catalog export (CSV or XLSX),
applies the column mappings, transforms and validations declared in the
YAML mapping file, and writes the converted table in the destination
column order the mapping declares.

Diagnostics never abort the run: every input row produces an output row,
and all transform/validation issues are written to an error report CSV
next to the output file (override with --errors). In strict mode the
command exits non-zero when any diagnostic was produced.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert()
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&inPath, "in", "", "Input CSV/XLSX file (master catalog export)")
	convertCmd.Flags().StringVar(&outPath, "out", "", "Output CSV/XLSX file (Curve format)")
	convertCmd.Flags().StringVar(&mappingPath, "map", "", "YAML mapping file")
	convertCmd.Flags().StringVar(&errorsPath, "errors", "", "Error report path (default: <out>_errors.csv)")
	convertCmd.Flags().BoolVar(&strict, "strict", false, "Fail the run on any diagnostic")
	convertCmd.Flags().IntVar(&workers, "workers", convert.DefaultWorkers, "Number of parallel row workers")

	convertCmd.MarkFlagRequired("in")
	convertCmd.MarkFlagRequired("out")
	convertCmd.MarkFlagRequired("map")
}

func runConvert() error {
	schema, err := mapping.Load(mappingPath)
	if err != nil {
		var serr *mapping.SchemaError
		if errors.As(err, &serr) {
			return fmt.Errorf("SCHEMA_ERROR: %w", serr)
		}
		return err
	}

	table, err := tabio.ReadTable(inPath)
	if err != nil {
		return err
	}
	slog.Info("input loaded", "file", inPath, "rows", len(table.Records))

	rows := convert.RowsFromRecords(table.Header, table.Records)
	processor := convert.NewProcessor(schema, convert.Options{Strict: strict, Workers: workers})
	result := processor.Process(rows)

	outRows := make([][]string, len(result.OutputRows))
	for i, r := range result.OutputRows {
		outRows[i] = r
	}
	if err := tabio.WriteTable(outPath, result.Header, outRows); err != nil {
		return err
	}
	fmt.Printf("Converted %d rows to %s\n", result.RowsProcessed, outPath)

	if len(result.Diagnostics) > 0 {
		reportPath := errorsPath
		if reportPath == "" {
			reportPath = tabio.ErrorReportPath(outPath)
		}
		if err := tabio.WriteDiagnostics(reportPath, result.Diagnostics); err != nil {
			return err
		}
		fmt.Printf("Found %d validation errors - see %s\n", len(result.Diagnostics), reportPath)
	} else {
		fmt.Println("No validation errors found")
	}

	if !result.Succeeded {
		fmt.Println("STRICT MODE: conversion failed due to validation errors")
		os.Exit(1)
	}
	return nil
}
