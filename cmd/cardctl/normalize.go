package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/troycsc/desk-services/internal/sheet"
)

var (
	normalizeOut    string
	normalizeReport string
	normalizeJSON   bool
)

// normalizeCmd audits a mailroom export on disk
var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Audit a mailroom export (.xlsx, .xls or .csv)",
	Long: `Runs the package audit over the first worksheet of the file and writes
<name>_processed.xlsx next to it, or to --out.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeOut, "out", "o", "", "output workbook path")
	normalizeCmd.Flags().StringVar(&normalizeReport, "report", "", "also write the printable HTML report to this path")
	normalizeCmd.Flags().BoolVar(&normalizeJSON, "json", false, "print the audited table as JSON instead of writing a workbook")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	result, err := sheet.AuditFile(args[0])
	if err != nil {
		return err
	}

	if normalizeJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	out := normalizeOut
	if out == "" {
		out = filepath.Join(filepath.Dir(args[0]), sheet.ProcessedFileName(result.FileName))
	}

	data, err := sheet.EncodeXLSX(result.Rows)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	if normalizeReport != "" {
		f, err := os.Create(normalizeReport)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := sheet.RenderReport(f, result.Rows, time.Now()); err != nil {
			return err
		}
	}

	s := result.Summary
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records (%d bin, %d other) -> %s\n",
		result.SheetName, s.Total, s.BinItems, s.OtherItems, out)
	return nil
}
