package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/spendlog/internal/cli"
	"github.com/Veraticus/spendlog/internal/common"
	"github.com/Veraticus/spendlog/internal/config"
	"github.com/Veraticus/spendlog/internal/engine"
	"github.com/Veraticus/spendlog/internal/export"
	"github.com/Veraticus/spendlog/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	formatCSV    = "csv"
	formatXLSX   = "xlsx"
	formatSheets = "sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered expenses",
		Long: `Export writes the expenses matching the filters, in the current sort order.

Formats:
  csv     Date, Category, Description, Amount and Currency columns
  xlsx    an Excel workbook with an Expenses and a Summary sheet
  sheets  a Google Sheets report (run 'spend auth sheets' first when using OAuth)`,
		Example: `  spend export --quick last-month
  spend export --format xlsx --output ~/reports/december.xlsx
  spend export --output - | head`,
		RunE: runExport,
	}
	addFilterFlags(cmd)
	cmd.Flags().String("format", formatCSV, "output format: csv, xlsx, sheets")
	cmd.Flags().StringP("output", "o", "", "output file, - for stdout (default: expenses.csv in the current directory)")
	cmd.Flags().Bool("plain", false, "leave out the Currency column in CSV output")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	ctrl, closeFn, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := applyFilterFlags(cmd, ctrl); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	v := ctrl.View()
	if v.Empty {
		_, err := fmt.Fprintln(out, cli.FormatInfo("Nothing to export: no expenses match the filters."))
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case formatSheets:
		return exportSheets(cmd, v)
	case formatCSV, formatXLSX:
	default:
		return common.NewUserError(fmt.Sprintf("unknown export format %q (use csv, xlsx or sheets)", format), nil)
	}

	path := exportPath(cmd, format)
	plain, _ := cmd.Flags().GetBool("plain")

	write := func(w io.Writer) error {
		if format == formatXLSX {
			return export.WriteXLSX(w, v.Rows, v.Summary)
		}
		return ctrl.Export(w, export.CSVOptions{IncludeCurrency: !plain})
	}

	if path == "-" {
		return write(out)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		if errors.Is(err, common.ErrNothingToExport) {
			_ = os.Remove(path)
		}
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Exported %d expenses to %s", len(v.Rows), path)))
	return err
}

// exportPath picks the output flag, then export.output from config, then the
// default file name for the format.
func exportPath(cmd *cobra.Command, format string) string {
	if p, _ := cmd.Flags().GetString("output"); p != "" {
		if p == "-" {
			return p
		}
		return config.ExpandPath(p)
	}
	if p := viper.GetString("export.output"); p != "" && format == formatCSV {
		return config.ExpandPath(p)
	}
	if format == formatXLSX {
		return export.DefaultXLSXName
	}
	return export.DefaultCSVName
}

func exportSheets(cmd *cobra.Command, v engine.View) error {
	ctx := cmd.Context()

	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		return common.NewUserError("invalid Google Sheets configuration", err)
	}

	logger := slog.Default().With("component", "sheets")
	writer, err := sheets.NewWriter(ctx, *cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to Google Sheets: %w", err)
	}

	spreadsheetID, err := writer.Write(ctx, v.Rows, v.Summary)
	if err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}

	url := "https://docs.google.com/spreadsheets/d/" + spreadsheetID
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d expenses to %s", len(v.Rows), url)))
	return err
}
