package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/spendlog/internal/cli"
	"github.com/Veraticus/spendlog/internal/common"
	"github.com/Veraticus/spendlog/internal/engine"
	"github.com/Veraticus/spendlog/internal/ofx"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import expenses from OFX/QFX files",
		Long: `Import debit transactions from OFX or QFX (Quicken) files exported from your bank.

Credits are skipped. Transactions that match an existing expense on date,
amount, currency and description are skipped as duplicates.`,
		Example: `  # Import a single file
  spend import-ofx ~/Downloads/checking_jan.qfx

  # Preview every QFX file in a directory
  spend import-ofx --dry-run ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}
	cmd.Flags().BoolP("dry-run", "d", false, "preview the import without saving")
	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	files, err := expandPatterns(args)
	if err != nil {
		return err
	}

	common.LogInfo("Importing OFX files", common.Fields{"file_count": len(files), "dry_run": dryRun})

	bar := newProgressBar(cmd.ErrOrStderr(), len(files), "[cyan][bold]Parsing statements...[reset]")
	statements, err := ofx.NewParser().ParseFiles(ctx, files, func(string) {
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to parse OFX files: %w", err)
	}

	var inputs []engine.Input
	credits := 0
	for _, st := range statements {
		inputs = append(inputs, st.Inputs()...)
		credits += st.Credits
		slog.Debug("Parsed statement", "file", filepath.Base(st.Path), "debits", len(st.Candidates), "credits", st.Credits)
	}

	ctrl, closeFn, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := ctrl.Import(ctx, inputs, dryRun)
	if err != nil {
		return fmt.Errorf("failed to import expenses: %w", err)
	}

	for _, r := range result.Rejected {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Skipped %s %q: %v", r.Candidate.Date, r.Candidate.Description, r.Err)))
	}

	verb := "Imported"
	if dryRun {
		verb = "Would import"
	}
	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s %d expenses from %d files (%d duplicates, %d rejected, %d credits skipped)",
		verb, len(result.Added), len(files), result.Duplicates, len(result.Rejected), credits)))
	return err
}

// expandPatterns resolves shell globs. A pattern that matches nothing is kept
// when it names an existing file.
func expandPatterns(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, common.NewUserError("invalid pattern "+pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}

	if len(files) == 0 {
		return nil, common.NewUserError("no files found to import", nil)
	}
	return files, nil
}

func newProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
