package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/spendlog/internal/cli"
	"github.com/Veraticus/spendlog/internal/common"
	"github.com/spf13/cobra"
)

func clearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every expense",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ctrl, closeFn, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			count := len(ctrl.State().Entries)
			if count == 0 {
				_, err := fmt.Fprintln(out, cli.FormatInfo("No expenses to clear."))
				return err
			}

			ok, err := confirmed(ctx, cmd, fmt.Sprintf("Delete all %d expenses?", count))
			if err != nil {
				return err
			}
			if !ok {
				_, err := fmt.Fprintln(out, cli.FormatInfo("Cancelled."))
				return err
			}

			if err := ctrl.ClearAll(ctx, true); err != nil {
				return fmt.Errorf("failed to clear expenses: %w", err)
			}
			_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted %d expenses", count)))
			return err
		},
	}
	cmd.Flags().BoolP("force", "f", false, "skip the confirmation prompt")
	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all expenses with sample data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ctrl, closeFn, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			count, err := ctrl.Seed(ctx, false)
			if errors.Is(err, common.ErrConfirmationRequired) {
				var ok bool
				ok, err = confirmed(ctx, cmd, fmt.Sprintf("Replace %d existing expenses with sample data?", len(ctrl.State().Entries)))
				if err != nil {
					return err
				}
				if !ok {
					_, err := fmt.Fprintln(out, cli.FormatInfo("Cancelled."))
					return err
				}
				count, err = ctrl.Seed(ctx, true)
			}
			if err != nil {
				return fmt.Errorf("failed to seed expenses: %w", err)
			}

			_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Added %d sample expenses", count)))
			return err
		},
	}
	cmd.Flags().BoolP("force", "f", false, "overwrite existing expenses without asking")
	return cmd
}

// confirmed is true when --force is set or the user answers yes.
func confirmed(ctx context.Context, cmd *cobra.Command, question string) (bool, error) {
	if force, _ := cmd.Flags().GetBool("force"); force {
		return true, nil
	}
	in := cli.NewNonBlockingReader(cmd.InOrStdin())
	ok, err := cli.Confirm(ctx, in, cmd.OutOrStdout(), question)
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return ok, nil
}
