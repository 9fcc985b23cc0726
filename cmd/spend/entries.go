package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/spendlog/internal/cli"
	"github.com/Veraticus/spendlog/internal/common"
	"github.com/Veraticus/spendlog/internal/currency"
	"github.com/Veraticus/spendlog/internal/engine"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Example: `  spend add --category food --description "Lunch" --amount 12.50
  spend add --date 2024-12-01 --category housing --description Rent --amount 1200 --currency EUR`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ctrl, closeFn, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			in := inputFromFlags(cmd)
			if in.Date == "" {
				in.Date = ctrl.Today().String()
			}
			if in.Currency == "" {
				in.Currency = string(ctrl.State().Settings.DisplayCurrency)
			}

			entry, err := ctrl.Add(ctx, in)
			if err != nil {
				return entryError(err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatExpense("Added",
				entry.ID, entry.Description, currency.Format(entry.Amount, entry.Currency), entry.Date.String()))
			return err
		},
	}
	addEntryFlags(cmd)
	return cmd
}

func editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an existing expense",
		Long:  "Only the flags given are changed. The ID and the rest of the expense stay as they are.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl, closeFn, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			existing, ok := ctrl.Get(args[0])
			if !ok {
				return common.NewUserError(fmt.Sprintf("no expense with ID %s", args[0]), common.ErrNotFound)
			}

			entry, err := ctrl.Edit(ctx, existing.ID, engine.InputOf(existing).Merge(inputFromFlags(cmd)))
			if err != nil {
				return entryError(err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatExpense("Updated",
				entry.ID, entry.Description, currency.Format(entry.Amount, entry.Currency), entry.Date.String()))
			return err
		},
	}
	addEntryFlags(cmd)
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete expenses by ID",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl, closeFn, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			missing := 0
			for _, id := range args {
				if err := ctrl.Delete(ctx, id); err != nil {
					if errors.Is(err, common.ErrNotFound) {
						fmt.Fprintln(out, cli.FormatWarning("No expense with ID "+id))
						missing++
						continue
					}
					return fmt.Errorf("failed to delete %s: %w", id, err)
				}
				fmt.Fprintln(out, cli.FormatSuccess("Deleted "+id))
			}
			if missing > 0 {
				return common.NewUserError(fmt.Sprintf("%d expense(s) not found", missing), nil)
			}
			return nil
		},
	}
}
