package main

import (
	"github.com/Veraticus/spendlog/internal/report"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show expenses matching the filters",
		Example: `  spend list --quick this-month
  spend list --category food --search coffee --sort amount --desc`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ctrl, closeFn, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := applyFilterFlags(cmd, ctrl); err != nil {
				return err
			}

			showIDs, _ := cmd.Flags().GetBool("ids")
			v := ctrl.View()
			return report.New(v.Theme, report.WithIDs(showIDs)).List(cmd.OutOrStdout(), v)
		},
	}
	addFilterFlags(cmd)
	cmd.Flags().Bool("ids", false, "show expense IDs for edit and delete")
	return cmd
}

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals and spending charts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ctrl, closeFn, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := applyFilterFlags(cmd, ctrl); err != nil {
				return err
			}

			v := ctrl.View()
			return report.New(v.Theme).Summary(cmd.OutOrStdout(), v)
		},
	}
	addFilterFlags(cmd)
	return cmd
}
