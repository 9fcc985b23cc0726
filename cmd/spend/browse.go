package main

import (
	"github.com/Veraticus/spendlog/internal/config"
	"github.com/Veraticus/spendlog/internal/export"
	"github.com/Veraticus/spendlog/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive expense browser",
		Long: `Browse expenses in a full-screen terminal UI.

Press ? inside the browser for key bindings.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ctrl, closeFn, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			path := export.DefaultCSVName
			if p := viper.GetString("export.output"); p != "" {
				path = config.ExpandPath(p)
			}
			plain, _ := cmd.Flags().GetBool("plain")

			return tui.Run(ctx, ctrl, tui.WithExportPath(path), tui.WithPlainExport(plain))
		},
	}
	cmd.Flags().Bool("plain", false, "leave out the Currency column when exporting")
	return cmd
}
