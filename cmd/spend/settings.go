package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/Veraticus/spendlog/internal/cli"
	"github.com/Veraticus/spendlog/internal/common"
	"github.com/Veraticus/spendlog/internal/currency"
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/Veraticus/spendlog/internal/tui/themes"
	"github.com/spf13/cobra"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the display currency and theme",
		Example: `  spend settings
  spend settings --currency EUR
  spend settings --toggle-theme`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ctrl, closeFn, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			f := cmd.Flags()
			out := cmd.OutOrStdout()

			if code, _ := f.GetString("currency"); code != "" {
				if err := ctrl.SetDisplayCurrency(ctx, code); err != nil {
					return settingsError("invalid --currency", err)
				}
			}
			if theme, _ := f.GetString("theme"); theme != "" {
				if err := ctrl.SetTheme(ctx, theme); err != nil {
					return settingsError("invalid --theme", err)
				}
			}
			if toggle, _ := f.GetBool("toggle-theme"); toggle {
				if _, err := ctrl.ToggleTheme(ctx); err != nil {
					return fmt.Errorf("failed to toggle theme: %w", err)
				}
			}

			if f.Changed("currency") || f.Changed("theme") || f.Changed("toggle-theme") {
				fmt.Fprintln(out, cli.FormatSuccess("Settings saved"))
			}

			s := ctrl.State().Settings
			_, err = fmt.Fprintf(out, "Display currency: %s\nTheme:            %s\n", s.DisplayCurrency, s.Theme)
			return err
		},
	}
	cmd.Flags().String("currency", "", "display currency code")
	cmd.Flags().String("theme", "", "theme: light or dark")
	cmd.Flags().Bool("toggle-theme", false, "switch between light and dark")
	cmd.MarkFlagsMutuallyExclusive("theme", "toggle-theme")
	return cmd
}

func settingsError(msg string, err error) error {
	if model.IsValidation(err) {
		return common.NewUserError(msg, err)
	}
	return err
}

func currenciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List supported currencies and their rates",
		Long:  "Rates are fixed and expressed as units of the currency per 1 " + string(model.BaseCurrency) + ".",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tRATE\tEXAMPLE")
			for _, r := range currency.Table() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Code, r.Rate.String(), currency.Format(r.Rate, r.Code))
			}
			return w.Flush()
		},
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List expense categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, c := range model.Categories {
				if _, err := fmt.Fprintf(out, "%s %s\n", themes.GetCategoryIcon(c), c); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
