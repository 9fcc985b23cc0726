package main

import (
	"fmt"
	"os"

	"github.com/Veraticus/spendlog/internal/cli"
	"github.com/Veraticus/spendlog/internal/common"
	"github.com/Veraticus/spendlog/internal/config"
	"github.com/Veraticus/spendlog/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}
	cmd.AddCommand(authSheetsCmd())
	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authorize Google Sheets export with OAuth",
		Long: `Run the browser-based OAuth flow and save the token for 'spend export --format sheets'.

Requires sheets.client_id and sheets.client_secret in the config file, or
GOOGLE_SHEETS_CLIENT_ID and GOOGLE_SHEETS_CLIENT_SECRET in the environment.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			oauthCfg := sheets.OAuth2Config{
				ClientID:     firstNonEmpty(viper.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID")),
				ClientSecret: firstNonEmpty(viper.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")),
				TokenFile:    config.SheetsTokenPath(),
			}
			oauthCfg.CallbackAddr, _ = cmd.Flags().GetString("addr")

			if oauthCfg.ClientID == "" || oauthCfg.ClientSecret == "" {
				return common.NewUserError("Google OAuth client ID and secret are not configured", common.ErrMissingConfig)
			}

			prompt := func(url string) {
				fmt.Fprintln(out, cli.FormatInfo("Open this URL in your browser to authorize spend:"))
				fmt.Fprintln(out, url)
			}

			var err error
			if force, _ := cmd.Flags().GetBool("force"); force {
				_, err = sheets.AuthenticateOAuth2Interactive(ctx, oauthCfg, prompt)
			} else {
				_, err = sheets.GetOrCreateToken(ctx, oauthCfg, prompt)
			}
			if err != nil {
				return fmt.Errorf("google sheets authorization failed: %w", err)
			}

			_, err = fmt.Fprintln(out, cli.FormatSuccess("Google Sheets token saved to "+oauthCfg.TokenFile))
			return err
		},
	}
	cmd.Flags().Bool("force", false, "authorize again even if a token is saved")
	cmd.Flags().String("addr", sheets.DefaultCallbackAddr, "address for the local OAuth callback")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
