package config

import (
	"os"
	"path/filepath"

	"github.com/Veraticus/spendlog/internal/sheets"
	"github.com/spf13/viper"
)

// sheetsSetting binds one sheets.Config field to its viper key and the
// GOOGLE_SHEETS_* variable read when the key is unset.
type sheetsSetting struct {
	key    string
	env    string
	isPath bool
	dst    func(*sheets.Config) *string
}

var sheetsSettings = []sheetsSetting{
	{"sheets.service_account_path", "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", true, func(c *sheets.Config) *string { return &c.ServiceAccountPath }},
	{"sheets.client_id", "GOOGLE_SHEETS_CLIENT_ID", false, func(c *sheets.Config) *string { return &c.ClientID }},
	{"sheets.client_secret", "GOOGLE_SHEETS_CLIENT_SECRET", false, func(c *sheets.Config) *string { return &c.ClientSecret }},
	{"sheets.refresh_token", "GOOGLE_SHEETS_REFRESH_TOKEN", false, func(c *sheets.Config) *string { return &c.RefreshToken }},
	{"sheets.spreadsheet_id", "GOOGLE_SHEETS_SPREADSHEET_ID", false, func(c *sheets.Config) *string { return &c.SpreadsheetID }},
	{"sheets.spreadsheet_name", "GOOGLE_SHEETS_SPREADSHEET_NAME", false, func(c *sheets.Config) *string { return &c.SpreadsheetName }},
	{"sheets.sheet_name", "GOOGLE_SHEETS_SHEET_NAME", false, func(c *sheets.Config) *string { return &c.SheetName }},
}

// LoadSheetsConfig builds the Sheets export config. Each field comes from
// viper (config file or SPEND_ env), then its GOOGLE_SHEETS_* variable, then
// sheets.DefaultConfig.
func LoadSheetsConfig() (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	for _, s := range sheetsSettings {
		v := viper.GetString(s.key)
		if v == "" {
			v = os.Getenv(s.env)
		}
		if v == "" {
			continue
		}
		if s.isPath {
			v = ExpandPath(v)
		}
		*s.dst(&cfg) = v
	}

	// A token saved by `spend auth sheets` stands in for a refresh token.
	if cfg.ServiceAccountPath == "" && cfg.RefreshToken == "" {
		if path := SheetsTokenPath(); fileExists(path) {
			cfg.TokenFile = path
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SheetsTokenPath is where the interactive OAuth flow stores its token.
func SheetsTokenPath() string {
	if v := viper.GetString("sheets.token_file"); v != "" {
		return ExpandPath(v)
	}
	return filepath.Join(ConfigDir(), "sheets-token.json")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
