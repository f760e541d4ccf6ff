package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config carries everything the storefront gateway needs at startup. The
// sheets endpoint is injected here instead of living as a constant next to
// the client code, so tests and deployments can point at different backends.
type Config struct {
	AppEnv   string
	LogLevel string
	HTTPPort int

	Sheets  SheetsConfig
	Payment PaymentConfig
}

// PaymentConfig is the shop's receiving account for bank transfers, rendered
// verbatim next to the payment method selection.
type PaymentConfig struct {
	BankName      string
	BankCode      string
	AccountNumber string
}

// SheetsConfig configures the spreadsheet web-app backend.
type SheetsConfig struct {
	// Endpoint is the deployed web-app URL, e.g.
	// https://script.google.com/macros/s/XXXX/exec
	Endpoint string
	// CSVURL overrides the fallback CSV export URL. When empty it is
	// derived mechanically from Endpoint.
	CSVURL string
	// RequestTimeout bounds every outbound call. A timed-out order
	// submission resolves to an indeterminate outcome, never a hang.
	RequestTimeout time.Duration
	// RefreshInterval is how often the catalog is re-fetched after the
	// initial load. Zero disables periodic refresh.
	RefreshInterval time.Duration
}

func Load() (Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	viper.SetDefault("APP_ENV", "dev")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("HTTP_PORT", 8080)
	viper.SetDefault("SHEETS_REQUEST_TIMEOUT", "30s")
	viper.SetDefault("SHEETS_REFRESH_INTERVAL", "5m")
	viper.SetDefault("PAYMENT_BANK_NAME", "Post Office")
	viper.SetDefault("PAYMENT_BANK_CODE", "700")
	viper.SetDefault("PAYMENT_ACCOUNT_NUMBER", "0001234-567890")

	viper.AutomaticEnv()

	// A missing .env is fine, env vars alone are enough.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		AppEnv:   viper.GetString("APP_ENV"),
		LogLevel: viper.GetString("LOG_LEVEL"),
		HTTPPort: viper.GetInt("HTTP_PORT"),
		Sheets: SheetsConfig{
			Endpoint:        viper.GetString("SHEETS_ENDPOINT"),
			CSVURL:          viper.GetString("SHEETS_CSV_URL"),
			RequestTimeout:  viper.GetDuration("SHEETS_REQUEST_TIMEOUT"),
			RefreshInterval: viper.GetDuration("SHEETS_REFRESH_INTERVAL"),
		},
		Payment: PaymentConfig{
			BankName:      viper.GetString("PAYMENT_BANK_NAME"),
			BankCode:      viper.GetString("PAYMENT_BANK_CODE"),
			AccountNumber: viper.GetString("PAYMENT_ACCOUNT_NUMBER"),
		},
	}

	if cfg.Sheets.Endpoint == "" {
		return Config{}, fmt.Errorf("SHEETS_ENDPOINT is required")
	}

	return cfg, nil
}
