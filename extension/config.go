package extension

import "time"

// Config holds the Storefront extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.storefront" or "storefront" keys).
type Config struct {
	// DisableRoutes prevents HTTP route registration.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// BasePath is the URL prefix for shop routes (default: "/shop").
	BasePath string `json:"base_path" mapstructure:"base_path" yaml:"base_path"`

	// ScanInterval is how frequently the expiry scheduler sweeps the
	// per-user expiry tables (default: 1s).
	ScanInterval time.Duration `json:"scan_interval" mapstructure:"scan_interval" yaml:"scan_interval"`

	// Packs names the catalog packs to load into the shop at register
	// time, in order. Unknown names are logged and skipped.
	Packs []string `json:"packs" mapstructure:"packs" yaml:"packs"`

	// Title is the shop-front title (default: "Shop").
	Title string `json:"title" mapstructure:"title" yaml:"title"`

	// Description is the shop-front description.
	Description string `json:"description" mapstructure:"description" yaml:"description"`

	// CurrencySymbol is the display symbol for prices.
	CurrencySymbol string `json:"currency_symbol" mapstructure:"currency_symbol" yaml:"currency_symbol"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BasePath:     "/shop",
		ScanInterval: time.Second,
		Title:        "Shop",
	}
}
