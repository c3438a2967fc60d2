// Package extension provides the Forge extension adapter for Storefront.
//
// It implements the forge.Extension interface to integrate Storefront
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.storefront" or
// "storefront" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	storefront "github.com/xraph/storefront"
	"github.com/xraph/storefront/economy"
	"github.com/xraph/storefront/state"
	"github.com/xraph/storefront/state/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "storefront"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Virtual goods shop engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Storefront as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config   Config
	shop     *storefront.Shop
	store    state.Store
	ledger   economy.Ledger
	shopOpts []storefront.Option
}

// New creates a new Storefront Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Shop returns the underlying Shop instance.
// This is nil until Register is called.
func (e *Extension) Shop() *storefront.Shop { return e.shop }

// Register implements [forge.Extension]. It loads configuration,
// initializes the shop engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use the in-process backends if nothing was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}
	if e.ledger == nil {
		e.ledger = economy.NewMemoryLedger()
	}

	opts := e.buildShopOpts()

	shop := storefront.New(e.store, e.ledger, opts...)
	e.shop = shop

	for _, pack := range e.config.Packs {
		if !shop.LoadPack(pack) {
			e.Logger().Warn("storefront: catalog pack skipped",
				forge.F("pack", pack),
			)
		}
	}

	return vessel.Provide(fapp.Container(), func() (*storefront.Shop, error) {
		return e.shop, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.shop == nil {
		return errors.New("storefront: extension not initialized")
	}

	if err := e.shop.Start(ctx); err != nil {
		return err
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.shop != nil {
		if err := e.shop.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("storefront: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildShopOpts constructs storefront.Option values from the resolved config.
func (e *Extension) buildShopOpts() []storefront.Option {
	opts := make([]storefront.Option, 0, len(e.shopOpts)+3)

	if e.config.ScanInterval > 0 {
		opts = append(opts, storefront.WithScanInterval(e.config.ScanInterval))
	}
	if e.config.DisableMigrate {
		opts = append(opts, storefront.WithoutMigrate())
	}

	opts = append(opts, storefront.WithFront(storefront.Front{
		Title:          e.config.Title,
		Description:    e.config.Description,
		CurrencySymbol: e.config.CurrencySymbol,
	}))

	// Append any pass-through shop options.
	opts = append(opts, e.shopOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("storefront: configuration is required but not found in config files; " +
				"ensure 'extensions.storefront' or 'storefront' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("storefront: configuration loaded",
		forge.F("disable_routes", e.config.DisableRoutes),
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("base_path", e.config.BasePath),
		forge.F("scan_interval", e.config.ScanInterval),
		forge.F("packs", e.config.Packs),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.storefront" first (namespaced pattern).
	if cm.IsSet("extensions.storefront") {
		if err := cm.Bind("extensions.storefront", &cfg); err == nil {
			e.Logger().Debug("storefront: loaded config from file",
				forge.F("key", "extensions.storefront"),
			)
			return cfg, true
		}
		e.Logger().Warn("storefront: failed to bind extensions.storefront config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "storefront" key.
	if cm.IsSet("storefront") {
		if err := cm.Bind("storefront", &cfg); err == nil {
			e.Logger().Debug("storefront: loaded config from file",
				forge.F("key", "storefront"),
			)
			return cfg, true
		}
		e.Logger().Warn("storefront: failed to bind storefront config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.BasePath == "" {
		cfg.BasePath = defaults.BasePath
	}
	if cfg.ScanInterval == 0 {
		cfg.ScanInterval = defaults.ScanInterval
	}
	if cfg.Title == "" {
		cfg.Title = defaults.Title
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableRoutes {
		yamlConfig.DisableRoutes = true
	}
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.BasePath == "" && programmaticConfig.BasePath != "" {
		yamlConfig.BasePath = programmaticConfig.BasePath
	}
	if yamlConfig.Title == "" && programmaticConfig.Title != "" {
		yamlConfig.Title = programmaticConfig.Title
	}
	if yamlConfig.Description == "" && programmaticConfig.Description != "" {
		yamlConfig.Description = programmaticConfig.Description
	}
	if yamlConfig.CurrencySymbol == "" && programmaticConfig.CurrencySymbol != "" {
		yamlConfig.CurrencySymbol = programmaticConfig.CurrencySymbol
	}

	// Duration and list fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.ScanInterval == 0 && programmaticConfig.ScanInterval != 0 {
		yamlConfig.ScanInterval = programmaticConfig.ScanInterval
	}
	if len(yamlConfig.Packs) == 0 && len(programmaticConfig.Packs) != 0 {
		yamlConfig.Packs = programmaticConfig.Packs
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
