package extension

import (
	"time"

	storefront "github.com/xraph/storefront"
	"github.com/xraph/storefront/economy"
	"github.com/xraph/storefront/identity"
	"github.com/xraph/storefront/plugin"
	"github.com/xraph/storefront/state"
)

// Option configures the Storefront Forge extension.
type Option func(*Extension)

// WithStore sets the state store for the shop engine.
func WithStore(s state.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithLedger sets the economy ledger the shop debits on purchases.
func WithLedger(l economy.Ledger) Option {
	return func(e *Extension) {
		e.ledger = l
	}
}

// WithShopOption passes a storefront.Option through to the underlying engine.
func WithShopOption(opt storefront.Option) Option {
	return func(e *Extension) {
		e.shopOpts = append(e.shopOpts, opt)
	}
}

// WithPlugin registers a shop plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.shopOpts = append(e.shopOpts, storefront.WithPlugin(p))
	}
}

// WithResolver sets the member resolver for the shop engine.
func WithResolver(r identity.Resolver) Option {
	return func(e *Extension) {
		e.shopOpts = append(e.shopOpts, storefront.WithResolver(r))
	}
}

// WithSender sets the notification sender for the shop engine.
func WithSender(s identity.Sender) Option {
	return func(e *Extension) {
		e.shopOpts = append(e.shopOpts, storefront.WithSender(s))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableRoutes prevents HTTP route registration.
func WithDisableRoutes() Option {
	return func(e *Extension) { e.config.DisableRoutes = true }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithBasePath sets the URL prefix for shop routes.
func WithBasePath(path string) Option {
	return func(e *Extension) { e.config.BasePath = path }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithScanInterval sets the expiry scheduler interval.
func WithScanInterval(d time.Duration) Option {
	return func(e *Extension) { e.config.ScanInterval = d }
}

// WithPacks names the catalog packs loaded at register time.
func WithPacks(packs ...string) Option {
	return func(e *Extension) { e.config.Packs = packs }
}
