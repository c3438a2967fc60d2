// Package plugin provides an extensible plugin system for Storefront.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"
	"time"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, shop interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Catalog lifecycle hooks
// ──────────────────────────────────────────────────

// OnItemAdded is called when an item is registered in the catalog.
type OnItemAdded interface {
	Plugin
	OnItemAdded(ctx context.Context, item interface{}) error
}

// OnLookupCodeIssued is called when a lookup code is issued for a user.
type OnLookupCodeIssued interface {
	Plugin
	OnLookupCodeIssued(ctx context.Context, userID, code string) error
}

// ──────────────────────────────────────────────────
// Purchase lifecycle hooks
// ──────────────────────────────────────────────────

// OnPurchaseCompleted is called after a successful purchase.
type OnPurchaseCompleted interface {
	Plugin
	OnPurchaseCompleted(ctx context.Context, userID string, item interface{}, price int64) error
}

// OnPurchaseDenied is called when a purchase is denied.
type OnPurchaseDenied interface {
	Plugin
	OnPurchaseDenied(ctx context.Context, userID string, item interface{}, reason string) error
}

// ──────────────────────────────────────────────────
// Expiry hooks
// ──────────────────────────────────────────────────

// OnEntitlementExpired is called when a timed entitlement lapses.
type OnEntitlementExpired interface {
	Plugin
	OnEntitlementExpired(ctx context.Context, userID string, item interface{}) error
}

// OnScanCompleted is called after each expiry scan pass.
type OnScanCompleted interface {
	Plugin
	OnScanCompleted(ctx context.Context, users int, expired int, elapsed time.Duration) error
}
