package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit               []OnInit
	onShutdown           []OnShutdown
	onItemAdded          []OnItemAdded
	onLookupCodeIssued   []OnLookupCodeIssued
	onPurchaseCompleted  []OnPurchaseCompleted
	onPurchaseDenied     []OnPurchaseDenied
	onEntitlementExpired []OnEntitlementExpired
	onScanCompleted      []OnScanCompleted
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnItemAdded); ok {
		r.onItemAdded = append(r.onItemAdded, v)
	}
	if v, ok := p.(OnLookupCodeIssued); ok {
		r.onLookupCodeIssued = append(r.onLookupCodeIssued, v)
	}
	if v, ok := p.(OnPurchaseCompleted); ok {
		r.onPurchaseCompleted = append(r.onPurchaseCompleted, v)
	}
	if v, ok := p.(OnPurchaseDenied); ok {
		r.onPurchaseDenied = append(r.onPurchaseDenied, v)
	}
	if v, ok := p.(OnEntitlementExpired); ok {
		r.onEntitlementExpired = append(r.onEntitlementExpired, v)
	}
	if v, ok := p.(OnScanCompleted); ok {
		r.onScanCompleted = append(r.onScanCompleted, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnItemAdded)(nil)).Elem(), "OnItemAdded")
	checkInterface(reflect.TypeOf((*OnLookupCodeIssued)(nil)).Elem(), "OnLookupCodeIssued")
	checkInterface(reflect.TypeOf((*OnPurchaseCompleted)(nil)).Elem(), "OnPurchaseCompleted")
	checkInterface(reflect.TypeOf((*OnPurchaseDenied)(nil)).Elem(), "OnPurchaseDenied")
	checkInterface(reflect.TypeOf((*OnEntitlementExpired)(nil)).Elem(), "OnEntitlementExpired")
	checkInterface(reflect.TypeOf((*OnScanCompleted)(nil)).Elem(), "OnScanCompleted")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, shop interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, shop)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitItemAdded emits an item added event.
func (r *Registry) EmitItemAdded(ctx context.Context, item interface{}) {
	r.mu.RLock()
	plugins := r.onItemAdded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnItemAdded(ctx, item)
		}); err != nil {
			r.logger.Warn("plugin OnItemAdded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitLookupCodeIssued emits a lookup code issued event.
func (r *Registry) EmitLookupCodeIssued(ctx context.Context, userID, code string) {
	r.mu.RLock()
	plugins := r.onLookupCodeIssued
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnLookupCodeIssued(ctx, userID, code)
		}); err != nil {
			r.logger.Warn("plugin OnLookupCodeIssued failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPurchaseCompleted emits a purchase completed event.
func (r *Registry) EmitPurchaseCompleted(ctx context.Context, userID string, item interface{}, price int64) {
	r.mu.RLock()
	plugins := r.onPurchaseCompleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPurchaseCompleted(ctx, userID, item, price)
		}); err != nil {
			r.logger.Warn("plugin OnPurchaseCompleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPurchaseDenied emits a purchase denied event.
func (r *Registry) EmitPurchaseDenied(ctx context.Context, userID string, item interface{}, reason string) {
	r.mu.RLock()
	plugins := r.onPurchaseDenied
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPurchaseDenied(ctx, userID, item, reason)
		}); err != nil {
			r.logger.Warn("plugin OnPurchaseDenied failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitEntitlementExpired emits an entitlement expired event.
func (r *Registry) EmitEntitlementExpired(ctx context.Context, userID string, item interface{}) {
	r.mu.RLock()
	plugins := r.onEntitlementExpired
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEntitlementExpired(ctx, userID, item)
		}); err != nil {
			r.logger.Warn("plugin OnEntitlementExpired failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitScanCompleted emits a scan completed event.
func (r *Registry) EmitScanCompleted(ctx context.Context, users, expired int, elapsed time.Duration) {
	r.mu.RLock()
	plugins := r.onScanCompleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnScanCompleted(ctx, users, expired, elapsed)
		}); err != nil {
			r.logger.Warn("plugin OnScanCompleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the purchase pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
