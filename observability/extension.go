// Package observability provides a metrics extension for Storefront that
// records lifecycle event counts via go-utils MetricFactory.
package observability

import (
	"context"
	"time"

	"github.com/xraph/storefront/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin               = (*MetricsExtension)(nil)
	_ plugin.OnInit               = (*MetricsExtension)(nil)
	_ plugin.OnItemAdded          = (*MetricsExtension)(nil)
	_ plugin.OnLookupCodeIssued   = (*MetricsExtension)(nil)
	_ plugin.OnPurchaseCompleted  = (*MetricsExtension)(nil)
	_ plugin.OnPurchaseDenied     = (*MetricsExtension)(nil)
	_ plugin.OnEntitlementExpired = (*MetricsExtension)(nil)
	_ plugin.OnScanCompleted      = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Storefront plugin to automatically track shop metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Catalog metrics
	ItemsAdded        Counter
	LookupCodesIssued Counter

	// Purchase metrics
	PurchasesCompleted Counter
	PurchasesDenied    Counter
	PurchaseVolume     Histogram

	// Expiry metrics
	EntitlementsExpired Counter
	ScanUsers           Histogram
	ScanLatency         Histogram

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Catalog metrics
		ItemsAdded:        factory.Counter("storefront.item.added"),
		LookupCodesIssued: factory.Counter("storefront.lookup_code.issued"),

		// Purchase metrics
		PurchasesCompleted: factory.Counter("storefront.purchase.completed"),
		PurchasesDenied:    factory.Counter("storefront.purchase.denied"),
		PurchaseVolume:     factory.Histogram("storefront.purchase.amount"),

		// Expiry metrics
		EntitlementsExpired: factory.Counter("storefront.entitlement.expired"),
		ScanUsers:           factory.Histogram("storefront.scan.users"),
		ScanLatency:         factory.Histogram("storefront.scan.latency_ms"),

		// Error metrics
		StoreErrors:  factory.Counter("storefront.store.errors"),
		PluginErrors: factory.Counter("storefront.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Catalog lifecycle hooks
// ──────────────────────────────────────────────────

// OnItemAdded implements plugin.OnItemAdded.
func (m *MetricsExtension) OnItemAdded(_ context.Context, _ interface{}) error {
	m.ItemsAdded.Inc()
	return nil
}

// OnLookupCodeIssued implements plugin.OnLookupCodeIssued.
func (m *MetricsExtension) OnLookupCodeIssued(_ context.Context, _, _ string) error {
	m.LookupCodesIssued.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Purchase lifecycle hooks
// ──────────────────────────────────────────────────

// OnPurchaseCompleted implements plugin.OnPurchaseCompleted.
func (m *MetricsExtension) OnPurchaseCompleted(_ context.Context, _ string, _ interface{}, price int64) error {
	m.PurchasesCompleted.Inc()
	m.PurchaseVolume.Observe(float64(price))
	return nil
}

// OnPurchaseDenied implements plugin.OnPurchaseDenied.
func (m *MetricsExtension) OnPurchaseDenied(_ context.Context, _ string, _ interface{}, _ string) error {
	m.PurchasesDenied.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Expiry hooks
// ──────────────────────────────────────────────────

// OnEntitlementExpired implements plugin.OnEntitlementExpired.
func (m *MetricsExtension) OnEntitlementExpired(_ context.Context, _ string, _ interface{}) error {
	m.EntitlementsExpired.Inc()
	return nil
}

// OnScanCompleted implements plugin.OnScanCompleted.
func (m *MetricsExtension) OnScanCompleted(_ context.Context, users, _ int, elapsed time.Duration) error {
	m.ScanUsers.Observe(float64(users))
	m.ScanLatency.Observe(float64(elapsed.Milliseconds()))
	return nil
}
