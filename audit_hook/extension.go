// Package audithook bridges Storefront lifecycle events to an audit
// trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/storefront/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin               = (*Extension)(nil)
	_ plugin.OnItemAdded          = (*Extension)(nil)
	_ plugin.OnLookupCodeIssued   = (*Extension)(nil)
	_ plugin.OnPurchaseCompleted  = (*Extension)(nil)
	_ plugin.OnPurchaseDenied     = (*Extension)(nil)
	_ plugin.OnEntitlementExpired = (*Extension)(nil)
	_ plugin.OnScanCompleted      = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// identified lets the hook pull the catalog ID off of an item without
// importing the engine package.
type identified interface {
	ID() string
}

// Extension bridges Storefront lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Catalog lifecycle hooks
// ──────────────────────────────────────────────────

// OnItemAdded implements plugin.OnItemAdded.
func (e *Extension) OnItemAdded(ctx context.Context, item interface{}) error {
	return e.record(ctx, ActionItemAdded, SeverityInfo, OutcomeSuccess,
		ResourceItem, itemID(item), CategoryCatalog, nil,
		"event", "item_added",
	)
}

// OnLookupCodeIssued implements plugin.OnLookupCodeIssued.
func (e *Extension) OnLookupCodeIssued(ctx context.Context, userID, code string) error {
	return e.record(ctx, ActionLookupCodeIssued, SeverityInfo, OutcomeSuccess,
		ResourceLookupCode, code, CategoryCatalog, nil,
		"user_id", userID,
	)
}

// ──────────────────────────────────────────────────
// Purchase lifecycle hooks
// ──────────────────────────────────────────────────

// OnPurchaseCompleted implements plugin.OnPurchaseCompleted.
func (e *Extension) OnPurchaseCompleted(ctx context.Context, userID string, item interface{}, price int64) error {
	return e.record(ctx, ActionPurchaseCompleted, SeverityInfo, OutcomeSuccess,
		ResourcePurchase, itemID(item), CategoryCommerce, nil,
		"user_id", userID,
		"price", price,
	)
}

// OnPurchaseDenied implements plugin.OnPurchaseDenied.
func (e *Extension) OnPurchaseDenied(ctx context.Context, userID string, item interface{}, reason string) error {
	return e.record(ctx, ActionPurchaseDenied, SeverityWarning, OutcomeFailure,
		ResourcePurchase, itemID(item), CategoryCommerce, nil,
		"user_id", userID,
		"deny_reason", reason,
	)
}

// ──────────────────────────────────────────────────
// Expiry hooks
// ──────────────────────────────────────────────────

// OnEntitlementExpired implements plugin.OnEntitlementExpired.
func (e *Extension) OnEntitlementExpired(ctx context.Context, userID string, item interface{}) error {
	return e.record(ctx, ActionEntitlementExpired, SeverityInfo, OutcomeSuccess,
		ResourceEntitlement, itemID(item), CategoryExpiry, nil,
		"user_id", userID,
	)
}

// OnScanCompleted implements plugin.OnScanCompleted.
func (e *Extension) OnScanCompleted(ctx context.Context, users, expired int, elapsed time.Duration) error {
	// Only record sweeps that expired something to reduce noise.
	if expired == 0 {
		return nil
	}
	return e.record(ctx, ActionScanCompleted, SeverityInfo, OutcomeSuccess,
		ResourceScheduler, "", CategoryExpiry, nil,
		"users", users,
		"expired", expired,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

func itemID(item interface{}) string {
	if it, ok := item.(identified); ok {
		return it.ID()
	}
	return ""
}

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
