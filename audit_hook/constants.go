package audithook

// Action constants for audit events.
const (
	// Catalog actions
	ActionItemAdded        = "item.added"
	ActionLookupCodeIssued = "lookup_code.issued"

	// Purchase actions
	ActionPurchaseCompleted = "purchase.completed"
	ActionPurchaseDenied    = "purchase.denied"

	// Expiry actions
	ActionEntitlementExpired = "entitlement.expired"
	ActionScanCompleted      = "scan.completed"
)

// Resource constants for audit events.
const (
	ResourceItem        = "item"
	ResourcePurchase    = "purchase"
	ResourceEntitlement = "entitlement"
	ResourceLookupCode  = "lookup_code"
	ResourceScheduler   = "scheduler"
)

// Category constants for audit events.
const (
	CategoryCatalog  = "catalog"
	CategoryCommerce = "commerce"
	CategoryExpiry   = "expiry"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
