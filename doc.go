// Package storefront provides an embeddable virtual-goods shop engine for Go applications.
//
// Storefront is designed as a library, not a service. Import it directly into
// your application and wire its collaborators (state store, currency ledger,
// member resolver, notification sender) through interfaces. It provides:
//
//   - A catalog of purchasable items with per-item lifecycle hooks
//   - Availability rules (purchase limits, expiry locks, custom predicates)
//     resolved in a fixed priority order
//   - Transactional purchase semantics over a non-transactional ledger
//   - A background scheduler that expires time-limited entitlements
//   - Opaque per-user lookup codes for addressing shop sessions
//   - Pluggable state drivers (memory, SQLite, Postgres, MongoDB, Redis)
//
// # Quick Start
//
// Create a shop instance with your preferred state store:
//
//	import (
//	    "github.com/xraph/storefront"
//	    "github.com/xraph/storefront/state/sqlite"
//	)
//
//	// Initialize state store
//	store, err := sqlite.New("file:shop.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create shop
//	shop := storefront.New(store, ledger,
//	    storefront.WithResolver(members),
//	    storefront.WithSender(notifier),
//	)
//
//	// Start the shop (migrates the store, begins the expiry scheduler)
//	if err := shop.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer shop.Stop()
//
// # Core Concepts
//
// Items are catalog entries with static data and behavior hooks:
//
//	vip := shop.CreateItem(item.Data{
//	    ID:       "vip_pass",
//	    Category: "General",
//	    Title:    "VIP Pass",
//	    Price:    types.Coins(250000),
//	    DefaultAvailable: true,
//	})
//	vip.SetPurchaseLimit(1)
//	shop.AddItem(vip)
//
// Hooks customize item behavior per event; registration replaces the
// previous hook for that event:
//
//	shield.RegisterHook(storefront.EventExpired,
//	    storefront.EventHook(func(ctx context.Context, user identity.User, it *storefront.Item) error {
//	        return protection.Disable(ctx, user.ID)
//	    }))
//
// Purchases resolve to a definite outcome, never an ambiguous state:
//
//	res, err := vip.Purchase(ctx, userID)
//	if err != nil {
//	    // collaborator fault
//	}
//	if !res.OK {
//	    // res.Reason: "unavailable", "member not found" or "cannot afford"
//	}
//
// # Consistency
//
// The ledger debit and the entitlement writes are deliberately not wrapped
// in a distributed transaction. Within one purchase the ordering is strict:
// availability check, debit, counter increment, purchased hook, expiry
// write. A write failure after a successful debit completes the purchase
// and is logged at Error level; this at-least-once-charged window is the
// accepted design.
//
// # TypeID
//
// Lookup codes and receipts use TypeID for opaque, type-safe identifiers:
//
//	scode_01h2xcejqtf2nbrexx3vqjhp41  // Lookup code
//	rcpt_01h455vb4pex5vsknk084sn02q   // Purchase receipt
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package storefront
