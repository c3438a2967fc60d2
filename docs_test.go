package storefront_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	storefront "github.com/xraph/storefront"
	"github.com/xraph/storefront/economy"
	"github.com/xraph/storefront/item"
	"github.com/xraph/storefront/state/memory"
	"github.com/xraph/storefront/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from the package docs
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create the state store (memory for demo, use SQLite or Postgres in production)
		store := memory.New()

		// The economy ledger holds member balances
		ledger := economy.NewMemoryLedger()
		ledger.Open("member-1", storefront.Coins(300000))

		// Initialize the shop
		shop := storefront.New(store, ledger,
			storefront.WithLogger(slog.Default()),
			storefront.WithScanInterval(time.Second),
			storefront.WithFront(storefront.Front{Title: "Community Shop"}),
		)

		// Define a catalog item
		vip := shop.CreateItem(item.Data{
			ID:               "vip_pass",
			Category:         "General",
			Title:            "V.I.P Pass",
			Description:      "Access to the VIP area.",
			Price:            types.Coins(250000),
			DefaultAvailable: true,
		})
		vip.SetPurchaseLimit(1)

		if err := shop.AddItem(vip); err != nil {
			t.Fatal(err)
		}

		// Start the engine
		ctx := context.Background()
		if err := shop.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer shop.Stop()

		// Buy the item
		res, err := vip.Purchase(ctx, "member-1")
		if err != nil {
			t.Fatal(err)
		}
		if !res.OK {
			t.Fatalf("purchase denied: %s", res.Reason)
		}

		// Render the member's shop view
		view := shop.ViewFor(ctx, "member-1")
		if view.Balance != storefront.Coins(50000) {
			t.Fatalf("balance = %v", view.Balance)
		}
		if len(view.Categories) != 1 {
			t.Fatalf("categories = %d", len(view.Categories))
		}
	})

	// Test the lookup code example
	t.Run("LookupCodeExample", func(t *testing.T) {
		shop := storefront.New(memory.New(), economy.NewMemoryLedger())

		ctx := context.Background()
		code := shop.IssueLookupCode(ctx, "member-1")

		userID, ok := shop.ResolveLookupCode(code)
		if !ok || userID != "member-1" {
			t.Fatalf("ResolveLookupCode = %q, %v", userID, ok)
		}
	})
}
