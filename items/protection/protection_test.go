package protection_test

import (
	"context"
	"sync"
	"testing"
	"time"

	storefront "github.com/xraph/storefront"
	"github.com/xraph/storefront/economy"
	"github.com/xraph/storefront/items/protection"
	"github.com/xraph/storefront/state/memory"
	"github.com/xraph/storefront/types"
)

type scriptedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *scriptedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *scriptedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newShop(t *testing.T) (*storefront.Shop, *economy.MemoryLedger, *scriptedClock) {
	t.Helper()

	clock := &scriptedClock{t: time.Now()}
	ledger := economy.NewMemoryLedger()
	shop := storefront.New(memory.New(), ledger, storefront.WithClock(clock.Now))

	if err := protection.Setup(shop); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return shop, ledger, clock
}

func TestSetup(t *testing.T) {
	shop, _, _ := newShop(t)

	for _, id := range []string{protection.ShieldID, protection.MirrorID, protection.ArmedSecurityID} {
		it, ok := shop.GetItem(id)
		if !ok {
			t.Fatalf("item %s not registered", id)
		}
		if d, ok := it.Expiry(); !ok || d != 4*time.Hour {
			t.Fatalf("%s expiry = %v, %v", id, d, ok)
		}
	}

	cats := shop.CategoriesFor(context.Background(), "u")
	if len(cats) != 1 || cats[0].Category != "Protection" || cats[0].Subtitle == "" {
		t.Fatalf("categories = %+v", cats)
	}
}

func TestBadges(t *testing.T) {
	shop, _, _ := newShop(t)

	it, _ := shop.GetItem(protection.ShieldID)
	view := it.Describe(context.Background(), "u")
	if view.Badges["4hr Expiry"] != "btn-warning" || view.Badges["Single Use"] != "btn-danger" {
		t.Fatalf("badges = %v", view.Badges)
	}
}

func TestOneProtectionAtATime(t *testing.T) {
	shop, ledger, clock := newShop(t)
	ctx := context.Background()

	ledger.Open("buyer", types.Coins(200000))

	shield, _ := shop.GetItem(protection.ShieldID)
	mirror, _ := shop.GetItem(protection.MirrorID)

	res, err := shield.Purchase(ctx, "buyer")
	if err != nil || !res.OK {
		t.Fatalf("shield purchase: %v %+v", err, res)
	}

	// Any other protection item is blocked while the shield is active.
	if view := mirror.Describe(ctx, "buyer"); view.Available {
		t.Fatal("mirror available while shield active")
	}
	res, err = mirror.Purchase(ctx, "buyer")
	if err != nil || res.OK {
		t.Fatalf("mirror purchase while shielded = %v %+v", err, res)
	}

	// After the shield lapses the category opens up again.
	clock.Advance(5 * time.Hour)
	shop.ScanNow(ctx)
	if view := mirror.Describe(ctx, "buyer"); !view.Available {
		t.Fatal("mirror still blocked after shield expired")
	}
}

func TestConsume(t *testing.T) {
	shop, ledger, _ := newShop(t)
	ctx := context.Background()

	t.Run("NothingActive", func(t *testing.T) {
		it, ok, err := protection.Consume(ctx, shop, "nobody")
		if err != nil || ok || it != nil {
			t.Fatalf("Consume = %v, %v, %v", it, ok, err)
		}
	})

	t.Run("SpendsActiveItem", func(t *testing.T) {
		ledger.Open("target", types.Coins(25000))
		shield, _ := shop.GetItem(protection.ShieldID)
		if res, err := shield.Purchase(ctx, "target"); err != nil || !res.OK {
			t.Fatalf("purchase: %v %+v", err, res)
		}

		it, ok, err := protection.Consume(ctx, shop, "target")
		if err != nil || !ok || it.ID() != protection.ShieldID {
			t.Fatalf("Consume = %v, %v, %v", it, ok, err)
		}

		// The deadline is zeroed so the next sweep fires the expired hook.
		table, err := shop.Expiries(ctx, "target")
		if err != nil {
			t.Fatal(err)
		}
		if deadline, exists := table[protection.ShieldID]; !exists || deadline != 0 {
			t.Fatalf("deadline after consume = %v (exists=%v)", deadline, exists)
		}

		shop.ScanNow(ctx)
		table, err = shop.Expiries(ctx, "target")
		if err != nil {
			t.Fatal(err)
		}
		if len(table) != 0 {
			t.Fatalf("entry survived the sweep: %v", table)
		}

		if _, ok, _ := protection.Consume(ctx, shop, "target"); ok {
			t.Fatal("consumed the same protection twice")
		}
	})
}
