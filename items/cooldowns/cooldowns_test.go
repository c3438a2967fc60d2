package cooldowns_test

import (
	"context"
	"sync"
	"testing"

	storefront "github.com/xraph/storefront"
	"github.com/xraph/storefront/economy"
	"github.com/xraph/storefront/items/cooldowns"
	"github.com/xraph/storefront/state/memory"
	"github.com/xraph/storefront/types"
)

// fakeCooldowns mimics the host's cooldown bookkeeping.
type fakeCooldowns struct {
	mu     sync.Mutex
	users  map[string]bool
	global bool
}

func (f *fakeCooldowns) config() cooldowns.Config {
	return cooldowns.Config{
		UserHasCooldown: func(_ context.Context, userID string) bool {
			f.mu.Lock()
			defer f.mu.Unlock()
			return f.users[userID]
		},
		GlobalHasCooldown: func(context.Context) bool {
			f.mu.Lock()
			defer f.mu.Unlock()
			return f.global
		},
		ResetUser: func(_ context.Context, userID string) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.users, userID)
			return nil
		},
		ResetGlobal: func(context.Context) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.global = false
			return nil
		},
	}
}

func newShop(t *testing.T, f *fakeCooldowns) (*storefront.Shop, *economy.MemoryLedger) {
	t.Helper()

	ledger := economy.NewMemoryLedger()
	shop := storefront.New(memory.New(), ledger)
	if err := cooldowns.Pack(f.config())(shop); err != nil {
		t.Fatalf("pack setup: %v", err)
	}
	return shop, ledger
}

func TestIncompleteConfig(t *testing.T) {
	shop := storefront.New(memory.New(), economy.NewMemoryLedger())
	if err := cooldowns.Pack(cooldowns.Config{})(shop); err == nil {
		t.Fatal("empty Config accepted")
	}
}

func TestUserReset(t *testing.T) {
	f := &fakeCooldowns{users: map[string]bool{"cooling": true}}
	shop, ledger := newShop(t, f)
	ctx := context.Background()

	it, ok := shop.GetItem(cooldowns.UserResetID)
	if !ok {
		t.Fatal("user reset item not registered")
	}

	t.Run("OnlyAvailableWithCooldown", func(t *testing.T) {
		if view := it.Describe(ctx, "fresh"); view.Available {
			t.Fatal("reset purchasable without a cooldown")
		}
		if view := it.Describe(ctx, "cooling"); !view.Available {
			t.Fatal("reset blocked for a cooling user")
		}
	})

	t.Run("PurchaseClearsCooldown", func(t *testing.T) {
		ledger.Open("cooling", types.Coins(15000))
		res, err := it.Purchase(ctx, "cooling")
		if err != nil || !res.OK {
			t.Fatalf("purchase: %v %+v", err, res)
		}

		f.mu.Lock()
		cleared := !f.users["cooling"]
		f.mu.Unlock()
		if !cleared {
			t.Fatal("cooldown survived the purchase")
		}

		// Gone with the cooldown goes the availability.
		if view := it.Describe(ctx, "cooling"); view.Available {
			t.Fatal("reset still purchasable after clearing")
		}
	})
}

func TestGlobalReset(t *testing.T) {
	f := &fakeCooldowns{users: map[string]bool{}, global: true}
	shop, ledger := newShop(t, f)
	ctx := context.Background()

	it, ok := shop.GetItem(cooldowns.GlobalResetID)
	if !ok {
		t.Fatal("global reset item not registered")
	}

	ledger.Open("anyone", types.Coins(75000))
	res, err := it.Purchase(ctx, "anyone")
	if err != nil || !res.OK {
		t.Fatalf("purchase: %v %+v", err, res)
	}

	f.mu.Lock()
	global := f.global
	f.mu.Unlock()
	if global {
		t.Fatal("global cooldown survived the purchase")
	}
	if view := it.Describe(ctx, "anyone"); view.Available {
		t.Fatal("global reset still purchasable after clearing")
	}
}
