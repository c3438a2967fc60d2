package storefront_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	storefront "github.com/xraph/storefront"
	"github.com/xraph/storefront/identity"
	"github.com/xraph/storefront/state"
	"github.com/xraph/storefront/types"
)

// failingResolver fails until allowed.
type failingResolver struct {
	mu    sync.Mutex
	allow bool
}

func (r *failingResolver) Resolve(_ context.Context, userID string) (identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.allow {
		return identity.User{}, identity.ErrUnknownUser
	}
	return identity.User{ID: userID, Name: userID}, nil
}

func (r *failingResolver) setAllow(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allow = v
}

// eventsPlugin records scan and expiry plugin callbacks.
type eventsPlugin struct {
	mu      sync.Mutex
	scans   int
	expired []string
	denied  []string
	bought  []string
}

func (p *eventsPlugin) Name() string { return "events-probe" }

func (p *eventsPlugin) OnScanCompleted(_ context.Context, _, _ int, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scans++
	return nil
}

func (p *eventsPlugin) OnEntitlementExpired(_ context.Context, userID string, item interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if it, ok := item.(*storefront.Item); ok {
		p.expired = append(p.expired, userID+":"+it.ID())
	}
	return nil
}

func (p *eventsPlugin) OnPurchaseCompleted(_ context.Context, userID string, item interface{}, _ int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if it, ok := item.(*storefront.Item); ok {
		p.bought = append(p.bought, userID+":"+it.ID())
	}
	return nil
}

func (p *eventsPlugin) OnPurchaseDenied(_ context.Context, userID string, item interface{}, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.denied = append(p.denied, userID+":"+reason)
	return nil
}

func (p *eventsPlugin) snapshot() (int, []string, []string, []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scans, append([]string(nil), p.expired...), append([]string(nil), p.denied...), append([]string(nil), p.bought...)
}

func TestScheduledExpiry(t *testing.T) {
	ts := newTestShop(t)
	shop := ts.shop
	ctx := context.Background()

	shield := shop.CreateItem(basicItem("shield", 25000))
	shield.SetExpiry(4 * time.Hour)
	mustAdd(t, shop, shield)

	ts.ledger.Open("holder", types.Coins(25000))
	res, err := shield.Purchase(ctx, "holder")
	if err != nil || !res.OK {
		t.Fatalf("purchase failed: %v %+v", err, res)
	}

	t.Run("LockedWhileActive", func(t *testing.T) {
		if view := shield.Describe(ctx, "holder"); view.Available {
			t.Fatal("timed item available while entitlement active")
		}

		// A sweep before the deadline changes nothing.
		ts.shop.ScanNow(ctx)
		table, err := shop.Expiries(ctx, "holder")
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := table["shield"]; !ok {
			t.Fatal("entry vanished before its deadline")
		}
	})

	t.Run("ExpiresAfterDeadline", func(t *testing.T) {
		ts.clock.Advance(4*time.Hour + time.Minute)
		ts.shop.ScanNow(ctx)

		table, err := shop.Expiries(ctx, "holder")
		if err != nil {
			t.Fatal(err)
		}
		if len(table) != 0 {
			t.Fatalf("entry remained after deadline: %v", table)
		}

		msgs := ts.sender.messages()
		last := msgs[len(msgs)-1]
		if !strings.Contains(last.Body, "Shield") || !strings.Contains(last.Body, "expired") {
			t.Fatalf("expiry notice = %+v", last)
		}

		if view := shield.Describe(ctx, "holder"); !view.Available {
			t.Fatal("item still locked after expiry")
		}
	})

	t.Run("SecondScanIsQuiet", func(t *testing.T) {
		before := len(ts.sender.messages())
		ts.shop.ScanNow(ctx)
		if len(ts.sender.messages()) != before {
			t.Fatal("expired hook fired twice for one entitlement")
		}
	})
}

func TestScanDropsVanishedItems(t *testing.T) {
	ts := newTestShop(t)
	ctx := context.Background()

	// An expiry entry for an item no longer in the catalog.
	err := ts.store.Set(ctx, state.ExpiryKey("holder"), state.Table{"ghost_item": 0})
	if err != nil {
		t.Fatal(err)
	}

	ts.shop.ScanNow(ctx)

	table, err := ts.shop.Expiries(ctx, "holder")
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 0 {
		t.Fatalf("vanished item entry survived the scan: %v", table)
	}
	if msgs := ts.sender.messages(); len(msgs) != 0 {
		t.Fatalf("vanished item fired a hook: %v", msgs)
	}
}

func TestScanRetriesUnresolvableUsers(t *testing.T) {
	resolver := &failingResolver{}
	ts := newTestShop(t, storefront.WithResolver(resolver))
	shop := ts.shop
	ctx := context.Background()

	it := shop.CreateItem(basicItem("shield", 25000))
	it.SetExpiry(time.Hour)
	mustAdd(t, shop, it)

	if err := ts.store.Set(ctx, state.ExpiryKey("gone"), state.Table{"shield": 0}); err != nil {
		t.Fatal(err)
	}

	// While the member cannot be resolved the entry stays put.
	ts.shop.ScanNow(ctx)
	table, err := shop.Expiries(ctx, "gone")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := table["shield"]; !ok {
		t.Fatal("entry for unresolvable user was dropped")
	}

	// Once resolvable again, the next sweep fires and clears it.
	resolver.setAllow(true)
	ts.shop.ScanNow(ctx)
	table, err = shop.Expiries(ctx, "gone")
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 0 {
		t.Fatalf("entry survived after user became resolvable: %v", table)
	}
}

func TestScanSurvivesPanickingHook(t *testing.T) {
	ts := newTestShop(t)
	shop := ts.shop
	ctx := context.Background()

	it := shop.CreateItem(basicItem("cursed", 10))
	it.SetExpiry(time.Hour)
	it.RegisterHook(storefront.EventExpired, storefront.EventHook(func(context.Context, identity.User, *storefront.Item) error {
		panic("hook exploded")
	}))
	mustAdd(t, shop, it)

	if err := ts.store.Set(ctx, state.ExpiryKey("victim"), state.Table{"cursed": 0}); err != nil {
		t.Fatal(err)
	}

	// Must not panic out of the sweep.
	ts.shop.ScanNow(ctx)
	ts.shop.ScanNow(ctx)
}

func TestPluginEmissions(t *testing.T) {
	probe := &eventsPlugin{}
	ts := newTestShop(t, storefront.WithPlugin(probe))
	shop := ts.shop
	ctx := context.Background()

	it := shop.CreateItem(basicItem("shield", 25000))
	it.SetExpiry(time.Hour)
	mustAdd(t, shop, it)

	ts.ledger.Open("buyer", types.Coins(25000))
	if res, err := it.Purchase(ctx, "buyer"); err != nil || !res.OK {
		t.Fatalf("purchase: %v %+v", err, res)
	}
	if res, err := it.Purchase(ctx, "buyer"); err != nil || res.OK {
		t.Fatalf("expected denial, got %v %+v", err, res)
	}

	ts.clock.Advance(2 * time.Hour)
	ts.shop.ScanNow(ctx)

	scans, expired, denied, bought := probe.snapshot()
	if scans != 1 {
		t.Fatalf("scans = %d", scans)
	}
	if len(bought) != 1 || bought[0] != "buyer:shield" {
		t.Fatalf("bought = %v", bought)
	}
	if len(denied) != 1 || denied[0] != "buyer:unavailable" {
		t.Fatalf("denied = %v", denied)
	}
	if len(expired) != 1 || expired[0] != "buyer:shield" {
		t.Fatalf("expired = %v", expired)
	}
}

func TestWorkerLifecycle(t *testing.T) {
	probe := &eventsPlugin{}
	ready := make(chan struct{})
	ts := newTestShop(t,
		storefront.WithPlugin(probe),
		storefront.WithScanInterval(5*time.Millisecond),
		storefront.WithReadySignal(ready),
	)
	ctx := context.Background()

	if err := ts.shop.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := ts.shop.Start(ctx); err != storefront.ErrAlreadyStarted {
		t.Fatalf("second Start = %v", err)
	}

	// Gated on readiness: no sweeps yet.
	time.Sleep(30 * time.Millisecond)
	if scans, _, _, _ := probe.snapshot(); scans != 0 {
		t.Fatalf("scanned %d times before ready", scans)
	}

	close(ready)
	deadline := time.Now().Add(2 * time.Second)
	for {
		if scans, _, _, _ := probe.snapshot(); scans > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no sweep after readiness signal")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := ts.shop.Stop(); err != nil {
		t.Fatal(err)
	}
}
