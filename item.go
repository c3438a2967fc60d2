package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/xraph/storefront/economy"
	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/identity"
	"github.com/xraph/storefront/item"
	"github.com/xraph/storefront/state"
	"github.com/xraph/storefront/types"
)

// Item is a catalog entry owned by a Shop. It carries the static
// definition plus behavioral attributes: an optional purchase limit, an
// optional expiry duration, and the hook set.
//
// Items are built with Shop.CreateItem during catalog construction and
// registered with Shop.AddItem. Once registered they are never removed
// for the process lifetime.
type Item struct {
	shop *Shop
	data item.Data

	mu     sync.RWMutex
	hooks  map[string]Hook
	limit  *int
	expiry *time.Duration
}

// DenyReason explains a rejected purchase. Reasons are business-level
// outcomes, not faults; they serialize directly onto the wire.
type DenyReason string

// Purchase denial reasons.
const (
	DenyUnavailable    DenyReason = "unavailable"
	DenyMemberNotFound DenyReason = "member not found"
	DenyCannotAfford   DenyReason = "cannot afford"
)

// PurchaseResult is the outcome of a purchase attempt. OK with an empty
// Reason on success; OK=false with exactly one Reason on denial.
type PurchaseResult struct {
	OK      bool         `json:"ok"`
	Reason  DenyReason   `json:"reason,omitempty"`
	Price   types.Amount `json:"price,omitempty"`
	Receipt id.ReceiptID `json:"receipt,omitempty"`
}

// ──────────────────────────────────────────────────
// Configuration
// ──────────────────────────────────────────────────

// RegisterHook attaches a hook to an event, replacing any existing hook
// for that event unconditionally. Event names are not validated; the
// recognized names are the Event* constants.
func (it *Item) RegisterHook(event string, h Hook) {
	it.mu.Lock()
	defer it.mu.Unlock()

	it.hooks[event] = h
}

// SetPurchaseLimit caps the number of successful purchases per user.
// A limit of zero makes the item permanently unavailable.
func (it *Item) SetPurchaseLimit(n int) {
	it.mu.Lock()
	defer it.mu.Unlock()

	it.limit = &n
}

// SetExpiry makes the entitlement time-limited: after a purchase the
// item stays locked for the user until d elapses and the expiry
// scheduler fires the expired hook.
func (it *Item) SetExpiry(d time.Duration) {
	it.mu.Lock()
	defer it.mu.Unlock()

	it.expiry = &d
}

// ──────────────────────────────────────────────────
// Accessors
// ──────────────────────────────────────────────────

// ID returns the catalog-unique item ID.
func (it *Item) ID() string { return it.data.ID }

// Category returns the category label.
func (it *Item) Category() string { return it.data.Category }

// Title returns the static title, without hook overrides.
func (it *Item) Title() string { return it.data.Title }

// Price returns the static price, without hook overrides.
func (it *Item) Price() types.Amount { return it.data.Price }

// Data returns a copy of the static definition.
func (it *Item) Data() item.Data { return it.data }

// Limit returns the purchase limit, if one is configured.
func (it *Item) Limit() (int, bool) {
	it.mu.RLock()
	defer it.mu.RUnlock()

	if it.limit == nil {
		return 0, false
	}
	return *it.limit, true
}

// Expiry returns the expiry duration, if one is configured.
func (it *Item) Expiry() (time.Duration, bool) {
	it.mu.RLock()
	defer it.mu.RUnlock()

	if it.expiry == nil {
		return 0, false
	}
	return *it.expiry, true
}

// Shop returns the owning shop.
func (it *Item) Shop() *Shop { return it.shop }

// ──────────────────────────────────────────────────
// Describe
// ──────────────────────────────────────────────────

// Describe resolves the item into a View for one user. Every static
// field is offered to its get_* hook first; a definite hook value
// overrides the static one. Availability is always resolved to a
// definite boolean. Describe never mutates persisted state and never
// fails; store faults are logged and surface as unavailable.
func (it *Item) Describe(ctx context.Context, userID string) item.View {
	it.mu.RLock()
	data := it.data
	titleHook, _ := it.hooks[EventGetTitle].(FieldHook)
	descHook, _ := it.hooks[EventGetDescription].(FieldHook)
	imageHook, _ := it.hooks[EventGetImage].(FieldHook)
	priceHook, _ := it.hooks[EventGetPrice].(PriceHook)
	badgeHook, _ := it.hooks[EventGetBadges].(BadgeHook)
	it.mu.RUnlock()

	view := item.View{
		ID:          data.ID,
		Category:    data.Category,
		Title:       data.Title,
		Description: data.Description,
		Image:       data.Image,
		Price:       data.Price,
	}

	if len(data.Badges) > 0 {
		view.Badges = make(map[string]string, len(data.Badges))
		for k, v := range data.Badges {
			view.Badges[k] = v
		}
	}

	if titleHook != nil {
		if v := titleHook(it); v != "" {
			view.Title = v
		}
	}
	if descHook != nil {
		if v := descHook(it); v != "" {
			view.Description = v
		}
	}
	if imageHook != nil {
		if v := imageHook(it); v != "" {
			view.Image = v
		}
	}
	if priceHook != nil {
		if v, ok := priceHook(it); ok {
			view.Price = v
		}
	}
	if badgeHook != nil {
		view.Badges = badgeHook(it)
		if len(view.Badges) == 0 {
			view.Badges = nil
		}
	}

	view.Available = it.availableFor(ctx, userID)

	return view
}

// availableFor resolves the availability flag in fixed priority order:
// purchase limit, then expiry lock, then the is_available hook, then
// fail-closed false.
func (it *Item) availableFor(ctx context.Context, userID string) bool {
	it.mu.RLock()
	limit := it.limit
	expiry := it.expiry
	availHook, _ := it.hooks[EventIsAvailable].(AvailabilityHook)
	it.mu.RUnlock()

	if limit != nil {
		counts, err := it.shop.store.Get(ctx, state.PurchaseKey(userID))
		if err != nil && !errors.Is(err, ErrKeyNotFound) {
			it.shop.logger.Warn("purchase counter read failed",
				"user", userID,
				"item", it.data.ID,
				"error", err,
			)
			return false
		}
		if counts[it.data.ID] >= int64(*limit) {
			return false
		}
	}

	if expiry != nil {
		table, err := it.shop.store.Get(ctx, state.ExpiryKey(userID))
		if err != nil && !errors.Is(err, ErrKeyNotFound) {
			it.shop.logger.Warn("expiry table read failed",
				"user", userID,
				"item", it.data.ID,
				"error", err,
			)
			return false
		}
		if ts, ok := table[it.data.ID]; ok && ts > it.shop.now().Unix() {
			return false
		}
	}

	if availHook != nil {
		if available, decided := availHook(ctx, userID, it); decided {
			return available
		}
	}

	return false
}

// ──────────────────────────────────────────────────
// Purchase
// ──────────────────────────────────────────────────

// Purchase attempts to buy the item for a user. Denials (unavailable,
// member not found, cannot afford) are returned as a result value, not
// an error; errors are reserved for collaborator I/O faults.
//
// On success the ledger is debited before any state is recorded. If the
// counter or expiry write fails after a successful debit, the purchase
// still completes and the condition is logged at Error level.
func (it *Item) Purchase(ctx context.Context, userID string) (*PurchaseResult, error) {
	view := it.Describe(ctx, userID)
	if !view.Available {
		return it.deny(ctx, userID, DenyUnavailable), nil
	}

	acct, err := it.shop.ledger.Account(ctx, userID)
	if err != nil {
		if errors.Is(err, economy.ErrNoAccount) {
			return it.deny(ctx, userID, DenyMemberNotFound), nil
		}
		return nil, fmt.Errorf("resolve account for %s: %w", userID, err)
	}

	balance, err := acct.Balance(ctx)
	if err != nil {
		return nil, fmt.Errorf("read balance for %s: %w", userID, err)
	}
	if !balance.Covers(view.Price) {
		return it.deny(ctx, userID, DenyCannotAfford), nil
	}

	memo := fmt.Sprintf("Purchased %s", view.Title)
	if err := acct.Debit(ctx, view.Price, memo); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDebitFailed, userID, err)
	}

	if err := it.shop.incrementPurchases(ctx, userID, it.data.ID); err != nil {
		it.shop.logger.Error("debit succeeded but purchase counter write failed",
			"user", userID,
			"item", it.data.ID,
			"price", view.Price.Int64(),
			"error", err,
		)
	}

	user, err := it.shop.users.Resolve(ctx, userID)
	if err != nil {
		it.shop.logger.Warn("member resolution failed after purchase",
			"user", userID,
			"item", it.data.ID,
			"error", err,
		)
		user = identity.User{ID: userID}
	}

	it.fireEvent(ctx, EventPurchased, user)

	if d, ok := it.Expiry(); ok {
		deadline := it.shop.now().Add(d).Unix()
		if err := it.shop.writeExpiry(ctx, userID, it.data.ID, deadline); err != nil {
			it.shop.logger.Error("debit succeeded but expiry write failed",
				"user", userID,
				"item", it.data.ID,
				"price", view.Price.Int64(),
				"error", err,
			)
		}
	}

	receipt := id.NewReceiptID()
	it.shop.plugins.EmitPurchaseCompleted(ctx, userID, it, view.Price.Int64())
	it.shop.logger.Info("purchase completed",
		"user", userID,
		"item", it.data.ID,
		"price", view.Price.Int64(),
		"receipt", receipt.String(),
	)

	return &PurchaseResult{OK: true, Price: view.Price, Receipt: receipt}, nil
}

func (it *Item) deny(ctx context.Context, userID string, reason DenyReason) *PurchaseResult {
	it.shop.plugins.EmitPurchaseDenied(ctx, userID, it, string(reason))
	it.shop.logger.Debug("purchase denied",
		"user", userID,
		"item", it.data.ID,
		"reason", string(reason),
	)

	return &PurchaseResult{Reason: reason}
}

// ──────────────────────────────────────────────────
// Forced expiry
// ──────────────────────────────────────────────────

// ForceExpire ends a user's active entitlement for this item. With
// fire=true the stored deadline is set to the zero sentinel so the
// scheduler fires the expired hook on its next pass; this call itself
// never invokes the hook. With fire=false the entry is removed
// immediately and the hook never fires.
//
// Returns false without mutating anything when the user holds no active
// entry for this item.
func (it *Item) ForceExpire(ctx context.Context, userID string, fire bool) (bool, error) {
	key := state.ExpiryKey(userID)

	table, err := it.shop.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if _, ok := table[it.data.ID]; !ok {
		return false, nil
	}

	working := table.Clone()
	if fire {
		working[it.data.ID] = 0
		if err := it.shop.store.Set(ctx, key, working); err != nil {
			return false, err
		}
		return true, nil
	}

	delete(working, it.data.ID)
	if len(working) == 0 {
		err = it.shop.store.Delete(ctx, key)
	} else {
		err = it.shop.store.Set(ctx, key, working)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// fireEvent invokes the event hook registered for event, swallowing and
// logging any error. A hook of the wrong variant is ignored.
func (it *Item) fireEvent(ctx context.Context, event string, user identity.User) {
	it.mu.RLock()
	h, _ := it.hooks[event].(EventHook)
	it.mu.RUnlock()

	if h == nil {
		return
	}
	if err := h(ctx, user, it); err != nil {
		it.shop.logger.Warn("item hook failed",
			"item", it.data.ID,
			"event", event,
			"user", user.ID,
			"error", err,
		)
	}
}
