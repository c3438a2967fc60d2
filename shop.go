package storefront

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/storefront/economy"
	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/identity"
	"github.com/xraph/storefront/item"
	"github.com/xraph/storefront/plugin"
	"github.com/xraph/storefront/state"
	"github.com/xraph/storefront/types"
)

// Shop is the catalog manager and expiry scheduler. It owns all items,
// category subtitles and lookup codes, and is the sole mutation point
// for the catalog. Per-user entitlement state lives in the state store;
// currency lives in the economy ledger.
type Shop struct {
	store   state.Store
	ledger  economy.Ledger
	users   identity.Resolver
	sender  identity.Sender
	plugins *plugin.Registry
	logger  *slog.Logger

	// Catalog state, guarded by mu. Items are append-only.
	mu        sync.RWMutex
	items     []*Item
	byID      map[string]*Item
	codes     map[string]string // lookup code -> user ID
	userCodes map[string]string // user ID -> lookup code
	subtitles map[string]string // category -> subtitle

	front Front

	// Background worker
	stopChan chan struct{}
	wg       sync.WaitGroup
	started  bool

	// Configuration
	scanInterval time.Duration
	ready        <-chan struct{}
	clock        func() time.Time
	skipMigrate  bool
}

// Front is presentational shop-front metadata surfaced to the host's
// API layer.
type Front struct {
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	CurrencySymbol string `json:"currency_symbol,omitempty"`
}

// UserView is the complete shop view for one user: front metadata,
// categories in catalog insertion order, the user's balance and their
// lookup code. Hosts serialize it directly.
type UserView struct {
	Front      Front               `json:"front"`
	Categories []item.CategoryView `json:"categories"`
	Balance    types.Amount        `json:"balance"`
	Code       string              `json:"code,omitempty"`
}

// New creates a new Shop instance.
func New(store state.Store, ledger economy.Ledger, opts ...Option) *Shop {
	s := &Shop{
		store:        store,
		ledger:       ledger,
		users:        echoResolver{},
		sender:       identity.Discard,
		plugins:      plugin.NewRegistry(),
		logger:       slog.Default(),
		byID:         make(map[string]*Item),
		codes:        make(map[string]string),
		userCodes:    make(map[string]string),
		subtitles:    make(map[string]string),
		front:        Front{Title: "Shop"},
		stopChan:     make(chan struct{}),
		scanInterval: time.Second,
		clock:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// echoResolver resolves every ID to a bare User. The default when the
// host wires no identity platform.
type echoResolver struct{}

func (echoResolver) Resolve(_ context.Context, userID string) (identity.User, error) {
	return identity.User{ID: userID, Name: userID}, nil
}

// Option configures a Shop instance.
type Option func(*Shop)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Shop) {
		s.logger = logger
		s.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(s *Shop) {
		_ = s.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithResolver sets the member resolver.
func WithResolver(r identity.Resolver) Option {
	return func(s *Shop) {
		s.users = r
	}
}

// WithSender sets the notification sender used by the default
// purchased and expired hooks.
func WithSender(sender identity.Sender) Option {
	return func(s *Shop) {
		s.sender = sender
	}
}

// WithScanInterval sets the expiry scheduler interval.
func WithScanInterval(d time.Duration) Option {
	return func(s *Shop) {
		s.scanInterval = d
	}
}

// WithReadySignal gates the expiry scheduler on a host readiness
// signal. Scanning does not begin until the channel closes.
func WithReadySignal(ready <-chan struct{}) Option {
	return func(s *Shop) {
		s.ready = ready
	}
}

// WithClock overrides the time source. Used by tests to script expiry.
func WithClock(clock func() time.Time) Option {
	return func(s *Shop) {
		s.clock = clock
	}
}

// WithoutMigrate skips the store migration on Start. The expiry
// scheduler still runs; the host owns schema management.
func WithoutMigrate() Option {
	return func(s *Shop) {
		s.skipMigrate = true
	}
}

// WithFront sets the shop-front metadata.
func WithFront(f Front) Option {
	return func(s *Shop) {
		s.front = f
	}
}

// ──────────────────────────────────────────────────
// Lifecycle
// ──────────────────────────────────────────────────

// Start migrates the state store, initializes plugins and launches the
// expiry scheduler.
func (s *Shop) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	if !s.skipMigrate {
		if err := s.store.Migrate(ctx); err != nil {
			return err
		}
	}

	s.plugins.EmitInit(ctx, s)

	s.wg.Add(1)
	go s.expiryWorker(ctx)

	s.logger.Info("shop started",
		"items", s.ItemCount(),
		"scan_interval", s.scanInterval,
	)

	return nil
}

// Stop shuts down the Shop.
func (s *Shop) Stop() error {
	close(s.stopChan)
	s.wg.Wait()

	ctx := context.Background()
	s.plugins.EmitShutdown(ctx)

	return s.store.Close()
}

// Plugins returns the plugin registry.
func (s *Shop) Plugins() *plugin.Registry { return s.plugins }

// Front returns the shop-front metadata.
func (s *Shop) Front() Front { return s.front }

// Notify delivers a message to a user through the configured sender.
// Best effort: delivery failures are logged, never returned. Item packs
// use it from their purchased and expired hooks.
func (s *Shop) Notify(ctx context.Context, user identity.User, msg identity.Message) {
	if err := s.sender.Send(ctx, user, msg); err != nil {
		s.logger.Warn("notification delivery failed",
			"user", user.ID,
			"title", msg.Title,
			"error", err,
		)
	}
}

// now returns the current time from the configured clock.
func (s *Shop) now() time.Time { return s.clock() }

// ──────────────────────────────────────────────────
// Catalog Management
// ──────────────────────────────────────────────────

// CreateItem builds an Item from its static definition with the default
// hooks pre-registered. Pure construction: the caller must AddItem to
// register it in the catalog.
func (s *Shop) CreateItem(data item.Data) *Item {
	it := &Item{
		shop:  s,
		data:  data,
		hooks: make(map[string]Hook),
	}

	it.hooks[EventPurchased] = defaultPurchasedHook(s)
	it.hooks[EventExpired] = defaultExpiredHook(s)
	it.hooks[EventIsAvailable] = defaultAvailabilityHook()

	return it
}

// AddItem registers an item in the catalog. Item IDs are unique;
// registering a duplicate returns ErrDuplicateItem.
func (s *Shop) AddItem(it *Item) error {
	if it.data.ID == "" {
		return ValidationError{Field: "id", Message: "must not be empty"}
	}

	s.mu.Lock()
	if _, exists := s.byID[it.data.ID]; exists {
		s.mu.Unlock()
		return ErrDuplicateItem
	}
	s.items = append(s.items, it)
	s.byID[it.data.ID] = it
	s.mu.Unlock()

	s.plugins.EmitItemAdded(context.Background(), it)
	s.logger.Debug("item added",
		"item", it.data.ID,
		"category", it.data.Category,
		"price", it.data.Price.Int64(),
	)

	return nil
}

// GetItem returns the item with the given ID.
func (s *Shop) GetItem(itemID string) (*Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.byID[itemID]
	return it, ok
}

// Items returns all catalog items in insertion order.
func (s *Shop) Items() []*Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Item, len(s.items))
	copy(out, s.items)
	return out
}

// ItemCount returns the number of registered items.
func (s *Shop) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// SetCategorySubtitle sets the descriptive text for a category.
func (s *Shop) SetCategorySubtitle(category, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subtitles[category] = text
}

// CategoriesFor groups the catalog by category for one user, describing
// every item. Categories and items within them follow catalog insertion
// order.
func (s *Shop) CategoriesFor(ctx context.Context, userID string) []item.CategoryView {
	items := s.Items()

	s.mu.RLock()
	subtitles := make(map[string]string, len(s.subtitles))
	for k, v := range s.subtitles {
		subtitles[k] = v
	}
	s.mu.RUnlock()

	var order []string
	grouped := make(map[string][]item.View)
	for _, it := range items {
		cat := it.data.Category
		if _, seen := grouped[cat]; !seen {
			order = append(order, cat)
		}
		grouped[cat] = append(grouped[cat], it.Describe(ctx, userID))
	}

	out := make([]item.CategoryView, 0, len(order))
	for _, cat := range order {
		out = append(out, item.CategoryView{
			Category: cat,
			Subtitle: subtitles[cat],
			Items:    grouped[cat],
		})
	}
	return out
}

// ViewFor assembles the complete shop view for one user. Best effort:
// a missing ledger account surfaces as a zero balance, never an error.
func (s *Shop) ViewFor(ctx context.Context, userID string) UserView {
	view := UserView{
		Front:      s.front,
		Categories: s.CategoriesFor(ctx, userID),
	}

	if acct, err := s.ledger.Account(ctx, userID); err == nil {
		if balance, err := acct.Balance(ctx); err == nil {
			view.Balance = balance
		} else {
			s.logger.Warn("balance read failed", "user", userID, "error", err)
		}
	} else if !errors.Is(err, economy.ErrNoAccount) {
		s.logger.Warn("account resolution failed", "user", userID, "error", err)
	}

	s.mu.RLock()
	view.Code = s.userCodes[userID]
	s.mu.RUnlock()

	return view
}

// ──────────────────────────────────────────────────
// Lookup codes
// ──────────────────────────────────────────────────

// IssueLookupCode returns the opaque code addressing a user's shop
// session, minting one on first use. Idempotent per user for the
// process lifetime; codes are never persisted.
func (s *Shop) IssueLookupCode(ctx context.Context, userID string) string {
	s.mu.Lock()
	if code, ok := s.userCodes[userID]; ok {
		s.mu.Unlock()
		return code
	}

	code := id.NewLookupCodeID().String()
	s.codes[code] = userID
	s.userCodes[userID] = code
	s.mu.Unlock()

	s.plugins.EmitLookupCodeIssued(ctx, userID, code)
	s.logger.Debug("lookup code issued", "user", userID)

	return code
}

// ResolveLookupCode returns the user ID a code was issued for.
func (s *Shop) ResolveLookupCode(code string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.codes[code]
	return userID, ok
}

// ──────────────────────────────────────────────────
// Entitlement state
// ──────────────────────────────────────────────────

// Purchases returns a user's purchase counters. Missing state reads as
// an empty table.
func (s *Shop) Purchases(ctx context.Context, userID string) (state.Table, error) {
	table, err := s.store.Get(ctx, state.PurchaseKey(userID))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return state.Table{}, nil
		}
		return nil, err
	}
	return table.Clone(), nil
}

// Expiries returns a user's expiry table. Missing state reads as an
// empty table.
func (s *Shop) Expiries(ctx context.Context, userID string) (state.Table, error) {
	table, err := s.store.Get(ctx, state.ExpiryKey(userID))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return state.Table{}, nil
		}
		return nil, err
	}
	return table.Clone(), nil
}

// incrementPurchases bumps a user's counter for an item by one,
// creating the table lazily on first purchase.
func (s *Shop) incrementPurchases(ctx context.Context, userID, itemID string) error {
	key := state.PurchaseKey(userID)

	table, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			return err
		}
		table = state.Table{}
	} else {
		table = table.Clone()
	}

	table[itemID]++
	return s.store.Set(ctx, key, table)
}

// writeExpiry records an expiry deadline for a user's item.
func (s *Shop) writeExpiry(ctx context.Context, userID, itemID string, deadline int64) error {
	key := state.ExpiryKey(userID)

	table, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			return err
		}
		table = state.Table{}
	} else {
		table = table.Clone()
	}

	table[itemID] = deadline
	return s.store.Set(ctx, key, table)
}
