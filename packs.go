package storefront

import (
	"fmt"
	"sort"
	"sync"
)

// SetupFunc populates a shop with a pack of catalog items. Packs
// register themselves by name at init time and are loaded by hosts with
// Shop.LoadPack.
type SetupFunc func(s *Shop) error

var (
	packsMu sync.RWMutex
	packs   = make(map[string]SetupFunc)
)

// RegisterPack makes a catalog pack available under the given name.
// Like database/sql driver registration it panics on a nil setup or a
// duplicate name: both are programming errors at init time.
func RegisterPack(name string, setup SetupFunc) {
	packsMu.Lock()
	defer packsMu.Unlock()

	if setup == nil {
		panic("storefront: RegisterPack with nil setup")
	}
	if _, dup := packs[name]; dup {
		panic("storefront: RegisterPack called twice for pack " + name)
	}
	packs[name] = setup
}

// Packs returns the names of all registered packs, sorted.
func Packs() []string {
	packsMu.RLock()
	defer packsMu.RUnlock()

	names := make([]string, 0, len(packs))
	for name := range packs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPack runs the named pack's setup against this shop. An unknown
// name, a setup error or a setup panic is logged and reported as false;
// nothing escapes this boundary.
func (s *Shop) LoadPack(name string) (ok bool) {
	packsMu.RLock()
	setup, found := packs[name]
	packsMu.RUnlock()

	if !found {
		s.logger.Warn("catalog pack not found", "pack", name)
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("catalog pack setup panicked",
				"pack", name,
				"panic", fmt.Sprint(r),
			)
			ok = false
		}
	}()

	if err := setup(s); err != nil {
		s.logger.Error("catalog pack setup failed",
			"pack", name,
			"error", err,
		)
		return false
	}

	s.logger.Info("catalog pack loaded", "pack", name)
	return true
}
