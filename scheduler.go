package storefront

import (
	"context"
	"time"

	"github.com/xraph/storefront/identity"
	"github.com/xraph/storefront/state"
)

// expiryWorker is the background reconciliation loop. It waits for the
// host readiness signal, then scans the expiry namespace on a fixed
// interval until Stop. The loop is permanent: a failing or panicking
// cycle is logged and the next tick scans again.
func (s *Shop) expiryWorker(ctx context.Context) {
	defer s.wg.Done()

	if s.ready != nil {
		select {
		case <-s.ready:
		case <-s.stopChan:
			return
		}
	}

	ticker := time.NewTicker(s.scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runExpiryScan(ctx)
		}
	}
}

// ScanNow performs one synchronous expiry sweep outside the scheduler
// cadence. Hosts call it after force-expiring an entitlement when the
// expired hook should fire before the next tick.
func (s *Shop) ScanNow(ctx context.Context) {
	s.runExpiryScan(ctx)
}

// runExpiryScan performs one reconciliation pass over every user's
// expiry table.
func (s *Shop) runExpiryScan(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("expiry scan panicked", "panic", r)
		}
	}()

	start := time.Now()
	now := s.now().Unix()

	entries, err := s.store.EnumeratePrefix(ctx, state.ExpiryPrefix)
	if err != nil {
		s.logger.Error("expiry scan enumeration failed", "error", err)
		return
	}

	users := 0
	expired := 0
	for _, entry := range entries {
		userID, ok := state.UserFromExpiryKey(entry.Key)
		if !ok {
			continue
		}
		users++
		expired += s.expireDueEntries(ctx, userID, entry, now)
	}

	elapsed := time.Since(start)
	s.plugins.EmitScanCompleted(ctx, users, expired, elapsed)

	if expired > 0 {
		s.logger.Debug("expiry scan completed",
			"users", users,
			"expired", expired,
			"elapsed_ms", elapsed.Milliseconds(),
		)
	}
}

// expireDueEntries processes one user's expiry table snapshot. Due
// entries for items still in the catalog fire the expired hook; entries
// for vanished items are dropped without a hook. An unresolvable user
// leaves their entries in place to be retried every cycle until the
// member becomes resolvable again. The table is rewritten (full key
// overwrite) only when the working copy changed, and deleted once
// empty. Returns the number of hooks fired.
func (s *Shop) expireDueEntries(ctx context.Context, userID string, entry state.Entry, now int64) int {
	var due []string
	for itemID, ts := range entry.Table {
		if ts <= now {
			due = append(due, itemID)
		}
	}
	if len(due) == 0 {
		return 0
	}

	working := entry.Table.Clone()
	changed := false
	fired := 0

	var user identity.User
	resolved := false

	for _, itemID := range due {
		it, ok := s.GetItem(itemID)
		if !ok {
			delete(working, itemID)
			changed = true
			continue
		}

		if !resolved {
			u, err := s.users.Resolve(ctx, userID)
			if err != nil {
				s.logger.Warn("cannot resolve user for due expiry, retrying next cycle",
					"user", userID,
					"item", itemID,
					"error", err,
				)
				continue
			}
			user = u
			resolved = true
		}

		it.fireEvent(ctx, EventExpired, user)
		s.plugins.EmitEntitlementExpired(ctx, userID, it)

		delete(working, itemID)
		changed = true
		fired++

		s.logger.Info("entitlement expired",
			"user", userID,
			"item", itemID,
		)
	}

	if !changed {
		return fired
	}

	key := state.ExpiryKey(userID)
	var err error
	if len(working) == 0 {
		err = s.store.Delete(ctx, key)
	} else {
		err = s.store.Set(ctx, key, working)
	}
	if err != nil {
		s.logger.Error("expiry table write failed",
			"user", userID,
			"error", err,
		)
	}

	return fired
}
