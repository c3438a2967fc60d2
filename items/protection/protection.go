// Package protection provides the stock "Protection" catalog pack:
// timed single-use items that shield a user from one robbery attempt.
//
// Import it for its side effect of registering the pack:
//
//	import _ "github.com/xraph/storefront/items/protection"
//
// and load it with shop.LoadPack("protection"). Hosts wire Consume into
// their robbery flow to spend the active item.
package protection

import (
	"context"
	"strconv"
	"strings"
	"time"

	storefront "github.com/xraph/storefront"
	"github.com/xraph/storefront/item"
	"github.com/xraph/storefront/types"
)

// Item IDs registered by this pack, in catalog order.
const (
	ShieldID        = "protection_shield"
	MirrorID        = "protection_mirror"
	ArmedSecurityID = "protection_armed_security"
)

const idPrefix = "protection_"

const expiry = 4 * time.Hour

func init() {
	storefront.RegisterPack("protection", Setup)
}

// Setup registers the Protection items on a shop.
func Setup(s *storefront.Shop) error {
	s.SetCategorySubtitle("Protection", "These items are used to protect yourself from robbery attempts. They are only activated if the robbery was actually successful, and expire after they're used. You cannot own more than one protection item at a time.")

	shield := s.CreateItem(item.Data{
		ID:          ShieldID,
		Category:    "Protection",
		Title:       "Shield",
		Description: "A shield will block the first robbery attempt against you and then break.",
		Image:       "https://progameguides.com/wp-content/uploads/2019/08/fortnite-back-bling-banner-shield.jpg",
		Price:       types.Coins(25000),
	})

	mirror := s.CreateItem(item.Data{
		ID:          MirrorID,
		Category:    "Protection",
		Title:       "Mirror",
		Description: "A mirror will reverse the first robbery attempt against you, instead robbing the person who tried to rob you.",
		Image:       "https://st4.depositphotos.com/1781787/31564/i/450/depositphotos_315641368-stock-photo-dark-room-magical-antique-mirror.jpg",
		Price:       types.Coins(50000),
	})

	security := s.CreateItem(item.Data{
		ID:          ArmedSecurityID,
		Category:    "Protection",
		Title:       "Armed Security",
		Description: "Armed Security is similar to a shield. On the first robbery attempt the security team will attempt to shoot the would-be thief. If they hit them, the thief will lose some money. Either way, the thief will be scared off.",
		Image:       "https://www.ziprecruiter.com/svc/fotomat/public-ziprecruiter/cms/506138376ArmedPrivateSecurity.jpg",
		Price:       types.Coins(75000),
	})

	for _, it := range []*storefront.Item{shield, mirror, security} {
		it.RegisterHook(storefront.EventIsAvailable, noActiveProtection(s))
		it.RegisterHook(storefront.EventGetBadges, badges)
		it.SetExpiry(expiry)
		if err := s.AddItem(it); err != nil {
			return err
		}
	}
	return nil
}

// badges annotates every protection item with its expiry window and its
// single-use nature.
var badges storefront.BadgeHook = func(it *storefront.Item) map[string]string {
	d, _ := it.Expiry()
	return map[string]string{
		strconv.Itoa(int(d/time.Hour)) + "hr Expiry": "btn-warning",
		"Single Use": "btn-danger",
	}
}

// noActiveProtection blocks a purchase while the user holds any
// un-expired protection item. One active protection at a time.
func noActiveProtection(s *storefront.Shop) storefront.AvailabilityHook {
	return func(ctx context.Context, userID string, it *storefront.Item) (bool, bool) {
		table, err := s.Expiries(ctx, userID)
		if err != nil {
			return false, false
		}
		for itemID := range table {
			if strings.HasPrefix(itemID, idPrefix) {
				return false, true
			}
		}
		return true, true
	}
}

// Active returns the protection item currently held by a user, if any.
func Active(ctx context.Context, s *storefront.Shop, userID string) (*storefront.Item, bool) {
	table, err := s.Expiries(ctx, userID)
	if err != nil {
		return nil, false
	}
	now := time.Now().Unix()
	for _, itemID := range []string{ShieldID, MirrorID, ArmedSecurityID} {
		if ts, ok := table[itemID]; ok && ts > now {
			if it, ok := s.GetItem(itemID); ok {
				return it, true
			}
		}
	}
	return nil, false
}

// Consume spends a user's active protection item: the stored deadline is
// zeroed so the expiry scheduler fires the expired hook on its next
// pass. Returns the consumed item, or ok=false when the user holds none.
func Consume(ctx context.Context, s *storefront.Shop, userID string) (*storefront.Item, bool, error) {
	it, ok := Active(ctx, s, userID)
	if !ok {
		return nil, false, nil
	}
	expired, err := it.ForceExpire(ctx, userID, true)
	if err != nil {
		return nil, false, err
	}
	return it, expired, nil
}
