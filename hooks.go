package storefront

import (
	"context"
	"fmt"

	"github.com/xraph/storefront/identity"
	"github.com/xraph/storefront/types"
)

// Hook event names recognized by the engine. RegisterHook accepts any
// name, but only these are ever invoked.
const (
	EventPurchased      = "purchased"
	EventExpired        = "expired"
	EventIsAvailable    = "is_available"
	EventGetTitle       = "get_title"
	EventGetDescription = "get_description"
	EventGetImage       = "get_image"
	EventGetPrice       = "get_price"
	EventGetBadges      = "get_badges"
)

// Hook is a callback attached to one item event. The variant is fixed at
// registration: field, price and badge hooks resolve display data and
// must not block; availability hooks decide whether a user may buy;
// event hooks run on purchase and expiry and may perform I/O.
//
// Each event holds exactly one hook. Registering replaces the previous
// hook unconditionally; an implementation that needs fan-out composes it
// inside the single registered callback.
type Hook interface {
	isHook()
}

// FieldHook overrides a static string field (title, description, image).
// Returning the empty string means "no override".
type FieldHook func(it *Item) string

// PriceHook overrides the static price. ok=false means "no override".
type PriceHook func(it *Item) (price types.Amount, ok bool)

// BadgeHook supplies the badge set shown to a user. Returning an empty
// map removes all badges from the view.
type BadgeHook func(it *Item) map[string]string

// AvailabilityHook decides whether the item can be bought by a user.
// decided=false means "no opinion" and falls through to the fail-closed
// default. It runs on the describe path and should stay cheap; reading
// shop state is fine, slow external calls are not.
type AvailabilityHook func(ctx context.Context, userID string, it *Item) (available, decided bool)

// EventHook runs on purchase and expiry with the resolved member.
// Errors are logged and swallowed; a failing hook never fails the
// operation that fired it.
type EventHook func(ctx context.Context, user identity.User, it *Item) error

func (FieldHook) isHook()        {}
func (PriceHook) isHook()        {}
func (BadgeHook) isHook()        {}
func (AvailabilityHook) isHook() {}
func (EventHook) isHook()        {}

// defaultPurchasedHook notifies the buyer of a completed purchase with
// the price paid, the remaining balance, and an expiry notice for timed
// items. It is pre-registered on every item and may be replaced.
func defaultPurchasedHook(s *Shop) EventHook {
	return func(ctx context.Context, user identity.User, it *Item) error {
		view := it.Describe(ctx, user.ID)
		body := fmt.Sprintf("You bought %s for %s.", view.Title, view.Price)

		if d, ok := it.Expiry(); ok {
			body += fmt.Sprintf(" It expires in %s.", d)
		}

		if acct, err := s.ledger.Account(ctx, user.ID); err == nil {
			if balance, err := acct.Balance(ctx); err == nil {
				body += fmt.Sprintf(" Your balance is now %s.", balance)
			}
		}

		return s.sender.Send(ctx, user, identity.Message{
			Title: "Purchase complete",
			Body:  body,
			Color: "success",
		})
	}
}

// defaultExpiredHook notifies the holder that a timed entitlement lapsed.
func defaultExpiredHook(s *Shop) EventHook {
	return func(ctx context.Context, user identity.User, it *Item) error {
		return s.sender.Send(ctx, user, identity.Message{
			Title: "Item expired",
			Body:  fmt.Sprintf("Your %s has expired.", it.Title()),
			Color: "warning",
		})
	}
}

// defaultAvailabilityHook reports the item's static availability flag.
func defaultAvailabilityHook() AvailabilityHook {
	return func(_ context.Context, _ string, it *Item) (bool, bool) {
		return it.data.DefaultAvailable, true
	}
}
