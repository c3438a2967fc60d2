// Package cooldowns provides the "Cooldowns" catalog pack: items that
// buy a reset of host-side command cooldowns. The pack needs hooks into
// the host's cooldown bookkeeping, so unlike the other stock packs it is
// not registered at init time; hosts build it with their callbacks and
// register it themselves:
//
//	cooldowns.Register(cooldowns.Config{...})
//	shop.LoadPack("cooldowns")
package cooldowns

import (
	"context"
	"fmt"

	storefront "github.com/xraph/storefront"
	"github.com/xraph/storefront/identity"
	"github.com/xraph/storefront/item"
	"github.com/xraph/storefront/types"
)

// Item IDs registered by this pack.
const (
	UserResetID   = "cooldown_reset_robbery_user"
	GlobalResetID = "cooldown_reset_robbery_charity"
)

// Config supplies the host cooldown callbacks. All four fields are
// required.
type Config struct {
	// UserHasCooldown reports whether a user currently has a personal
	// robbery cooldown. The reset item is only purchasable while true.
	UserHasCooldown func(ctx context.Context, userID string) bool

	// GlobalHasCooldown reports whether the shared charity cooldown is
	// active. The global reset item is only purchasable while true.
	GlobalHasCooldown func(ctx context.Context) bool

	// ResetUser clears the buyer's personal cooldown.
	ResetUser func(ctx context.Context, userID string) error

	// ResetGlobal clears the shared cooldown for everyone.
	ResetGlobal func(ctx context.Context) error
}

func (c Config) validate() error {
	if c.UserHasCooldown == nil || c.GlobalHasCooldown == nil || c.ResetUser == nil || c.ResetGlobal == nil {
		return fmt.Errorf("cooldowns: all Config callbacks are required")
	}
	return nil
}

// Register builds the pack from cfg and registers it under "cooldowns".
// It panics on an incomplete Config, matching RegisterPack semantics.
func Register(cfg Config) {
	if err := cfg.validate(); err != nil {
		panic(err.Error())
	}
	storefront.RegisterPack("cooldowns", Pack(cfg))
}

// Pack returns the setup function for the Cooldowns items.
func Pack(cfg Config) storefront.SetupFunc {
	return func(s *storefront.Shop) error {
		if err := cfg.validate(); err != nil {
			return err
		}

		userReset := s.CreateItem(item.Data{
			ID:          UserResetID,
			Category:    "Cooldowns",
			Title:       "User Robbery",
			Description: "This resets your robbery cooldown so you're able to try and rob another person.",
			Image:       "https://st3.depositphotos.com/1076504/13796/i/450/depositphotos_137963564-stock-photo-burglars-breaks-into-house-at.jpg",
			Price:       types.Coins(15000),
		})
		userReset.RegisterHook(storefront.EventIsAvailable,
			storefront.AvailabilityHook(func(ctx context.Context, userID string, _ *storefront.Item) (bool, bool) {
				return cfg.UserHasCooldown(ctx, userID), true
			}))
		userReset.RegisterHook(storefront.EventPurchased, purchasedReset(s, cfg))

		globalReset := s.CreateItem(item.Data{
			ID:          GlobalResetID,
			Category:    "Cooldowns",
			Title:       "Charity Robbery",
			Description: "This resets the Charity Robbery cooldown for everyone in the server.",
			Image:       "https://wallpaperaccess.com/full/2648103.jpg",
			Price:       types.Coins(75000),
		})
		globalReset.RegisterHook(storefront.EventIsAvailable,
			storefront.AvailabilityHook(func(ctx context.Context, _ string, _ *storefront.Item) (bool, bool) {
				return cfg.GlobalHasCooldown(ctx), true
			}))
		globalReset.RegisterHook(storefront.EventPurchased, purchasedReset(s, cfg))

		for _, it := range []*storefront.Item{userReset, globalReset} {
			if err := s.AddItem(it); err != nil {
				return err
			}
		}
		return nil
	}
}

// purchasedReset performs the host-side reset, then tells the buyer.
func purchasedReset(s *storefront.Shop, cfg Config) storefront.EventHook {
	return func(ctx context.Context, user identity.User, it *storefront.Item) error {
		var err error
		switch it.ID() {
		case UserResetID:
			err = cfg.ResetUser(ctx, user.ID)
		default:
			err = cfg.ResetGlobal(ctx)
		}
		if err != nil {
			return fmt.Errorf("reset cooldown for %s: %w", it.ID(), err)
		}

		view := it.Describe(ctx, user.ID)
		s.Notify(ctx, user, identity.Message{
			Title: view.Title,
			Body:  fmt.Sprintf("You bought %s for %s. The cooldown has been reset.", view.Title, view.Price),
			Color: "success",
		})
		return nil
	}
}
