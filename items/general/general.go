// Package general provides the stock "General" catalog pack:
// single-purchase goods that staff fulfill by hand after the sale.
//
// Import it for its side effect of registering the pack:
//
//	import _ "github.com/xraph/storefront/items/general"
//
// and load it with shop.LoadPack("general").
package general

import (
	"context"
	"fmt"

	storefront "github.com/xraph/storefront"
	"github.com/xraph/storefront/identity"
	"github.com/xraph/storefront/item"
	"github.com/xraph/storefront/types"
)

func init() {
	storefront.RegisterPack("general", Setup)
}

// Setup registers the General items on a shop.
func Setup(s *storefront.Shop) error {
	emoji := s.CreateItem(item.Data{
		ID:               "custom_emoji",
		Category:         "General",
		Title:            "Custom Emoji",
		Description:      "This allows you to add a custom emoji to the server which anyone can use. Optionally it may be animated upon request.",
		Image:            "https://www.dictionary.com/e/wp-content/uploads/2021/06/20210624_atw_sunglassesSmiling_1000x700.png",
		Price:            types.Coins(100000),
		DefaultAvailable: true,
	})
	emoji.RegisterHook(storefront.EventPurchased, requestFromStaff(s))
	emoji.SetPurchaseLimit(1)

	vip := s.CreateItem(item.Data{
		ID:               "vip_pass",
		Category:         "General",
		Title:            "V.I.P Pass",
		Description:      "Get access to the secret VIP area with other VIP members. You will also get the VIP role which helps you easily show people how rich you are!",
		Image:            "https://image.freepik.com/free-vector/vip-with-crown-composition_1284-36184.jpg",
		Price:            types.Coins(250000),
		DefaultAvailable: true,
	})
	vip.RegisterHook(storefront.EventPurchased, purchasedVIPPass(s))
	vip.SetPurchaseLimit(1)

	channel := s.CreateItem(item.Data{
		ID:               "custom_channel",
		Category:         "General",
		Title:            "Private Channel",
		Description:      "Have a private voice or text channel that only you and people you allow can join.",
		Image:            "https://us.123rf.com/450wm/makc76/makc761606/makc76160600029/58022332-lock-and-key-lock-with-key-key-lock-icon-vector-lock-icon-key-lock-and-key-in-flat-style-padlock-wit.jpg",
		Price:            types.Coins(75000),
		DefaultAvailable: true,
	})
	channel.RegisterHook(storefront.EventPurchased, requestFromStaff(s))
	channel.SetPurchaseLimit(1)

	for _, it := range []*storefront.Item{emoji, vip, channel} {
		if err := s.AddItem(it); err != nil {
			return err
		}
	}
	return nil
}

// requestFromStaff tells the buyer their purchase went through and that
// an administrator fulfills it manually.
func requestFromStaff(s *storefront.Shop) storefront.EventHook {
	return func(ctx context.Context, user identity.User, it *storefront.Item) error {
		view := it.Describe(ctx, user.ID)
		s.Notify(ctx, user, identity.Message{
			Title: "Request From Staff",
			Body:  fmt.Sprintf("You bought a %s for %s. To get your item, please contact an Administrator!", view.Title, view.Price),
			Color: "info",
		})
		return nil
	}
}

// purchasedVIPPass welcomes the newest VIP and routes them to staff for
// the role grant.
func purchasedVIPPass(s *storefront.Shop) storefront.EventHook {
	return func(ctx context.Context, user identity.User, it *storefront.Item) error {
		s.Notify(ctx, user, identity.Message{
			Title: "Welcome, V.I.P",
			Body:  fmt.Sprintf("Welcome our latest V.I.P %s! Contact an Administrator to receive your VIP role.", user.Name),
			Color: "success",
		})
		return nil
	}
}
