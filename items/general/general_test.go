package general_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	storefront "github.com/xraph/storefront"
	"github.com/xraph/storefront/economy"
	"github.com/xraph/storefront/identity"
	_ "github.com/xraph/storefront/items/general"
	"github.com/xraph/storefront/state/memory"
	"github.com/xraph/storefront/types"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []identity.Message
}

func (s *recordingSender) Send(_ context.Context, _ identity.User, msg identity.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *recordingSender) last() (identity.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.msgs) == 0 {
		return identity.Message{}, false
	}
	return s.msgs[len(s.msgs)-1], true
}

func TestPackRegistration(t *testing.T) {
	shop := storefront.New(memory.New(), economy.NewMemoryLedger())

	if ok := shop.LoadPack("general"); !ok {
		t.Fatal("LoadPack(general) failed")
	}

	want := map[string]int64{
		"custom_emoji":   100000,
		"vip_pass":       250000,
		"custom_channel": 75000,
	}
	for id, price := range want {
		it, ok := shop.GetItem(id)
		if !ok {
			t.Fatalf("item %s not registered", id)
		}
		if it.Price() != types.Coins(price) {
			t.Fatalf("%s price = %v", id, it.Price())
		}
		if limit, ok := it.Limit(); !ok || limit != 1 {
			t.Fatalf("%s limit = %d, %v", id, limit, ok)
		}
	}
}

func TestStaffFulfilledPurchase(t *testing.T) {
	sender := &recordingSender{}
	ledger := economy.NewMemoryLedger()
	shop := storefront.New(memory.New(), ledger, storefront.WithSender(sender))

	if ok := shop.LoadPack("general"); !ok {
		t.Fatal("LoadPack(general) failed")
	}
	ledger.Open("buyer", types.Coins(150000))

	emoji, _ := shop.GetItem("custom_emoji")
	ctx := context.Background()
	res, err := emoji.Purchase(ctx, "buyer")
	if err != nil || !res.OK {
		t.Fatalf("purchase: %v %+v", err, res)
	}

	msg, ok := sender.last()
	if !ok {
		t.Fatal("buyer was not notified")
	}
	if msg.Title != "Request From Staff" || !strings.Contains(msg.Body, "Administrator") {
		t.Fatalf("message = %+v", msg)
	}
}
