package sqlite

import (
	"testing"

	"github.com/xraph/storefront/state"
)

func TestStateModelConversion(t *testing.T) {
	table := state.Table{"shield": 1717243200, "mirror": 0}

	m, err := toStateModel("shop-expiry-user-1", table)
	if err != nil {
		t.Fatal(err)
	}

	if m.Key != "shop-expiry-user-1" {
		t.Errorf("key = %q", m.Key)
	}
	if m.CreatedAt.IsZero() || m.UpdatedAt.IsZero() {
		t.Fatal("model row missing timestamps")
	}

	got, err := fromStateModel(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got["shield"] != 1717243200 || got["mirror"] != 0 {
		t.Errorf("round trip = %v", got)
	}
}

func TestStateModelEmptyEntries(t *testing.T) {
	got, err := fromStateModel(&stateModel{Key: "shop-purchases-user-1"})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("empty entries decoded to %v", got)
	}
}
