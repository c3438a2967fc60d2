package types_test

import (
	"encoding/json"
	"testing"

	"github.com/xraph/storefront/types"
)

func TestAmountFormat(t *testing.T) {
	tests := []struct {
		name string
		in   types.Amount
		want string
	}{
		{"zero", types.Coins(0), "0"},
		{"small", types.Coins(950), "950"},
		{"thousands", types.Coins(25000), "25,000"},
		{"large", types.Coins(250000), "250,000"},
		{"millions", types.Coins(1234567), "1,234,567"},
		{"negative", types.Coins(-25000), "-25,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Format(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAmountString(t *testing.T) {
	if got := types.Coins(250000).String(); got != "250,000 coins" {
		t.Errorf("String() = %q, want %q", got, "250,000 coins")
	}
}

func TestAmountArithmetic(t *testing.T) {
	a := types.Coins(300000)
	b := types.Coins(250000)

	if got := a.Subtract(b); got != types.Coins(50000) {
		t.Errorf("Subtract = %d, want 50000", got)
	}
	if got := a.Add(b); got != types.Coins(550000) {
		t.Errorf("Add = %d, want 550000", got)
	}
	if got := b.Multiply(2); got != types.Coins(500000) {
		t.Errorf("Multiply = %d, want 500000", got)
	}
	if got := b.Negate(); got != types.Coins(-250000) {
		t.Errorf("Negate = %d, want -250000", got)
	}
	if got := types.Coins(-5).Abs(); got != types.Coins(5) {
		t.Errorf("Abs = %d, want 5", got)
	}
}

func TestAmountCovers(t *testing.T) {
	tests := []struct {
		name    string
		balance types.Amount
		price   types.Amount
		want    bool
	}{
		{"more than enough", types.Coins(300000), types.Coins(250000), true},
		{"exact", types.Coins(250000), types.Coins(250000), true},
		{"short", types.Coins(249999), types.Coins(250000), false},
		{"zero balance", types.Coins(0), types.Coins(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.balance.Covers(tt.price); got != tt.want {
				t.Errorf("Covers(%d, %d) = %v, want %v", tt.balance, tt.price, got, tt.want)
			}
		})
	}
}

func TestAmountPredicates(t *testing.T) {
	if !types.Coins(0).IsZero() {
		t.Error("IsZero(0) should be true")
	}
	if !types.Coins(1).IsPositive() {
		t.Error("IsPositive(1) should be true")
	}
	if !types.Coins(-1).IsNegative() {
		t.Error("IsNegative(-1) should be true")
	}
}

func TestAmountJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(types.Coins(25000))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var restored types.Amount
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if restored != types.Coins(25000) {
		t.Errorf("round-trip mismatch: got %d", restored)
	}

	// Bare integer form.
	var bare types.Amount
	if err := json.Unmarshal([]byte("42"), &bare); err != nil {
		t.Fatalf("Unmarshal bare int failed: %v", err)
	}
	if bare != types.Coins(42) {
		t.Errorf("bare int mismatch: got %d", bare)
	}
}

func TestSumAmounts(t *testing.T) {
	got := types.SumAmounts(types.Coins(100), types.Coins(200), types.Coins(-50))
	if got != types.Coins(250) {
		t.Errorf("SumAmounts = %d, want 250", got)
	}

	if types.SumAmounts() != 0 {
		t.Error("SumAmounts() with no values should be 0")
	}
}
