package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func int64Ptr(v int64) *int64 { return &v }

func TestDiscountPercent(t *testing.T) {
	cases := []struct {
		name     string
		price    int64
		original *int64
		want     *int
	}{
		{name: "quarter off", price: 75, original: int64Ptr(100), want: intPtr(25)},
		{name: "half boundary rounds away from zero", price: 33, original: int64Ptr(40), want: intPtr(18)},
		{name: "zero original", price: 10, original: int64Ptr(0), want: nil},
		{name: "missing original", price: 10, original: nil, want: nil},
		{name: "negative original", price: 10, original: int64Ptr(-5), want: nil},
		{name: "no discount", price: 500, original: int64Ptr(500), want: intPtr(0)},
		{name: "price above original", price: 125, original: int64Ptr(100), want: intPtr(-25)},
		{name: "round down", price: 2, original: int64Ptr(3), want: intPtr(33)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DiscountPercent(tc.price, tc.original)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("want nil got %d", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("want %d got nil", *tc.want)
			}
			if *got != *tc.want {
				t.Fatalf("want %d got %d", *tc.want, *got)
			}
		})
	}
}

func intPtr(v int) *int { return &v }

func TestCentsToDisplay(t *testing.T) {
	if got := CentsToDisplay(nil); got != nil {
		t.Fatalf("nil cents should stay nil, got %s", got.String())
	}
	got := CentsToDisplay(int64Ptr(1250))
	if got == nil || got.String() != "12.50" {
		t.Fatalf("want 12.50 got %v", got)
	}
}

func TestDisplayToCents(t *testing.T) {
	cases := map[string]int64{
		"12.5":   1250,
		"0.015":  2,
		"9.994":  999,
		"100":    10000,
		"-0.015": -2,
	}
	for raw, want := range cases {
		got := DisplayToCents(decimal.RequireFromString(raw))
		if got != want {
			t.Fatalf("%s: want %d got %d", raw, want, got)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	var payload struct {
		Price    Money  `json:"price"`
		Original *Money `json:"original"`
	}
	if err := json.Unmarshal([]byte(`{"price": 4.10, "original": "5"}`), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.Price.Cents() != 410 {
		t.Fatalf("price cents want 410 got %d", payload.Price.Cents())
	}
	if payload.Original == nil || payload.Original.Cents() != 500 {
		t.Fatalf("original cents want 500 got %v", payload.Original)
	}

	out, err := json.Marshal(NewMoneyFromCents(799))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `"7.99"` {
		t.Fatalf("marshal want \"7.99\" got %s", string(out))
	}
}
