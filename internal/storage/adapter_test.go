package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
	"wallet/internal/wallet"
)

func sampleState() wallet.State {
	// One record per category plus a non-integer balance, the worst case
	// for round-trip fidelity.
	var expenses []core.ExpenseRecord
	for i, category := range core.Categories() {
		expenses = append(expenses, core.ExpenseRecord{
			ID:       string(rune('a' + i)),
			Title:    string(category) + " purchase",
			Price:    decimal.NewFromFloat(4.5).Add(decimal.NewFromInt(int64(i))),
			Category: category,
			Date:     core.NewDate(2024, 1, i+1),
		})
	}
	return wallet.State{Balance: decimal.NewFromFloat(123.45), Expenses: expenses}
}

func TestAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter := NewAdapter(NewMemoryKV(), nil)
	state := sampleState()

	if err := adapter.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := adapter.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !loaded.Balance.Equal(state.Balance) {
		t.Fatalf("balance = %s, want %s", loaded.Balance, state.Balance)
	}
	if len(loaded.Expenses) != len(state.Expenses) {
		t.Fatalf("expense count = %d, want %d", len(loaded.Expenses), len(state.Expenses))
	}
	for i, want := range state.Expenses {
		got := loaded.Expenses[i]
		if got.ID != want.ID || got.Title != want.Title || got.Category != want.Category {
			t.Errorf("record %d mismatch: %+v != %+v", i, got, want)
		}
		if !got.Price.Equal(want.Price) {
			t.Errorf("record %d price = %s, want %s", i, got.Price, want.Price)
		}
		if got.Date.String() != want.Date.String() {
			t.Errorf("record %d date = %s, want %s", i, got.Date, want.Date)
		}
	}
}

func TestSaveWireFormat(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	adapter := NewAdapter(kv, nil)

	state := wallet.State{
		Balance: decimal.NewFromFloat(123.45),
		Expenses: []core.ExpenseRecord{{
			ID:       "x1",
			Title:    "Coffee",
			Price:    decimal.NewFromFloat(4.5),
			Category: core.Food,
			Date:     core.NewDate(2024, 1, 15),
		}},
	}
	if err := adapter.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}

	rawBalance, ok, _ := kv.Get(ctx, KeyBalance)
	if !ok || rawBalance != "123.45" {
		t.Fatalf("balance key = %q, want plain decimal string 123.45", rawBalance)
	}

	rawExpenses, ok, _ := kv.Get(ctx, KeyExpenses)
	if !ok {
		t.Fatalf("expenses key missing")
	}
	// Price must be a bare JSON number, date an ISO calendar string.
	if !strings.Contains(rawExpenses, `"price":4.5`) {
		t.Errorf("price not stored as a number: %s", rawExpenses)
	}
	if !strings.Contains(rawExpenses, `"date":"2024-01-15"`) {
		t.Errorf("date not stored as ISO string: %s", rawExpenses)
	}
	if !strings.Contains(rawExpenses, `"category":"Food"`) {
		t.Errorf("category not stored as string: %s", rawExpenses)
	}
}

func TestLoadDefaultsWhenEmpty(t *testing.T) {
	adapter := NewAdapter(NewMemoryKV(), nil)
	state, err := adapter.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !state.Balance.Equal(decimal.Zero) || len(state.Expenses) != 0 {
		t.Fatalf("expected empty defaults, got %+v", state)
	}
}

func TestLoadDiscardsWholeSnapshotOnCorruption(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name     string
		expenses string
		balance  string
	}{
		{"expenses not json", "][", "50"},
		{"expenses wrong shape", `{"nope":1}`, "50"},
		{"bad price", `[{"id":"a","title":"x","price":"abc","category":"Food","date":"2024-01-15"}]`, "50"},
		{"bad date", `[{"id":"a","title":"x","price":1,"category":"Food","date":"someday"}]`, "50"},
		{"unknown category", `[{"id":"a","title":"x","price":1,"category":"Snacks","date":"2024-01-15"}]`, "50"},
		{"bad balance", `[]`, "not-a-number"},
		{"missing balance", `[{"id":"a","title":"x","price":1,"category":"Food","date":"2024-01-15"}]`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kv := NewMemoryKV()
			if tc.expenses != "" {
				_ = kv.Set(ctx, KeyExpenses, tc.expenses)
			}
			if tc.balance != "" {
				_ = kv.Set(ctx, KeyBalance, tc.balance)
			}

			state, err := NewAdapter(kv, nil).Load(ctx)
			if err != nil {
				t.Fatalf("corruption must not surface as an error: %v", err)
			}
			// Partial recovery is not attempted: both fields fall back.
			if !state.Balance.Equal(decimal.Zero) || len(state.Expenses) != 0 {
				t.Fatalf("expected full defaults, got %+v", state)
			}
		})
	}
}
