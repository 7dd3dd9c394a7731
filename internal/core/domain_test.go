package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"4.5", "4.5", true},
		{"123.45", "123.45", true},
		{" 2.50 ", "2.5", true},
		{"0", "", false},
		{"-1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
		{"   ", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2024-01-15" {
		t.Fatalf("expected 2024-01-15, got %s", d)
	}

	for _, bad := range []string{"", "2024-13-01", "15/01/2024", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 1, 15)
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"2024-01-15"` {
		t.Fatalf("expected quoted ISO date, got %s", raw)
	}
	var back Date
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %s != %s", back, d)
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		if !c.Valid() {
			t.Fatalf("%s expected valid", c)
		}
	}
	for _, bad := range []Category{"", "Groceries", "food"} {
		if bad.Valid() {
			t.Fatalf("%q expected invalid", bad)
		}
	}
}

func TestExpenseRecordValidate(t *testing.T) {
	good := ExpenseRecord{
		Title:    "Coffee",
		Price:    decimal.NewFromFloat(4.5),
		Category: Food,
		Date:     NewDate(2024, 1, 15),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []ExpenseRecord{
		{Title: "", Price: decimal.NewFromInt(1), Category: Food, Date: NewDate(2024, 1, 15)},
		{Title: "  ", Price: decimal.NewFromInt(1), Category: Food, Date: NewDate(2024, 1, 15)},
		{Title: "a", Price: decimal.Zero, Category: Food, Date: NewDate(2024, 1, 15)},
		{Title: "a", Price: decimal.NewFromInt(-1), Category: Food, Date: NewDate(2024, 1, 15)},
		{Title: "a", Price: decimal.NewFromInt(1), Category: "Nope", Date: NewDate(2024, 1, 15)},
		{Title: "a", Price: decimal.NewFromInt(1), Category: Food, Date: Date{}},
	}
	for i, rec := range bads {
		if err := rec.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDraftRecord(t *testing.T) {
	rec, err := Draft{Title: "Coffee", Price: "4.5", Category: "Food", Date: "2024-01-15"}.Record()
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if rec.ID != "" {
		t.Fatalf("draft must not assign an id, got %q", rec.ID)
	}
	if rec.Title != "Coffee" || rec.Category != Food || rec.Date.String() != "2024-01-15" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.Price.Equal(decimal.NewFromFloat(4.5)) {
		t.Fatalf("expected price 4.5, got %s", rec.Price)
	}

	bads := []Draft{
		{Title: "", Price: "4.5", Category: "Food", Date: "2024-01-15"},
		{Title: "a", Price: "", Category: "Food", Date: "2024-01-15"},
		{Title: "a", Price: "-4.5", Category: "Food", Date: "2024-01-15"},
		{Title: "a", Price: "4.5", Category: "Snacks", Date: "2024-01-15"},
		{Title: "a", Price: "4.5", Category: "Food", Date: "not-a-date"},
		{Title: "a", Price: "4.5", Category: "Food", Date: ""},
	}
	for i, d := range bads {
		if _, err := d.Record(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
