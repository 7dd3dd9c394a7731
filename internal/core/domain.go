package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Entertainment  Category = "Entertainment"
	Shopping       Category = "Shopping"
	Bills          Category = "Bills"
	Healthcare     Category = "Healthcare"
	Education      Category = "Education"
	Other          Category = "Other"
)

type (
	// Category is the closed set of expense categories.
	Category string

	// Date is a calendar day with no time-of-day component.
	Date struct {
		time.Time
	}

	// ExpenseRecord is a single itemized expense. ID is assigned once at
	// creation time and is stable for the record's lifetime.
	ExpenseRecord struct {
		ID       string
		Title    string
		Price    decimal.Decimal
		Category Category
		Date     Date
	}

	// Draft is the caller-supplied field set for a new or edited expense,
	// before any id has been assigned. All fields arrive as form text.
	Draft struct {
		Title    string
		Price    string
		Category string
		Date     string
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyTitle      = errors.New("empty title")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("invalid date")
)

const dateLayout = "2006-01-02"

// Categories returns the full category set in declaration order.
func Categories() []Category {
	return []Category{Food, Transportation, Entertainment, Shopping, Bills, Healthcare, Education, Other}
}

func (c Category) Valid() bool {
	switch c {
	case Food, Transportation, Entertainment, Shopping, Bills, Healthcare, Education, Other:
		return true
	}
	return false
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDate(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseAmount parses a positive decimal amount from its textual form.
// Zero, negative, empty, and malformed input all yield ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

func (e ExpenseRecord) Validate() error {
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if e.Price.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	return e.Date.Validate()
}

// Record converts the draft into an ExpenseRecord with no id assigned.
// All four fields must be present and well formed.
func (d Draft) Record() (ExpenseRecord, error) {
	price, err := ParseAmount(d.Price)
	if err != nil {
		return ExpenseRecord{}, err
	}
	date, err := ParseDate(d.Date)
	if err != nil {
		return ExpenseRecord{}, err
	}
	rec := ExpenseRecord{
		Title:    strings.TrimSpace(d.Title),
		Price:    price,
		Category: Category(strings.TrimSpace(d.Category)),
		Date:     date,
	}
	if err := rec.Validate(); err != nil {
		return ExpenseRecord{}, err
	}
	return rec, nil
}
