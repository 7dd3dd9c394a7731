package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
	applog "wallet/internal/log"
	"wallet/internal/wallet"
)

// Adapter serializes wallet snapshots to the KV store and restores them at
// startup. Load never fails outward: missing or corrupt data in either key
// discards the whole snapshot and yields empty defaults, with a diagnostic
// log for the operator.
type Adapter struct {
	kv     KV
	logger *applog.Logger
}

func NewAdapter(kv KV, logger *applog.Logger) *Adapter {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Adapter{kv: kv, logger: logger}
}

// expenseRow is the persisted form of a record: price as a JSON number,
// date as an ISO calendar string.
type expenseRow struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Price    json.Number `json:"price"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
}

// Save writes both keys. Serialization itself cannot fail for well-formed
// state, so errors here are storage write errors.
func (a *Adapter) Save(ctx context.Context, state wallet.State) error {
	rows := make([]expenseRow, len(state.Expenses))
	for i, e := range state.Expenses {
		rows[i] = expenseRow{
			ID:       e.ID,
			Title:    e.Title,
			Price:    json.Number(e.Price.String()),
			Category: string(e.Category),
			Date:     e.Date.String(),
		}
	}

	encoded, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}
	if err := a.kv.Set(ctx, KeyExpenses, string(encoded)); err != nil {
		return fmt.Errorf("persist expenses: %w", err)
	}
	if err := a.kv.Set(ctx, KeyBalance, state.Balance.String()); err != nil {
		return fmt.Errorf("persist balance: %w", err)
	}
	return nil
}

// Load reads both keys and reassembles the snapshot. Any read or parse
// failure on either key degrades to defaults; partial recovery is not
// attempted.
func (a *Adapter) Load(ctx context.Context) (wallet.State, error) {
	defaults := wallet.State{Balance: decimal.Zero}

	rawExpenses, okExpenses, err := a.kv.Get(ctx, KeyExpenses)
	if err != nil {
		a.logger.Warn("read expenses failed, using defaults", applog.FieldError, err.Error())
		return defaults, nil
	}
	rawBalance, okBalance, err := a.kv.Get(ctx, KeyBalance)
	if err != nil {
		a.logger.Warn("read balance failed, using defaults", applog.FieldError, err.Error())
		return defaults, nil
	}
	if !okExpenses || !okBalance {
		a.logger.Info("no prior wallet data found")
		return defaults, nil
	}

	expenses, err := decodeExpenses(rawExpenses)
	if err != nil {
		a.logger.Warn("stored expenses corrupt, discarding snapshot",
			applog.FieldStorageKey, KeyExpenses, applog.FieldError, err.Error())
		return defaults, nil
	}
	balance, err := decimal.NewFromString(rawBalance)
	if err != nil {
		a.logger.Warn("stored balance corrupt, discarding snapshot",
			applog.FieldStorageKey, KeyBalance, applog.FieldError, err.Error())
		return defaults, nil
	}

	return wallet.State{Balance: balance, Expenses: expenses}, nil
}

func decodeExpenses(raw string) ([]core.ExpenseRecord, error) {
	var rows []expenseRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}

	expenses := make([]core.ExpenseRecord, 0, len(rows))
	for _, row := range rows {
		price, err := decimal.NewFromString(row.Price.String())
		if err != nil {
			return nil, fmt.Errorf("record %q: bad price %q", row.ID, row.Price)
		}
		date, err := core.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("record %q: bad date %q", row.ID, row.Date)
		}
		category := core.Category(row.Category)
		if !category.Valid() {
			return nil, fmt.Errorf("record %q: unknown category %q", row.ID, row.Category)
		}
		expenses = append(expenses, core.ExpenseRecord{
			ID:       row.ID,
			Title:    row.Title,
			Price:    price,
			Category: category,
			Date:     date,
		})
	}
	return expenses, nil
}
