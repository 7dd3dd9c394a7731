package wallet

import (
	"github.com/shopspring/decimal"

	"wallet/internal/core"
)

// action is the closed set of mutations the store understands. Every state
// change goes through reduce with exactly one of these variants; nothing else
// may touch State.
type action interface {
	isAction()
}

type addIncome struct {
	Amount decimal.Decimal
}

type addExpense struct {
	Record core.ExpenseRecord
}

type updateExpense struct {
	Record core.ExpenseRecord
}

type deleteExpense struct {
	ID string
}

type loadSnapshot struct {
	State State
}

func (addIncome) isAction()     {}
func (addExpense) isAction()    {}
func (updateExpense) isAction() {}
func (deleteExpense) isAction() {}
func (loadSnapshot) isAction()  {}
