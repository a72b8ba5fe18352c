package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type IncomeCategory string

const (
	IncomeSalary     IncomeCategory = "salary"
	IncomeFreelance  IncomeCategory = "freelance"
	IncomeBusiness   IncomeCategory = "business"
	IncomeInvestment IncomeCategory = "investment"
	IncomeRental     IncomeCategory = "rental"
	IncomeGift       IncomeCategory = "gift"
	IncomeBonus      IncomeCategory = "bonus"
	IncomeOther      IncomeCategory = "other"
)

var IncomeCategories = []IncomeCategory{
	IncomeSalary, IncomeFreelance, IncomeBusiness, IncomeInvestment,
	IncomeRental, IncomeGift, IncomeBonus, IncomeOther,
}

func (c IncomeCategory) Valid() bool {
	for _, v := range IncomeCategories {
		if c == v {
			return true
		}
	}
	return false
}

type Income struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`
	Category    IncomeCategory  `db:"category"`
	Source      string          `db:"source"`
	Date        time.Time       `db:"date"`
	Recurring   bool            `db:"recurring"`
	Tags        Tags            `db:"tags"`
	Status      RecordStatus    `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}
