package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordStatus is the soft-delete marker shared by expenses, incomes and budgets.
type RecordStatus string

const (
	RecordStatusActive  RecordStatus = "active"
	RecordStatusDeleted RecordStatus = "deleted"
)

type ExpenseCategory string

const (
	ExpenseFood          ExpenseCategory = "food"
	ExpenseTransport     ExpenseCategory = "transportation"
	ExpenseHousing       ExpenseCategory = "housing"
	ExpenseUtilities     ExpenseCategory = "utilities"
	ExpenseEntertainment ExpenseCategory = "entertainment"
	ExpenseHealthcare    ExpenseCategory = "healthcare"
	ExpenseShopping      ExpenseCategory = "shopping"
	ExpenseEducation     ExpenseCategory = "education"
	ExpenseTravel        ExpenseCategory = "travel"
	ExpenseInsurance     ExpenseCategory = "insurance"
	ExpenseDebt          ExpenseCategory = "debt"
	ExpenseSavings       ExpenseCategory = "savings"
	ExpenseOther         ExpenseCategory = "other"
)

var ExpenseCategories = []ExpenseCategory{
	ExpenseFood, ExpenseTransport, ExpenseHousing, ExpenseUtilities, ExpenseEntertainment,
	ExpenseHealthcare, ExpenseShopping, ExpenseEducation, ExpenseTravel, ExpenseInsurance,
	ExpenseDebt, ExpenseSavings, ExpenseOther,
}

func (c ExpenseCategory) Valid() bool {
	for _, v := range ExpenseCategories {
		if c == v {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentCreditCard    PaymentMethod = "credit_card"
	PaymentDebitCard     PaymentMethod = "debit_card"
	PaymentBankTransfer  PaymentMethod = "bank_transfer"
	PaymentDigitalWallet PaymentMethod = "digital_wallet"
	PaymentOther         PaymentMethod = "other"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentBankTransfer, PaymentDigitalWallet, PaymentOther:
		return true
	}
	return false
}

type Expense struct {
	ID            string          `db:"id"`
	UserID        string          `db:"user_id"`
	Amount        decimal.Decimal `db:"amount"`
	Description   string          `db:"description"`
	Category      ExpenseCategory `db:"category"`
	PaymentMethod PaymentMethod   `db:"payment_method"`
	Date          time.Time       `db:"date"`
	Recurring     bool            `db:"recurring"`
	Tags          Tags            `db:"tags"`
	Status        RecordStatus    `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}
