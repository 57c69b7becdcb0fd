package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sulavtimsina/expense-sync/internal/errs"
)

// DateLayout is how expense dates are persisted locally: naive wall-clock
// time, no zone component.
const DateLayout = "2006-01-02T15:04:05"

// Expense is the domain record shared by the local and cloud stores.
// ID is the primary key in both.
type Expense struct {
	ID        string
	Amount    decimal.Decimal
	Category  Category
	Note      *string
	Date      time.Time
	ImagePath *string
}

// NewExpense builds an expense with a generated id, validating the fields
// the stores themselves do not check.
func NewExpense(amount decimal.Decimal, category Category, note *string, date time.Time, imagePath *string) (Expense, error) {
	if !amount.IsPositive() {
		return Expense{}, errs.NewValidationError("amount must be greater than zero")
	}
	if date.IsZero() {
		return Expense{}, errs.NewValidationError("date is required")
	}
	return Expense{
		ID:        uuid.NewString(),
		Amount:    amount,
		Category:  category,
		Note:      note,
		Date:      date,
		ImagePath: imagePath,
	}, nil
}

// Equal reports whether two expenses carry the same data. Amounts compare
// by value, not representation (10.0 == 10.00).
func (e Expense) Equal(other Expense) bool {
	return e.ID == other.ID &&
		e.Amount.Equal(other.Amount) &&
		e.Category == other.Category &&
		strPtrEqual(e.Note, other.Note) &&
		e.Date.Equal(other.Date) &&
		strPtrEqual(e.ImagePath, other.ImagePath)
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Category is the closed expense vocabulary. The string value is the
// display name, which is also the form persisted in both stores.
type Category string

const (
	CategoryFood           Category = "Food"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryShopping       Category = "Shopping"
	CategoryBills          Category = "Bills"
	CategoryHealthcare     Category = "Healthcare"
	CategoryEducation      Category = "Education"
	CategoryTravel         Category = "Travel"
	CategoryOther          Category = "Other"
)

var categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryShopping,
	CategoryBills,
	CategoryHealthcare,
	CategoryEducation,
	CategoryTravel,
	CategoryOther,
}

// Categories returns the full vocabulary in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryFromName maps a stored display name back to a Category.
// Unknown names fall back to Other, matching how records written by older
// clients are read.
func CategoryFromName(name string) Category {
	for _, c := range categories {
		if string(c) == name {
			return c
		}
	}
	return CategoryOther
}

func (c Category) String() string { return string(c) }
