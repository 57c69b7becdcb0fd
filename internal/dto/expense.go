package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sulavtimsina/expense-sync/internal/errs"
	"github.com/sulavtimsina/expense-sync/internal/models"
)

// CreateExpenseRequest is the UI-facing write payload. Amount arrives as a
// decimal string so nothing is lost to float parsing.
type CreateExpenseRequest struct {
	Amount    string  `json:"amount"`
	Category  string  `json:"category"`
	Note      *string `json:"note,omitempty"`
	Date      string  `json:"date"`
	ImagePath *string `json:"imagePath,omitempty"`
}

// ToModel validates the payload and builds a new expense with a generated
// id.
func (r CreateExpenseRequest) ToModel() (models.Expense, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return models.Expense{}, errs.NewValidationError("amount must be a decimal number")
	}
	date, err := time.Parse(models.DateLayout, r.Date)
	if err != nil {
		return models.Expense{}, errs.NewValidationError("date must be formatted " + models.DateLayout)
	}
	return models.NewExpense(amount, models.CategoryFromName(r.Category), r.Note, date, r.ImagePath)
}

// ToModelWithID validates the payload against an existing expense id, used
// for updates where the id comes from the URL rather than the body.
func (r CreateExpenseRequest) ToModelWithID(id string) (models.Expense, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return models.Expense{}, errs.NewValidationError("amount must be a decimal number")
	}
	if !amount.IsPositive() {
		return models.Expense{}, errs.NewValidationError("amount must be greater than zero")
	}
	date, err := time.Parse(models.DateLayout, r.Date)
	if err != nil {
		return models.Expense{}, errs.NewValidationError("date must be formatted " + models.DateLayout)
	}
	return models.Expense{
		ID:        id,
		Amount:    amount,
		Category:  models.CategoryFromName(r.Category),
		Note:      r.Note,
		Date:      date,
		ImagePath: r.ImagePath,
	}, nil
}

type ExpenseResponse struct {
	ID        string  `json:"id"`
	Amount    string  `json:"amount"`
	Category  string  `json:"category"`
	Note      *string `json:"note,omitempty"`
	Date      string  `json:"date"`
	ImagePath *string `json:"imagePath,omitempty"`
}

func NewExpenseResponse(e models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        e.ID,
		Amount:    e.Amount.String(),
		Category:  e.Category.String(),
		Note:      e.Note,
		Date:      e.Date.Format(models.DateLayout),
		ImagePath: e.ImagePath,
	}
}

func NewExpenseListResponse(expenses []models.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, NewExpenseResponse(e))
	}
	return out
}
