package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CloudExpense is the remote representation of an Expense. It adds the
// owning user id, which scopes every remote read and write, and the
// server-assigned timestamps, which are present on reads only.
//
// The json tags match the REST backend's snake_case columns; the firestore
// tags match the document field naming used for the Firestore backend.
// Amount is a float64 because both remote schemas store a double; the
// mappers below confine the conversion to this edge.
type CloudExpense struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Amount    float64   `json:"amount" firestore:"amount"`
	Category  string    `json:"category" firestore:"category"`
	Note      *string   `json:"note,omitempty" firestore:"note"`
	Date      time.Time `json:"date" firestore:"date"`
	ImagePath *string   `json:"image_path,omitempty" firestore:"imagePath"`
	CreatedAt time.Time `json:"created_at,omitzero" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at,omitzero" firestore:"updatedAt"`
}

// ToCloud converts a domain expense into its remote form for the given
// owner. The wall-clock date becomes an instant through the system zone.
func (e Expense) ToCloud(userID string) CloudExpense {
	return CloudExpense{
		ID:        e.ID,
		UserID:    userID,
		Amount:    e.Amount.InexactFloat64(),
		Category:  e.Category.String(),
		Note:      e.Note,
		Date:      e.Date.UTC(),
		ImagePath: e.ImagePath,
	}
}

// ToDomain converts a pulled remote record back into the domain form,
// dropping the owner and server timestamps.
func (c CloudExpense) ToDomain() Expense {
	return Expense{
		ID:        c.ID,
		Amount:    decimal.NewFromFloat(c.Amount),
		Category:  CategoryFromName(c.Category),
		Note:      c.Note,
		Date:      c.Date,
		ImagePath: c.ImagePath,
	}
}
