package sample

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sulavtimsina/expense-sync/internal/models"
	"github.com/sulavtimsina/expense-sync/pkg/helpers"
)

// IDPrefix marks demo records. Records with this prefix stay on the device:
// the sync engine never pushes them, so sample content cannot leak into a
// user's cloud data.
const IDPrefix = "sample_expense_"

// IsSampleID reports whether id belongs to a seeded demo record.
func IsSampleID(id string) bool {
	return strings.HasPrefix(id, IDPrefix)
}

// repository is the write surface the provider needs.
type repository interface {
	GetByID(ctx context.Context, id string) (*models.Expense, error)
	Insert(ctx context.Context, e models.Expense) error
}

type Provider struct {
	repo repository
}

func NewProvider(repo repository) *Provider {
	return &Provider{repo: repo}
}

// Seed inserts the demo expenses unless they are already present. Presence
// is checked through the first sample id, so reseeding after a partial
// failure is possible but a completed seed is idempotent.
func (p *Provider) Seed(ctx context.Context) error {
	existing, err := p.repo.GetByID(ctx, IDPrefix+"0")
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	for _, e := range sampleExpenses() {
		if err := p.repo.Insert(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

type sampleEntry struct {
	category models.Category
	amount   string
	note     string
}

var sampleEntries = []sampleEntry{
	{models.CategoryFood, "15.50", "Lunch at cafe"},
	{models.CategoryFood, "67.80", "Weekly groceries"},
	{models.CategoryFood, "23.45", "Pizza delivery"},
	{models.CategoryFood, "8.90", "Coffee and pastry"},
	{models.CategoryTransportation, "2.50", "Bus fare"},
	{models.CategoryTransportation, "45.00", "Gas fill-up"},
	{models.CategoryTransportation, "18.75", "Taxi ride"},
	{models.CategoryEntertainment, "12.00", "Movie ticket"},
	{models.CategoryEntertainment, "35.40", "Concert snacks"},
	{models.CategoryShopping, "89.99", "New shoes"},
	{models.CategoryShopping, "24.30", "Books"},
	{models.CategoryBills, "120.00", "Electricity"},
	{models.CategoryBills, "55.00", "Internet"},
	{models.CategoryHealthcare, "30.00", "Pharmacy"},
	{models.CategoryEducation, "199.00", "Online course"},
	{models.CategoryTravel, "320.00", "Weekend trip"},
	{models.CategoryOther, "9.99", "App subscription"},
}

// sampleExpenses spreads the demo entries over the three months before the
// seed date, one entry every five days.
func sampleExpenses() []models.Expense {
	base := time.Date(2024, time.December, 1, 12, 0, 0, 0, time.UTC)

	expenses := make([]models.Expense, 0, len(sampleEntries))
	for i, entry := range sampleEntries {
		amount, _ := decimal.NewFromString(entry.amount)
		expenses = append(expenses, models.Expense{
			ID:       fmt.Sprintf("%s%d", IDPrefix, i),
			Amount:   amount,
			Category: entry.category,
			Note:     helpers.Ptr(entry.note),
			Date:     base.AddDate(0, 0, -5*i),
		})
	}
	return expenses
}
