package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sulavtimsina/expense-sync/internal/dto"
	"github.com/sulavtimsina/expense-sync/internal/models"
)

type expenseAnalyticsStore interface {
	ListByDateRange(ctx context.Context, start, end time.Time) ([]models.Expense, error)
}

type analyticsService struct {
	expenses expenseAnalyticsStore
}

func NewAnalyticsService(expenses expenseAnalyticsStore) *analyticsService {
	return &analyticsService{expenses: expenses}
}

type breakdownBucket struct {
	amount decimal.Decimal
	count  int
}

type trendBucket struct {
	at     time.Time
	label  string
	amount decimal.Decimal
	count  int
}

// GetAnalytics aggregates the expenses recorded between from and to into a
// total, a per-category breakdown, and monthly and daily trend series.
// Averages divide the total by the span of the requested range, never by the
// span of the recorded data, so sparse ranges read as low spending rather
// than high.
func (s *analyticsService) GetAnalytics(ctx context.Context, from, to time.Time) (dto.AnalyticsResult, error) {
	result := dto.AnalyticsResult{
		From: from.Format(models.DateLayout),
		To:   to.Format(models.DateLayout),
	}

	expenses, err := s.expenses.ListByDateRange(ctx, from, to)
	if err != nil {
		return result, err
	}

	total := decimal.Zero
	byCategory := map[models.Category]*breakdownBucket{}
	byMonth := map[string]*trendBucket{}
	byDay := map[string]*trendBucket{}
	for _, expense := range expenses {
		total = total.Add(expense.Amount)

		cat, ok := byCategory[expense.Category]
		if !ok {
			cat = &breakdownBucket{amount: decimal.Zero}
			byCategory[expense.Category] = cat
		}
		cat.amount = cat.amount.Add(expense.Amount)
		cat.count++

		month := time.Date(expense.Date.Year(), expense.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		accumulateTrend(byMonth, month, expense.Date.Format("Jan"), expense.Amount)

		day := time.Date(expense.Date.Year(), expense.Date.Month(), expense.Date.Day(), 0, 0, 0, 0, time.UTC)
		accumulateTrend(byDay, day, day.Format("2006-01-02"), expense.Amount)
	}

	result.TotalAmount = total.String()
	result.AveragePerDay = total.Div(decimal.NewFromInt(daySpan(from, to))).Round(2).String()
	result.AveragePerMonth = total.Div(decimal.NewFromInt(monthSpan(from, to))).Round(2).String()
	result.CategoryBreakdown = mapBreakdown(byCategory, total)
	result.MonthlyTrends = mapTrend(byMonth)
	result.DailyTrends = mapTrend(byDay)
	return result, nil
}

func accumulateTrend(buckets map[string]*trendBucket, at time.Time, label string, amount decimal.Decimal) {
	key := at.Format("2006-01-02")
	bucket, ok := buckets[key]
	if !ok {
		bucket = &trendBucket{at: at, label: label, amount: decimal.Zero}
		buckets[key] = bucket
	}
	bucket.amount = bucket.amount.Add(amount)
	bucket.count++
}

func mapBreakdown(buckets map[models.Category]*breakdownBucket, total decimal.Decimal) []dto.CategoryBreakdown {
	items := make([]dto.CategoryBreakdown, 0, len(buckets))
	for category, bucket := range buckets {
		percentage := 0.0
		if total.IsPositive() {
			percentage = bucket.amount.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		items = append(items, dto.CategoryBreakdown{
			Category:         category.String(),
			Amount:           bucket.amount.String(),
			Percentage:       percentage,
			TransactionCount: bucket.count,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Percentage != items[j].Percentage {
			return items[i].Percentage > items[j].Percentage
		}
		return items[i].Category < items[j].Category
	})
	return items
}

func mapTrend(buckets map[string]*trendBucket) []dto.TrendPoint {
	ordered := make([]*trendBucket, 0, len(buckets))
	for _, bucket := range buckets {
		ordered = append(ordered, bucket)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].at.Before(ordered[j].at) })

	points := make([]dto.TrendPoint, 0, len(ordered))
	for _, bucket := range ordered {
		points = append(points, dto.TrendPoint{
			Label:            bucket.label,
			Amount:           bucket.amount.String(),
			TransactionCount: bucket.count,
		})
	}
	return points
}

func daySpan(from, to time.Time) int64 {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	days := int64(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

func monthSpan(from, to time.Time) int64 {
	months := int64(to.Year()-from.Year())*12 + int64(to.Month()-from.Month())
	if months < 1 {
		return 1
	}
	return months
}
