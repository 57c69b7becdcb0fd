package dto

// AnalyticsResult summarizes spending inside a date range.
type AnalyticsResult struct {
	From              string              `json:"from"`
	To                string              `json:"to"`
	TotalAmount       string              `json:"totalAmount"`
	AveragePerDay     string              `json:"averagePerDay"`
	AveragePerMonth   string              `json:"averagePerMonth"`
	CategoryBreakdown []CategoryBreakdown `json:"categoryBreakdown"`
	MonthlyTrends     []TrendPoint        `json:"monthlyTrends"`
	DailyTrends       []TrendPoint        `json:"dailyTrends"`
}

type CategoryBreakdown struct {
	Category         string  `json:"category"`
	Amount           string  `json:"amount"`
	Percentage       float64 `json:"percentage"`
	TransactionCount int     `json:"transactionCount"`
}

// TrendPoint is one bucket of a trend series. Label is the abbreviated
// month name for monthly series and the calendar date for daily series.
type TrendPoint struct {
	Label            string `json:"label"`
	Amount           string `json:"amount"`
	TransactionCount int    `json:"transactionCount"`
}
