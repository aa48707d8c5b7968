package core

// Stats is the headline aggregate over the live transaction set.
type Stats struct {
	Income  Money
	Expense Money
	Balance Money
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Category string
	Amount   Money
}

// TrendPoint is one day of the 7-day expense trend series.
type TrendPoint struct {
	Date   Date
	Amount Money
}
