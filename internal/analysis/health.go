package analysis

import (
	"math"
	"time"

	"fintrack/internal/core"
)

// ScoreInput gathers everything the scorer reads: ledger aggregates,
// budget limits, the transaction history and the savings balance.
type ScoreInput struct {
	Stats          core.Stats
	Budgets        map[string]core.Money
	Spending       map[string]core.Money
	Transactions   []core.Transaction
	SavingsBalance core.Money
	Now            time.Time
}

// Score is the weighted 0-100 financial health result with its five
// sub-scores, a letter grade and an encouragement message.
type Score struct {
	Total               int
	SavingsRate         int // max 30
	BudgetAdherence     int // max 25
	EmergencyFund       int // max 20
	SpendingConsistency int // max 15
	DebtRatio           int // max 10
	Grade               string
	Message             string
}

// HealthScore is pure and side-effect-free; its output feeds
// presentation only.
func HealthScore(in ScoreInput) Score {
	s := Score{
		SavingsRate:         savingsRateScore(in.Stats),
		BudgetAdherence:     budgetAdherenceScore(in.Budgets, in.Spending),
		EmergencyFund:       emergencyFundScore(in.SavingsBalance, in.Stats.Expense),
		SpendingConsistency: spendingConsistencyScore(in.Transactions, in.Now),
		DebtRatio:           10, // debt is not modeled; reserved weight
	}
	s.Total = s.SavingsRate + s.BudgetAdherence + s.EmergencyFund + s.SpendingConsistency + s.DebtRatio
	s.Grade = gradeFor(s.Total)
	s.Message = messageFor(s.Grade)
	return s
}

func savingsRateScore(stats core.Stats) int {
	if stats.Income.Cents <= 0 {
		return 0
	}
	rate := float64(stats.Income.Cents-stats.Expense.Cents) / float64(stats.Income.Cents)
	switch {
	case rate >= 0.30:
		return 30
	case rate >= 0.20:
		return 25
	case rate >= 0.10:
		return 20
	case rate >= 0.05:
		return 15
	case rate > 0:
		return 10
	default:
		return 0
	}
}

func budgetAdherenceScore(budgets, spend map[string]core.Money) int {
	total := len(budgets)
	if total == 0 {
		return 0
	}
	within := 0
	for category, limit := range budgets {
		if spend[core.NormalizeCategory(category)].Cents <= limit.Cents {
			within++
		}
	}
	rate := float64(within) / float64(total) * 100
	switch {
	case within == total:
		return 25
	case rate >= 80:
		return 20
	case rate >= 60:
		return 15
	case rate >= 40:
		return 10
	case rate >= 20:
		return 5
	default:
		return 0
	}
}

func emergencyFundScore(savings, monthlyExpenses core.Money) int {
	if monthlyExpenses.Cents <= 0 {
		// Nothing spent per month: vacuously covered.
		return 20
	}
	months := float64(savings.Cents) / float64(monthlyExpenses.Cents)
	switch {
	case months >= 6:
		return 20
	case months >= 3:
		return 15
	case months >= 1:
		return 10
	case months >= 0.5:
		return 5
	default:
		return 0
	}
}

// spendingConsistencyScore rates the coefficient of variation of
// expense amounts over the trailing 30 days. Fewer than 5 qualifying
// transactions is insufficient data, which scores the maximum rather
// than penalizing a quiet month.
func spendingConsistencyScore(txs []core.Transaction, now time.Time) int {
	today := core.DateOf(now)
	cutoff := today.AddDays(-30)

	var amounts []float64
	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		if tx.Date.Before(cutoff.Time) || tx.Date.After(today.Time) {
			continue
		}
		amounts = append(amounts, float64(tx.Amount.Cents))
	}
	if len(amounts) < 5 {
		return 15
	}

	mean := 0.0
	for _, a := range amounts {
		mean += a
	}
	mean /= float64(len(amounts))
	if mean == 0 {
		return 15
	}

	variance := 0.0
	for _, a := range amounts {
		variance += (a - mean) * (a - mean)
	}
	variance /= float64(len(amounts))
	cv := math.Sqrt(variance) / mean * 100

	switch {
	case cv <= 20:
		return 15
	case cv <= 40:
		return 12
	case cv <= 60:
		return 9
	case cv <= 80:
		return 6
	case cv <= 100:
		return 3
	default:
		return 0
	}
}

func gradeFor(total int) string {
	switch {
	case total >= 90:
		return "A+"
	case total >= 80:
		return "A"
	case total >= 70:
		return "B"
	case total >= 60:
		return "C"
	case total >= 50:
		return "D"
	case total >= 30:
		return "E"
	default:
		return "F"
	}
}

func messageFor(grade string) string {
	switch grade {
	case "A+":
		return "Outstanding! Your finances are in excellent shape."
	case "A":
		return "Great work! You are managing your money very well."
	case "B":
		return "Good going. A few tweaks and you will be thriving."
	case "C":
		return "You are on the right track; keep an eye on your budgets."
	case "D":
		return "Some habits need attention. Small changes add up."
	case "E":
		return "Your finances need care. Start with one budget at a time."
	default:
		return "Do not be discouraged; every budget you set is a step forward."
	}
}
