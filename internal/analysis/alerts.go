// Package analysis holds the pure read-side functions: budget alert
// evaluation and financial health scoring. Nothing here mutates state
// or touches storage.
package analysis

import (
	"sort"
	"strconv"

	"fintrack/internal/core"
)

type BudgetStatus string

const (
	StatusOK       BudgetStatus = "ok"
	StatusWarning  BudgetStatus = "warning"
	StatusExceeded BudgetStatus = "exceeded"
)

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// BudgetItem is the evaluated state of one budgeted category.
type BudgetItem struct {
	Category   string
	Limit      core.Money
	Spent      core.Money
	Remaining  core.Money
	Percentage float64
	Status     BudgetStatus
}

// Alert is a user-facing budget warning.
type Alert struct {
	Category string
	Severity Severity
	Message  string
}

// Report combines per-category items with the alert list.
type Report struct {
	Items  []BudgetItem
	Alerts []Alert
}

// Thresholds are percentages of the monthly limit.
const (
	warningThreshold  = 80
	exceededThreshold = 100
)

// EvaluateBudgets joins budget limits with per-category spend. Missing
// spend counts as zero. Items are ordered by category so output is
// deterministic.
func EvaluateBudgets(budgets, spend map[string]core.Money) Report {
	categories := make([]string, 0, len(budgets))
	for category := range budgets {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	report := Report{}
	for _, category := range categories {
		limit := budgets[category]
		spent := spend[core.NormalizeCategory(category)]

		item := BudgetItem{
			Category:  category,
			Limit:     limit,
			Spent:     spent,
			Remaining: limit.Sub(spent),
		}

		if limit.Cents <= 0 {
			// A zero limit cannot yield a percentage; anything spent
			// against it has exceeded it.
			if spent.Cents > 0 {
				item.Status = StatusExceeded
				report.Alerts = append(report.Alerts, exceededAlert(category))
			} else {
				item.Status = StatusOK
			}
			report.Items = append(report.Items, item)
			continue
		}

		item.Percentage = float64(spent.Cents) / float64(limit.Cents) * 100
		pctFloor := spent.Cents * 100 / limit.Cents

		switch {
		case pctFloor >= exceededThreshold:
			item.Status = StatusExceeded
			report.Alerts = append(report.Alerts, exceededAlert(category))
		case pctFloor >= warningThreshold:
			item.Status = StatusWarning
			report.Alerts = append(report.Alerts, Alert{
				Category: category,
				Severity: SeverityWarning,
				Message:  category + " budget is " + strconv.FormatInt(pctFloor, 10) + "% used",
			})
		default:
			item.Status = StatusOK
		}
		report.Items = append(report.Items, item)
	}
	return report
}

func exceededAlert(category string) Alert {
	return Alert{
		Category: category,
		Severity: SeverityDanger,
		Message:  "Budget exceeded for " + category,
	}
}
