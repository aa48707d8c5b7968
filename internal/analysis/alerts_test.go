package analysis

import (
	"testing"

	"fintrack/internal/core"
)

func money(cents int64) core.Money {
	return core.Money{Cents: cents}
}

func TestEvaluateBudgetsThresholds(t *testing.T) {
	budgets := map[string]core.Money{"food": money(10000)}

	cases := []struct {
		name       string
		spentCents int64
		status     BudgetStatus
		alerts     int
	}{
		{"just under warning", 7900, StatusOK, 0},
		{"at warning", 8000, StatusWarning, 1},
		{"between", 9999, StatusWarning, 1},
		{"at limit", 10000, StatusExceeded, 1},
		{"over limit", 15000, StatusExceeded, 1},
		{"zero spend", 0, StatusOK, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spend := map[string]core.Money{}
			if tc.spentCents > 0 {
				spend["food"] = money(tc.spentCents)
			}
			report := EvaluateBudgets(budgets, spend)
			if len(report.Items) != 1 {
				t.Fatalf("expected 1 item, got %d", len(report.Items))
			}
			if report.Items[0].Status != tc.status {
				t.Errorf("status = %s, want %s", report.Items[0].Status, tc.status)
			}
			if len(report.Alerts) != tc.alerts {
				t.Errorf("alerts = %d, want %d", len(report.Alerts), tc.alerts)
			}
		})
	}
}

func TestEvaluateBudgetsNoEntryNoAlert(t *testing.T) {
	report := EvaluateBudgets(map[string]core.Money{"food": money(10000)}, nil)
	if len(report.Alerts) != 0 {
		t.Errorf("no spend entry must produce no alert, got %v", report.Alerts)
	}
	item := report.Items[0]
	if item.Spent.Cents != 0 || item.Remaining.Cents != 10000 {
		t.Errorf("item = %+v", item)
	}
}

func TestEvaluateBudgetsMessages(t *testing.T) {
	budgets := map[string]core.Money{"food": money(10000)}

	report := EvaluateBudgets(budgets, map[string]core.Money{"food": money(8550)})
	if got := report.Alerts[0].Message; got != "food budget is 85% used" {
		t.Errorf("warning message = %q", got)
	}
	if report.Alerts[0].Severity != SeverityWarning {
		t.Errorf("severity = %s", report.Alerts[0].Severity)
	}

	report = EvaluateBudgets(budgets, map[string]core.Money{"food": money(12000)})
	if got := report.Alerts[0].Message; got != "Budget exceeded for food" {
		t.Errorf("danger message = %q", got)
	}
	if report.Alerts[0].Severity != SeverityDanger {
		t.Errorf("severity = %s", report.Alerts[0].Severity)
	}
}

func TestEvaluateBudgetsPercentageFloored(t *testing.T) {
	// 8999/10000 = 89.99%, message must floor to 89.
	report := EvaluateBudgets(
		map[string]core.Money{"food": money(10000)},
		map[string]core.Money{"food": money(8999)},
	)
	if got := report.Alerts[0].Message; got != "food budget is 89% used" {
		t.Errorf("message = %q", got)
	}
}

func TestEvaluateBudgetsZeroLimit(t *testing.T) {
	budgets := map[string]core.Money{"food": money(0)}

	report := EvaluateBudgets(budgets, map[string]core.Money{"food": money(1)})
	if report.Items[0].Status != StatusExceeded {
		t.Errorf("zero limit with spend: status = %s", report.Items[0].Status)
	}

	report = EvaluateBudgets(budgets, nil)
	if report.Items[0].Status != StatusOK {
		t.Errorf("zero limit without spend: status = %s", report.Items[0].Status)
	}
}

func TestEvaluateBudgetsDeterministicOrder(t *testing.T) {
	budgets := map[string]core.Money{
		"travel": money(100),
		"food":   money(100),
		"extra":  money(100),
	}
	report := EvaluateBudgets(budgets, nil)
	want := []string{"extra", "food", "travel"}
	for i, item := range report.Items {
		if item.Category != want[i] {
			t.Fatalf("item %d = %s, want %s", i, item.Category, want[i])
		}
	}
}
