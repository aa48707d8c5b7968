package core

import "strings"

// Category vocabularies are fixed and disjoint per transaction type. The
// normalized form is the category identity shared by the ledger, the
// budget registry and the alert evaluator.
var (
	IncomeCategories = []string{
		"salary",
		"freelance",
		"investment",
		"business",
		"gift",
		"other-income",
	}

	ExpenseCategories = []string{
		"food",
		"transport",
		"housing",
		"utilities",
		"entertainment",
		"healthcare",
		"shopping",
		"education",
		"travel",
		"other-expense",
	}
)

// NormalizeCategory canonicalizes a category name: trim, lowercase,
// inner whitespace collapsed to single hyphens.
func NormalizeCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "-")
}

// Categories returns the vocabulary for a transaction type.
func Categories(t TransactionType) []string {
	switch t {
	case Income:
		return IncomeCategories
	case Expense:
		return ExpenseCategories
	default:
		return nil
	}
}

// ValidCategory reports whether the normalized category belongs to the
// vocabulary of the given type.
func ValidCategory(t TransactionType, category string) bool {
	normalized := NormalizeCategory(category)
	for _, c := range Categories(t) {
		if c == normalized {
			return true
		}
	}
	return false
}
