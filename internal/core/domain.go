package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is the immutable ledger record. ID doubles as the unique
	// key and the creation instant in unix milliseconds. Edits are modeled
	// as delete-then-add, never in-place mutation.
	Transaction struct {
		ID          int64           `json:"timestamp"`
		Type        TransactionType `json:"type"`
		Amount      Money           `json:"amount"`
		Category    string          `json:"category"`
		Date        Date            `json:"date"`
		Description string          `json:"description,omitempty"`
		Recurring   bool            `json:"recurring"`
	}
)

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrFutureDate      = errors.New("date cannot be in the future")
	ErrEmptyCategory   = errors.New("empty category")
	ErrUnknownCategory = errors.New("unknown category for transaction type")
	ErrInvalidLimit    = errors.New("invalid budget limit")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// NewDate creates a calendar date; the time-of-day is always midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses an ISO 8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// ISO renders the date as YYYY-MM-DD. Date equality throughout the
// ledger is equality of this string, never instant proximity.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (d Date) Equal(other Date) bool {
	return d.ISO() == other.ISO()
}

// MarshalJSON renders the date as a quoted YYYY-MM-DD string, the wire
// format used by the key-value store and the JSON export.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.ISO() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// AddMonths advances the date by whole calendar months, clamping to the
// last day of the target month (Jan 31 + 1 month = Feb 28/29).
func (d Date) AddMonths(n int) Date {
	year, month, day := d.Date()
	target := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(target.Year(), target.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return NewDate(target.Year(), int(target.Month()), day)
}

// AddDays advances the date by whole calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.AddDate(0, 0, n))
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks record shape: type, amount, date presence and category
// membership in the type's vocabulary. The future-date rule depends on a
// clock and lives with the caller.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if !ValidCategory(t.Type, t.Category) {
		return ErrUnknownCategory
	}
	return nil
}
