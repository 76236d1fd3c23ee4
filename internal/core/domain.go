package core

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the wire and storage format of an expense date.
const DateLayout = "2006-01-02"

// MaxCategoryLength is the longest category accepted, counted in characters.
const MaxCategoryLength = 200

type (
	// Date is a calendar date without time zone. Only NewDate and ParseDate
	// produce a valid Date, so 0001-01-01 is told apart from an unset value.
	Date struct {
		time.Time
		set bool
	}

	Expense struct {
		ID       int64 // Assigned by storage on insert
		Amount   float64
		Category string
		Date     Date
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrCategoryTooLong = errors.New("category too long (max 200 characters)")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), set: true}
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t, set: true}, nil
}

func (d Date) Validate() error {
	if !d.set {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Validate checks the invariants a stored expense must hold. Amount sign is
// not constrained and category is free form up to MaxCategoryLength.
func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return ErrInvalidAmount
	}
	if utf8.RuneCountInString(e.Category) > MaxCategoryLength {
		return ErrCategoryTooLong
	}
	return nil
}

// InMonth reports whether the expense date falls in the given year and month.
func (e Expense) InMonth(year, month int) bool {
	return e.Date.Year() == year && e.Date.Month() == month
}
