package core

import (
	"errors"
	"strings"
	"time"
)

type (
	Date struct {
		time.Time
	}

	// Money is an amount of Czech koruna in cents (haléře).
	Money struct {
		Cents int64
	}

	// Purchase is a single diary entry. Amount is the raw amount in the
	// purchase currency; Converted, RateUsed and RateDate record how the
	// CZK value was obtained so a row can always be explained later.
	Purchase struct {
		ID        int64
		Date      Date
		Shop      string
		Country   string
		Currency  string // 3-letter ISO code
		Amount    float64
		Category  string
		Note      string
		Converted Money   // amount in CZK
		RateUsed  float64 // CZK per 1 unit of Currency
		RateDate  Date    // date the applied rate was valid for
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrEmptyCategory   = errors.New("empty category")
)

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ISO returns the date formatted as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsCurrencyCode reports whether s looks like a 3-letter ISO currency code.
func IsCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func (p Purchase) Validate() error {
	if err := p.Date.Validate(); err != nil {
		return err
	}
	if !IsCurrencyCode(p.Currency) {
		return ErrInvalidCurrency
	}
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(p.Category) == "" {
		return ErrEmptyCategory
	}
	if len(p.Shop) > 200 {
		return errors.New("shop too long (max 200 characters)")
	}
	if len(p.Note) > 500 {
		return errors.New("note too long (max 500 characters)")
	}
	return nil
}
