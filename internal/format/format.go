// Package format renders dilution figures for people: grouped currency
// amounts, compact chart labels, percentages and share counts.
//
// Rounding is half away from zero and is done on decimals rather than
// floats, so 2.675 renders as "2.68" and not "2.67".
package format

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Grouping selects how integer digits are separated.
type Grouping int

const (
	// GroupThousands separates every three digits: 100,000,000.
	GroupThousands Grouping = iota
	// GroupIndian separates the last three digits, then every two: 10,00,00,000.
	GroupIndian
)

// Currency describes how amounts in one currency are written.
type Currency struct {
	Code     string
	Symbol   string
	Grouping Grouping
}

var (
	INR = Currency{Code: "INR", Symbol: "₹", Grouping: GroupIndian}
	USD = Currency{Code: "USD", Symbol: "$", Grouping: GroupThousands}
	EUR = Currency{Code: "EUR", Symbol: "€", Grouping: GroupThousands}
	GBP = Currency{Code: "GBP", Symbol: "£", Grouping: GroupThousands}
)

var currencies = map[string]Currency{
	INR.Code: INR,
	USD.Code: USD,
	EUR.Code: EUR,
	GBP.Code: GBP,
}

// LookupCurrency finds a supported currency by ISO code (case-insensitive).
func LookupCurrency(code string) (Currency, error) {
	c, ok := currencies[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Currency{}, fmt.Errorf("unsupported currency: %q", code)
	}
	return c, nil
}

// Formatter renders numbers for a single currency.
type Formatter struct {
	currency Currency
}

// New returns a Formatter for c.
func New(c Currency) Formatter {
	return Formatter{currency: c}
}

// Unit returns the currency the formatter writes.
func (f Formatter) Unit() Currency {
	return f.currency
}

// Currency renders v as a whole amount with the currency symbol: ₹1,00,00,000.
func (f Formatter) Currency(v float64) string {
	return f.money(v, f.currency.Symbol)
}

// CurrencyCode renders v with the ISO code instead of the symbol: INR 1,00,00,000.
// PDF core fonts have no glyph for most currency symbols.
func (f Formatter) CurrencyCode(v float64) string {
	return f.money(v, f.currency.Code+" ")
}

// Compact renders v in short notation with at most one decimal: ₹10Cr, $1.5M.
func (f Formatter) Compact(v float64) string {
	d := decimal.NewFromFloat(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	units := f.units()
	i := len(units)
	for j, u := range units {
		if d.GreaterThanOrEqual(u.size) {
			i = j
			break
		}
	}

	// Rounding can carry into the next unit: 99,960 is ₹1L, not ₹100K.
	for {
		size, suffix := decimal.NewFromInt(1), ""
		if i < len(units) {
			size, suffix = units[i].size, units[i].suffix
		}
		r := d.Div(size).Round(1)
		if i > 0 && r.Mul(size).GreaterThanOrEqual(units[i-1].size) {
			i--
			continue
		}
		return sign + f.currency.Symbol + r.String() + suffix
	}
}

// Percentage renders v with two decimals: 3.33%.
func (f Formatter) Percentage(v float64) string {
	return Percentage(v)
}

// Number renders v rounded to a whole number and grouped for the currency's locale.
func (f Formatter) Number(v float64) string {
	d := decimal.NewFromFloat(v).Round(0)
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + group(d.Abs().String(), f.currency.Grouping)
}

// Percentage renders v with two decimals: 3.33%.
func Percentage(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

func (f Formatter) money(v float64, prefix string) string {
	d := decimal.NewFromFloat(v).Round(0)
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + prefix + group(d.Abs().String(), f.currency.Grouping)
}

type unit struct {
	size   decimal.Decimal
	suffix string
}

var (
	indianUnits = []unit{
		{decimal.New(1, 7), "Cr"},
		{decimal.New(1, 5), "L"},
		{decimal.New(1, 3), "K"},
	}
	westernUnits = []unit{
		{decimal.New(1, 12), "T"},
		{decimal.New(1, 9), "B"},
		{decimal.New(1, 6), "M"},
		{decimal.New(1, 3), "K"},
	}
)

func (f Formatter) units() []unit {
	if f.currency.Grouping == GroupIndian {
		return indianUnits
	}
	return westernUnits
}

// group inserts commas into a string of digits.
func group(digits string, g Grouping) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	size := 3
	if g == GroupIndian {
		size = 2
	}

	var parts []string
	for len(head) > size {
		parts = append([]string{head[len(head)-size:]}, parts...)
		head = head[:len(head)-size]
	}
	parts = append([]string{head}, parts...)
	return strings.Join(append(parts, tail), ",")
}
