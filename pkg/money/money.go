// Package money holds amounts as integer minor units (paise) so that sums
// over many line items never drift.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money is an amount in minor units; 100 minor units make one rupee.
type Money int64

const (
	Scale = 100
	Zero  = Money(0)

	// Symbol prefixes formatted amounts.
	Symbol = "₹"
)

// ErrInvalidAmount is returned by Parse for malformed input.
var ErrInvalidAmount = errors.New("invalid amount")

var printer = message.NewPrinter(language.English)

// FromMajor converts whole rupees.
func FromMajor(units int64) Money { return Money(units * Scale) }

// FromFloat rounds f to the nearest minor unit. Use Parse for user input.
func FromFloat(f float64) Money { return Money(math.Round(f * Scale)) }

// Parse reads a decimal amount such as "125.50", "500" or "-3.2".
// More than two fractional digits is an error.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && (!hasFrac || frac == "") {
		return 0, fmt.Errorf("%w %q", ErrInvalidAmount, s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w %q: more than 2 decimal places", ErrInvalidAmount, s)
	}
	var units int64
	if whole != "" {
		w, err := strconv.ParseUint(whole, 10, 63)
		if err != nil {
			return 0, fmt.Errorf("%w %q", ErrInvalidAmount, s)
		}
		units = int64(w)
	}
	var minor int64
	if frac != "" {
		for len(frac) < 2 {
			frac += "0"
		}
		f, err := strconv.ParseUint(frac, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("%w %q", ErrInvalidAmount, s)
		}
		minor = int64(f)
	}
	if units > math.MaxInt64/Scale-1 {
		return 0, fmt.Errorf("%w %q: out of range", ErrInvalidAmount, s)
	}
	m := Money(units*Scale + minor)
	if neg {
		m = -m
	}
	return m, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Mul multiplies by an integer quantity.
func (m Money) Mul(qty int) Money { return m * Money(qty) }

// IsNegative reports whether m is below zero.
func (m Money) IsNegative() bool { return m < 0 }

// Major returns the amount in rupees. Display only.
func (m Money) Major() float64 { return float64(m) / Scale }

// String renders the plain two-decimal form, e.g. "2530.00".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/Scale, v%Scale)
}

// Format renders the amount for people, e.g. "₹2,530.00".
func (m Money) Format() string {
	return printer.Sprintf("%s%v", Symbol, number.Decimal(m.Major(), number.Scale(2)))
}

// Sum adds amounts.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		var s string
		if err2 := json.Unmarshal(b, &s); err2 != nil {
			return fmt.Errorf("money: %w", err)
		}
		n = json.Number(s)
	}
	v, err := Parse(n.String())
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalText writes the plain decimal form so saved data sets read back
// unchanged.
func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText lets YAML fixtures and flags carry plain decimal amounts.
func (m *Money) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Rate is a percentage in basis points: 10% is 1000.
type Rate int64

// RateFromPercent converts a percentage such as 10 or 12.5.
func RateFromPercent(pct float64) Rate { return Rate(math.Round(pct * 100)) }

// Percent returns the rate as a percentage.
func (r Rate) Percent() float64 { return float64(r) / 100 }

func (r Rate) String() string { return strconv.FormatFloat(r.Percent(), 'f', -1, 64) + "%" }

// Apply returns m*r rounded half away from zero to the nearest minor unit.
func (m Money) Apply(r Rate) Money {
	p := int64(m) * int64(r)
	if p >= 0 {
		return Money((p + 5000) / 10000)
	}
	return Money((p - 5000) / 10000)
}
