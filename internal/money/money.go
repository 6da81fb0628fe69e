package money

import (
	"errors"
	"fmt"
	"strings"
)

// Cents stores a monetary amount in integer centavos. Arithmetic on Cents is
// exact, which keeps balance aggregation free of floating-point drift.
type Cents int64

// ErrInvalidAmount reports a value that cannot be read as a currency amount.
var ErrInvalidAmount = errors.New("invalid monetary amount")

// ParseDecimal converts a decimal literal such as "50", "50.1" or "50.00"
// into Cents. At most two fraction digits are accepted.
func ParseDecimal(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" {
		return 0, ErrInvalidAmount
	}

	intPart := s
	fracPart := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart = s[:idx]
		fracPart = s[idx+1:]
	}
	if intPart == "" || len(fracPart) > 2 {
		return 0, ErrInvalidAmount
	}

	var total int64
	for _, ch := range intPart {
		if ch < '0' || ch > '9' {
			return 0, ErrInvalidAmount
		}
		total = total*10 + int64(ch-'0')
		if total > 1<<53 {
			return 0, ErrInvalidAmount
		}
	}
	total *= 100

	scale := int64(10)
	for _, ch := range fracPart {
		if ch < '0' || ch > '9' {
			return 0, ErrInvalidAmount
		}
		total += int64(ch-'0') * scale
		scale /= 10
	}

	if negative {
		total = -total
	}
	return Cents(total), nil
}

// UnmarshalJSON reads either a JSON number literal or a quoted decimal
// string. Parsing works on the raw token, never through float64.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	parsed, err := ParseDecimal(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalJSON writes the amount as a plain decimal number with two fraction
// digits, e.g. 30.00.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// String renders the amount as a decimal with two fraction digits.
func (c Cents) String() string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// BRL formats the amount for user-facing messages, e.g. "R$ 30.00".
func (c Cents) BRL() string {
	return "R$ " + c.String()
}

// Sum adds the selected amount of every item exactly.
func Sum[T any](items []T, value func(T) Cents) Cents {
	var total Cents
	for _, item := range items {
		total += value(item)
	}
	return total
}
