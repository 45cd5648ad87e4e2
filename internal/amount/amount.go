// Package amount converts raw spreadsheet cells into signed decimal amounts.
package amount

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is the sentinel wrapped by every parse failure.
var ErrInvalidAmount = errors.New("invalid amount")

const (
	reasonRequired = "Amount is required"
	reasonFormat   = "Invalid number format"
	reasonPercent  = "Percentage not allowed"
)

// Error describes why a cell could not be parsed.
type Error struct {
	Value  string
	Reason string
}

func (e *Error) Error() string {
	if e.Value == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %q", e.Reason, e.Value)
}

func (e *Error) Unwrap() error { return ErrInvalidAmount }

// numericRegex matches what remains after symbols and separators are stripped.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var hundred = decimal.NewFromInt(100)

// Parse converts a cell into an amount. Accounting negatives "(1,234.50)",
// currency symbols ($ £ € ¥), thousands separators and whitespace are
// accepted. Percentages are rejected; use ParsePercent where a fraction is
// meaningful.
func Parse(raw any) (decimal.Decimal, error) {
	return parse(raw, false)
}

// ParsePercent is Parse with "12.5%" converted to 0.125.
func ParsePercent(raw any) (decimal.Decimal, error) {
	return parse(raw, true)
}

// IsBlank reports whether a cell carries no value at all.
func IsBlank(raw any) bool {
	if raw == nil {
		return true
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func parse(raw any, allowPercent bool) (decimal.Decimal, error) {
	if IsBlank(raw) {
		return decimal.Zero, &Error{Reason: reasonRequired}
	}

	if d, ok, err := fromNumber(raw); ok {
		return d, err
	}

	original := strings.TrimSpace(fmt.Sprint(raw))
	s := original

	if len(s) >= 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.NewReplacer("(", "", ")", "").Replace(s)
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case r == '$', r == '£', r == '€', r == '¥', r == ',':
			return -1
		case unicode.IsSpace(r):
			return -1
		}
		return r
	}, s)

	percent := strings.HasSuffix(s, "%")
	if percent {
		if !allowPercent {
			return decimal.Zero, &Error{Value: original, Reason: reasonPercent}
		}
		s = strings.TrimSuffix(s, "%")
	}

	if !numericRegex.MatchString(s) {
		return decimal.Zero, &Error{Value: original, Reason: reasonFormat}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &Error{Value: original, Reason: reasonFormat}
	}
	if percent {
		d = d.Div(hundred)
	}
	return d, nil
}

// fromNumber handles cells that already hold a numeric value.
func fromNumber(raw any) (decimal.Decimal, bool, error) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v, true, nil
	case float64:
		return fromFloat(v)
	case float32:
		return fromFloat(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), true, nil
	case int32:
		return decimal.NewFromInt32(v), true, nil
	case int64:
		return decimal.NewFromInt(v), true, nil
	case uint32:
		return decimal.NewFromInt(int64(v)), true, nil
	}
	return decimal.Zero, false, nil
}

func fromFloat(f float64) (decimal.Decimal, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, true, &Error{Value: fmt.Sprint(f), Reason: reasonFormat}
	}
	return decimal.NewFromFloat(f), true, nil
}
