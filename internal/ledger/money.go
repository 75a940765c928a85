package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/artyom-lobachev/bankledger/internal/errs"
)

// Money is an exact fixed-point amount with a two-digit scale. Values are
// rounded half-away-from-zero to cents at construction; all arithmetic after
// that is exact.
type Money struct {
	dec decimal.Decimal
}

// Zero is the 0.00 amount.
var Zero = Money{}

// ParseMoney parses a decimal string into Money. Both '.' and ',' are
// accepted as the fractional separator.
func ParseMoney(text string) (Money, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.ErrInvalid
	}
	return Money{dec: d.Round(2)}, nil
}

// MoneyFromMinorUnits builds Money from an integer number of cents.
func MoneyFromMinorUnits(cents int64) Money {
	return Money{dec: decimal.New(cents, -2)}
}

// MinorUnits returns the amount as an integer number of cents.
func (m Money) MinorUnits() int64 {
	return m.dec.Shift(2).IntPart()
}

func (m Money) Add(o Money) Money { return Money{dec: m.dec.Add(o.dec)} }
func (m Money) Sub(o Money) Money { return Money{dec: m.dec.Sub(o.dec)} }

// Cmp returns -1, 0 or 1.
func (m Money) Cmp(o Money) int { return m.dec.Cmp(o.dec) }

func (m Money) IsPositive() bool { return m.dec.IsPositive() }
func (m Money) IsZero() bool     { return m.dec.IsZero() }

// String renders with exactly two fractional digits.
func (m Money) String() string { return m.dec.StringFixed(2) }
