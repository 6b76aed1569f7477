// README: Common money value object used across modules.
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency every rate table is quoted in.
const DefaultCurrency = "INR"

type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func NewMoney(amount decimal.Decimal) Money {
	return Money{Amount: amount, Currency: DefaultCurrency}
}

// String renders the amount with two decimals, e.g. "Rs. 1,234.50".
func (m Money) String() string {
	return fmt.Sprintf("Rs. %s", GroupThousands(m.Amount.StringFixed(2)))
}

// GroupThousands inserts comma separators into the integer part of a fixed-point string.
func GroupThousands(fixed string) string {
	sign := ""
	if len(fixed) > 0 && fixed[0] == '-' {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac := fixed, ""
	for i := 0; i < len(fixed); i++ {
		if fixed[i] == '.' {
			intPart, frac = fixed[:i], fixed[i:]
			break
		}
	}
	out := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, intPart[i])
	}
	return sign + string(out) + frac
}
