package extract

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errEmptyAmount = errors.New("empty amount string")

// parseAmount normalizes a raw OCR numeric string into a decimal value.
//
// The source ERP mixes separator conventions freely: "12,000.00",
// "12.000,00", "12.000.000" and "12000.000" all denote 12000.00. The rules,
// in order:
//
//   - Both separators present: whichever occurs later is the decimal
//     separator, the other is a thousands separator and is stripped.
//   - Only commas, final group of exactly 3 digits: the ERP's three-decimal
//     display ("500,000" means 500.000), so the last comma is the decimal
//     separator. Any other comma grouping is thousands separators.
//   - Only periods, more than one: multi-period thousands notation; strip
//     them all and reinsert one before the last three digits.
//   - Single period with a trailing "000" decimal group: the ERP's
//     three-decimal display of a whole-dollar amount; drop the final digit.
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimRight(s, ",.")
	if s == "" {
		return decimal.Zero, errEmptyAmount
	}

	hasComma := strings.Contains(s, ",")
	hasPeriod := strings.Contains(s, ".")

	switch {
	case hasComma && hasPeriod:
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}

	case hasComma:
		groups := strings.Split(s, ",")
		if len(groups[len(groups)-1]) == 3 {
			last := strings.LastIndex(s, ",")
			s = strings.ReplaceAll(s[:last], ",", "") + "." + s[last+1:]
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}

	case hasPeriod && strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
		if len(s) > 3 {
			s = s[:len(s)-3] + "." + s[len(s)-3:]
		}

	case hasPeriod:
		if i := strings.LastIndex(s, "."); strings.HasSuffix(s, "000") && len(s)-i-1 == 3 {
			s = s[:len(s)-1]
		}
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return value, nil
}
