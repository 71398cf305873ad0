package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var frPrinter = message.NewPrinter(language.French)

// formatXOF renders an amount the way the association prints it, e.g.
// "1 500 000 F CFA". The integer part is grouped by the French printer; the
// decimal value itself is never converted to a float.
func formatXOF(d decimal.Decimal) string {
	rounded := d.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	whole := rounded.IntPart()
	out := sign + frPrinter.Sprintf("%d", whole)
	if cents := rounded.Sub(decimal.NewFromInt(whole)).Shift(2).IntPart(); cents != 0 {
		out += fmt.Sprintf(",%02d", cents)
	}
	return out + " F CFA"
}

// frenchDate turns YYYY-MM-DD into dd/MM/yyyy; unparseable input is returned as is.
func frenchDate(s string) string {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}
