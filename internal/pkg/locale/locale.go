// Package locale holds the pt-BR presentation rules shared by exports, print views and the API.
//
// Exported spreadsheets and on-screen values follow two different numeric policies:
// ExportNumber never groups thousands and always uses a comma decimal point, while
// Currency renders the grouped "R$ 1.234,50" form. Callers pick one explicitly.
package locale

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	isoDate   = "2006-01-02"
	brDate    = "02/01/2006"
	yearMonth = "2006-01"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

var shortMonths = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

var longMonths = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// ExportNumber renders d with a fixed number of decimals, no thousands separator
// and a comma as decimal point ("1234,50").
func ExportNumber(d decimal.Decimal, places int32) string {
	return strings.Replace(d.StringFixed(places), ".", ",", 1)
}

// ExportQuantity is ExportNumber for float quantities (stock, production).
func ExportQuantity(q float64, places int32) string {
	return ExportNumber(decimal.NewFromFloat(q), places)
}

// Currency renders d as Brazilian reais with grouping ("R$ 1.234,50").
func Currency(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return printer.Sprintf("R$ %.2f", f)
}

// ParseAmount reads a user-typed amount. Both "1.234,56" and "1234.56" are
// accepted, as well as an optional "R$" prefix. ok is false for blank or
// unparseable input; callers decide the fallback.
func ParseAmount(s string) (d decimal.Decimal, ok bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, false
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case hasComma:
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Date converts "YYYY-MM-DD" into "DD/MM/YYYY". Values that are not ISO dates
// are returned unchanged.
func Date(iso string) string {
	if len(iso) > len(isoDate) {
		iso = iso[:len(isoDate)]
	}
	t, err := time.Parse(isoDate, iso)
	if err != nil {
		return iso
	}
	return t.Format(brDate)
}

func ShortMonth(m time.Month) string {
	return shortMonths[m-1]
}

func LongMonth(m time.Month) string {
	return longMonths[m-1]
}

// MonthTitle renders "YYYY-MM" as "janeiro de 2025".
func MonthTitle(ym string) string {
	t, err := time.Parse(yearMonth, ym)
	if err != nil {
		return ym
	}
	return LongMonth(t.Month()) + " de " + t.Format("2006")
}
