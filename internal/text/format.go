package text

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Placeholder is rendered for unknown values.
const Placeholder = "-"

// Bangkok is the fixed UTC+7 offset dates are shown in; Thailand observes no DST.
var Bangkok = time.FixedZone("ICT", 7*60*60)

var thaiMonths = [12]string{
	"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.",
	"ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค.",
}

// Baht renders an amount as ฿5,000,000, or the placeholder when unknown.
func Baht(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return Placeholder
	}
	return "฿" + GroupDigits(amount.Decimal)
}

// GroupDigits formats d with thousands separators and at most three decimals.
func GroupDigits(d decimal.Decimal) string {
	d = d.Round(3)
	if d.IsInteger() {
		return humanize.Comma(d.IntPart())
	}
	return humanize.Commaf(d.InexactFloat64())
}

// ThaiDate renders t as "5 ม.ค. 67": day, abbreviated Thai month and the two-digit
// Buddhist-era year, in Bangkok time.
func ThaiDate(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	t = t.In(Bangkok)
	return fmt.Sprintf("%d %s %02d", t.Day(), thaiMonths[t.Month()-1], (t.Year()+543)%100)
}
