package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"PairWatch/internal/interpret"
	"PairWatch/internal/model"
)

// ComparedPlaces is the fixed precision of the compared (second) instrument's
// price, which is usually a small token.
const ComparedPlaces int32 = 4

// FormatCurrency renders a price in dollars with thousands separators. Prices
// under one dollar keep four decimals so small tokens stay readable.
func FormatCurrency(v float64) string {
	places := int32(2)
	if math.Abs(v) < 1 {
		places = ComparedPlaces
	}
	return FormatPrice(v, places)
}

// FormatPrice renders a price in dollars with a fixed number of decimals.
func FormatPrice(v float64, places int32) string {
	d := decimal.NewFromFloat(v).Round(places)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.IntPart()
	frac := d.Sub(decimal.NewFromInt(whole)).StringFixed(places) // "0.xx"
	return sign + "$" + humanize.Comma(whole) + frac[1:]
}

// FormatCoefficient renders a correlation coefficient with three decimals.
func FormatCoefficient(r float64) string {
	return fmt.Sprintf("%.3f", r)
}

// FormatReport formats a pair report into a Telegram message.
func FormatReport(rep *model.PairReport) string {
	var b strings.Builder
	in := interpret.Explain(rep.Pair, rep.Summary)

	b.WriteString(fmt.Sprintf("📊 <b>%s vs %s</b> | %s\n\n",
		html.EscapeString(rep.Pair.A), html.EscapeString(rep.Pair.B), rep.GeneratedAt.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("%s last: %s\n", html.EscapeString(rep.Pair.A), FormatCurrency(rep.LastA)))
	b.WriteString(fmt.Sprintf("%s last: %s\n", html.EscapeString(rep.Pair.B), FormatPrice(rep.LastB, ComparedPlaces)))
	b.WriteString(fmt.Sprintf("Correlation (%dd): <b>%s</b> %s\n\n",
		rep.Window.Days(), FormatCoefficient(rep.Summary.Coefficient), relationArrow(rep.Summary.Relationship)))
	b.WriteString(html.EscapeString(in.Headline))
	return b.String()
}

// FormatFlip formats the alert sent when the relationship changes sign.
func FormatFlip(prev model.Relationship, rep *model.PairReport) string {
	return fmt.Sprintf("🔁 <b>Relationship changed</b>: %s → %s\n\n%s",
		prev.Describe(), rep.Summary.Relationship.Describe(), FormatReport(rep))
}

func relationArrow(r model.Relationship) string {
	switch r {
	case model.CoMoving:
		return "move together 🔼"
	case model.Inverse:
		return "move opposite 🔽"
	default:
		return "no relationship ⏺"
	}
}
