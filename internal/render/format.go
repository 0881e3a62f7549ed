package render

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	notAvailable = "N/A"
	dateLayout   = "Jan 2, 2006"
)

var printer = message.NewPrinter(language.English)

func number(n int64) string {
	return printer.Sprintf("%d", n)
}

func percent(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

func fixed2(v float64) string {
	return printer.Sprintf("%.2f", v)
}

func money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	if f < 0 {
		return printer.Sprintf("-$%.2f", -f)
	}

	return printer.Sprintf("$%.2f", f)
}

func moneyPtr(d *decimal.Decimal) string {
	if d == nil {
		return notAvailable
	}

	return money(*d)
}

// known returns formatted, or N/A when the stored summary had no value.
func known(has bool, formatted string) string {
	if !has {
		return notAvailable
	}

	return formatted
}

func date(t time.Time) string {
	if t.IsZero() {
		return notAvailable
	}

	return t.Format(dateLayout)
}

func datePtr(t *time.Time) string {
	if t == nil {
		return notAvailable
	}

	return date(*t)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}

	return s
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	s = nonSlug.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")

	if s == "" {
		return "project"
	}

	return s
}
