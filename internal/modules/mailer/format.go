package mailer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// India has no DST, so a fixed zone avoids depending on tzdata.
var ist = time.FixedZone("IST", 5*60*60+30*60)

// FormatINR renders an amount like ₹12,34,567.50 using Indian digit grouping.
func FormatINR(d decimal.Decimal) string {
	d = d.Round(2)
	s := d.Abs().StringFixed(2)
	whole, frac := s[:len(s)-3], s[len(s)-2:]
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "₹" + groupIndian(whole) + "." + frac
}

func groupIndian(s string) string {
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}

// FormatDate renders a long-form Indian date with time, e.g.
// "5 March 2026 at 04:07 pm".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.In(ist).Format("2 January 2006 at 03:04 pm")
}
