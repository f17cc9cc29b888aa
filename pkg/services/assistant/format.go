package assistant

import (
	"fmt"
	"strconv"
	"strings"
)

// formatMinor renders an amount in minor units, e.g. 123456 USD as "$1,234.56".
func formatMinor(amount int64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	major := groupThousands(strconv.FormatInt(amount/100, 10))
	s := fmt.Sprintf("%s.%02d", major, amount%100)
	if currency == "" || currency == "USD" {
		return sign + "$" + s
	}
	return sign + s + " " + currency
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func percentChange(from, to int64) string {
	if from == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", (float64(to)-float64(from))/float64(from)*100)
}
