package normalize

import (
	"fmt"
	"strings"
	"time"
)

// RelativeTime renders an epoch value as a coarse "time ago" label relative
// to now. Zero input renders as "just now".
func RelativeTime(epoch int64, now time.Time) string {
	if epoch <= 0 {
		return "just now"
	}
	t := EpochToTime(epoch)
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}

	minutes := int(diff.Minutes())
	hours := int(diff.Hours())
	days := int(diff.Hours() / 24)

	switch {
	case minutes < 1:
		return "just now"
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days < 30:
		return fmt.Sprintf("%dd ago", days)
	case days < 365:
		return fmt.Sprintf("%dmo ago", days/30)
	default:
		return fmt.Sprintf("%dy ago", days/365)
	}
}

// FormatCount abbreviates an interaction counter for display: 812, 1.2k,
// 34k, 52w, 3M. String input is cleaned of non-digit characters first.
func FormatCount(raw any) string {
	var n int
	switch v := raw.(type) {
	case string:
		n = SafeParseInt(stripNonDigits(v), 0)
	default:
		n = SafeParseInt(raw, 0)
	}

	switch {
	case n <= 0:
		return "0"
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 10000:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/1000), ".0") + "k"
	case n < 100000:
		return fmt.Sprintf("%dk", (n+500)/1000)
	case n < 1000000:
		return fmt.Sprintf("%dw", (n+5000)/10000)
	default:
		return fmt.Sprintf("%dM", (n+500000)/1000000)
	}
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
