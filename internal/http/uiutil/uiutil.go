// Package uiutil formats values for the server-rendered recipe pages.
package uiutil

import (
	"strconv"
	"strings"
	"time"
)

const FriendlyDateTimeLayout = "Jan 2, 2006 3:04 PM"

// FriendlyRelativeTime describes how long ago t occurred in the coarsest
// sensible unit, the way the recipe cards label their saved dates. Anything
// under a minute, including clock-skewed future times, reads as "just now";
// anything older than a week falls back to the full date.
func FriendlyRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return agoCount(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return agoCount(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return agoCount(int(diff.Hours()/24), "day")
	default:
		return FormatFriendlyDateTime(t)
	}
}

func agoCount(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return strconv.Itoa(n) + " " + unit + "s ago"
}

// FormatFriendlyDateTime renders t in the local timezone using the shared
// layout. Zero times render as empty so optional timestamps stay blank.
func FormatFriendlyDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(FriendlyDateTimeLayout)
}

// TruncateWithEllipsis shortens text to limit runes, trimming trailing
// whitespace before appending the ellipsis.
func TruncateWithEllipsis(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
