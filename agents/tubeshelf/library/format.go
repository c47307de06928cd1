package library

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?T?(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// DurationSeconds parses an ISO 8601 duration such as PT1H2M3S. Unparseable
// values yield 0.
func DurationSeconds(duration string) int {
	m := isoDurationPattern.FindStringSubmatch(duration)
	if m == nil {
		return 0
	}

	total := 0
	for i, unit := range []int{86400, 3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		if n, err := strconv.Atoi(m[i+1]); err == nil {
			total += n * unit
		}
	}
	return total
}

// FormatDuration renders an ISO 8601 duration as H:MM:SS, or MM:SS under an
// hour. Empty or unparseable input renders as "".
func FormatDuration(duration string) string {
	if !isoDurationPattern.MatchString(duration) || duration == "P" || duration == "PT" {
		return ""
	}
	total := DurationSeconds(duration)
	h, m, s := total/3600, total%3600/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatAge describes how long ago published was, relative to now.
func FormatAge(published, now time.Time) string {
	if published.IsZero() {
		return ""
	}
	days := int(now.Sub(published).Hours() / 24)
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return plural(days/7, "week")
	case days < 365:
		return plural(days/30, "month")
	default:
		return plural(days/365, "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
