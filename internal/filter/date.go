package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	relativeRegex = regexp.MustCompile(`(?i)(\d+)\s*(minute|hour|day|week|month)s?\s+ago`)
)

// IsRecent reports whether a posted date is no older than maxAge.
// It understands ISO dates ("2026-01-27", as in <time datetime>) and
// relative text ("3 days ago"). Anything else counts as recent.
func IsRecent(dateStr string, now time.Time, maxAge time.Duration) bool {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return true
	}

	//case 1: ISO format "2026-01-27" or 2026-01-27T...
	if isoDateRegex.MatchString(dateStr) {
		jobDate, err := time.ParseInLocation("2006-01-02", dateStr[:10], now.Location())
		if err == nil {
			return withinAge(now, jobDate, maxAge)
		}
	}

	//case 2: "2 weeks ago", "Reposted 5 days ago"
	if match := relativeRegex.FindStringSubmatch(dateStr); match != nil {
		n, _ := strconv.Atoi(match[1])
		unit := map[string]time.Duration{
			"minute": time.Minute,
			"hour":   time.Hour,
			"day":    24 * time.Hour,
			"week":   7 * 24 * time.Hour,
			"month":  30 * 24 * time.Hour,
		}[strings.ToLower(match[2])]
		return withinAge(now, now.Add(-time.Duration(n)*unit), maxAge)
	}

	//default
	return true
}

func withinAge(now, jobDate time.Time, maxAge time.Duration) bool {
	diff := now.Sub(jobDate)
	//reject if older than maxAge
	if diff > maxAge {
		return false
	}
	return true
}
