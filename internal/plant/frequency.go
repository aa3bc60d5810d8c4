package plant

import (
	"strconv"
	"strings"
	"unicode"
)

// DefaultFrequencyDays is used by the watering calculator when a template's
// frequency text matches nothing.
const DefaultFrequencyDays = 3

// frequencyKeywords maps frequency vocabulary substrings to an interval in
// days. Templates in the wild carry either English or French wording, so
// both are recognized. Order matters: "biweekly"
// contains "weekly" and "bihebdomadaire" contains "hebdo".
var frequencyKeywords = []struct {
	keyword string
	days    int
}{
	{"biweekly", 3},
	{"bihebdomadaire", 3},
	{"every two weeks", 14},
	{"toutes les 2 semaines", 14},
	{"daily", 1},
	{"quotidien", 1},
	{"journalier", 1},
	{"tous les jours", 1},
	{"weekly", 7},
	{"hebdo", 7},
	{"semaine", 7},
	{"monthly", 30},
	{"mensuel", 30},
}

// ResolveFrequency parses a template's free-text watering frequency into an
// interval in days. It matches the keyword vocabulary first, then falls back
// to the first embedded integer. ok is false when nothing matched; callers
// pick their own default in that case.
func ResolveFrequency(frequency string) (days int, ok bool) {
	normalized := strings.ToLower(strings.TrimSpace(frequency))
	if normalized == "" {
		return 0, false
	}

	for _, entry := range frequencyKeywords {
		if strings.Contains(normalized, entry.keyword) {
			return entry.days, true
		}
	}

	if n, found := firstInteger(normalized); found {
		if n < 1 {
			n = 1
		}
		return n, true
	}

	return 0, false
}

// firstInteger extracts the first run of digits from s.
func firstInteger(s string) (int, bool) {
	start := -1
	for i, r := range s {
		if unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, err := strconv.Atoi(s[start:i])
			return n, err == nil
		}
	}
	if start >= 0 {
		n, err := strconv.Atoi(s[start:])
		return n, err == nil
	}
	return 0, false
}
