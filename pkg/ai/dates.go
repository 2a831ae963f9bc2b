package ai

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var clockRe = regexp.MustCompile(`(\d{1,2})\s*(am|pm)`)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// NormalizeDate resolves the date strings the model actually produces:
// ISO timestamps pass through, common relative phrases ("tomorrow 5pm",
// "next week", weekday names) are resolved against now. Returns nil when
// nothing parseable is found.
func NormalizeDate(s string, now time.Time) *time.Time {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "" {
		return nil
	}

	switch {
	case strings.Contains(lower, "tomorrow"):
		t := atHour(now.AddDate(0, 0, 1), lower)
		return &t
	case strings.Contains(lower, "today"):
		t := atHour(now, lower)
		return &t
	case strings.Contains(lower, "next week"):
		t := atHour(now.AddDate(0, 0, 7), lower)
		return &t
	}

	for name, day := range weekdays {
		if !strings.Contains(lower, name) {
			continue
		}
		daysUntil := int(day - now.Weekday())
		if daysUntil <= 0 {
			daysUntil += 7
		}
		t := atHour(now.AddDate(0, 0, daysUntil), lower)
		return &t
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// atHour applies an "N am/pm" clock mention from the phrase, defaulting to
// 2 PM when none is present.
func atHour(day time.Time, phrase string) time.Time {
	hour := 14
	if m := clockRe.FindStringSubmatch(phrase); m != nil {
		h, _ := strconv.Atoi(m[1])
		switch {
		case m[2] == "pm" && h != 12:
			h += 12
		case m[2] == "am" && h == 12:
			h = 0
		}
		if h >= 0 && h < 24 {
			hour = h
		}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}
