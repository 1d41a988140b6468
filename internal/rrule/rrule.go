package rrule

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// Parse parses an RFC 5545 RRULE string anchored at dtstart.
func Parse(ruleStr string, dtstart time.Time) (*rrule.RRule, error) {
	// Handle RRULE: prefix if present
	ruleStr = strings.TrimPrefix(ruleStr, "RRULE:")

	opt, err := rrule.StrToROption(ruleStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE: %w", err)
	}
	opt.Dtstart = dtstart
	return rrule.NewRRule(*opt)
}

// NextOccurrence returns the first occurrence strictly after the given time,
// or nil when the rule has no further occurrences.
func NextOccurrence(ruleStr string, dtstart time.Time, after time.Time) (*time.Time, error) {
	rule, err := Parse(ruleStr, dtstart)
	if err != nil {
		return nil, err
	}

	// rule.After with inc=false can still return a time equal to 'after'
	// when occurrences land on sub-second boundaries; keep searching.
	current := after
	for i := 0; i < 1000; i++ { // Safety limit
		next := rule.After(current, false)
		if next.IsZero() {
			return nil, nil
		}
		if next.After(after) {
			return &next, nil
		}
		current = next.Add(time.Second)
	}
	return nil, nil
}

// IsRecurring checks if the RRULE string represents a recurring schedule
func IsRecurring(ruleStr string) bool {
	return ruleStr != "" && strings.Contains(strings.ToUpper(ruleStr), "FREQ=")
}

// Describe returns a short human-readable description of the RRULE,
// e.g. "every day", "every 2 weeks on Mon, Fri".
func Describe(ruleStr string) string {
	ruleStr = strings.TrimPrefix(ruleStr, "RRULE:")

	parts := strings.Split(ruleStr, ";")
	info := make(map[string]string)
	for _, p := range parts {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) == 2 {
			info[kv[0]] = kv[1]
		}
	}

	units := map[string]string{
		"HOURLY":  "hour",
		"DAILY":   "day",
		"WEEKLY":  "week",
		"MONTHLY": "month",
		"YEARLY":  "year",
	}
	unit, ok := units[info["FREQ"]]
	if !ok {
		return "once"
	}

	var b strings.Builder
	interval := info["INTERVAL"]
	if interval == "" || interval == "1" {
		fmt.Fprintf(&b, "every %s", unit)
	} else {
		fmt.Fprintf(&b, "every %s %ss", interval, unit)
	}

	if byDay := info["BYDAY"]; byDay != "" {
		dayNames := map[string]string{
			"MO": "Mon", "TU": "Tue", "WE": "Wed", "TH": "Thu",
			"FR": "Fri", "SA": "Sat", "SU": "Sun",
		}
		var days []string
		for _, d := range strings.Split(byDay, ",") {
			if name, ok := dayNames[d]; ok {
				days = append(days, name)
			}
		}
		if len(days) > 0 {
			b.WriteString(" on " + strings.Join(days, ", "))
		}
	}

	if count := info["COUNT"]; count != "" {
		fmt.Fprintf(&b, ", %s times", count)
	}
	if until := info["UNTIL"]; until != "" {
		if t, err := time.Parse("20060102T150405Z", until); err == nil {
			fmt.Fprintf(&b, ", until %s", t.Format("2006-01-02"))
		}
	}

	return b.String()
}
