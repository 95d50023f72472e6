// Package slots computes bookable start instants for a single calendar day
// from a user's weekly availability rules and already-booked meetings. It is
// a pure computation: no storage, no clock, no I/O.
package slots

import (
	"fmt"
	"time"
)

// Rule is a recurring weekly availability window in the owner's wall clock.
type Rule struct {
	DayOfWeek int    `json:"day_of_week"` // 0 = Sunday
	StartTime string `json:"start_time"`  // HH:MM
	EndTime   string `json:"end_time"`    // HH:MM
}

// Interval is an absolute time range occupied by a confirmed meeting.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Request carries everything Compute needs for one day. Rules is the user's
// full weekly rule set; the first rule matching the date's weekday applies.
type Request struct {
	Date            time.Time
	Rules           []Rule
	Booked          []Interval
	DurationMinutes int
	Timezone        string // IANA name; empty means UTC
}

// Compute returns the ordered bookable start instants on req.Date.
//
// Slots are packed back-to-back from the rule's start time; a slot is emitted
// only if the full duration fits before the rule's end time and it conflicts
// with no booked interval. No rule for the date's weekday is a valid
// "unavailable all day" answer (empty result, nil error). A non-positive
// duration or a malformed rule time is a contract violation and returns an
// error instead.
func Compute(req Request) ([]time.Time, error) {
	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", req.DurationMinutes)
	}

	loc := time.UTC
	if req.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(req.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", req.Timezone, err)
		}
	}

	rule, ok := ruleForWeekday(req.Rules, req.Date.Weekday())
	if !ok {
		return nil, nil
	}

	startMin, err := parseHHMM(rule.StartTime)
	if err != nil {
		return nil, err
	}
	endMin, err := parseHHMM(rule.EndTime)
	if err != nil {
		return nil, err
	}

	// All instants are built once, in loc, and compared as absolute times
	// from here on. Conversion never happens mid-computation.
	year, month, day := req.Date.Date()

	var out []time.Time
	for m := startMin; m <= endMin-req.DurationMinutes; m += req.DurationMinutes {
		start := time.Date(year, month, day, m/60, m%60, 0, 0, loc)
		// A wall-clock time inside a DST spring-forward gap gets normalized
		// by time.Date onto another instant; such candidates would repeat
		// already-emitted starts, so they are skipped.
		if start.Hour()*60+start.Minute() != m {
			continue
		}
		end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)
		if overlapsAny(start, end, req.Booked) {
			continue
		}
		out = append(out, start)
	}
	return out, nil
}

// ValidateRule checks what Compute deliberately does not: that both times
// parse and the window is non-empty. The CRUD layer calls this at write time.
func ValidateRule(r Rule) error {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week must be 0-6, got %d", r.DayOfWeek)
	}
	start, err := parseHHMM(r.StartTime)
	if err != nil {
		return err
	}
	end, err := parseHHMM(r.EndTime)
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("start_time %s must be before end_time %s", r.StartTime, r.EndTime)
	}
	return nil
}

// ruleForWeekday returns the first rule matching wd. Exact match only, no
// fallback to adjacent days; first match wins if duplicates exist.
func ruleForWeekday(rules []Rule, wd time.Weekday) (Rule, bool) {
	for _, r := range rules {
		if r.DayOfWeek == int(wd) {
			return r, true
		}
	}
	return Rule{}, false
}

func overlapsAny(start, end time.Time, booked []Interval) bool {
	for _, b := range booked {
		if overlaps(start, end, b) {
			return true
		}
	}
	return false
}

// overlaps reports whether the candidate slot [start, end) intersects the
// booked interval. All four relationships get their own branch, including a
// booking fully inside a larger slot. Touching endpoints do not conflict.
func overlaps(start, end time.Time, b Interval) bool {
	switch {
	case !b.Start.Before(start) && b.Start.Before(end):
		// booking starts inside the slot
		return true
	case b.End.After(start) && !b.End.After(end):
		// booking ends inside the slot
		return true
	case b.Start.Before(start) && b.End.After(end):
		// booking covers the slot
		return true
	case !b.Start.Before(start) && !b.End.After(end):
		// booking contained in the slot
		return true
	}
	return false
}

// parseHHMM converts a "HH:MM" wall-clock string to minutes since midnight.
// Longer strings ("09:00:00.000000") are truncated to the first five chars.
func parseHHMM(s string) (int, error) {
	if len(s) < 5 {
		return 0, fmt.Errorf("invalid time string: %q", s)
	}
	tt, err := time.Parse("15:04", s[:5])
	if err != nil {
		return 0, fmt.Errorf("invalid time string %q: %w", s, err)
	}
	return tt.Hour()*60 + tt.Minute(), nil
}
