package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-03-03 is a Monday.
var monday = time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return time.Date(2025, time.March, 3, hour, min, 0, 0, time.UTC)
}

func mondayNineToFive() []Rule {
	return []Rule{{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"}}
}

func TestCompute_FullDayNoBookings(t *testing.T) {
	got, err := Compute(Request{
		Date:            monday,
		Rules:           mondayNineToFive(),
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	require.Len(t, got, 16)
	assert.Equal(t, at(9, 0), got[0])
	assert.Equal(t, at(16, 30), got[15])
}

func TestCompute_ExcludesBookedSlot(t *testing.T) {
	got, err := Compute(Request{
		Date:            monday,
		Rules:           mondayNineToFive(),
		Booked:          []Interval{{Start: at(10, 0), End: at(10, 30)}},
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	require.Len(t, got, 15)
	for _, s := range got {
		assert.False(t, s.Equal(at(10, 0)), "booked 10:00 slot must not be emitted")
	}
}

func TestCompute_BookingStraddlesAllCandidates(t *testing.T) {
	// 09:15-09:45 overlaps both the 09:00-09:30 and 09:30-10:00 candidates.
	got, err := Compute(Request{
		Date:            monday,
		Rules:           []Rule{{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}},
		Booked:          []Interval{{Start: at(9, 15), End: at(9, 45)}},
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCompute_NoRuleForWeekday(t *testing.T) {
	tuesday := monday.Add(24 * time.Hour)
	got, err := Compute(Request{
		Date:            tuesday,
		Rules:           mondayNineToFive(),
		Booked:          []Interval{{Start: at(10, 0), End: at(10, 30)}},
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCompute_WindowShorterThanDuration(t *testing.T) {
	got, err := Compute(Request{
		Date:            monday,
		Rules:           []Rule{{DayOfWeek: 1, StartTime: "09:00", EndTime: "09:20"}},
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCompute_InvalidDuration(t *testing.T) {
	for _, dur := range []int{0, -15} {
		_, err := Compute(Request{
			Date:            monday,
			Rules:           mondayNineToFive(),
			DurationMinutes: dur,
		})
		assert.Error(t, err, "duration %d must be rejected", dur)
	}
}

func TestCompute_ExactFitEmitsOneSlot(t *testing.T) {
	got, err := Compute(Request{
		Date:            monday,
		Rules:           []Rule{{DayOfWeek: 1, StartTime: "09:00", EndTime: "09:30"}},
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, at(9, 0), got[0])
}

func TestCompute_MalformedRuleTime(t *testing.T) {
	for _, rule := range []Rule{
		{DayOfWeek: 1, StartTime: "9am", EndTime: "17:00"},
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "5pm"},
		{DayOfWeek: 1, StartTime: "9", EndTime: "17:00"},
	} {
		_, err := Compute(Request{
			Date:            monday,
			Rules:           []Rule{rule},
			DurationMinutes: 30,
		})
		assert.Error(t, err, "rule %+v must be rejected", rule)
	}
}

func TestCompute_InvalidTimezone(t *testing.T) {
	_, err := Compute(Request{
		Date:            monday,
		Rules:           mondayNineToFive(),
		DurationMinutes: 30,
		Timezone:        "Mars/Olympus_Mons",
	})
	assert.Error(t, err)
}

func TestCompute_TimezoneWallClock(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got, err := Compute(Request{
		Date:            monday,
		Rules:           []Rule{{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}},
		DurationMinutes: 60,
		Timezone:        "America/New_York",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	// 09:00 wall clock in New York, one concrete absolute instant.
	want := time.Date(2025, time.March, 3, 9, 0, 0, 0, loc)
	assert.True(t, got[0].Equal(want), "got %v, want %v", got[0], want)
}

func TestCompute_BookingContainedInSlot(t *testing.T) {
	// A short booking inside a longer candidate still blocks it.
	got, err := Compute(Request{
		Date:            monday,
		Rules:           []Rule{{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}},
		Booked:          []Interval{{Start: at(9, 15), End: at(9, 30)}},
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCompute_TouchingBookingDoesNotConflict(t *testing.T) {
	got, err := Compute(Request{
		Date:            monday,
		Rules:           []Rule{{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}},
		Booked:          []Interval{{Start: at(8, 0), End: at(9, 0)}, {Start: at(10, 0), End: at(11, 0)}},
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Len(t, got, 2, "bookings ending at slot start or starting at slot end are not conflicts")
}

func TestCompute_FirstMatchingRuleWins(t *testing.T) {
	got, err := Compute(Request{
		Date: monday,
		Rules: []Rule{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"},
			{DayOfWeek: 1, StartTime: "13:00", EndTime: "18:00"},
		},
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, at(9, 0), got[0])
}

func TestCompute_Deterministic(t *testing.T) {
	req := Request{
		Date:            monday,
		Rules:           mondayNineToFive(),
		Booked:          []Interval{{Start: at(11, 0), End: at(12, 0)}},
		DurationMinutes: 45,
	}
	first, err := Compute(req)
	require.NoError(t, err)
	second, err := Compute(req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompute_SpringForwardGapSkipped(t *testing.T) {
	// 2025-03-09, America/New_York: clocks jump 02:00 -> 03:00, so the 02:00
	// and 02:30 wall-clock candidates do not exist. They must be dropped, not
	// normalized onto instants already emitted.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	sunday := time.Date(2025, time.March, 9, 0, 0, 0, 0, loc)

	got, err := Compute(Request{
		Date:            sunday,
		Rules:           []Rule{{DayOfWeek: 0, StartTime: "01:00", EndTime: "04:00"}},
		DurationMinutes: 30,
		Timezone:        "America/New_York",
	})
	require.NoError(t, err)
	require.Len(t, got, 4)

	wantClock := []struct{ hour, min int }{{1, 0}, {1, 30}, {3, 0}, {3, 30}}
	for i, s := range got {
		assert.Equal(t, wantClock[i].hour, s.Hour(), "slot %d", i)
		assert.Equal(t, wantClock[i].min, s.Minute(), "slot %d", i)
		if i > 0 {
			assert.True(t, got[i-1].Before(s), "slot %d (%v) not after slot %d (%v)", i, s, i-1, got[i-1])
		}
	}
}

func TestValidateRule(t *testing.T) {
	cases := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{"valid", Rule{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"}, false},
		{"day too large", Rule{DayOfWeek: 7, StartTime: "09:00", EndTime: "17:00"}, true},
		{"day negative", Rule{DayOfWeek: -1, StartTime: "09:00", EndTime: "17:00"}, true},
		{"bad start", Rule{DayOfWeek: 1, StartTime: "nine", EndTime: "17:00"}, true},
		{"bad end", Rule{DayOfWeek: 1, StartTime: "09:00", EndTime: ""}, true},
		{"empty window", Rule{DayOfWeek: 1, StartTime: "09:00", EndTime: "09:00"}, true},
		{"inverted window", Rule{DayOfWeek: 1, StartTime: "17:00", EndTime: "09:00"}, true},
		{"seconds suffix tolerated", Rule{DayOfWeek: 1, StartTime: "09:00:00", EndTime: "17:00:00"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRule(tc.rule)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCompute_SlotsStayInsideWindowAndClearOfBookings(t *testing.T) {
	windowStart := at(9, 0)
	windowEnd := at(17, 0)
	booked := []Interval{
		{Start: at(9, 50), End: at(10, 10)},
		{Start: at(13, 0), End: at(14, 0)},
	}

	for _, dur := range []int{15, 30, 45, 60, 90} {
		got, err := Compute(Request{
			Date:            monday,
			Rules:           mondayNineToFive(),
			Booked:          booked,
			DurationMinutes: dur,
		})
		require.NoError(t, err)

		d := time.Duration(dur) * time.Minute
		for i, s := range got {
			end := s.Add(d)
			assert.False(t, s.Before(windowStart), "dur %d: slot %v starts before window", dur, s)
			assert.False(t, end.After(windowEnd), "dur %d: slot %v ends after window", dur, s)
			for _, b := range booked {
				clear := !end.After(b.Start) || !s.Before(b.End)
				assert.True(t, clear, "dur %d: slot %v overlaps booking %v", dur, s, b)
			}
			if i > 0 {
				assert.True(t, got[i-1].Before(s), "dur %d: slots must be strictly increasing", dur)
			}
		}
	}
}
