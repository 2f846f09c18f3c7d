// Package streak derives daily login streaks and score multipliers from a
// user's login-event history. It is the single source of truth for streak
// state: controllers and scoring code go through the Engine and never inspect
// login-event rows directly.
package streak

import "time"

// State is the derived streak view for one user. It is computed on demand
// from the event log and never persisted.
type State struct {
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	Multiplier    float64 `json:"multiplier"`
}

// DayOf truncates a timestamp to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// canonicalDay reinterprets a stored day value by its wall-clock date
// components. Database drivers scan DATE columns as midnight in whatever
// zone the connection happens to use; the date digits are the truth and the
// attached location is connection trivia. Converting such a value through
// DayOf would shift it across the date line on any non-UTC connection.
func canonicalDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// distinctDays reduces stored day values to the set of UTC calendar days
// they name. Duplicate same-day values collapse to one entry, so a stray
// double insert upstream cannot inflate any count derived here.
func distinctDays(events []time.Time) map[time.Time]struct{} {
	days := make(map[time.Time]struct{}, len(events))
	for _, ev := range events {
		days[canonicalDay(ev)] = struct{}{}
	}
	return days
}

// currentRun counts consecutive days ending at today, or ending at yesterday
// when today has no event yet (the streak is alive, just not extended).
// When both today and yesterday are absent the run is zero regardless of
// older history.
func currentRun(days map[time.Time]struct{}, today time.Time) int {
	anchor := today
	if _, ok := days[anchor]; !ok {
		anchor = today.AddDate(0, 0, -1)
		if _, ok := days[anchor]; !ok {
			return 0
		}
	}

	run := 0
	for d := anchor; ; d = d.AddDate(0, 0, -1) {
		if _, ok := days[d]; !ok {
			break
		}
		run++
	}
	return run
}

// longestRun finds the longest run of consecutive days anywhere in the set.
func longestRun(days map[time.Time]struct{}) int {
	best := 0
	for d := range days {
		// Only count from the start of a run.
		if _, ok := days[d.AddDate(0, 0, -1)]; ok {
			continue
		}
		run := 1
		for next := d.AddDate(0, 0, 1); ; next = next.AddDate(0, 0, 1) {
			if _, ok := days[next]; !ok {
				break
			}
			run++
		}
		if run > best {
			best = run
		}
	}
	return best
}
