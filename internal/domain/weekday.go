package domain

import (
	"fmt"
	"sort"
	"time"
)

// Weekday is a day of week where 0 = Monday and 6 = Sunday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayOf returns the Weekday of t.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

func (w Weekday) IsValid() bool {
	return w >= Monday && w <= Sunday
}

// TimeWeekday converts w to the standard library representation.
func (w Weekday) TimeWeekday() time.Weekday {
	return time.Weekday((int(w) + 1) % 7)
}

func (w Weekday) String() string {
	if !w.IsValid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return w.TimeWeekday().String()
}

// NormalizeWeekdays returns a sorted copy of weekdays without duplicates.
func NormalizeWeekdays(weekdays []Weekday) []Weekday {
	seen := make(map[Weekday]struct{}, len(weekdays))
	out := make([]Weekday, 0, len(weekdays))
	for _, w := range weekdays {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
