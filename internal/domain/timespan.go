package domain

import (
	"sort"
	"time"
)

// TimeSpan is a half-open [Start, End) interval with optional buffers.
// Buffers are never part of Start/End; use BufferedStart/BufferedEnd.
type TimeSpan struct {
	Start        time.Time
	End          time.Time
	BufferBefore time.Duration
	BufferAfter  time.Duration
	IsReservable bool
}

// Period is the serialisable {begin,end} pair used in error payloads.
type Period struct {
	Begin time.Time `json:"begin"`
	End   time.Time `json:"end"`
}

// NewTimeSpan returns an unbuffered span.
func NewTimeSpan(start, end time.Time) TimeSpan {
	return TimeSpan{Start: start, End: end}
}

// IsValid reports whether Start < End.
func (s TimeSpan) IsValid() bool {
	return s.Start.Before(s.End)
}

func (s TimeSpan) BufferedStart() time.Time {
	return s.Start.Add(-s.BufferBefore)
}

func (s TimeSpan) BufferedEnd() time.Time {
	return s.End.Add(s.BufferAfter)
}

// WithBuffers returns a copy of s carrying the given buffers.
func (s TimeSpan) WithBuffers(before, after time.Duration) TimeSpan {
	s.BufferBefore = before
	s.BufferAfter = after
	return s
}

// WithoutBuffers returns a copy of s with both buffers removed.
func (s TimeSpan) WithoutBuffers() TimeSpan {
	return s.WithBuffers(0, 0)
}

// OverlapsWith reports a conflict between s and other.
//
// The buffer of one span may not cover the body of the other, so both
// directions are tested: s buffered against other unbuffered, and s
// unbuffered against other buffered. Buffers may overlap each other.
// Touching boundaries never overlap.
func (s TimeSpan) OverlapsWith(other TimeSpan) bool {
	if intersects(s.BufferedStart(), s.BufferedEnd(), other.Start, other.End) {
		return true
	}
	return intersects(s.Start, s.End, other.BufferedStart(), other.BufferedEnd())
}

// FullyInsideOf reports whether the unbuffered s lies within the unbuffered other.
func (s TimeSpan) FullyInsideOf(other TimeSpan) bool {
	return !s.Start.Before(other.Start) && !s.End.After(other.End)
}

func (s TimeSpan) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

func (s TimeSpan) DurationMinutes() int {
	return int(s.Duration() / time.Minute)
}

func (s TimeSpan) BufferedDurationMinutes() int {
	return int(s.BufferedEnd().Sub(s.BufferedStart()) / time.Minute)
}

func (s TimeSpan) FrontBufferedDurationMinutes() int {
	return int(s.End.Sub(s.BufferedStart()) / time.Minute)
}

func (s TimeSpan) BackBufferedDurationMinutes() int {
	return int(s.BufferedEnd().Sub(s.Start) / time.Minute)
}

// RoundStartToNextMinute returns a copy with Start rounded up to a whole minute.
func (s TimeSpan) RoundStartToNextMinute() TimeSpan {
	s.Start = CeilToMinute(s.Start)
	return s
}

// Period returns the unbuffered {begin,end} pair.
func (s TimeSpan) Period() Period {
	return Period{Begin: s.Start, End: s.End}
}

// CeilToMinute rounds t up to the next whole minute; whole minutes are kept.
func CeilToMinute(t time.Time) time.Time {
	truncated := t.Truncate(time.Minute)
	if truncated.Equal(t) {
		return t
	}
	return truncated.Add(time.Minute)
}

// Periods converts spans into their {begin,end} pairs.
func Periods(spans []TimeSpan) []Period {
	periods := make([]Period, len(spans))
	for i, span := range spans {
		periods[i] = span.Period()
	}
	return periods
}

// SortSpans sorts spans by start, then end.
func SortSpans(spans []TimeSpan) {
	sort.Slice(spans, func(i, j int) bool {
		if !spans[i].Start.Equal(spans[j].Start) {
			return spans[i].Start.Before(spans[j].Start)
		}
		return spans[i].End.Before(spans[j].End)
	})
}

// SubtractSpans removes every closed span (using its buffered footprint)
// from the given spans. A span may be split into several pieces. Buffers of
// the input spans are carried over to every piece. The result is sorted.
func SubtractSpans(spans []TimeSpan, closed []TimeSpan) []TimeSpan {
	result := make([]TimeSpan, 0, len(spans))
	for _, span := range spans {
		pieces := []TimeSpan{span}
		for _, c := range closed {
			cStart, cEnd := c.BufferedStart(), c.BufferedEnd()
			next := make([]TimeSpan, 0, len(pieces)+1)
			for _, p := range pieces {
				if !intersects(p.Start, p.End, cStart, cEnd) {
					next = append(next, p)
					continue
				}
				if p.Start.Before(cStart) {
					left := p
					left.End = cStart
					next = append(next, left)
				}
				if p.End.After(cEnd) {
					right := p
					right.Start = cEnd
					next = append(next, right)
				}
			}
			pieces = next
		}
		result = append(result, pieces...)
	}
	SortSpans(result)
	return result
}

func intersects(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
