package models

import (
	"errors"
	"time"
)

var (
	ErrIntervalNoStart  = errors.New("interval start is required")
	ErrIntervalInverted = errors.New("interval end must be after start")
)

// Interval is a time range with a required start and an optional end.
// A nil End means the interval is still open.
type Interval struct {
	Start time.Time
	End   *time.Time
}

// Closed builds [start, end).
func Closed(start, end time.Time) Interval {
	return Interval{Start: start, End: &end}
}

// Open builds [start, +inf).
func Open(start time.Time) Interval {
	return Interval{Start: start}
}

func (i Interval) IsOpen() bool {
	return i.End == nil
}

// Validate checks that start is set and, for a closed interval, start < end.
func (i Interval) Validate() error {
	if i.Start.IsZero() {
		return ErrIntervalNoStart
	}
	if i.End != nil && !i.Start.Before(*i.End) {
		return ErrIntervalInverted
	}
	return nil
}

// Contains reports whether inner lies within i. An open inner only fits in an
// open i.
func (i Interval) Contains(inner Interval) bool {
	if inner.Start.Before(i.Start) {
		return false
	}
	if i.End == nil {
		return true
	}
	if inner.End == nil {
		return false
	}
	return !inner.End.After(*i.End)
}

// Clip truncates i to the closed window [from, to]. An open i is treated as
// ending at to. ok is false when nothing of i remains.
func (i Interval) Clip(from, to time.Time) (start, end time.Time, ok bool) {
	start = i.Start
	if from.After(start) {
		start = from
	}
	end = to
	if i.End != nil && i.End.Before(to) {
		end = *i.End
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// Overlaps reports whether a and b share at least one instant. Comparisons are
// strict, so intervals that only touch at an endpoint do not overlap.
func Overlaps(a, b Interval) bool {
	return before(a.Start, b.End) && before(b.Start, a.End)
}

// before is t < end with a nil end meaning +infinity.
func before(t time.Time, end *time.Time) bool {
	if end == nil {
		return true
	}
	return t.Before(*end)
}

// Span is an interval tagged with the id of the row it came from.
type Span struct {
	ID       uint
	Interval Interval
}

// ExistsOverlap reports whether candidate overlaps any span other than the one
// with id excludeID. Ids start at 1, so excludeID 0 excludes nothing.
func ExistsOverlap(candidate Interval, spans []Span, excludeID uint) bool {
	for _, s := range spans {
		if excludeID != 0 && s.ID == excludeID {
			continue
		}
		if Overlaps(candidate, s.Interval) {
			return true
		}
	}
	return false
}
