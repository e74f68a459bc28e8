// Package oncall decides who holds on-call responsibility at a given
// instant. Every function here is a pure computation over its arguments:
// the reference instant is always passed in, never read from the clock, so
// results are reproducible.
package oncall

import (
	"time"

	"github.com/protomem/oncall/internal/model"
)

// Status is the temporal state of an assignment relative to an instant.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusPast     Status = "past"
)

// Covers reports whether the assignment window contains now. Both bounds
// are inclusive: an assignment covers its own start and end instants.
func Covers(a model.Assignment, now time.Time) bool {
	return !now.Before(a.Start) && !now.After(a.End)
}

// Classify maps an assignment to its temporal status at now. Classification
// is per-assignment and ignores overlap precedence, so several assignments
// may be active at once even though Resolve picks a single one.
func Classify(a model.Assignment, now time.Time) Status {
	switch {
	case now.Before(a.Start):
		return StatusUpcoming
	case now.After(a.End):
		return StatusPast
	default:
		return StatusActive
	}
}

// Resolve picks the assignment that holds responsibility at now, or reports
// false when no window covers the instant. The store permits overlapping
// windows, so precedence is an explicit rule: among covering candidates the
// latest start wins (the most recently begun duty supersedes an earlier one
// still in range); equal starts tie-break on the smallest identifier.
func Resolve(assignments []model.AssignmentWithUser, now time.Time) (model.AssignmentWithUser, bool) {
	var (
		current model.AssignmentWithUser
		found   bool
	)

	for _, a := range assignments {
		if !Covers(a.Assignment, now) {
			continue
		}
		if !found || supersedes(a.Assignment, current.Assignment) {
			current = a
			found = true
		}
	}

	return current, found
}

func supersedes(a, b model.Assignment) bool {
	if a.Start.After(b.Start) {
		return true
	}
	if a.Start.Before(b.Start) {
		return false
	}
	return a.ID < b.ID
}

// DayBounds returns the first and last instants of the calendar day
// containing now in the given location.
func DayBounds(now time.Time, loc *time.Location) (start, end time.Time) {
	local := now.In(loc)
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end = time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
	return start, end
}

// IntersectsDay reports whether the assignment window touches the calendar
// day containing now in the given location.
func IntersectsDay(a model.Assignment, now time.Time, loc *time.Location) bool {
	dayStart, dayEnd := DayBounds(now, loc)
	return !a.Start.After(dayEnd) && !a.End.Before(dayStart)
}

// FilterToday selects the assignments whose windows intersect the calendar
// day containing now, preserving input order.
func FilterToday(assignments []model.AssignmentWithUser, now time.Time, loc *time.Location) []model.AssignmentWithUser {
	filtered := make([]model.AssignmentWithUser, 0, len(assignments))
	for _, a := range assignments {
		if IntersectsDay(a.Assignment, now, loc) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
