package service

import (
	"context"
	"time"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/closure"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/model"
)

// ClosureResolver is the slice of the closure package the expander needs,
// kept as an interface so tests can script closed dates.
type ClosureResolver interface {
	Resolve(ctx context.Context, date time.Time) *closure.Closure
}

// ExpandTemplate projects every template entry across the semester, one
// occurrence per calendar week on the entry's weekday. Closed dates emit a
// single children-less closure entry per (staff, date, label) with
// zero-duration midnight timestamps; open dates emit the activity at the
// slot's wall-clock bounds. All timestamps stay in local wall-clock form.
func ExpandTemplate(ctx context.Context, entries []TemplateEntry, semester *model.Semester, resolver ClosureResolver, loc *time.Location) []model.ScheduleEntry {
	start := dateIn(semester.StartDate, loc)
	end := clampSemesterEnd(start, dateIn(semester.EndDate, loc), loc)

	type closureKey struct {
		staffID string
		date    string
		label   string
	}
	emittedClosures := make(map[closureKey]bool)

	var projected []model.ScheduleEntry
	for i := range entries {
		e := entries[i]
		for date := firstOccurrence(start, e.Weekday); !date.After(end); date = date.AddDate(0, 0, 7) {
			if c := resolver.Resolve(ctx, date); c != nil {
				key := closureKey{e.Staff.StaffID, date.Format("2006-01-02"), string(c.Kind)}
				if emittedClosures[key] {
					continue
				}
				emittedClosures[key] = true
				projected = append(projected, model.ScheduleEntry{
					SemesterID: semester.SemesterID,
					StaffID:    e.Staff.StaffID,
					Weekday:    e.Weekday,
					StartsAt:   date,
					EndsAt:     date,
					Activity:   string(c.Kind),
					Staff:      &entries[i].Staff,
				})
				continue
			}

			span := SlotSpans[e.Slot]
			projected = append(projected, model.ScheduleEntry{
				SemesterID: semester.SemesterID,
				StaffID:    e.Staff.StaffID,
				Weekday:    e.Weekday,
				StartsAt:   date.Add(time.Duration(span.StartHour) * time.Hour),
				EndsAt:     date.Add(time.Duration(span.EndHour) * time.Hour),
				Activity:   e.Activity,
				Children:   append([]model.Child(nil), e.Children...),
				Staff:      &entries[i].Staff,
			})
		}
	}

	return projected
}

// clampSemesterEnd bounds a second-half semester to the institutional
// mid-year cutoff: a semester starting January-June never expands past
// June 30 of its start year.
func clampSemesterEnd(start, end time.Time, loc *time.Location) time.Time {
	if start.Month() <= time.June {
		cutoff := time.Date(start.Year(), time.June, 30, 0, 0, 0, 0, loc)
		if end.After(cutoff) {
			return cutoff
		}
	}
	return end
}

// firstOccurrence returns the first date on or after start that falls on
// the given weekday (1=Monday .. 5=Friday).
func firstOccurrence(start time.Time, weekday int) time.Time {
	current := isoWeekday(start)
	delta := (weekday - current + 7) % 7
	return start.AddDate(0, 0, delta)
}

// isoWeekday numbers Monday 1 .. Sunday 7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// dateIn rebuilds a date at local midnight, dropping whatever zone the
// database driver attached.
func dateIn(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
