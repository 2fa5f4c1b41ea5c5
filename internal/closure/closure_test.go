package closure

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func parisLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

// ── fakes ──

type fakeSource struct {
	periods map[int][]Period
	err     error
	calls   int
}

func (f *fakeSource) Periods(_ context.Context, year int) ([]Period, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.periods[year], nil
}

func day(loc *time.Location, y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ── national holidays ──

func TestHolidaySource_LabourDay(t *testing.T) {
	loc := parisLocation(t)
	r := NewResolver(loc, zap.NewNop(), NewHolidaySource(loc))

	c := r.Resolve(context.Background(), day(loc, 2024, time.May, 1))
	if c == nil {
		t.Fatal("2024-05-01 should resolve to a closure")
	}
	if c.Kind != KindPublicHoliday {
		t.Errorf("Kind = %q, want %q", c.Kind, KindPublicHoliday)
	}
}

func TestHolidaySource_AscensionBridgeDay(t *testing.T) {
	loc := parisLocation(t)
	r := NewResolver(loc, zap.NewNop(), NewHolidaySource(loc))
	ctx := context.Background()

	// Ascension 2024 falls on Thursday May 9.
	if c := r.Resolve(ctx, day(loc, 2024, time.May, 9)); c == nil || c.Kind != KindPublicHoliday {
		t.Errorf("2024-05-09 = %+v, want a public holiday", c)
	}
	// The Friday after is a vacation bridge day.
	if c := r.Resolve(ctx, day(loc, 2024, time.May, 10)); c == nil || c.Kind != KindVacation {
		t.Errorf("2024-05-10 = %+v, want a vacation bridge day", c)
	}
	// The following Monday is a normal working day.
	if c := r.Resolve(ctx, day(loc, 2024, time.May, 13)); c != nil {
		t.Errorf("2024-05-13 = %+v, want open", c)
	}
}

// ── resolver behavior ──

func TestResolver_VacationRangeInclusive(t *testing.T) {
	loc := parisLocation(t)
	src := &fakeSource{periods: map[int][]Period{
		2024: {{
			Kind:  KindVacation,
			Name:  "Vacances de la Toussaint - Zone B",
			Start: day(loc, 2024, time.October, 19),
			End:   day(loc, 2024, time.November, 3),
		}},
	}}
	r := NewResolver(loc, zap.NewNop(), src)
	ctx := context.Background()

	for _, d := range []time.Time{
		day(loc, 2024, time.October, 19), // first day
		day(loc, 2024, time.October, 28),
		day(loc, 2024, time.November, 3), // last day, inclusive
	} {
		if c := r.Resolve(ctx, d); c == nil || c.Kind != KindVacation {
			t.Errorf("%s = %+v, want vacation", d.Format("2006-01-02"), c)
		}
	}
	if c := r.Resolve(ctx, day(loc, 2024, time.November, 4)); c != nil {
		t.Errorf("2024-11-04 = %+v, want open", c)
	}
}

func TestResolver_SourceFailureDegrades(t *testing.T) {
	loc := parisLocation(t)
	holidays := &fakeSource{periods: map[int][]Period{
		2024: {{Kind: KindPublicHoliday, Name: "Noël", Start: day(loc, 2024, time.December, 25), End: day(loc, 2024, time.December, 25)}},
	}}
	broken := &fakeSource{err: errors.New("feed unreachable")}
	r := NewResolver(loc, zap.NewNop(), holidays, broken)
	ctx := context.Background()

	// Holidays still resolve even when the vacation source is down.
	if c := r.Resolve(ctx, day(loc, 2024, time.December, 25)); c == nil || c.Kind != KindPublicHoliday {
		t.Errorf("2024-12-25 = %+v, want public holiday", c)
	}
	if c := r.Resolve(ctx, day(loc, 2024, time.December, 26)); c != nil {
		t.Errorf("2024-12-26 = %+v, want open (degraded)", c)
	}
}

func TestResolver_YearFetchedOnce(t *testing.T) {
	loc := parisLocation(t)
	src := &fakeSource{periods: map[int][]Period{}}
	r := NewResolver(loc, zap.NewNop(), src)
	ctx := context.Background()

	r.Resolve(ctx, day(loc, 2024, time.June, 3))
	r.Resolve(ctx, day(loc, 2024, time.June, 4))
	r.Resolve(ctx, day(loc, 2024, time.June, 5))

	if src.calls != 1 {
		t.Errorf("source called %d times for one year, want 1", src.calls)
	}

	r.Refresh(2024)
	r.Resolve(ctx, day(loc, 2024, time.June, 6))
	if src.calls != 2 {
		t.Errorf("source called %d times after Refresh, want 2", src.calls)
	}
}

func TestResolver_JanuaryConsultsPreviousYear(t *testing.T) {
	loc := parisLocation(t)
	src := &fakeSource{periods: map[int][]Period{
		2024: {{
			Kind:  KindVacation,
			Name:  "Vacances de Noël - Zone B",
			Start: day(loc, 2024, time.December, 21),
			End:   day(loc, 2025, time.January, 5),
		}},
	}}
	r := NewResolver(loc, zap.NewNop(), src)

	if c := r.Resolve(context.Background(), day(loc, 2025, time.January, 3)); c == nil || c.Kind != KindVacation {
		t.Errorf("2025-01-03 = %+v, want vacation carried over from 2024", c)
	}
}
