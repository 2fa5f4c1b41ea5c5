package closure

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kind classifies why a date is closed.
type Kind string

const (
	KindPublicHoliday Kind = "public holiday"
	KindVacation      Kind = "vacation"
)

// Closure is the resolution result for a single closed date.
type Closure struct {
	Kind Kind
	Name string
}

// Period is an inclusive closed date range within one calendar year.
type Period struct {
	Kind  Kind
	Name  string
	Start time.Time
	End   time.Time
}

// Source yields the closure periods of one origin for a calendar year.
type Source interface {
	Periods(ctx context.Context, year int) ([]Period, error)
}

// Resolver answers "is this date closed, and why" by consulting its sources
// through an explicit per-year cache. A year is fetched once per process;
// source failures degrade to an empty contribution for that year, so a dead
// vacation feed never blocks an import. Refresh discards a cached year.
type Resolver struct {
	sources []Source
	loc     *time.Location
	logger  *zap.Logger

	mu    sync.RWMutex
	years map[int][]Period
}

// NewResolver creates a resolver. Sources are consulted in order; the first
// matching period wins, so the holiday source should come first.
func NewResolver(loc *time.Location, logger *zap.Logger, sources ...Source) *Resolver {
	return &Resolver{
		sources: sources,
		loc:     loc,
		logger:  logger,
		years:   make(map[int][]Period),
	}
}

// Resolve returns the closure covering a date, or nil when the institution
// is open. January and February dates also consult the previous year, since
// Christmas and winter vacation ranges are published under their start year.
func (r *Resolver) Resolve(ctx context.Context, date time.Time) *Closure {
	noon := atNoon(date, r.loc)

	years := []int{date.Year()}
	if date.Month() <= time.February {
		years = append(years, date.Year()-1)
	}

	for _, year := range years {
		for _, p := range r.periodsFor(ctx, year) {
			if p.contains(noon, r.loc) {
				return &Closure{Kind: p.Kind, Name: p.Name}
			}
		}
	}
	return nil
}

// Refresh drops the cached periods of a year so the next Resolve refetches.
func (r *Resolver) Refresh(year int) {
	r.mu.Lock()
	delete(r.years, year)
	r.mu.Unlock()
}

func (r *Resolver) periodsFor(ctx context.Context, year int) []Period {
	r.mu.RLock()
	periods, ok := r.years[year]
	r.mu.RUnlock()
	if ok {
		return periods
	}

	// Populate outside the lock: concurrent populations compute the same
	// value, last write wins.
	var merged []Period
	for _, src := range r.sources {
		p, err := src.Periods(ctx, year)
		if err != nil {
			r.logger.Warn("closure source failed, treating as no closures",
				zap.Int("year", year),
				zap.Error(err),
			)
			continue
		}
		merged = append(merged, p...)
	}
	if merged == nil {
		merged = []Period{}
	}

	r.mu.Lock()
	r.years[year] = merged
	r.mu.Unlock()

	return merged
}

// contains compares at local noon so a period boundary is never missed or
// overshot by a timezone offset.
func (p Period) contains(noon time.Time, loc *time.Location) bool {
	start := atNoon(p.Start, loc)
	end := atNoon(p.End, loc)
	return !noon.Before(start) && !noon.After(end)
}

func atNoon(t time.Time, loc *time.Location) time.Time {
	tl := t.In(loc)
	return time.Date(tl.Year(), tl.Month(), tl.Day(), 12, 0, 0, 0, loc)
}
