package closure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/config"
)

const vacationFeedMaxSize = 5 * 1024 * 1024 // 5MB

// VacationSource reads the school-vacation calendar of one regional zone
// from an iCalendar feed. The feed URL may contain a {year} placeholder.
type VacationSource struct {
	feedURL string
	zone    string
	loc     *time.Location
	client  *http.Client
}

// NewVacationSource creates the zone vacation source.
func NewVacationSource(cfg *config.ClosureConfig, loc *time.Location) *VacationSource {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &VacationSource{
		feedURL: cfg.FeedURL,
		zone:    cfg.Zone,
		loc:     loc,
		client:  &http.Client{Timeout: timeout},
	}
}

// Periods implements Source. An empty feed URL yields no periods; fetch and
// parse errors are returned to the resolver, which degrades them to "no
// known vacations" for the year.
func (s *VacationSource) Periods(ctx context.Context, year int) ([]Period, error) {
	if s.feedURL == "" {
		return nil, nil
	}

	body, err := s.fetch(ctx, year)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	calendar, err := ics.ParseCalendar(body)
	if err != nil {
		return nil, fmt.Errorf("parse vacation feed: %w", err)
	}

	var periods []Period
	for _, evt := range calendar.Events() {
		p, ok := s.parseEvent(evt)
		if !ok {
			continue
		}
		periods = append(periods, p)
	}
	return periods, nil
}

func (s *VacationSource) fetch(ctx context.Context, year int) (io.ReadCloser, error) {
	u := strings.ReplaceAll(s.feedURL, "{year}", strconv.Itoa(year))
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build vacation feed request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch vacation feed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch vacation feed: HTTP %d", resp.StatusCode)
	}
	// Bound the body so a misbehaving feed cannot exhaust memory.
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, vacationFeedMaxSize),
		Closer: resp.Body,
	}, nil
}

// parseEvent turns one VEVENT into an inclusive vacation range. Events
// naming another zone are skipped; all-day DTEND is exclusive per RFC 5545,
// so one day is trimmed.
func (s *VacationSource) parseEvent(evt *ics.VEvent) (Period, bool) {
	summaryProp := evt.GetProperty(ics.ComponentPropertySummary)
	if summaryProp == nil || strings.TrimSpace(summaryProp.Value) == "" {
		return Period{}, false
	}
	summary := strings.TrimSpace(summaryProp.Value)

	if s.zone != "" {
		lower := strings.ToLower(summary)
		if strings.Contains(lower, "zone") && !strings.Contains(lower, strings.ToLower(s.zone)) {
			return Period{}, false
		}
	}

	start, err := evt.GetAllDayStartAt()
	allDay := err == nil
	if err != nil {
		if start, err = evt.GetStartAt(); err != nil {
			return Period{}, false
		}
	}
	end, err := evt.GetAllDayEndAt()
	if err != nil {
		if end, err = evt.GetEndAt(); err != nil {
			end = start
		}
	}

	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, s.loc)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, s.loc)
	if allDay && endDay.After(startDay) {
		endDay = endDay.AddDate(0, 0, -1)
	}
	if endDay.Before(startDay) {
		endDay = startDay
	}

	return Period{
		Kind:  KindVacation,
		Name:  summary,
		Start: startDay,
		End:   endDay,
	}, true
}
