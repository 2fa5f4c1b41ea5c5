package closure

import (
	"context"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/fr"
)

// HolidaySource computes the French national public holidays of a year.
// The weekday following the Ascension holiday (always a Thursday) is closed
// as a vacation bridge day; no other bridge pattern is applied.
type HolidaySource struct {
	loc      *time.Location
	holidays []*cal.Holiday
}

// NewHolidaySource creates the national holiday source.
func NewHolidaySource(loc *time.Location) *HolidaySource {
	return &HolidaySource{
		loc:      loc,
		holidays: fr.Holidays,
	}
}

// Periods implements Source. Holiday calculation is pure, so it never fails.
func (s *HolidaySource) Periods(_ context.Context, year int) ([]Period, error) {
	periods := make([]Period, 0, len(s.holidays)+1)

	for _, h := range s.holidays {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		day := time.Date(actual.Year(), actual.Month(), actual.Day(), 0, 0, 0, 0, s.loc)
		periods = append(periods, Period{
			Kind:  KindPublicHoliday,
			Name:  h.Name,
			Start: day,
			End:   day,
		})

		if strings.Contains(strings.ToLower(h.Name), "ascension") {
			bridge := day.AddDate(0, 0, 1)
			periods = append(periods, Period{
				Kind:  KindVacation,
				Name:  "Pont de l'Ascension",
				Start: bridge,
				End:   bridge,
			})
		}
	}

	return periods, nil
}
