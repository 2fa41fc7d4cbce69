package watcher

import (
	"log"
	"time"

	"github.com/scmhub/calendar"
)

// MarketCalendar decides whether the market for the watched symbol is open,
// backed by exchange calendars (ISO 10383 MIC codes). When no calendar is
// available it falls back to Mon-Fri 09:30-16:00 New York time.
type MarketCalendar struct {
	cal      *calendar.Calendar
	fallback bool
	loc      *time.Location
}

// NewMarketCalendar loads the calendar for the given MIC code.
func NewMarketCalendar(mic string) *MarketCalendar {
	cal := calendar.GetCalendar(mic)
	if cal == nil {
		cal = calendar.GetCalendar("xnys")
	}
	if cal == nil {
		log.Printf("[WARN] no calendar for MIC %q, using Mon-Fri fallback", mic)
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			loc = time.UTC
		}
		return &MarketCalendar{fallback: true, loc: loc}
	}
	return &MarketCalendar{cal: cal, loc: cal.Loc}
}

// IsOpen reports whether the market is open at the given instant.
func (c *MarketCalendar) IsOpen(t time.Time) bool {
	if c.loc != nil {
		t = t.In(c.loc)
	}
	if c.fallback {
		wd := t.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			return false
		}
		hour, minute := t.Hour(), t.Minute()
		return (hour > 9 || (hour == 9 && minute >= 30)) && hour < 16
	}
	return c.cal.IsOpen(t)
}
