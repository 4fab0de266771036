package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apromaxeng/meetings-api/internal/domain"
)

var (
	twelveHourRe     = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
	twentyFourHourRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// ParseTimeOfDay accepts both 12-hour clock-with-meridiem ("5:30 PM") and
// 24-hour ("17:30") wall-clock strings. 12 AM normalizes to hour 0, 12 PM
// stays 12.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)

	if m := twelveHourRe.FindStringSubmatch(strings.ToUpper(s)); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		if hour < 1 || hour > 12 || minute > 59 {
			return 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidTimeFormat, s)
		}
		switch m[3] {
		case "PM":
			if hour != 12 {
				hour += 12
			}
		case "AM":
			if hour == 12 {
				hour = 0
			}
		}
		return hour, minute, nil
	}

	if m := twentyFourHourRe.FindStringSubmatch(s); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidTimeFormat, s)
		}
		return hour, minute, nil
	}

	return 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidTimeFormat, s)
}

// Normalizer converts between the visitor's timezone and the business
// operating timezone using real IANA zone data, not offset arithmetic.
type Normalizer struct {
	operating *time.Location
}

func NewNormalizer(operatingTZ string) (*Normalizer, error) {
	loc, err := time.LoadLocation(operatingTZ)
	if err != nil {
		return nil, fmt.Errorf("load operating timezone %q: %w", operatingTZ, err)
	}
	return &Normalizer{operating: loc}, nil
}

// ToInstant resolves a (calendar day, wall clock, IANA zone) triple to an
// absolute instant. date is "YYYY-MM-DD" as submitted by the form.
func (n *Normalizer) ToInstant(date, timeOfDay, sourceTZ string) (time.Time, error) {
	hour, minute, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}

	loc, err := time.LoadLocation(sourceTZ)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: unknown timezone %q", domain.ErrInvalidDate, sourceTZ)
	}

	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, date)
	}

	t := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
	// time.Date silently rolls Feb 30 into March; reject anything that moved.
	if t.Year() != day.Year() || t.Month() != day.Month() || t.Day() != day.Day() {
		return time.Time{}, fmt.Errorf("%w: %s %s", domain.ErrInvalidDate, date, timeOfDay)
	}
	return t, nil
}

// Display is the meeting time rendered in the business operating timezone,
// the form it is stored and shown to staff in.
type Display struct {
	Date string // "Monday, March 10, 2025"
	Time string // "11:30 PM"
}

func (n *Normalizer) ToDisplay(t time.Time) Display {
	local := t.In(n.operating)
	return Display{
		Date: local.Format("Monday, January 2, 2006"),
		Time: local.Format("03:04 PM"),
	}
}

// OperatingLocation exposes the business timezone for components that need
// day-boundary math in it.
func (n *Normalizer) OperatingLocation() *time.Location {
	return n.operating
}
