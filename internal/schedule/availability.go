package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/apromaxeng/meetings-api/internal/domain"
)

// SlotLength is the granularity of the booking grid. Meetings may run
// longer, but candidates are offered on half-hour marks.
const SlotLength = 30 * time.Minute

// CandidateSlots is the fixed business-hours grid, 09:00 through 17:30.
// Static configuration; not derived from any external schedule.
var CandidateSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"12:00", "12:30", "13:00", "13:30", "14:00", "14:30",
	"15:00", "15:30", "16:00", "16:30", "17:00", "17:30",
}

// BusySource reads existing calendar entries. Implementations live in
// internal/calendar; the calculator never writes through it.
type BusySource interface {
	BusyIntervals(ctx context.Context, from, to time.Time) ([]domain.BusyInterval, error)
}

// Availability lists open slots for a calendar day against a BusySource.
type Availability struct {
	source BusySource
	loc    *time.Location
}

func NewAvailability(source BusySource, loc *time.Location) *Availability {
	return &Availability{source: source, loc: loc}
}

// ListAvailableSlots returns the candidate slots for date (YYYY-MM-DD) that
// do not overlap any busy interval, in grid order, plus the busy intervals
// themselves for display. A slot is recomputed on every call and nothing is
// reserved by listing it.
func (a *Availability) ListAvailableSlots(ctx context.Context, date string) ([]string, []domain.BusyInterval, error) {
	day, err := time.ParseInLocation("2006-01-02", date, a.loc)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrInvalidDate, date)
	}

	startOfDay := day
	endOfDay := day.Add(24 * time.Hour)

	busy, err := a.source.BusyIntervals(ctx, startOfDay, endOfDay)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrAvailabilityLookup, err)
	}

	available := make([]string, 0, len(CandidateSlots))
	for _, slot := range CandidateSlots {
		hour, minute, err := ParseTimeOfDay(slot)
		if err != nil {
			return nil, nil, err
		}
		slotStart := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, a.loc)
		slotEnd := slotStart.Add(SlotLength)

		if !anyOverlap(busy, slotStart, slotEnd) {
			available = append(available, slot)
		}
	}
	return available, busy, nil
}

func anyOverlap(busy []domain.BusyInterval, start, end time.Time) bool {
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}
