// Package calendar provides read-only access to the business calendar.
// The booking service only ever asks "what is busy on this day" — event
// creation is intentionally out of scope, the team manages the calendar
// by hand.
package calendar

import (
	"context"
	"time"

	"github.com/apromaxeng/meetings-api/internal/domain"
)

// Source reads busy intervals from an external calendar. Implementations
// must not cache across calls; availability is recomputed per request.
type Source interface {
	BusyIntervals(ctx context.Context, from, to time.Time) ([]domain.BusyInterval, error)
}

// Empty is a Source with no events, used when no calendar is configured
// and in tests.
type Empty struct{}

func (Empty) BusyIntervals(context.Context, time.Time, time.Time) ([]domain.BusyInterval, error) {
	return nil, nil
}

// clampToWindow filters events to those intersecting [from, to).
func clampToWindow(intervals []domain.BusyInterval, from, to time.Time) []domain.BusyInterval {
	out := make([]domain.BusyInterval, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.End.After(from) || !iv.Start.Before(to) {
			continue
		}
		out = append(out, iv)
	}
	return out
}
