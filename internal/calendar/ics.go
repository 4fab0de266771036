package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/apromaxeng/meetings-api/internal/domain"
)

// ICSFeed reads busy intervals from a published iCalendar URL. Useful when
// the team shares their calendar as a secret ICS link instead of running
// the JSON feed proxy.
type ICSFeed struct {
	url    string
	client *http.Client
}

func NewICSFeed(url string, client *http.Client) *ICSFeed {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ICSFeed{url: url, client: client}
}

func (f *ICSFeed) BusyIntervals(ctx context.Context, from, to time.Time) ([]domain.BusyInterval, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build ics request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ics: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch ics: unexpected status %d", resp.StatusCode)
	}
	return parseICSBusy(resp.Body, from, to)
}

func parseICSBusy(r io.Reader, from, to time.Time) ([]domain.BusyInterval, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse ics: %w", err)
	}

	var intervals []domain.BusyInterval
	for _, ev := range cal.Events() {
		// Transparent events do not block availability.
		if p := ev.GetProperty(ics.ComponentPropertyTransp); p != nil && strings.EqualFold(p.Value, "TRANSPARENT") {
			continue
		}
		start, err := ev.GetStartAt()
		if err != nil {
			continue
		}
		end, err := ev.GetEndAt()
		if err != nil {
			// Events without DTEND block their start instant only.
			end = start
		}
		intervals = append(intervals, domain.BusyInterval{Start: start, End: end})
	}
	return clampToWindow(intervals, from, to), nil
}
