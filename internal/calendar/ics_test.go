package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func icsFixture(events ...string) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//test//EN",
	}
	lines = append(lines, events...)
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n") + "\r\n"
}

func TestParseICSBusy(t *testing.T) {
	fixture := icsFixture(
		"BEGIN:VEVENT",
		"UID:busy-1",
		"DTSTART:20250310T100000Z",
		"DTEND:20250310T110000Z",
		"SUMMARY:Client call",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:free-1",
		"DTSTART:20250310T120000Z",
		"DTEND:20250310T130000Z",
		"TRANSP:TRANSPARENT",
		"SUMMARY:Reminder",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:other-day",
		"DTSTART:20250315T100000Z",
		"DTEND:20250315T110000Z",
		"END:VEVENT",
	)

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	intervals, err := parseICSBusy(strings.NewReader(fixture), from, to)
	require.NoError(t, err)

	// Transparent events and events outside the window are dropped.
	require.Len(t, intervals, 1)
	assert.Equal(t, time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), intervals[0].Start.UTC())
	assert.Equal(t, time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC), intervals[0].End.UTC())
}

func TestParseICSBusy_Garbage(t *testing.T) {
	_, err := parseICSBusy(strings.NewReader("not a calendar"), time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
}

func TestICSFeed_BusyIntervals(t *testing.T) {
	fixture := icsFixture(
		"BEGIN:VEVENT",
		"UID:busy-1",
		"DTSTART:20250310T140000Z",
		"DTEND:20250310T150000Z",
		"END:VEVENT",
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write([]byte(fixture))
	}))
	defer srv.Close()

	feed := NewICSFeed(srv.URL, nil)

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	intervals, err := feed.BusyIntervals(context.Background(), from, from.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC), intervals[0].Start.UTC())
}

func TestICSFeed_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	feed := NewICSFeed(srv.URL, nil)
	_, err := feed.BusyIntervals(context.Background(), time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
}
