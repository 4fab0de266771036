package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/go-querystring/query"

	"github.com/apromaxeng/meetings-api/internal/domain"
)

// FeedClient reads busy intervals from a JSON events feed (a thin proxy in
// front of the Google calendar the team actually uses).
type FeedClient struct {
	http       *resty.Client
	calendarID string
}

type FeedOptions struct {
	BaseURL    string
	Token      string
	CalendarID string
	Timeout    time.Duration
}

func NewFeedClient(opts FeedOptions) *FeedClient {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	c := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if opts.Token != "" {
		c.SetAuthToken(opts.Token)
	}
	calID := opts.CalendarID
	if calID == "" {
		calID = "primary"
	}
	return &FeedClient{http: c, calendarID: calID}
}

// listOptions mirrors the events.list query surface we depend on.
type listOptions struct {
	TimeMin      string `url:"timeMin"`
	TimeMax      string `url:"timeMax"`
	SingleEvents bool   `url:"singleEvents"`
	OrderBy      string `url:"orderBy"`
}

type eventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

type feedEvent struct {
	ID    string    `json:"id"`
	Start eventTime `json:"start"`
	End   eventTime `json:"end"`
}

type listResponse struct {
	Items []feedEvent `json:"items"`
}

func (c *FeedClient) BusyIntervals(ctx context.Context, from, to time.Time) ([]domain.BusyInterval, error) {
	opts := listOptions{
		TimeMin:      from.Format(time.RFC3339),
		TimeMax:      to.Format(time.RFC3339),
		SingleEvents: true,
		OrderBy:      "startTime",
	}
	qs, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("encode list options: %w", err)
	}

	var out listResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(qs).
		SetResult(&out).
		Get(fmt.Sprintf("/calendars/%s/events", c.calendarID))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list events: status %d", resp.StatusCode())
	}

	intervals := make([]domain.BusyInterval, 0, len(out.Items))
	for _, ev := range out.Items {
		start, err := parseEventTime(ev.Start)
		if err != nil {
			return nil, fmt.Errorf("event %s start: %w", ev.ID, err)
		}
		end, err := parseEventTime(ev.End)
		if err != nil {
			return nil, fmt.Errorf("event %s end: %w", ev.ID, err)
		}
		intervals = append(intervals, domain.BusyInterval{Start: start, End: end})
	}
	return clampToWindow(intervals, from, to), nil
}

// parseEventTime handles both timed events (dateTime) and all-day events
// (date only), matching the feed's representation.
func parseEventTime(et eventTime) (time.Time, error) {
	if et.DateTime != "" {
		return time.Parse(time.RFC3339, et.DateTime)
	}
	if et.Date != "" {
		return time.Parse("2006-01-02", et.Date)
	}
	return time.Time{}, fmt.Errorf("event time missing both dateTime and date")
}
