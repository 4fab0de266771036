package domain

import (
	"time"
)

type MeetingStatus string

const (
	MeetingPending   MeetingStatus = "pending"
	MeetingConfirmed MeetingStatus = "confirmed"
	MeetingCancelled MeetingStatus = "cancelled"
)

func ParseMeetingStatus(s string) (MeetingStatus, bool) {
	switch MeetingStatus(s) {
	case MeetingPending, MeetingConfirmed, MeetingCancelled:
		return MeetingStatus(s), true
	default:
		return "", false
	}
}

type MeetingType string

const (
	MeetingConsultation MeetingType = "consultation"
	MeetingTechnical    MeetingType = "technical"
	MeetingFollowUp     MeetingType = "followup"
)

func ParseMeetingType(s string) (MeetingType, bool) {
	switch MeetingType(s) {
	case MeetingConsultation, MeetingTechnical, MeetingFollowUp:
		return MeetingType(s), true
	default:
		return "", false
	}
}

// AllowedDurations are the selectable meeting lengths in minutes.
var AllowedDurations = []int{30, 60, 90}

func IsAllowedDuration(minutes int) bool {
	for _, d := range AllowedDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// BookingRequest is the transient payload of a booking submission. It is
// validated at the boundary and never persisted as-is.
type BookingRequest struct {
	Date           string      `json:"date"`     // YYYY-MM-DD, visitor's calendar day
	Time           string      `json:"time"`     // "2:00 PM" or "14:00"
	Duration       string      `json:"duration"` // "30" | "60" | "90"
	MeetingType    string      `json:"meetingType"`
	FormData       ContactForm `json:"formData"`
	ClientTimezone string      `json:"clientTimezone"` // IANA identifier
}

type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message,omitempty"`
}

// Meeting is the persisted outcome of a successful booking request.
// Created exactly once; this service never updates or deletes it. Status
// moves out of pending only through the admin path, by a human.
type Meeting struct {
	ID          string        `json:"id"`
	Status      MeetingStatus `json:"status"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Company     string        `json:"company"`
	Phone       string        `json:"phone"`
	Message     string        `json:"message"`
	DisplayDate string        `json:"date"` // operating-timezone date, e.g. "Monday, March 10, 2025"
	DisplayTime string        `json:"time"` // operating-timezone wall clock, e.g. "11:30 PM"
	StartsAt    time.Time     `json:"starts_at"`
	Duration    int           `json:"duration"` // minutes
	MeetingType MeetingType   `json:"meeting_type"`
	// Calendar-event creation is disabled; the team sends the link by hand.
	MeetLink         *string   `json:"meet_link"`
	CalendarEventID  *string   `json:"calendar_event_id"`
	CalendarEventURL *string   `json:"calendar_event_url"`
	CreatedAt        time.Time `json:"created_at"`
}

// BusyInterval is a read-only view of an existing calendar entry, used only
// to filter candidate slots.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether the half-open slot [start, end) intersects the
// interval. A slot that merely touches a boundary does not overlap.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	if (start.After(b.Start) || start.Equal(b.Start)) && start.Before(b.End) {
		return true
	}
	if end.After(b.Start) && (end.Before(b.End) || end.Equal(b.End)) {
		return true
	}
	return (b.Start.After(start) || b.Start.Equal(start)) && (b.End.Before(end) || b.End.Equal(end))
}
