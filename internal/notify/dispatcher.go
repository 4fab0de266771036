package notify

import (
	"fmt"
	"strings"

	"github.com/apromaxeng/meetings-api/internal/domain"
	"github.com/apromaxeng/meetings-api/internal/platform/mailer"
)

// Dispatcher sends the two post-booking notifications: a confirmation to
// the visitor and an alert to staff. Each is attempted once and failures
// never affect the booking — the meeting is already durably written.
type Dispatcher struct {
	mail       mailer.Service
	staffEmail string
	staffName  string
}

func NewDispatcher(mail mailer.Service, staffEmail string) *Dispatcher {
	return &Dispatcher{
		mail:       mail,
		staffEmail: staffEmail,
		staffName:  "AproMax Engineering",
	}
}

// VisitorConfirmation emails the visitor their pending booking details.
// The Meet link is sent manually by the team later; the copy says so.
func (d *Dispatcher) VisitorConfirmation(m *domain.Meeting) error {
	subject := "Meeting Confirmed - AproMax Engineering"

	text := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Thank you for scheduling a meeting with AproMax Engineering.\n\n"+
			"Date: %s\n"+
			"Time: %s IST\n"+
			"Duration: %d minutes\n"+
			"Meeting Type: %s\n\n"+
			"Our team will send you the Google Meet link before the scheduled time.\n\n"+
			"Need to reschedule? Email info@apromaxeng.com.\n\n"+
			"Best regards,\nThe AproMax Engineering Team\n",
		m.Name, m.DisplayDate, m.DisplayTime, m.Duration, meetingTypeLabel(m.MeetingType))

	html := fmt.Sprintf(`<h2>Meeting Confirmed</h2>
<p>Dear %s,</p>
<p>Thank you for scheduling a meeting with AproMax Engineering.</p>
<ul>
<li><b>Date:</b> %s</li>
<li><b>Time:</b> %s IST</li>
<li><b>Duration:</b> %d minutes</li>
<li><b>Meeting Type:</b> %s</li>
</ul>
<p><b>Google Meet:</b> our team will send you the meeting link before the scheduled time.</p>
<p>Need to reschedule? Email <a href="mailto:info@apromaxeng.com">info@apromaxeng.com</a>.</p>
<p>Best regards,<br><b>The AproMax Engineering Team</b></p>`,
		m.Name, m.DisplayDate, m.DisplayTime, m.Duration, meetingTypeLabel(m.MeetingType))

	_, err := d.mail.Send(m.Email, m.Name, subject, text, html)
	return err
}

// StaffAlert emails the internal inbox so a human can follow up with the
// Meet link and flip the status out of pending.
func (d *Dispatcher) StaffAlert(m *domain.Meeting, visitorLocalTime string) error {
	subject := fmt.Sprintf("New meeting request: %s - %s", meetingTypeLabel(m.MeetingType), m.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "New meeting request (id %s, status %s)\n\n", m.ID, m.Status)
	fmt.Fprintf(&b, "Name: %s\n", m.Name)
	fmt.Fprintf(&b, "Email: %s\n", m.Email)
	if m.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", m.Company)
	}
	if m.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", m.Phone)
	}
	fmt.Fprintf(&b, "\nDate: %s\n", m.DisplayDate)
	fmt.Fprintf(&b, "Time: %s IST", m.DisplayTime)
	if visitorLocalTime != "" {
		fmt.Fprintf(&b, " (%s visitor local)", visitorLocalTime)
	}
	fmt.Fprintf(&b, "\nDuration: %d minutes\n", m.Duration)
	fmt.Fprintf(&b, "Meeting Type: %s\n", meetingTypeLabel(m.MeetingType))
	if m.Message != "" {
		fmt.Fprintf(&b, "\nProject details:\n%s\n", m.Message)
	}
	fmt.Fprintf(&b, "\nMeet link: manual follow-up required.\n")
	text := b.String()

	html := "<pre>" + text + "</pre>"

	_, err := d.mail.Send(d.staffEmail, d.staffName, subject, text, html)
	return err
}

func meetingTypeLabel(t domain.MeetingType) string {
	switch t {
	case domain.MeetingConsultation:
		return "Consultation"
	case domain.MeetingTechnical:
		return "Tech Review"
	case domain.MeetingFollowUp:
		return "Follow-up"
	default:
		return string(t)
	}
}
