package notify

import (
	"errors"
	"strings"
	"testing"

	"github.com/apromaxeng/meetings-api/internal/domain"
)

type sentMail struct {
	toEmail string
	toName  string
	subject string
	text    string
	html    string
}

type recordingMailer struct {
	sent []sentMail
	err  error
}

func (r *recordingMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	r.sent = append(r.sent, sentMail{toEmail, toName, subject, text, html})
	if r.err != nil {
		return "", r.err
	}
	return "msg-1", nil
}

func sampleMeeting() *domain.Meeting {
	return &domain.Meeting{
		ID:          "meeting-1",
		Status:      domain.MeetingPending,
		Name:        "Asha Verma",
		Email:       "asha@example.com",
		Company:     "Verma Industries",
		Phone:       "+91 90000 00000",
		Message:     "Need a structural review of the new plant layout.",
		DisplayDate: "Monday, March 10, 2025",
		DisplayTime: "11:30 PM",
		Duration:    60,
		MeetingType: domain.MeetingConsultation,
	}
}

func TestVisitorConfirmation(t *testing.T) {
	mail := &recordingMailer{}
	d := NewDispatcher(mail, "info@apromaxeng.com")

	if err := d.VisitorConfirmation(sampleMeeting()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(mail.sent))
	}

	got := mail.sent[0]
	if got.toEmail != "asha@example.com" || got.toName != "Asha Verma" {
		t.Fatalf("wrong recipient: %s <%s>", got.toName, got.toEmail)
	}
	for _, want := range []string{"Monday, March 10, 2025", "11:30 PM IST", "60 minutes", "Consultation"} {
		if !strings.Contains(got.text, want) {
			t.Errorf("text body missing %q", want)
		}
	}
	if !strings.Contains(got.text, "send you the Google Meet link") {
		t.Error("text body must say the Meet link follows manually")
	}
	if !strings.Contains(got.html, "<h2>Meeting Confirmed</h2>") {
		t.Error("html body missing heading")
	}
}

func TestStaffAlert(t *testing.T) {
	mail := &recordingMailer{}
	d := NewDispatcher(mail, "team@apromaxeng.com")

	if err := d.StaffAlert(sampleMeeting(), "2:00 PM America/New_York"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(mail.sent))
	}

	got := mail.sent[0]
	if got.toEmail != "team@apromaxeng.com" {
		t.Fatalf("wrong recipient %s", got.toEmail)
	}
	if !strings.Contains(got.subject, "Consultation") || !strings.Contains(got.subject, "Asha Verma") {
		t.Fatalf("unexpected subject %q", got.subject)
	}
	for _, want := range []string{
		"meeting-1", "Verma Industries", "+91 90000 00000",
		"(2:00 PM America/New_York visitor local)",
		"structural review",
		"manual follow-up required",
	} {
		if !strings.Contains(got.text, want) {
			t.Errorf("staff body missing %q", want)
		}
	}
}

func TestStaffAlert_OmitsEmptyFields(t *testing.T) {
	mail := &recordingMailer{}
	d := NewDispatcher(mail, "team@apromaxeng.com")

	m := sampleMeeting()
	m.Company = ""
	m.Phone = ""
	m.Message = ""

	if err := d.StaffAlert(m, ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got := mail.sent[0]
	for _, unwanted := range []string{"Company:", "Phone:", "Project details:", "visitor local"} {
		if strings.Contains(got.text, unwanted) {
			t.Errorf("staff body should omit %q when empty", unwanted)
		}
	}
}

func TestDispatcher_PropagatesSendError(t *testing.T) {
	mail := &recordingMailer{err: errors.New("provider rejected message")}
	d := NewDispatcher(mail, "team@apromaxeng.com")

	if err := d.VisitorConfirmation(sampleMeeting()); err == nil {
		t.Fatal("expected send error")
	}
	if err := d.StaffAlert(sampleMeeting(), ""); err == nil {
		t.Fatal("expected send error")
	}
}

func TestMeetingTypeLabel(t *testing.T) {
	tests := []struct {
		in   domain.MeetingType
		want string
	}{
		{domain.MeetingConsultation, "Consultation"},
		{domain.MeetingTechnical, "Tech Review"},
		{domain.MeetingFollowUp, "Follow-up"},
	}
	for _, tt := range tests {
		if got := meetingTypeLabel(tt.in); got != tt.want {
			t.Errorf("meetingTypeLabel(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
