package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/apromaxeng/meetings-api/internal/domain"
	"github.com/apromaxeng/meetings-api/internal/repo/postgres"
	"github.com/apromaxeng/meetings-api/internal/schedule"
	"github.com/apromaxeng/meetings-api/internal/utils"
	"github.com/apromaxeng/meetings-api/pkg/events"
	"github.com/apromaxeng/meetings-api/pkg/logger"
)

// Notifier is the post-booking notification capability. Both calls are
// best-effort; see CreateBooking.
type Notifier interface {
	VisitorConfirmation(m *domain.Meeting) error
	StaffAlert(m *domain.Meeting, visitorLocalTime string) error
}

type Service struct {
	repo          postgres.MeetingRepo
	normalizer    *schedule.Normalizer
	availability  *schedule.Availability
	notifier      Notifier
	eventBus      events.Publisher
	maxFutureDays int
	now           func() time.Time
}

type Option func(*Service)

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(
	repo postgres.MeetingRepo,
	normalizer *schedule.Normalizer,
	availability *schedule.Availability,
	notifier Notifier,
	eventBus events.Publisher,
	maxFutureDays int,
	opts ...Option,
) *Service {
	s := &Service{
		repo:          repo,
		normalizer:    normalizer,
		availability:  availability,
		notifier:      notifier,
		eventBus:      eventBus,
		maxFutureDays: maxFutureDays,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAvailability returns open slots and the day's busy intervals.
func (s *Service) ListAvailability(ctx context.Context, date string) ([]string, []domain.BusyInterval, error) {
	return s.availability.ListAvailableSlots(ctx, date)
}

// CreateBooking runs the whole workflow: validate, normalize, persist,
// then notify. Validation and persistence failures abort the request;
// anything after the write is best-effort and cannot fail the booking.
func (s *Service) CreateBooking(ctx context.Context, req *domain.BookingRequest) (*domain.Meeting, error) {
	instant, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	duration, _ := strconv.Atoi(req.Duration)
	display := s.normalizer.ToDisplay(instant)

	meeting := &domain.Meeting{
		Name:        utils.NormalizeString(req.FormData.Name),
		Email:       utils.NormalizeEmail(req.FormData.Email),
		Company:     utils.NormalizeString(req.FormData.Company),
		Phone:       utils.NormalizePhone(req.FormData.Phone),
		Message:     utils.NormalizeString(req.FormData.Message),
		DisplayDate: display.Date,
		DisplayTime: display.Time,
		StartsAt:    instant,
		Duration:    duration,
		MeetingType: domain.MeetingType(req.MeetingType),
	}

	created, err := s.repo.Create(ctx, meeting)
	if err != nil {
		// Nothing was written, so nothing is notified.
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, events.MeetingCreated, events.MeetingCreatedEvent{
		MeetingID:   created.ID,
		Name:        created.Name,
		Email:       created.Email,
		MeetingType: string(created.MeetingType),
		Duration:    created.Duration,
		StartsAt:    created.StartsAt,
		CreatedAt:   created.CreatedAt,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish meeting created event", "error", err, "meeting_id", created.ID)
	}

	s.sendNotifications(ctx, created, instant, req.ClientTimezone)

	return created, nil
}

// sendNotifications attempts the visitor confirmation, then the staff
// alert. One attempt each, failures logged and published, never returned.
func (s *Service) sendNotifications(ctx context.Context, m *domain.Meeting, instant time.Time, clientTZ string) {
	if err := s.notifier.VisitorConfirmation(m); err != nil {
		logger.ErrorContext(ctx, "Failed to send visitor confirmation", "error", err, "meeting_id", m.ID)
		s.publishNotifyFailed(ctx, m.ID, "visitor", m.Email, err)
	}

	visitorLocal := ""
	if loc, err := time.LoadLocation(clientTZ); err == nil {
		visitorLocal = instant.In(loc).Format("03:04 PM")
	}
	if err := s.notifier.StaffAlert(m, visitorLocal); err != nil {
		logger.ErrorContext(ctx, "Failed to send staff alert", "error", err, "meeting_id", m.ID)
		s.publishNotifyFailed(ctx, m.ID, "staff", "", err)
	}
}

func (s *Service) publishNotifyFailed(ctx context.Context, meetingID, kind, recipient string, cause error) {
	if err := s.eventBus.Publish(ctx, events.NotifyFailed, events.NotifyFailedEvent{
		MeetingID: meetingID,
		Kind:      kind,
		Recipient: recipient,
		Error:     cause.Error(),
		FailedAt:  s.now(),
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish notify failed event", "error", err, "meeting_id", meetingID)
	}
}

// validate checks the request against the booking rules and resolves the
// absolute meeting instant. No external call happens before it passes.
func (s *Service) validate(req *domain.BookingRequest) (time.Time, error) {
	verr := domain.NewValidationError()

	if utils.NormalizeString(req.FormData.Name) == "" {
		verr.Add("formData.name", "name is required")
	}
	email := utils.NormalizeEmail(req.FormData.Email)
	switch {
	case email == "":
		verr.Add("formData.email", "email is required")
	case !utils.IsValidEmail(email):
		verr.Add("formData.email", "email is not valid")
	}

	if req.Duration == "" {
		verr.Add("duration", "duration is required")
	} else if d, err := strconv.Atoi(req.Duration); err != nil || !domain.IsAllowedDuration(d) {
		verr.Add("duration", fmt.Sprintf("duration must be one of %v", domain.AllowedDurations))
	}

	if req.MeetingType == "" {
		verr.Add("meetingType", "meeting type is required")
	} else if _, ok := domain.ParseMeetingType(req.MeetingType); !ok {
		verr.Add("meetingType", "unknown meeting type")
	}

	var instant time.Time
	switch {
	case req.Date == "":
		verr.Add("date", "date is required")
	case req.Time == "":
		verr.Add("time", "time is required")
	default:
		tz := req.ClientTimezone
		if tz == "" {
			tz = s.normalizer.OperatingLocation().String()
		}
		var err error
		instant, err = s.normalizer.ToInstant(req.Date, req.Time, tz)
		switch {
		case errors.Is(err, domain.ErrInvalidTimeFormat):
			verr.Add("time", "time must look like \"2:00 PM\" or \"14:00\"")
		case errors.Is(err, domain.ErrInvalidDate):
			verr.Add("date", "date and timezone must form a valid instant")
		case err != nil:
			verr.Add("date", "invalid date or time")
		default:
			now := s.now()
			if instant.Before(now) {
				verr.Add("date", "meeting must be scheduled in the future")
			} else if instant.After(now.AddDate(0, 0, s.maxFutureDays)) {
				verr.Add("date", fmt.Sprintf("meeting must be within %d days", s.maxFutureDays))
			}
			if wd := instant.Weekday(); wd == time.Saturday || wd == time.Sunday {
				verr.Add("date", "meetings are scheduled on weekdays only")
			}
		}
	}

	if !verr.Empty() {
		return time.Time{}, verr
	}
	return instant, nil
}
