package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apromaxeng/meetings-api/internal/domain"
	"github.com/apromaxeng/meetings-api/pkg/auth"
)

type fakeBookingService struct {
	slots      []string
	busy       []domain.BusyInterval
	listErr    error
	meeting    *domain.Meeting
	createErr  error
	gotDate    string
	gotRequest *domain.BookingRequest
}

func (f *fakeBookingService) ListAvailability(_ context.Context, date string) ([]string, []domain.BusyInterval, error) {
	f.gotDate = date
	return f.slots, f.busy, f.listErr
}

func (f *fakeBookingService) CreateBooking(_ context.Context, req *domain.BookingRequest) (*domain.Meeting, error) {
	f.gotRequest = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.meeting, nil
}

type fakeMeetingReader struct {
	meetings []domain.Meeting
	byID     map[string]*domain.Meeting
}

func (f *fakeMeetingReader) GetByID(_ context.Context, id string) (*domain.Meeting, error) {
	return f.byID[id], nil
}

func (f *fakeMeetingReader) List(_ context.Context, limit, offset int, _ *domain.MeetingStatus) ([]domain.Meeting, error) {
	return f.meetings, nil
}

const testSecret = "test-secret"

func newTestHandlers(svc *fakeBookingService, reader *fakeMeetingReader) *Handlers {
	if reader == nil {
		reader = &fakeMeetingReader{byID: map[string]*domain.Meeting{}}
	}
	return New(svc, reader, testSecret)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
	return body
}

func TestGetAvailability_Success(t *testing.T) {
	svc := &fakeBookingService{
		slots: []string{"09:00", "09:30"},
		busy: []domain.BusyInterval{{
			Start: time.Date(2025, 3, 10, 4, 30, 0, 0, time.UTC),
			End:   time.Date(2025, 3, 10, 5, 30, 0, 0, time.UTC),
		}},
	}
	h := newTestHandlers(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/availability?date=2025-03-10", nil)
	rec := httptest.NewRecorder()
	h.GetAvailability(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotDate != "2025-03-10" {
		t.Fatalf("service called with date %q", svc.gotDate)
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatal("expected success true")
	}
	slots, _ := body["availableSlots"].([]any)
	if len(slots) != 2 || slots[0] != "09:00" {
		t.Fatalf("unexpected availableSlots %v", body["availableSlots"])
	}
	busy, _ := body["busySlots"].([]any)
	if len(busy) != 1 {
		t.Fatalf("unexpected busySlots %v", body["busySlots"])
	}
	first, _ := busy[0].(map[string]any)
	if first["start"] != "2025-03-10T04:30:00Z" {
		t.Fatalf("unexpected busy start %v", first["start"])
	}
}

func TestGetAvailability_MissingDate(t *testing.T) {
	h := newTestHandlers(&fakeBookingService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/availability", nil)
	rec := httptest.NewRecorder()
	h.GetAvailability(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetAvailability_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid date", domain.ErrInvalidDate, http.StatusBadRequest, "INVALID_INPUT"},
		{"lookup failed", domain.ErrAvailabilityLookup, http.StatusBadGateway, "AVAILABILITY_LOOKUP_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandlers(&fakeBookingService{listErr: tt.err}, nil)

			req := httptest.NewRequest(http.MethodGet, "/availability?date=2025-03-10", nil)
			rec := httptest.NewRecorder()
			h.GetAvailability(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			body := decodeBody(t, rec)
			if body["code"] != tt.wantCode {
				t.Fatalf("expected code %s, got %v", tt.wantCode, body["code"])
			}
		})
	}
}

func postBooking(t *testing.T, h *Handlers, payload any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.CreateBooking(rec, req)
	return rec
}

func TestCreateBooking_Created(t *testing.T) {
	svc := &fakeBookingService{meeting: &domain.Meeting{
		ID:     "meeting-1",
		Status: domain.MeetingPending,
	}}
	h := newTestHandlers(svc, nil)

	rec := postBooking(t, h, map[string]any{
		"date":        "2025-03-10",
		"time":        "2:00 PM",
		"duration":    "60",
		"meetingType": "consultation",
		"formData":    map[string]string{"name": "Test", "email": "t@example.com"},
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatal("expected success true")
	}
	if body["eventId"] != "meeting-1" {
		t.Fatalf("unexpected eventId %v", body["eventId"])
	}
	if body["status"] != "pending" {
		t.Fatalf("unexpected status %v", body["status"])
	}
	// Manual follow-up: no link or calendar event is ever returned.
	if link, ok := body["meetLink"]; !ok || link != nil {
		t.Fatalf("expected meetLink null, got %v", link)
	}
	if url, ok := body["eventUrl"]; !ok || url != nil {
		t.Fatalf("expected eventUrl null, got %v", url)
	}
	if svc.gotRequest == nil || svc.gotRequest.Time != "2:00 PM" {
		t.Fatalf("service did not receive the decoded request: %+v", svc.gotRequest)
	}
}

func TestCreateBooking_InvalidJSON(t *testing.T) {
	h := newTestHandlers(&fakeBookingService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.CreateBooking(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateBooking_ValidationError(t *testing.T) {
	verr := domain.NewValidationError()
	verr.Add("formData.email", "required")
	verr.Add("date", "required")
	h := newTestHandlers(&fakeBookingService{createErr: verr}, nil)

	rec := postBooking(t, h, map[string]any{})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["code"] != "INVALID_INPUT" {
		t.Fatalf("expected INVALID_INPUT, got %v", body["code"])
	}
	if body["details"] != "date, formData.email" {
		t.Fatalf("unexpected details %v", body["details"])
	}
}

func TestCreateBooking_SlotConflict(t *testing.T) {
	h := newTestHandlers(&fakeBookingService{createErr: domain.ErrSlotTaken}, nil)

	rec := postBooking(t, h, map[string]any{"date": "2025-03-10"})

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestCreateBooking_PersistenceError(t *testing.T) {
	h := newTestHandlers(&fakeBookingService{createErr: domain.ErrPersistence}, nil)

	rec := postBooking(t, h, map[string]any{"date": "2025-03-10"})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["code"] != "PERSISTENCE_FAILED" {
		t.Fatalf("expected PERSISTENCE_FAILED, got %v", body["code"])
	}
}

func TestRequireJWT(t *testing.T) {
	h := newTestHandlers(&fakeBookingService{}, nil)
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guarded := h.RequireJWT("admin")(next)

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/meetings", nil)
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/meetings", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("wrong role", func(t *testing.T) {
		token, err := auth.NewAccessToken("ops@example.com", "viewer", testSecret, time.Hour)
		if err != nil {
			t.Fatalf("mint token: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/admin/meetings", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("admin passes", func(t *testing.T) {
		token, err := auth.NewAccessToken("ops@example.com", "admin", testSecret, time.Hour)
		if err != nil {
			t.Fatalf("mint token: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/admin/meetings", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}
