package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/apromaxeng/meetings-api/internal/domain"
	"github.com/apromaxeng/meetings-api/internal/http/response"
)

type bookingResponse struct {
	Success  bool    `json:"success"`
	EventID  string  `json:"eventId"`
	MeetLink *string `json:"meetLink"`  // always null: link is sent manually
	EventURL *string `json:"eventUrl"`  // always null: no calendar event is created
	Status   string  `json:"status"`
	Message  string  `json:"message"`
}

// CreateBooking handles POST /bookings. The response reports success once
// the meeting is written, regardless of notification outcome.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	meeting, err := h.bookingService.CreateBooking(r.Context(), &req)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			response.WriteErrorWithDetails(w, http.StatusBadRequest,
				"Missing or invalid fields", response.CodeInvalidInput,
				strings.Join(verr.FieldList(), ", "))
		case errors.Is(err, domain.ErrSlotTaken):
			response.Conflict(w, "That slot was just booked; pick another time")
		case errors.Is(err, domain.ErrPersistence):
			response.WriteError(w, http.StatusInternalServerError, "Failed to schedule meeting", response.CodePersistenceFailed)
		default:
			response.InternalError(w, "Failed to schedule meeting")
		}
		return
	}

	writeJSON(w, http.StatusCreated, bookingResponse{
		Success:  true,
		EventID:  meeting.ID,
		MeetLink: nil,
		EventURL: nil,
		Status:   string(meeting.Status),
		Message:  "Meeting request received successfully",
	})
}
