package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/apromaxeng/meetings-api/internal/domain"
	"github.com/apromaxeng/meetings-api/internal/http/response"
)

// ListMeetings handles GET /admin/meetings. Read-only: status changes are
// made directly in the database by whoever sends the Meet link.
func (h *Handlers) ListMeetings(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	var statusPtr *domain.MeetingStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, ok := domain.ParseMeetingStatus(raw)
		if !ok {
			response.BadRequest(w, "Invalid status parameter")
			return
		}
		statusPtr = &st
	}

	meetings, err := h.meetings.List(r.Context(), limit, offset, statusPtr)
	if err != nil {
		response.InternalError(w, "Failed to retrieve meetings")
		return
	}

	writeJSON(w, http.StatusOK, meetings)
}

// GetMeeting handles GET /admin/meetings/{id}.
func (h *Handlers) GetMeeting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Invalid meeting ID")
		return
	}

	meeting, err := h.meetings.GetByID(r.Context(), id)
	if err != nil {
		response.InternalError(w, "Failed to retrieve meeting")
		return
	}
	if meeting == nil {
		response.NotFound(w, "Meeting not found")
		return
	}

	writeJSON(w, http.StatusOK, meeting)
}
