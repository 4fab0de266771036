package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/apromaxeng/meetings-api/internal/domain"
	"github.com/apromaxeng/meetings-api/internal/http/response"
)

type busySlotDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type availabilityResponse struct {
	Success        bool          `json:"success"`
	AvailableSlots []string      `json:"availableSlots"`
	BusySlots      []busySlotDTO `json:"busySlots"`
}

// GetAvailability handles GET /availability?date=YYYY-MM-DD.
func (h *Handlers) GetAvailability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "Date parameter is required")
		return
	}

	slots, busy, err := h.bookingService.ListAvailability(r.Context(), date)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidDate):
			response.BadRequest(w, "Invalid date parameter")
		case errors.Is(err, domain.ErrAvailabilityLookup):
			// Callers must not read this as "fully booked".
			response.WriteError(w, http.StatusBadGateway, "Failed to check availability", response.CodeAvailabilityFailed)
		default:
			response.InternalError(w, "Failed to check availability")
		}
		return
	}

	busyDTOs := make([]busySlotDTO, 0, len(busy))
	for _, b := range busy {
		busyDTOs = append(busyDTOs, busySlotDTO{
			Start: b.Start.UTC().Format(time.RFC3339),
			End:   b.End.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, availabilityResponse{
		Success:        true,
		AvailableSlots: slots,
		BusySlots:      busyDTOs,
	})
}
