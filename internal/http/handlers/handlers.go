package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/apromaxeng/meetings-api/internal/domain"
	"github.com/apromaxeng/meetings-api/internal/http/response"
	"github.com/apromaxeng/meetings-api/pkg/auth"
)

// BookingService is the workflow behind the public endpoints.
type BookingService interface {
	ListAvailability(ctx context.Context, date string) ([]string, []domain.BusyInterval, error)
	CreateBooking(ctx context.Context, req *domain.BookingRequest) (*domain.Meeting, error)
}

// MeetingReader backs the admin read path.
type MeetingReader interface {
	GetByID(ctx context.Context, id string) (*domain.Meeting, error)
	List(ctx context.Context, limit, offset int, status *domain.MeetingStatus) ([]domain.Meeting, error)
}

type Handlers struct {
	bookingService BookingService
	meetings       MeetingReader
	jwtSecret      string
}

func New(bookingService BookingService, meetings MeetingReader, jwtSecret string) *Handlers {
	return &Handlers{
		bookingService: bookingService,
		meetings:       meetings,
		jwtSecret:      jwtSecret,
	}
}

type claimsKey struct{}

// RequireJWT guards the admin routes. Tokens are minted out of band.
func (h *Handlers) RequireJWT(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.Unauthorized(w, "Missing or invalid authorization header")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := auth.Parse(token, h.jwtSecret)
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			if requiredRole != "" && claims.Role != requiredRole {
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
