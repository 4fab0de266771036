package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/apromaxeng/meetings-api/internal/booking"
	"github.com/apromaxeng/meetings-api/internal/calendar"
	"github.com/apromaxeng/meetings-api/internal/http/handlers"
	ratelimit "github.com/apromaxeng/meetings-api/internal/http/middleware"
	"github.com/apromaxeng/meetings-api/internal/notify"
	"github.com/apromaxeng/meetings-api/internal/platform/cache"
	"github.com/apromaxeng/meetings-api/internal/platform/mailer"
	"github.com/apromaxeng/meetings-api/internal/repo/postgres"
	"github.com/apromaxeng/meetings-api/internal/schedule"
	"github.com/apromaxeng/meetings-api/pkg/config"
	"github.com/apromaxeng/meetings-api/pkg/database"
	"github.com/apromaxeng/meetings-api/pkg/events"
	"github.com/apromaxeng/meetings-api/pkg/logger"
	mw "github.com/apromaxeng/meetings-api/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database.URL, cfg.Database.MinConns, cfg.Database.MaxConns, cfg.Database.MaxLifetime)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	var eventBus events.EventBus = events.NoopEventBus{}
	if cfg.NATS.Enabled {
		natsBus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsBus.Close()
		eventBus = natsBus
	}

	normalizer, err := schedule.NewNormalizer(cfg.Booking.OperatingTimezone)
	if err != nil {
		logger.Error("Failed to load operating timezone", "error", err)
		os.Exit(1)
	}

	busySource := newBusySource(cfg)
	availability := schedule.NewAvailability(busySource, normalizer.OperatingLocation())

	mail := newMailer(cfg)
	dispatcher := notify.NewDispatcher(mail, cfg.Email.StaffEmail)

	meetingRepo := postgres.NewMeetingRepo(pool)
	bookingService := booking.NewService(
		meetingRepo, normalizer, availability, dispatcher, eventBus,
		cfg.Booking.MaxFutureDays,
	)

	h := handlers.New(bookingService, meetingRepo, cfg.Auth.JWTSecret)

	rateLimiter := ratelimit.NewRateLimiter(pool, ratelimit.RateLimitConfig{
		Requests: cfg.Booking.RateLimitRequests,
		Window:   cfg.Booking.RateLimitWindow,
		KeyFunc:  ratelimit.BookingRateLimitKeyFunc,
	})

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("meetings"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://apromaxeng.com", "https://www.apromaxeng.com", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/availability", h.GetAvailability)

	r.Route("/bookings", func(r chi.Router) {
		r.Use(rateLimiter.Middleware())
		if store, err := cache.NewRedisStore(cfg.Redis.URL); err == nil {
			r.Use(mw.Idempotency(store))
		} else {
			logger.Warn("Redis unavailable, idempotent replays disabled", "error", err)
		}
		r.Post("/", h.CreateBooking)
	})

	r.Route("/admin/meetings", func(r chi.Router) {
		r.Use(h.RequireJWT("admin"))
		r.Get("/", h.ListMeetings)
		r.Get("/{id}", h.GetMeeting)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down meetings service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Meetings service shutdown error", "error", err)
		}
	}()

	logger.Info("Starting meetings service", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Meetings service error", "error", err)
		os.Exit(1)
	}
}

func newBusySource(cfg *config.Config) schedule.BusySource {
	switch cfg.Calendar.Provider {
	case "feed":
		return calendar.NewFeedClient(calendar.FeedOptions{
			BaseURL:    cfg.Calendar.FeedURL,
			Token:      cfg.Calendar.FeedToken,
			CalendarID: cfg.Calendar.CalendarID,
			Timeout:    cfg.Calendar.Timeout,
		})
	case "ics":
		return calendar.NewICSFeed(cfg.Calendar.ICSURL, nil)
	default:
		logger.Warn("No calendar provider configured, every slot will show as available")
		return calendar.Empty{}
	}
}

func newMailer(cfg *config.Config) mailer.Service {
	if cfg.Email.DevMode {
		return mailer.NewDevMailer()
	}
	if cfg.Email.MailerSendKey != "" {
		return mailer.NewMailer(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}
	return mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPFrom,
		cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPUseTLS)
}
