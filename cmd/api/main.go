package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/negatcare/clinic-api/config"
	appointmenthandler "github.com/negatcare/clinic-api/internal/handler/appointment"
	authhandler "github.com/negatcare/clinic-api/internal/handler/auth"
	bookinghandler "github.com/negatcare/clinic-api/internal/handler/booking"
	contacthandler "github.com/negatcare/clinic-api/internal/handler/contact"
	healthhandler "github.com/negatcare/clinic-api/internal/handler/health"
	labresulthandler "github.com/negatcare/clinic-api/internal/handler/labresult"
	patienthandler "github.com/negatcare/clinic-api/internal/handler/patient"
	visithandler "github.com/negatcare/clinic-api/internal/handler/visit"
	"github.com/negatcare/clinic-api/internal/middleware"
	"github.com/negatcare/clinic-api/internal/repository/postgres"
	"github.com/negatcare/clinic-api/internal/router"
	appointmentservice "github.com/negatcare/clinic-api/internal/service/appointment"
	authservice "github.com/negatcare/clinic-api/internal/service/auth"
	bookingservice "github.com/negatcare/clinic-api/internal/service/booking"
	contactservice "github.com/negatcare/clinic-api/internal/service/contact"
	labresultservice "github.com/negatcare/clinic-api/internal/service/labresult"
	patientservice "github.com/negatcare/clinic-api/internal/service/patient"
	visitservice "github.com/negatcare/clinic-api/internal/service/visit"
	"github.com/negatcare/clinic-api/internal/worker"
	"github.com/negatcare/clinic-api/pkg/auth"
	"github.com/negatcare/clinic-api/pkg/logger"
	"github.com/negatcare/clinic-api/pkg/messaging"
	redisbroker "github.com/negatcare/clinic-api/pkg/messaging/redis"
	"github.com/negatcare/clinic-api/pkg/metrics"
	"github.com/negatcare/clinic-api/pkg/security"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(cfg.Log.Level, cfg.Log.Pretty)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Redis is optional; without it bookings are created but no
	// confirmation mail or reminder leaves the system.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		b, err := redisbroker.NewBroker(cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, notifications disabled")
		} else {
			broker = b
			defer b.Close()
		}
	}

	userRepo := postgres.NewUserRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	visitRepo := postgres.NewVisitRepository(db)
	labResultRepo := postgres.NewLabResultRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	contactRepo := postgres.NewContactRepository(db)

	tokens := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(0)

	authSvc := authservice.NewService(userRepo, tokens, hasher)
	patientSvc := patientservice.NewService(patientRepo)
	visitSvc := visitservice.NewService(visitRepo, patientRepo)
	labResultSvc := labresultservice.NewService(labResultRepo, patientRepo, visitRepo)
	appointmentSvc := appointmentservice.NewService(appointmentRepo, patientRepo)
	bookingSvc := bookingservice.NewService(bookingRepo, broker)
	contactSvc := contactservice.NewService(contactRepo)

	authMW := middleware.NewAuthMiddleware(tokens, userRepo)
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
		Burst: cfg.RateLimit.Burst,
	})
	m := metrics.New("clinic")

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
	}

	r := router.New(
		router.Config{
			Mode:        cfg.Server.Mode,
			CORS:        corsConfig,
			RateLimiter: rateLimiter,
			Metrics:     m,
		},
		router.Handlers{
			Auth:        authhandler.NewHandler(authSvc),
			Patient:     patienthandler.NewHandler(patientSvc),
			Visit:       visithandler.NewHandler(visitSvc),
			LabResult:   labresulthandler.NewHandler(labResultSvc),
			Appointment: appointmenthandler.NewHandler(appointmentSvc),
			Booking:     bookinghandler.NewHandler(bookingSvc),
			Contact:     contacthandler.NewHandler(contactSvc),
			Health:      healthhandler.NewHandler(db),
		},
		authMW,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if broker != nil {
		scanner := worker.NewReminderScanner(appointmentRepo, broker, m, 15*time.Minute)
		go scanner.Run(ctx)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
