package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/negatcare/clinic-api/config"
	"github.com/negatcare/clinic-api/internal/email"
	"github.com/negatcare/clinic-api/internal/repository/postgres"
	"github.com/negatcare/clinic-api/internal/worker"
	"github.com/negatcare/clinic-api/pkg/logger"
	redisbroker "github.com/negatcare/clinic-api/pkg/messaging/redis"
)

// workerConfig is env-only: the worker ships as a sidecar container and
// has no config file.
type workerConfig struct {
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"postgres"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"clinic"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSLMODE" default:"disable"`

	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	SMTPHost     string `envconfig:"SMTP_HOST" required:"true"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM" required:"true"`

	HealthPort string `envconfig:"HEALTH_PORT" default:"8081"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
}

func main() {
	_ = godotenv.Load()

	var cfg workerConfig
	if err := envconfig.Process("clinic", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	logger.Setup(cfg.LogLevel, false)

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUser,
		cfg.DatabasePassword, cfg.DatabaseName, cfg.DatabaseSSLMode,
	)
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewBroker(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	sender := email.NewSMTPSender(config.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	patientRepo := postgres.NewPatientRepository(db)
	consumer := worker.NewConsumer(broker, sender, patientRepo)

	startHealthCheck(cfg.HealthPort)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("notification worker started")
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("worker exited with error")
	}
	log.Info().Msg("notification worker stopped")
}

func startHealthCheck(port string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			log.Error().Err(err).Msg("health check server failed")
		}
	}()
}
