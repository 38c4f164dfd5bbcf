package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/mindline/practice-api/internal/config"
	"github.com/mindline/practice-api/internal/email"
	"github.com/mindline/practice-api/internal/handler"
	appointmenthandler "github.com/mindline/practice-api/internal/handler/appointment"
	authhandler "github.com/mindline/practice-api/internal/handler/auth"
	consenthandler "github.com/mindline/practice-api/internal/handler/consent"
	contacthandler "github.com/mindline/practice-api/internal/handler/contact"
	messagehandler "github.com/mindline/practice-api/internal/handler/message"
	patienthandler "github.com/mindline/practice-api/internal/handler/patient"
	"github.com/mindline/practice-api/internal/middleware"
	"github.com/mindline/practice-api/internal/repository/postgres"
	"github.com/mindline/practice-api/internal/router"
	"github.com/mindline/practice-api/internal/service/account"
	"github.com/mindline/practice-api/internal/service/appointment"
	"github.com/mindline/practice-api/internal/service/auth"
	"github.com/mindline/practice-api/internal/service/consent"
	"github.com/mindline/practice-api/internal/service/contact"
	"github.com/mindline/practice-api/internal/service/message"
	"github.com/mindline/practice-api/internal/service/notify"
	"github.com/mindline/practice-api/internal/service/patient"
	"github.com/mindline/practice-api/internal/session"
	"github.com/mindline/practice-api/pkg/cache"
	"github.com/mindline/practice-api/pkg/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid redis URL")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	// Repositories
	accountRepo := postgres.NewAccountRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	consentRepo := postgres.NewConsentRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	contactRepo := postgres.NewContactRepository(db)

	// Shared infrastructure
	readCache := cache.New(cfg.Cache.TTL)
	hasher := security.NewArgonHasher()
	mailer := email.NewService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	sessionStore := session.NewRedisStore(redisClient)

	// Services
	accountSvc := account.NewService(accountRepo, patientRepo, hasher, mailer)
	authSvc := auth.NewService(accountRepo, accountSvc, sessionStore)
	patientSvc := patient.NewService(patientRepo, readCache)
	appointmentSvc := appointment.NewService(appointmentRepo, patientRepo, readCache)
	consentSvc := consent.NewService(consentRepo, patientRepo)
	messageSvc := message.NewService(messageRepo, accountRepo)
	contactSvc := contact.NewService(contactRepo)
	notifier := notify.NewService(messageSvc, accountRepo, patientRepo, mailer)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	handlers := router.Handlers{
		Auth:        authhandler.NewHandler(authSvc, accountSvc, cfg.Server.SecureCookies),
		Patient:     patienthandler.NewHandler(patientSvc),
		Appointment: appointmenthandler.NewHandler(appointmentSvc, notifier),
		Consent:     consenthandler.NewHandler(consentSvc),
		Message:     messagehandler.NewHandler(messageSvc),
		Contact:     contacthandler.NewHandler(contactSvc),
		Health:      handler.NewHealthHandler(db),
	}

	routerCfg := router.Config{
		CORS:    middleware.DefaultCORSConfig(),
		Metrics: cfg.Metrics.Enabled,
	}
	if cfg.RateLimit.Enabled {
		routerCfg.RateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		routerCfg.RateBurst = cfg.RateLimit.Burst
	}

	r := router.New(authMiddleware, handlers, routerCfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
