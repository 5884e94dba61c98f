package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"doorlist/config"
	_ "doorlist/docs"
	"doorlist/internal/adapters/auth"
	"doorlist/internal/adapters/code"
	"doorlist/internal/adapters/email"
	httpdelivery "doorlist/internal/delivery/http"
	"doorlist/internal/delivery/http/controllers"
	"doorlist/internal/delivery/http/middleware"
	"doorlist/internal/metrics"
	"doorlist/internal/repository/postgres"
	"doorlist/internal/services"
	"doorlist/migrations"

	"golang.org/x/crypto/bcrypt"
)

// @title doorlist API
// @version 1.0
// @description Guest lists, capacity tracking and door check-in for events.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	if err := migrations.Up(db); err != nil {
		logger.Error("run migrations", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	guestRepo := postgres.NewGuestRepository(db)
	guardRepo := postgres.NewGuardRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	tokenIssuer, tokenVerifier := auth.NewJWTTokens(cfg.JWTSecret)
	codeIssuer := code.NewUUIDIssuer()
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailerProvider,
		FromAddress: cfg.MailFromAddress,
		FromName:    cfg.MailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	}, logger)
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}

	m := metrics.New()

	// Services
	authService := services.NewAuthService(userRepo, hasher, tokenIssuer, cfg.JWTExpiry)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	eventService := services.NewEventService(eventRepo, guardRepo, cfg.ContextTimeout)
	guestService := services.NewGuestService(eventRepo, guestRepo, guardRepo, userRepo, codeIssuer, logger, m, cfg.ContextTimeout)
	guardService := services.NewGuardService(eventRepo, guardRepo, userRepo, emailService, cfg.ContextTimeout)
	checkInService := services.NewCheckInService(eventRepo, guestRepo, guardRepo, logger, m, cfg.ContextTimeout)

	// Controllers
	authController := controllers.NewAuthController(logger, authService)
	eventController := controllers.NewEventController(logger, eventService)
	guestController := controllers.NewGuestController(logger, guestService)
	guardController := controllers.NewGuardController(logger, guardService)
	checkInController := controllers.NewCheckInController(logger, checkInService)

	mux := httpdelivery.NewRouter(tokenVerifier, authController, eventController, guestController, guardController, checkInController)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
