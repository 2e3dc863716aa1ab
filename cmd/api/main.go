package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/eventsplit/docs"
	"github.com/fkhayef/eventsplit/internal/attendance"
	"github.com/fkhayef/eventsplit/internal/config"
	"github.com/fkhayef/eventsplit/internal/database"
	"github.com/fkhayef/eventsplit/internal/event"
	"github.com/fkhayef/eventsplit/internal/expense"
	"github.com/fkhayef/eventsplit/internal/itinerary"
	"github.com/fkhayef/eventsplit/internal/logging"
	"github.com/fkhayef/eventsplit/internal/notification"
	"github.com/fkhayef/eventsplit/internal/user"
	mw "github.com/fkhayef/eventsplit/pkg/middleware"
)

// @title           Event Split API
// @version         1.0
// @description     Expense allocation and itinerary-attendance gating for shared events.
// @host            localhost:8080
// @BasePath        /api/v1
func main() {
	// Load .env file
	envErr := godotenv.Load()

	// Load configuration
	cfg := config.Load()

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if envErr != nil {
		logger.Info("no .env file found, using environment variables")
	}
	for _, w := range cfg.Warnings {
		logger.Warn("config: " + w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db, err := database.NewPostgresConnection(ctx, cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	// Repositories
	eventRepo := event.NewRepository(db)
	expenseRepo := expense.NewRepository(db)
	itineraryRepo := itinerary.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	userRepo := user.NewRepository(db)

	// Event feature resolves hosts and people for the others
	eventService := event.NewService(eventRepo, expenseRepo, itineraryRepo, cfg.DefaultCurrency, logger)
	eventHandler := event.NewHandler(eventService)

	// Expense feature
	expenseService := expense.NewService(expenseRepo, eventService, logger)
	expenseHandler := expense.NewHandler(expenseService)

	// Itinerary feature
	itineraryService := itinerary.NewService(itineraryRepo, eventService, logger)
	itineraryHandler := itinerary.NewHandler(itineraryService)

	// User profiles
	userService := user.NewService(userRepo, logger)
	userHandler := user.NewHandler(userService)

	// Notification feature
	notificationService := notification.NewService(notificationRepo, userService, logger)
	notificationHandler := notification.NewHandler(notificationService)

	// Attendance gating
	attendanceService := attendance.NewService(attendance.Collaborators{
		Membership: eventService,
		Store:      itineraryService,
		Events:     eventService,
		Timeout:    cfg.CollaboratorTimeout,
	}, notificationService, logger)
	attendanceHandler := attendance.NewHandler(attendanceService)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.UserMiddleware)
	r.Use(mw.RequestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/events", eventHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/itinerary", itineraryHandler.Routes())
		r.Mount("/attendance", attendanceHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())
		r.Mount("/users", userHandler.Routes())
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
