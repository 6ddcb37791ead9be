package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sadhanaAPI/handlers"
	"sadhanaAPI/internal/notification"
	"sadhanaAPI/internal/workers"
	"sadhanaAPI/middleware"
	"sadhanaAPI/services"
)

var (
	dbPool              *pgxpool.Pool
	userService         *services.UserService
	sadhanaService      *services.SadhanaService
	bookService         *services.BookService
	challengeService    *services.ChallengeService
	notificationService *services.NotificationService
	sweepService        *services.SweepService
	fcmService          *notification.FCMService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)
	log.Println("Clerk initialized successfully")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to database")

	notificationService = services.NewNotificationService(dbPool)
	userService = services.NewUserService(dbPool)
	sadhanaService = services.NewSadhanaService(dbPool, notificationService)
	bookService = services.NewBookService(dbPool, notificationService)
	challengeService = services.NewChallengeService(dbPool, notificationService)
	sweepService = services.NewSweepService(dbPool)

	fcmService, err = notification.NewFCMService("./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		notificationService.SetPushProvider(fcmService)
		log.Println("FCM Push Provider initialized successfully")
	}

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	userHandler := handlers.NewUserHandler(userService)
	sadhanaHandler := handlers.NewSadhanaHandler(sadhanaService)
	bookHandler := handlers.NewBookHandler(bookService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	webhookHandler := handlers.NewWebhookHandler(userService)
	cronHandler := handlers.NewCronHandler(sweepService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()
	workers.StartSweepWorker(sweepService)

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "sadhana-api"}`))
	}).Methods("GET")

	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	// Scheduled maintenance, protected by the cron secret.
	cron := r.PathPrefix("/cron").Subrouter()
	cron.Use(middleware.CronAuthMiddleware)
	cron.HandleFunc("/reset-streaks", cronHandler.ResetStreaks).Methods("POST")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user", userHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/user", userHandler.DeleteAccount).Methods("DELETE")
	protected.HandleFunc("/user/goals", userHandler.GetGoals).Methods("GET")
	protected.HandleFunc("/user/goals", userHandler.UpdateGoals).Methods("PUT")
	protected.HandleFunc("/user/streak", userHandler.GetStreak).Methods("GET")

	protected.HandleFunc("/sadhana", sadhanaHandler.UpsertLog).Methods("POST")
	protected.HandleFunc("/sadhana", sadhanaHandler.GetDaily).Methods("GET")
	protected.HandleFunc("/sadhana/monthly", sadhanaHandler.GetMonthly).Methods("GET")
	protected.HandleFunc("/sadhana/calendar", sadhanaHandler.GetCalendar).Methods("GET")

	protected.HandleFunc("/books/library", bookHandler.GetLibrary).Methods("GET")
	protected.HandleFunc("/books/shelf", bookHandler.AddToShelf).Methods("POST")
	protected.HandleFunc("/books/private", bookHandler.AddPrivateBook).Methods("POST")
	protected.HandleFunc("/books/progress", bookHandler.UpdateProgress).Methods("POST")
	protected.HandleFunc("/books/progress/reset", bookHandler.ResetProgress).Methods("POST")
	protected.HandleFunc("/books/{bookId}", bookHandler.DeleteBook).Methods("DELETE")

	protected.HandleFunc("/challenges", challengeHandler.GetChallenges).Methods("GET")
	protected.HandleFunc("/challenges", challengeHandler.CreateChallenge).Methods("POST")
	protected.HandleFunc("/challenges/shlokas", challengeHandler.AddShloka).Methods("POST")
	protected.HandleFunc("/challenges/shlokas/status", challengeHandler.UpdateShlokaStatus).Methods("PUT")
	protected.HandleFunc("/challenges/shlokas/{shlokaId}", challengeHandler.DeleteShloka).Methods("DELETE")
	protected.HandleFunc("/challenges/{challengeId}", challengeHandler.DeleteChallenge).Methods("DELETE")

	protected.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
	protected.HandleFunc("/notifications/unread-count", notificationHandler.GetUnreadCount).Methods("GET")
	protected.HandleFunc("/notifications/{id}/read", notificationHandler.MarkAsRead).Methods("PUT")
	protected.HandleFunc("/notifications/read-all", notificationHandler.MarkAllAsRead).Methods("PUT")
	protected.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Cron-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
