package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"vpark/internal/api"
	"vpark/internal/auth"
	"vpark/internal/config"
	"vpark/internal/db"
	"vpark/internal/repository"
	"vpark/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	dbConn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := dbConn.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := db.EnsureSchema(dbConn); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	userRepo := repository.NewUserRepository(dbConn)
	reservationRepo := repository.NewReservationRepository(dbConn)
	jobRepo := repository.NewJobRepository(dbConn)

	sender := service.NewSenderService(cfg)
	authSvc := service.NewAuthService(userRepo, cfg)
	reservationSvc := service.NewReservationService(reservationRepo, userRepo, sender, cfg)
	jobSvc := service.NewJobService(jobRepo)

	authHandler := api.NewAuthHandler(authSvc)
	reservationHandler := api.NewReservationHandler(reservationSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/health", api.Health(dbConn)).Methods("GET")
	r.HandleFunc("/api/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/rates", reservationHandler.GetRates).Methods("GET")
	r.HandleFunc("/api/availability", reservationHandler.CheckAvailability).Methods("POST")

	// Authenticated endpoints
	private := r.PathPrefix("/api").Subrouter()
	private.Use(auth.Middleware(cfg.JWTSecret))
	private.HandleFunc("/profile", authHandler.Profile).Methods("GET")
	private.HandleFunc("/reservations", reservationHandler.CreateReservation).Methods("POST")
	private.HandleFunc("/reservations", reservationHandler.ListReservations).Methods("GET")
	private.HandleFunc("/reservations/pending", reservationHandler.PendingBills).Methods("GET")
	private.HandleFunc("/reservations/quote", reservationHandler.Quote).Methods("POST")
	private.HandleFunc("/reservations/{id}/pay", reservationHandler.PayReservation).Methods("POST")
	private.HandleFunc("/reservations/{id}", reservationHandler.CancelReservation).Methods("DELETE")

	if cfg.CompletionJobEnabled {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(cfg.CompletionJobSchedule, func() {
			if err := jobSvc.CompleteExpiredReservations(context.Background()); err != nil {
				log.Printf("Completion job failed: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("Failed to schedule completion job: %v", err)
		}
		scheduler.Start()
		log.Printf("Completion job scheduled: %s", cfg.CompletionJobSchedule)
	}

	corsRouter := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handlers.LoggingHandler(os.Stdout, corsRouter)))
}
