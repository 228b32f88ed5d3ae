package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"dermaclinic/internal/api"
	"dermaclinic/internal/auth"
	"dermaclinic/internal/repository"
	"dermaclinic/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	loc, err := time.LoadLocation(envStr("CLINIC_TIMEZONE", "Local"))
	if err != nil {
		log.Fatalf("Invalid CLINIC_TIMEZONE: %v", err)
	}

	granularity := envInt("SLOT_GRANULARITY_MINUTES", 30)
	duration := envInt("APPOINTMENT_DURATION_MINUTES", 30)
	lockout := time.Duration(envInt("RESCHEDULE_LOCKOUT_HOURS", 12)) * time.Hour
	pendingMaxAge := time.Duration(envInt("PENDING_MAX_AGE_HOURS", 24)) * time.Hour

	appointmentRepo := repository.NewAppointmentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	jobRepo := repository.NewJobRepository(db)

	now := func() time.Time { return time.Now().In(loc) }
	appointmentSvc := service.NewAppointmentService(appointmentRepo, scheduleRepo, doctorRepo, granularity, duration, lockout, loc, now)
	scheduleSvc := service.NewScheduleService(scheduleRepo, doctorRepo)
	adminSvc := service.NewAdminService(appointmentRepo, appointmentSvc)
	jobSvc := service.NewJobService(jobRepo)

	appointmentHandler := api.NewAppointmentHandler(appointmentSvc)
	scheduleHandler := api.NewScheduleHandler(scheduleSvc)
	adminHandler := api.NewAdminHandler(adminSvc)

	c := cron.New()
	c.AddFunc("@every 15m", func() {
		if err := jobSvc.CompleteFinishedAppointments(now()); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.AddFunc("@hourly", func() {
		deleted, err := jobSvc.DeleteStalePending(now().Add(-pendingMaxAge))
		if err != nil {
			log.Printf("Cron Job error: %v", err)
			return
		}
		if deleted > 0 {
			log.Printf("Cron Job: Deleted %d stale pending appointments", deleted)
		}
	})
	c.Start()
	defer c.Stop()

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/doctors", scheduleHandler.ListDoctors).Methods("GET")
	r.HandleFunc("/api/doctors/{id}/slots", appointmentHandler.GetSlots).Methods("GET")
	r.HandleFunc("/api/doctors/{id}/schedule", scheduleHandler.GetSchedule).Methods("GET")
	r.HandleFunc("/api/doctors/{id}/schedule", scheduleHandler.PutSchedule).Methods("PUT")
	r.HandleFunc("/api/appointments", appointmentHandler.CreateAppointment).Methods("POST")
	r.HandleFunc("/api/appointments/{code}", appointmentHandler.GetAppointment).Methods("GET")
	r.HandleFunc("/api/appointments/{code}", appointmentHandler.RescheduleAppointment).Methods("PUT")
	r.HandleFunc("/api/appointments/{code}", appointmentHandler.CancelAppointment).Methods("DELETE")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware)
	admin.HandleFunc("/appointments", adminHandler.ListAppointments).Methods("GET")
	admin.HandleFunc("/appointments/{id}/status", adminHandler.UpdateAppointmentStatus).Methods("PUT")
	admin.HandleFunc("/appointments/{id}", adminHandler.DeleteAppointment).Methods("DELETE")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{envStr("CORS_ALLOWED_ORIGIN", "*")}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := envStr("PORT", "8080")
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, cors(r)))
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return n
}
