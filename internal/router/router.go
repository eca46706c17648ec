package router

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/tripstack/train-booking-system/internal/auth"
	"github.com/tripstack/train-booking-system/internal/handlers"
)

// SetupRouter creates and configures the HTTP router. Catalog
// mutations require the staff flag; everything else under /api
// requires authentication except registration, login and refresh.
func SetupRouter(h *handlers.Handler, authMiddleware *auth.Middleware) *mux.Router {
	r := mux.NewRouter()

	r.Use(corsMiddleware)
	r.Use(loggingMiddleware)

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Accounts
	api.HandleFunc("/users/register", h.Register).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/users/login", h.Login).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/users/refresh", h.Refresh).Methods(http.MethodPost, http.MethodOptions)

	// Authenticated reads and orders
	authed := api.NewRoute().Subrouter()
	authed.Use(authMiddleware.RequireAuth)

	authed.HandleFunc("/users/me", h.Profile).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/users/me", h.UpdateProfile).Methods(http.MethodPut, http.MethodOptions)

	authed.HandleFunc("/stations", h.ListStations).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/stations/{id:[0-9]+}", h.GetStation).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/train-types", h.ListTrainTypes).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/crews", h.ListCrews).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/trains", h.ListTrains).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/trains/{id:[0-9]+}", h.GetTrain).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/routes", h.ListRoutes).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/routes/{id:[0-9]+}", h.GetRoute).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/journeys", h.ListJourneys).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/journeys/{id:[0-9]+}", h.GetJourney).Methods(http.MethodGet, http.MethodOptions)

	authed.HandleFunc("/orders", h.CreateOrder).Methods(http.MethodPost, http.MethodOptions)
	authed.HandleFunc("/orders", h.ListOrders).Methods(http.MethodGet, http.MethodOptions)

	// Staff-only catalog mutations
	staff := api.NewRoute().Subrouter()
	staff.Use(authMiddleware.RequireStaff)

	staff.HandleFunc("/stations", h.CreateStation).Methods(http.MethodPost, http.MethodOptions)
	staff.HandleFunc("/train-types", h.CreateTrainType).Methods(http.MethodPost, http.MethodOptions)
	staff.HandleFunc("/crews", h.CreateCrew).Methods(http.MethodPost, http.MethodOptions)
	staff.HandleFunc("/trains", h.CreateTrain).Methods(http.MethodPost, http.MethodOptions)
	staff.HandleFunc("/trains/{id:[0-9]+}", h.UpdateTrain).Methods(http.MethodPut, http.MethodOptions)
	staff.HandleFunc("/trains/{id:[0-9]+}", h.DeleteTrain).Methods(http.MethodDelete)
	staff.HandleFunc("/routes", h.CreateRoute).Methods(http.MethodPost, http.MethodOptions)
	staff.HandleFunc("/routes/{id:[0-9]+}", h.UpdateRoute).Methods(http.MethodPut, http.MethodOptions)
	staff.HandleFunc("/routes/{id:[0-9]+}", h.DeleteRoute).Methods(http.MethodDelete)
	staff.HandleFunc("/journeys", h.CreateJourney).Methods(http.MethodPost, http.MethodOptions)
	staff.HandleFunc("/journeys/{id:[0-9]+}", h.UpdateJourney).Methods(http.MethodPut, http.MethodOptions)
	staff.HandleFunc("/journeys/{id:[0-9]+}", h.DeleteJourney).Methods(http.MethodDelete)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logrus.WithFields(logrus.Fields{
			"request_id": uuid.NewString(),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
		}).Info("request completed")
	})
}
