package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tripstack/train-booking-system/internal/auth"
	"github.com/tripstack/train-booking-system/internal/database"
	"github.com/tripstack/train-booking-system/internal/service"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	bookingService service.BookingService
	authService    service.AuthService
}

// NewHandler creates a new Handler instance
func NewHandler(bookingService service.BookingService, authService service.AuthService) *Handler {
	return &Handler{
		bookingService: bookingService,
		authService:    authService,
	}
}

// pagedResponse is the envelope for all list endpoints
type pagedResponse struct {
	Count   int `json:"count"`
	Results any `json:"results"`
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto HTTP statuses:
// validation 400 (seat collisions 409), missing records 404, bad
// credentials or tokens 401.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *database.ValidationError
	switch {
	case errors.Is(err, database.ErrSeatTaken):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &validationErr):
		// err, not validationErr: wrapping may have prefixed which
		// ticket request was rejected.
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// --- Stations ---

// CreateStation handles POST /api/stations
func (h *Handler) CreateStation(w http.ResponseWriter, r *http.Request) {
	var req service.CreateStationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	station, err := h.bookingService.CreateStation(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, station)
}

// GetStation handles GET /api/stations/{id}
func (h *Handler) GetStation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	station, err := h.bookingService.GetStation(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, station)
}

// ListStations handles GET /api/stations
func (h *Handler) ListStations(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	stations, total, err := h.bookingService.ListStations(r.Context(), page)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if stations == nil {
		stations = []database.Station{}
	}
	respondJSON(w, http.StatusOK, pagedResponse{Count: total, Results: stations})
}

// --- Train types ---

// CreateTrainType handles POST /api/train-types
func (h *Handler) CreateTrainType(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTrainTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tt, err := h.bookingService.CreateTrainType(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tt)
}

// ListTrainTypes handles GET /api/train-types
func (h *Handler) ListTrainTypes(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	types, total, err := h.bookingService.ListTrainTypes(r.Context(), page)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if types == nil {
		types = []database.TrainType{}
	}
	respondJSON(w, http.StatusOK, pagedResponse{Count: total, Results: types})
}

// --- Crews ---

// CreateCrew handles POST /api/crews
func (h *Handler) CreateCrew(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCrewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	crew, err := h.bookingService.CreateCrew(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, crew)
}

// ListCrews handles GET /api/crews
func (h *Handler) ListCrews(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	crews, total, err := h.bookingService.ListCrews(r.Context(), page)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if crews == nil {
		crews = []database.Crew{}
	}
	respondJSON(w, http.StatusOK, pagedResponse{Count: total, Results: crews})
}

// --- Trains ---

// CreateTrain handles POST /api/trains
func (h *Handler) CreateTrain(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTrainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	train, err := h.bookingService.CreateTrain(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, train)
}

// GetTrain handles GET /api/trains/{id}
func (h *Handler) GetTrain(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	train, err := h.bookingService.GetTrain(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, train)
}

// ListTrains handles GET /api/trains with optional filters:
// ?name= (substring), ?cargo_num=, ?places_in_cargo=, ?train_type=2,5
func (h *Handler) ListTrains(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	filter := database.TrainFilter{
		Name:          q.Get("name"),
		PlacesInCargo: q.Get("places_in_cargo"),
	}
	if raw := q.Get("cargo_num"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid cargo_num")
			return
		}
		filter.CargoNum = &n
	}
	filter.TrainTypeIDs, err = parseIDList(q.Get("train_type"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	trains, total, err := h.bookingService.ListTrains(r.Context(), filter, page)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if trains == nil {
		trains = []database.TrainSummary{}
	}
	respondJSON(w, http.StatusOK, pagedResponse{Count: total, Results: trains})
}

// UpdateTrain handles PUT /api/trains/{id}
func (h *Handler) UpdateTrain(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req service.CreateTrainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	train, err := h.bookingService.UpdateTrain(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, train)
}

// DeleteTrain handles DELETE /api/trains/{id}
func (h *Handler) DeleteTrain(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.bookingService.DeleteTrain(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// --- Routes ---

// CreateRoute handles POST /api/routes
func (h *Handler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	route, err := h.bookingService.CreateRoute(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, route)
}

// GetRoute handles GET /api/routes/{id}
func (h *Handler) GetRoute(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	route, err := h.bookingService.GetRoute(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, route)
}

// ListRoutes handles GET /api/routes with optional filters:
// ?source=2,5 and ?destination=2,5
func (h *Handler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	var filter database.RouteFilter
	filter.SourceIDs, err = parseIDList(q.Get("source"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.DestinationIDs, err = parseIDList(q.Get("destination"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	routes, total, err := h.bookingService.ListRoutes(r.Context(), filter, page)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if routes == nil {
		routes = []database.RouteSummary{}
	}
	respondJSON(w, http.StatusOK, pagedResponse{Count: total, Results: routes})
}

// UpdateRoute handles PUT /api/routes/{id}
func (h *Handler) UpdateRoute(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req service.CreateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	route, err := h.bookingService.UpdateRoute(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, route)
}

// DeleteRoute handles DELETE /api/routes/{id}
func (h *Handler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.bookingService.DeleteRoute(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// --- Journeys ---

// CreateJourney handles POST /api/journeys
func (h *Handler) CreateJourney(w http.ResponseWriter, r *http.Request) {
	var req service.CreateJourneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	journey, err := h.bookingService.CreateJourney(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, journey)
}

// GetJourney handles GET /api/journeys/{id}
func (h *Handler) GetJourney(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	journey, err := h.bookingService.GetJourney(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, journey)
}

// ListJourneys handles GET /api/journeys with optional filters:
// ?route=2,5 ?train=2,5 ?departure_time=2024-06-01 ?arrival_time=...
// Date filters match the calendar date only.
func (h *Handler) ListJourneys(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	var filter database.JourneyFilter
	filter.RouteIDs, err = parseIDList(q.Get("route"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.TrainIDs, err = parseIDList(q.Get("train"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.DepartureDate, err = parseDate(q.Get("departure_time"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.ArrivalDate, err = parseDate(q.Get("arrival_time"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	journeys, total, err := h.bookingService.ListJourneys(r.Context(), filter, page)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if journeys == nil {
		journeys = []database.JourneySummary{}
	}
	respondJSON(w, http.StatusOK, pagedResponse{Count: total, Results: journeys})
}

// UpdateJourney handles PUT /api/journeys/{id}; the crew set is
// replaced wholesale
func (h *Handler) UpdateJourney(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req service.CreateJourneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	journey, err := h.bookingService.UpdateJourney(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, journey)
}

// DeleteJourney handles DELETE /api/journeys/{id}; the journey's
// tickets are deleted with it
func (h *Handler) DeleteJourney(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.bookingService.DeleteJourney(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// --- Orders ---

// CreateOrder handles POST /api/orders. The whole batch of tickets is
// booked atomically: if any seat is invalid or taken, nothing is
// persisted.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req service.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Tickets) == 0 {
		respondError(w, http.StatusBadRequest, "at least one ticket is required")
		return
	}

	order, err := h.bookingService.CreateOrder(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

// ListOrders handles GET /api/orders, scoped to the caller's own
// orders, newest first
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	page, err := parsePage(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, total, err := h.bookingService.ListOrders(r.Context(), userID, page)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []database.OrderSummary{}
	}
	respondJSON(w, http.StatusOK, pagedResponse{Count: total, Results: orders})
}

// --- Users ---

// Register handles POST /api/users/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authService.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/users/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Refresh handles POST /api/users/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		respondError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	resp, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Profile handles GET /api/users/me
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.authService.Profile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/users/me
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req service.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
