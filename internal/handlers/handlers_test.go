package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tripstack/train-booking-system/internal/auth"
	"github.com/tripstack/train-booking-system/internal/database"
	"github.com/tripstack/train-booking-system/internal/service"
	"github.com/tripstack/train-booking-system/internal/service/mocks"
)

func testMiddleware() (*auth.JWTService, *auth.Middleware) {
	jwtService := auth.NewJWTService("test-secret", 15*time.Minute, time.Hour)
	return jwtService, auth.NewMiddleware(jwtService)
}

func setupTestRouter(h *Handler, m *auth.Middleware) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/users/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/users/login", h.Login).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(m.RequireAuth)
	authed.HandleFunc("/stations", h.ListStations).Methods(http.MethodGet)
	authed.HandleFunc("/journeys", h.ListJourneys).Methods(http.MethodGet)
	authed.HandleFunc("/journeys/{id:[0-9]+}", h.GetJourney).Methods(http.MethodGet)
	authed.HandleFunc("/orders", h.CreateOrder).Methods(http.MethodPost)
	authed.HandleFunc("/orders", h.ListOrders).Methods(http.MethodGet)

	staff := api.NewRoute().Subrouter()
	staff.Use(m.RequireStaff)
	staff.HandleFunc("/stations", h.CreateStation).Methods(http.MethodPost)
	staff.HandleFunc("/trains/{id:[0-9]+}", h.UpdateTrain).Methods(http.MethodPut)
	staff.HandleFunc("/journeys/{id:[0-9]+}", h.DeleteJourney).Methods(http.MethodDelete)

	return r
}

func bearerToken(t *testing.T, jwtService *auth.JWTService, userID int64, isStaff bool) string {
	t.Helper()
	access, _, err := jwtService.GenerateTokenPair(userID, isStaff)
	require.NoError(t, err)
	return "Bearer " + access
}

func TestHandler_ListStations(t *testing.T) {
	jwtService, middleware := testMiddleware()
	mockService := new(mocks.MockService)
	handler := NewHandler(mockService, nil)
	router := setupTestRouter(handler, middleware)

	expected := []database.Station{
		{ID: 1, Name: "Central", Latitude: 50.45, Longitude: 30.52},
	}
	mockService.On("ListStations", mock.Anything, database.Page{Limit: 20, Offset: 0}).Return(expected, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stations", nil)
	req.Header.Set("Authorization", bearerToken(t, jwtService, 1, false))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Count   int                `json:"count"`
		Results []database.Station `json:"results"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 1, response.Count)
	require.Len(t, response.Results, 1)
	assert.Equal(t, "Central", response.Results[0].Name)

	mockService.AssertExpectations(t)
}

func TestHandler_ListStations_AuthRequired(t *testing.T) {
	_, middleware := testMiddleware()
	mockService := new(mocks.MockService)
	handler := NewHandler(mockService, nil)
	router := setupTestRouter(handler, middleware)

	req := httptest.NewRequest(http.MethodGet, "/api/stations", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockService.AssertNotCalled(t, "ListStations", mock.Anything, mock.Anything)
}

func TestHandler_CreateStation_StaffGate(t *testing.T) {
	tests := []struct {
		name           string
		isStaff        bool
		expectedStatus int
		shouldCallMock bool
	}{
		{name: "staff may create", isStaff: true, expectedStatus: http.StatusCreated, shouldCallMock: true},
		{name: "regular user forbidden", isStaff: false, expectedStatus: http.StatusForbidden, shouldCallMock: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService, middleware := testMiddleware()
			mockService := new(mocks.MockService)
			handler := NewHandler(mockService, nil)
			router := setupTestRouter(handler, middleware)

			payload := service.CreateStationRequest{Name: "Central", Latitude: 50.45, Longitude: 30.52}
			if tt.shouldCallMock {
				mockService.On("CreateStation", mock.Anything, payload).
					Return(&database.Station{ID: 1, Name: "Central", Latitude: 50.45, Longitude: 30.52}, nil)
			}

			body, _ := json.Marshal(payload)
			req := httptest.NewRequest(http.MethodPost, "/api/stations", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", bearerToken(t, jwtService, 1, tt.isStaff))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if !tt.shouldCallMock {
				mockService.AssertNotCalled(t, "CreateStation", mock.Anything, mock.Anything)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_ListJourneys_Filters(t *testing.T) {
	jwtService, middleware := testMiddleware()
	mockService := new(mocks.MockService)
	handler := NewHandler(mockService, nil)
	router := setupTestRouter(handler, middleware)

	departure := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	expectedFilter := database.JourneyFilter{
		RouteIDs:      []int64{2, 5},
		TrainIDs:      []int64{1},
		DepartureDate: &departure,
	}
	summaries := []database.JourneySummary{
		{ID: 3, Route: "Central - Seaside", DepartureTime: departure.Add(8 * time.Hour)},
	}
	mockService.On("ListJourneys", mock.Anything, expectedFilter, database.Page{Limit: 20, Offset: 0}).
		Return(summaries, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/journeys?route=2,5&train=1&departure_time=2024-06-01", nil)
	req.Header.Set("Authorization", bearerToken(t, jwtService, 1, false))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_ListJourneys_BadFilter(t *testing.T) {
	jwtService, middleware := testMiddleware()
	mockService := new(mocks.MockService)
	handler := NewHandler(mockService, nil)
	router := setupTestRouter(handler, middleware)

	req := httptest.NewRequest(http.MethodGet, "/api/journeys?route=2,abc", nil)
	req.Header.Set("Authorization", bearerToken(t, jwtService, 1, false))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "ListJourneys", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_GetJourney(t *testing.T) {
	tests := []struct {
		name           string
		journeyID      string
		mockReturn     *database.JourneyDetail
		mockError      error
		expectedStatus int
	}{
		{
			name:           "journey found",
			journeyID:      "3",
			mockReturn:     &database.JourneyDetail{ID: 3},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "journey not found",
			journeyID:      "99",
			mockError:      database.ErrNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService, middleware := testMiddleware()
			mockService := new(mocks.MockService)
			handler := NewHandler(mockService, nil)
			router := setupTestRouter(handler, middleware)

			mockService.On("GetJourney", mock.Anything, mock.AnythingOfType("int64")).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, "/api/journeys/"+tt.journeyID, nil)
			req.Header.Set("Authorization", bearerToken(t, jwtService, 1, false))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_CreateOrder(t *testing.T) {
	orderRequest := service.CreateOrderRequest{
		Tickets: []database.TicketSpec{
			{Cargo: 1, Seat: 1, JourneyID: 3},
			{Cargo: 1, Seat: 2, JourneyID: 3},
		},
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockReturn     *database.Order
		mockError      error
		expectedStatus int
		shouldCallMock bool
	}{
		{
			name:        "valid order creation",
			requestBody: orderRequest,
			mockReturn: &database.Order{
				ID:        10,
				CreatedAt: time.Now(),
				Tickets: []database.Ticket{
					{ID: 1, Cargo: 1, Seat: 1, JourneyID: 3, OrderID: 10},
					{ID: 2, Cargo: 1, Seat: 2, JourneyID: 3, OrderID: 10},
				},
			},
			expectedStatus: http.StatusCreated,
			shouldCallMock: true,
		},
		{
			name:           "empty ticket list",
			requestBody:    service.CreateOrderRequest{},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
		{
			name:           "seat already taken",
			requestBody:    orderRequest,
			mockError:      &database.SeatTakenError{JourneyID: 3, Seat: 2},
			expectedStatus: http.StatusConflict,
			shouldCallMock: true,
		},
		{
			name:           "negative cargo",
			requestBody:    orderRequest,
			mockError:      &database.ValidationError{Field: "cargo", Message: "cargo must be a non-negative integer"},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: true,
		},
		{
			name:           "unknown journey",
			requestBody:    orderRequest,
			mockError:      database.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			shouldCallMock: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService, middleware := testMiddleware()
			mockService := new(mocks.MockService)
			handler := NewHandler(mockService, nil)
			router := setupTestRouter(handler, middleware)

			if tt.shouldCallMock {
				mockService.On("CreateOrder", mock.Anything, int64(42), mock.AnythingOfType("service.CreateOrderRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", bearerToken(t, jwtService, 42, false))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusConflict {
				// The payload names the colliding request.
				assert.Contains(t, rec.Body.String(), "seat 2 on journey 3")
			}
			if !tt.shouldCallMock {
				mockService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestHandler_UpdateTrain(t *testing.T) {
	payload := service.CreateTrainRequest{Name: "Night Express", CargoNum: 8, PlacesInCargo: "40", TrainTypeID: 1}

	tests := []struct {
		name           string
		isStaff        bool
		mockReturn     *database.Train
		mockError      error
		expectedStatus int
		shouldCallMock bool
	}{
		{
			name:           "staff may update",
			isStaff:        true,
			mockReturn:     &database.Train{ID: 5, Name: "Night Express", CargoNum: 8, PlacesInCargo: "40", TrainTypeID: 1},
			expectedStatus: http.StatusOK,
			shouldCallMock: true,
		},
		{
			name:           "unknown train",
			isStaff:        true,
			mockError:      database.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			shouldCallMock: true,
		},
		{
			name:           "regular user forbidden",
			isStaff:        false,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService, middleware := testMiddleware()
			mockService := new(mocks.MockService)
			handler := NewHandler(mockService, nil)
			router := setupTestRouter(handler, middleware)

			if tt.shouldCallMock {
				mockService.On("UpdateTrain", mock.Anything, int64(5), payload).Return(tt.mockReturn, tt.mockError)
			}

			body, _ := json.Marshal(payload)
			req := httptest.NewRequest(http.MethodPut, "/api/trains/5", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", bearerToken(t, jwtService, 1, tt.isStaff))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if !tt.shouldCallMock {
				mockService.AssertNotCalled(t, "UpdateTrain", mock.Anything, mock.Anything, mock.Anything)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_DeleteJourney(t *testing.T) {
	tests := []struct {
		name           string
		isStaff        bool
		mockError      error
		expectedStatus int
		shouldCallMock bool
	}{
		{name: "staff may delete", isStaff: true, expectedStatus: http.StatusNoContent, shouldCallMock: true},
		{name: "unknown journey", isStaff: true, mockError: database.ErrNotFound, expectedStatus: http.StatusNotFound, shouldCallMock: true},
		{name: "regular user forbidden", isStaff: false, expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService, middleware := testMiddleware()
			mockService := new(mocks.MockService)
			handler := NewHandler(mockService, nil)
			router := setupTestRouter(handler, middleware)

			if tt.shouldCallMock {
				mockService.On("DeleteJourney", mock.Anything, int64(3)).Return(tt.mockError)
			}

			req := httptest.NewRequest(http.MethodDelete, "/api/journeys/3", nil)
			req.Header.Set("Authorization", bearerToken(t, jwtService, 1, tt.isStaff))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if !tt.shouldCallMock {
				mockService.AssertNotCalled(t, "DeleteJourney", mock.Anything, mock.Anything)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_CreateOrder_AuthRequired(t *testing.T) {
	_, middleware := testMiddleware()
	mockService := new(mocks.MockService)
	handler := NewHandler(mockService, nil)
	router := setupTestRouter(handler, middleware)

	body, _ := json.Marshal(service.CreateOrderRequest{
		Tickets: []database.TicketSpec{{Cargo: 1, Seat: 1, JourneyID: 3}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_ListOrders_ScopedToCaller(t *testing.T) {
	jwtService, middleware := testMiddleware()
	mockService := new(mocks.MockService)
	handler := NewHandler(mockService, nil)
	router := setupTestRouter(handler, middleware)

	orders := []database.OrderSummary{
		{ID: 10, CreatedAt: time.Now(), Tickets: []database.TicketSummary{
			{ID: 1, Cargo: 1, Seat: 1, JourneyRoute: "Central - Seaside", OrderID: 10},
		}},
	}
	// The user id comes from the token, never from the request.
	mockService.On("ListOrders", mock.Anything, int64(42), database.Page{Limit: 20, Offset: 0}).
		Return(orders, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", bearerToken(t, jwtService, 42, false))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_Register(t *testing.T) {
	_, middleware := testMiddleware()
	mockAuth := new(mocks.MockAuthService)
	handler := NewHandler(new(mocks.MockService), mockAuth)
	router := setupTestRouter(handler, middleware)

	payload := service.RegisterRequest{Email: "rider@example.com", Password: "super-secret"}
	mockAuth.On("Register", mock.Anything, payload).Return(&service.AuthResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         database.User{ID: 1, Email: "rider@example.com"},
	}, nil)

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	mockAuth.AssertExpectations(t)
}

func TestHandler_Login_BadCredentials(t *testing.T) {
	_, middleware := testMiddleware()
	mockAuth := new(mocks.MockAuthService)
	handler := NewHandler(new(mocks.MockService), mockAuth)
	router := setupTestRouter(handler, middleware)

	payload := service.LoginRequest{Email: "rider@example.com", Password: "wrong"}
	mockAuth.On("Login", mock.Anything, payload).Return(nil, service.ErrInvalidCredentials)

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockAuth.AssertExpectations(t)
}
