package service

import (
	"context"
	"time"

	"github.com/tripstack/train-booking-system/internal/database"
)

// CreateStationRequest is the payload for registering a station
type CreateStationRequest struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateTrainTypeRequest is the payload for registering a train type
type CreateTrainTypeRequest struct {
	Name string `json:"name"`
}

// CreateCrewRequest is the payload for registering a crew member
type CreateCrewRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CreateTrainRequest is the payload for registering a train
type CreateTrainRequest struct {
	Name          string `json:"name"`
	CargoNum      int    `json:"cargo_num"`
	PlacesInCargo string `json:"places_in_cargo"`
	TrainTypeID   int64  `json:"train_type"`
}

// CreateRouteRequest is the payload for registering a route
type CreateRouteRequest struct {
	SourceID      int64 `json:"source"`
	DestinationID int64 `json:"destination"`
	Distance      int   `json:"distance"`
}

// CreateJourneyRequest is the payload for scheduling a journey
type CreateJourneyRequest struct {
	RouteID       int64     `json:"route"`
	TrainID       int64     `json:"train"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	CrewIDs       []int64   `json:"crew"`
}

// CreateOrderRequest is the payload for booking tickets. The order
// timestamp is assigned server-side.
type CreateOrderRequest struct {
	Tickets []database.TicketSpec `json:"tickets"`
}

// BookingService is the application surface consumed by the HTTP
// handlers
type BookingService interface {
	CreateStation(ctx context.Context, req CreateStationRequest) (*database.Station, error)
	GetStation(ctx context.Context, id int64) (*database.Station, error)
	ListStations(ctx context.Context, page database.Page) ([]database.Station, int, error)

	CreateTrainType(ctx context.Context, req CreateTrainTypeRequest) (*database.TrainType, error)
	ListTrainTypes(ctx context.Context, page database.Page) ([]database.TrainType, int, error)

	CreateCrew(ctx context.Context, req CreateCrewRequest) (*database.Crew, error)
	ListCrews(ctx context.Context, page database.Page) ([]database.Crew, int, error)

	CreateTrain(ctx context.Context, req CreateTrainRequest) (*database.Train, error)
	GetTrain(ctx context.Context, id int64) (*database.TrainSummary, error)
	ListTrains(ctx context.Context, filter database.TrainFilter, page database.Page) ([]database.TrainSummary, int, error)
	UpdateTrain(ctx context.Context, id int64, req CreateTrainRequest) (*database.Train, error)
	DeleteTrain(ctx context.Context, id int64) error

	CreateRoute(ctx context.Context, req CreateRouteRequest) (*database.Route, error)
	GetRoute(ctx context.Context, id int64) (*database.RouteDetail, error)
	ListRoutes(ctx context.Context, filter database.RouteFilter, page database.Page) ([]database.RouteSummary, int, error)
	UpdateRoute(ctx context.Context, id int64, req CreateRouteRequest) (*database.Route, error)
	DeleteRoute(ctx context.Context, id int64) error

	CreateJourney(ctx context.Context, req CreateJourneyRequest) (*database.Journey, error)
	GetJourney(ctx context.Context, id int64) (*database.JourneyDetail, error)
	ListJourneys(ctx context.Context, filter database.JourneyFilter, page database.Page) ([]database.JourneySummary, int, error)
	UpdateJourney(ctx context.Context, id int64, req CreateJourneyRequest) (*database.Journey, error)
	DeleteJourney(ctx context.Context, id int64) error

	CreateOrder(ctx context.Context, userID int64, req CreateOrderRequest) (*database.Order, error)
	ListOrders(ctx context.Context, userID int64, page database.Page) ([]database.OrderSummary, int, error)
}

// bookingServiceImpl implements BookingService over the repository
type bookingServiceImpl struct {
	repo *database.Repository
}

// NewBookingService creates a BookingService
func NewBookingService(repo *database.Repository) BookingService {
	return &bookingServiceImpl{repo: repo}
}

func (s *bookingServiceImpl) CreateStation(ctx context.Context, req CreateStationRequest) (*database.Station, error) {
	if req.Name == "" {
		return nil, &database.ValidationError{Field: "name", Message: "name is required"}
	}
	station := &database.Station{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := s.repo.CreateStation(ctx, station); err != nil {
		return nil, err
	}
	return station, nil
}

func (s *bookingServiceImpl) GetStation(ctx context.Context, id int64) (*database.Station, error) {
	return s.repo.GetStationByID(ctx, id)
}

func (s *bookingServiceImpl) ListStations(ctx context.Context, page database.Page) ([]database.Station, int, error) {
	return s.repo.ListStations(ctx, page)
}

func (s *bookingServiceImpl) CreateTrainType(ctx context.Context, req CreateTrainTypeRequest) (*database.TrainType, error) {
	if req.Name == "" {
		return nil, &database.ValidationError{Field: "name", Message: "name is required"}
	}
	tt := &database.TrainType{Name: req.Name}
	if err := s.repo.CreateTrainType(ctx, tt); err != nil {
		return nil, err
	}
	return tt, nil
}

func (s *bookingServiceImpl) ListTrainTypes(ctx context.Context, page database.Page) ([]database.TrainType, int, error) {
	return s.repo.ListTrainTypes(ctx, page)
}

func (s *bookingServiceImpl) CreateCrew(ctx context.Context, req CreateCrewRequest) (*database.Crew, error) {
	if req.FirstName == "" || req.LastName == "" {
		return nil, &database.ValidationError{Field: "name", Message: "first_name and last_name are required"}
	}
	crew := &database.Crew{FirstName: req.FirstName, LastName: req.LastName}
	if err := s.repo.CreateCrew(ctx, crew); err != nil {
		return nil, err
	}
	return crew, nil
}

func (s *bookingServiceImpl) ListCrews(ctx context.Context, page database.Page) ([]database.Crew, int, error) {
	return s.repo.ListCrews(ctx, page)
}

func (s *bookingServiceImpl) CreateTrain(ctx context.Context, req CreateTrainRequest) (*database.Train, error) {
	if req.Name == "" {
		return nil, &database.ValidationError{Field: "name", Message: "name is required"}
	}
	if req.CargoNum <= 0 {
		return nil, &database.ValidationError{Field: "cargo_num", Message: "cargo_num must be a positive integer"}
	}
	train := &database.Train{
		Name:          req.Name,
		CargoNum:      req.CargoNum,
		PlacesInCargo: req.PlacesInCargo,
		TrainTypeID:   req.TrainTypeID,
	}
	if err := s.repo.CreateTrain(ctx, train); err != nil {
		return nil, err
	}
	return train, nil
}

func (s *bookingServiceImpl) GetTrain(ctx context.Context, id int64) (*database.TrainSummary, error) {
	return s.repo.GetTrainByID(ctx, id)
}

func (s *bookingServiceImpl) ListTrains(ctx context.Context, filter database.TrainFilter, page database.Page) ([]database.TrainSummary, int, error) {
	return s.repo.ListTrains(ctx, filter, page)
}

func (s *bookingServiceImpl) UpdateTrain(ctx context.Context, id int64, req CreateTrainRequest) (*database.Train, error) {
	if req.Name == "" {
		return nil, &database.ValidationError{Field: "name", Message: "name is required"}
	}
	if req.CargoNum <= 0 {
		return nil, &database.ValidationError{Field: "cargo_num", Message: "cargo_num must be a positive integer"}
	}
	train := &database.Train{
		ID:            id,
		Name:          req.Name,
		CargoNum:      req.CargoNum,
		PlacesInCargo: req.PlacesInCargo,
		TrainTypeID:   req.TrainTypeID,
	}
	if err := s.repo.UpdateTrain(ctx, train); err != nil {
		return nil, err
	}
	return train, nil
}

func (s *bookingServiceImpl) DeleteTrain(ctx context.Context, id int64) error {
	return s.repo.DeleteTrain(ctx, id)
}

func (s *bookingServiceImpl) CreateRoute(ctx context.Context, req CreateRouteRequest) (*database.Route, error) {
	if req.Distance <= 0 {
		return nil, &database.ValidationError{Field: "distance", Message: "distance must be a positive integer"}
	}
	route := &database.Route{
		SourceID:      req.SourceID,
		DestinationID: req.DestinationID,
		Distance:      req.Distance,
	}
	if err := s.repo.CreateRoute(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

func (s *bookingServiceImpl) GetRoute(ctx context.Context, id int64) (*database.RouteDetail, error) {
	return s.repo.GetRouteByID(ctx, id)
}

func (s *bookingServiceImpl) ListRoutes(ctx context.Context, filter database.RouteFilter, page database.Page) ([]database.RouteSummary, int, error) {
	return s.repo.ListRoutes(ctx, filter, page)
}

func (s *bookingServiceImpl) UpdateRoute(ctx context.Context, id int64, req CreateRouteRequest) (*database.Route, error) {
	if req.Distance <= 0 {
		return nil, &database.ValidationError{Field: "distance", Message: "distance must be a positive integer"}
	}
	route := &database.Route{
		ID:            id,
		SourceID:      req.SourceID,
		DestinationID: req.DestinationID,
		Distance:      req.Distance,
	}
	if err := s.repo.UpdateRoute(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

func (s *bookingServiceImpl) DeleteRoute(ctx context.Context, id int64) error {
	return s.repo.DeleteRoute(ctx, id)
}

func (s *bookingServiceImpl) CreateJourney(ctx context.Context, req CreateJourneyRequest) (*database.Journey, error) {
	if req.DepartureTime.IsZero() || req.ArrivalTime.IsZero() {
		return nil, &database.ValidationError{Field: "departure_time", Message: "departure_time and arrival_time are required"}
	}
	journey := &database.Journey{
		RouteID:       req.RouteID,
		TrainID:       req.TrainID,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		CrewIDs:       req.CrewIDs,
	}
	if err := s.repo.CreateJourney(ctx, journey); err != nil {
		return nil, err
	}
	return journey, nil
}

func (s *bookingServiceImpl) GetJourney(ctx context.Context, id int64) (*database.JourneyDetail, error) {
	return s.repo.GetJourneyByID(ctx, id)
}

func (s *bookingServiceImpl) ListJourneys(ctx context.Context, filter database.JourneyFilter, page database.Page) ([]database.JourneySummary, int, error) {
	return s.repo.ListJourneys(ctx, filter, page)
}

func (s *bookingServiceImpl) UpdateJourney(ctx context.Context, id int64, req CreateJourneyRequest) (*database.Journey, error) {
	if req.DepartureTime.IsZero() || req.ArrivalTime.IsZero() {
		return nil, &database.ValidationError{Field: "departure_time", Message: "departure_time and arrival_time are required"}
	}
	journey := &database.Journey{
		ID:            id,
		RouteID:       req.RouteID,
		TrainID:       req.TrainID,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		CrewIDs:       req.CrewIDs,
	}
	if err := s.repo.UpdateJourney(ctx, journey); err != nil {
		return nil, err
	}
	return journey, nil
}

func (s *bookingServiceImpl) DeleteJourney(ctx context.Context, id int64) error {
	return s.repo.DeleteJourney(ctx, id)
}

func (s *bookingServiceImpl) CreateOrder(ctx context.Context, userID int64, req CreateOrderRequest) (*database.Order, error) {
	return s.repo.CreateOrder(ctx, userID, req.Tickets)
}

func (s *bookingServiceImpl) ListOrders(ctx context.Context, userID int64, page database.Page) ([]database.OrderSummary, int, error) {
	return s.repo.ListOrders(ctx, userID, page)
}
