package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tripstack/train-booking-system/internal/database"
	"github.com/tripstack/train-booking-system/internal/service"
)

// MockService is a mock implementation of service.BookingService
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateStation(ctx context.Context, req service.CreateStationRequest) (*database.Station, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Station), args.Error(1)
}

func (m *MockService) GetStation(ctx context.Context, id int64) (*database.Station, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Station), args.Error(1)
}

func (m *MockService) ListStations(ctx context.Context, page database.Page) ([]database.Station, int, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]database.Station), args.Int(1), args.Error(2)
}

func (m *MockService) CreateTrainType(ctx context.Context, req service.CreateTrainTypeRequest) (*database.TrainType, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.TrainType), args.Error(1)
}

func (m *MockService) ListTrainTypes(ctx context.Context, page database.Page) ([]database.TrainType, int, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]database.TrainType), args.Int(1), args.Error(2)
}

func (m *MockService) CreateCrew(ctx context.Context, req service.CreateCrewRequest) (*database.Crew, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Crew), args.Error(1)
}

func (m *MockService) ListCrews(ctx context.Context, page database.Page) ([]database.Crew, int, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]database.Crew), args.Int(1), args.Error(2)
}

func (m *MockService) CreateTrain(ctx context.Context, req service.CreateTrainRequest) (*database.Train, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Train), args.Error(1)
}

func (m *MockService) GetTrain(ctx context.Context, id int64) (*database.TrainSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.TrainSummary), args.Error(1)
}

func (m *MockService) ListTrains(ctx context.Context, filter database.TrainFilter, page database.Page) ([]database.TrainSummary, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]database.TrainSummary), args.Int(1), args.Error(2)
}

func (m *MockService) UpdateTrain(ctx context.Context, id int64, req service.CreateTrainRequest) (*database.Train, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Train), args.Error(1)
}

func (m *MockService) DeleteTrain(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) CreateRoute(ctx context.Context, req service.CreateRouteRequest) (*database.Route, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Route), args.Error(1)
}

func (m *MockService) GetRoute(ctx context.Context, id int64) (*database.RouteDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.RouteDetail), args.Error(1)
}

func (m *MockService) ListRoutes(ctx context.Context, filter database.RouteFilter, page database.Page) ([]database.RouteSummary, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]database.RouteSummary), args.Int(1), args.Error(2)
}

func (m *MockService) UpdateRoute(ctx context.Context, id int64, req service.CreateRouteRequest) (*database.Route, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Route), args.Error(1)
}

func (m *MockService) DeleteRoute(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) CreateJourney(ctx context.Context, req service.CreateJourneyRequest) (*database.Journey, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Journey), args.Error(1)
}

func (m *MockService) GetJourney(ctx context.Context, id int64) (*database.JourneyDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.JourneyDetail), args.Error(1)
}

func (m *MockService) ListJourneys(ctx context.Context, filter database.JourneyFilter, page database.Page) ([]database.JourneySummary, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]database.JourneySummary), args.Int(1), args.Error(2)
}

func (m *MockService) UpdateJourney(ctx context.Context, id int64, req service.CreateJourneyRequest) (*database.Journey, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Journey), args.Error(1)
}

func (m *MockService) DeleteJourney(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) CreateOrder(ctx context.Context, userID int64, req service.CreateOrderRequest) (*database.Order, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Order), args.Error(1)
}

func (m *MockService) ListOrders(ctx context.Context, userID int64, page database.Page) ([]database.OrderSummary, int, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]database.OrderSummary), args.Int(1), args.Error(2)
}
