package database

import "time"

// Station represents a railway station in the catalog
type Station struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TrainType represents a class of train (express, intercity, ...)
type TrainType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Train represents a physical train composition
type Train struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	CargoNum      int    `json:"cargo_num"`
	PlacesInCargo string `json:"places_in_cargo"`
	TrainTypeID   int64  `json:"train_type"`
}

// TrainSummary is the read model for trains with the type name
// resolved, used instead of the raw foreign key on read paths
type TrainSummary struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	CargoNum      int    `json:"cargo_num"`
	PlacesInCargo string `json:"places_in_cargo"`
	TrainTypeName string `json:"train_type_name"`
}

// Crew represents a crew member assignable to journeys
type Crew struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Route connects a source station to a destination station.
// Source may equal destination; the catalog does not validate
// geography.
type Route struct {
	ID            int64 `json:"id"`
	SourceID      int64 `json:"source"`
	DestinationID int64 `json:"destination"`
	Distance      int   `json:"distance"`
}

// RouteSummary is the list read model with station names flattened in
type RouteSummary struct {
	ID              int64  `json:"id"`
	SourceName      string `json:"source_station_name"`
	DestinationName string `json:"destination_station_name"`
	Distance        int    `json:"distance"`
}

// RouteDetail is the detail read model with stations fully expanded
type RouteDetail struct {
	ID          int64   `json:"id"`
	Source      Station `json:"source"`
	Destination Station `json:"destination"`
	Distance    int     `json:"distance"`
}

// Journey is a scheduled run of a train over a route within a
// departure/arrival window, staffed by a set of crew members
type Journey struct {
	ID            int64     `json:"id"`
	RouteID       int64     `json:"route"`
	TrainID       int64     `json:"train"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	CrewIDs       []int64   `json:"crew"`
}

// JourneySummary is the list read model: the route collapses to a
// "Source - Destination" label and the train to its summary fields,
// keeping list payloads flat
type JourneySummary struct {
	ID            int64        `json:"id"`
	Route         string       `json:"route"`
	Train         TrainSummary `json:"train"`
	DepartureTime time.Time    `json:"departure_time"`
	ArrivalTime   time.Time    `json:"arrival_time"`
	CrewIDs       []int64      `json:"crew"`
}

// JourneyDetail is the detail read model with the route and its
// stations fully expanded
type JourneyDetail struct {
	ID            int64        `json:"id"`
	Route         RouteDetail  `json:"route"`
	Train         TrainSummary `json:"train"`
	DepartureTime time.Time    `json:"departure_time"`
	ArrivalTime   time.Time    `json:"arrival_time"`
	Crew          []Crew       `json:"crew"`
}

// Ticket reserves one seat in one cargo section of a journey. Tickets
// are only created inside an order transaction and only deleted by
// cascading from their order or journey.
type Ticket struct {
	ID        int64 `json:"id"`
	Cargo     int   `json:"cargo"`
	Seat      int   `json:"seat"`
	JourneyID int64 `json:"journey"`
	OrderID   int64 `json:"order"`
}

// TicketSummary is the list read model with the journey route label
// flattened in
type TicketSummary struct {
	ID           int64  `json:"id"`
	Cargo        int    `json:"cargo"`
	Seat         int    `json:"seat"`
	JourneyRoute string `json:"journey_route"`
	OrderID      int64  `json:"order_id"`
}

// Order is an atomic batch of tickets bought by one user
type Order struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int64     `json:"-"`
	Tickets   []Ticket  `json:"tickets"`
}

// OrderSummary is the list read model for a user's order history
type OrderSummary struct {
	ID        int64           `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Tickets   []TicketSummary `json:"tickets"`
}

// TicketSpec is one requested seat within an order-creation call
type TicketSpec struct {
	Cargo     int   `json:"cargo"`
	Seat      int   `json:"seat"`
	JourneyID int64 `json:"journey"`
}

// User is an account that can own orders. Staff users may also mutate
// the catalog.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
}
