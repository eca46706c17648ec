package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a referenced record does not exist
var ErrNotFound = errors.New("not found")

// ValidationError reports a field-level constraint violation on a
// write path
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrSeatTaken marks seat-collision errors. Match with errors.Is; the
// concrete error is a SeatTakenError naming the colliding request.
var ErrSeatTaken = errors.New("seat already taken")

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

// Page bounds a list query
type Page struct {
	Limit  int
	Offset int
}

// TrainFilter narrows train listings. Zero values mean "no filter".
type TrainFilter struct {
	Name          string
	CargoNum      *int
	PlacesInCargo string
	TrainTypeIDs  []int64
}

// RouteFilter narrows route listings by station id-set membership
type RouteFilter struct {
	SourceIDs      []int64
	DestinationIDs []int64
}

// Repository handles all database operations
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Migrate applies the embedded schema. Every statement is idempotent
// so this is safe to run on each boot.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// --- Station Operations ---

// CreateStation persists a station and assigns its id
func (r *Repository) CreateStation(ctx context.Context, s *Station) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO stations (name, latitude, longitude)
		VALUES ($1, $2, $3)
		RETURNING id
	`, s.Name, s.Latitude, s.Longitude).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to create station: %w", err)
	}
	return nil
}

// GetStationByID returns a station by id
func (r *Repository) GetStationByID(ctx context.Context, id int64) (*Station, error) {
	var s Station
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, latitude, longitude FROM stations WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get station: %w", err)
	}
	return &s, nil
}

// ListStations returns stations ordered by id plus the unpaged total
func (r *Repository) ListStations(ctx context.Context, page Page) ([]Station, int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, latitude, longitude, COUNT(*) OVER() AS total
		FROM stations
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	var stations []Station
	var total int
	for rows.Next() {
		var s Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan station: %w", err)
		}
		stations = append(stations, s)
	}
	return stations, total, rows.Err()
}

// --- TrainType Operations ---

// CreateTrainType persists a train type and assigns its id
func (r *Repository) CreateTrainType(ctx context.Context, tt *TrainType) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO train_types (name) VALUES ($1) RETURNING id
	`, tt.Name).Scan(&tt.ID)
	if err != nil {
		return fmt.Errorf("failed to create train type: %w", err)
	}
	return nil
}

// ListTrainTypes returns train types ordered by id plus the unpaged total
func (r *Repository) ListTrainTypes(ctx context.Context, page Page) ([]TrainType, int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, COUNT(*) OVER() AS total
		FROM train_types
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query train types: %w", err)
	}
	defer rows.Close()

	var types []TrainType
	var total int
	for rows.Next() {
		var tt TrainType
		if err := rows.Scan(&tt.ID, &tt.Name, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan train type: %w", err)
		}
		types = append(types, tt)
	}
	return types, total, rows.Err()
}

// --- Crew Operations ---

// CreateCrew persists a crew member and assigns their id
func (r *Repository) CreateCrew(ctx context.Context, c *Crew) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO crews (first_name, last_name) VALUES ($1, $2) RETURNING id
	`, c.FirstName, c.LastName).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create crew: %w", err)
	}
	return nil
}

// ListCrews returns crew members ordered by id plus the unpaged total
func (r *Repository) ListCrews(ctx context.Context, page Page) ([]Crew, int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name, last_name, COUNT(*) OVER() AS total
		FROM crews
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query crews: %w", err)
	}
	defer rows.Close()

	var crews []Crew
	var total int
	for rows.Next() {
		var c Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan crew: %w", err)
		}
		crews = append(crews, c)
	}
	return crews, total, rows.Err()
}

// --- Train Operations ---

// CreateTrain persists a train and assigns its id
func (r *Repository) CreateTrain(ctx context.Context, t *Train) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO trains (name, cargo_num, places_in_cargo, train_type_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, t.Name, t.CargoNum, t.PlacesInCargo, t.TrainTypeID).Scan(&t.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create train: %w", err)
	}
	return nil
}

// UpdateTrain overwrites all of a train's fields
func (r *Repository) UpdateTrain(ctx context.Context, t *Train) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE trains
		SET name = $1, cargo_num = $2, places_in_cargo = $3, train_type_id = $4
		WHERE id = $5
	`, t.Name, t.CargoNum, t.PlacesInCargo, t.TrainTypeID, t.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update train: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTrain removes a train; its journeys and their tickets cascade
func (r *Repository) DeleteTrain(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM trains WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete train: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTrainByID returns a train summary by id
func (r *Repository) GetTrainByID(ctx context.Context, id int64) (*TrainSummary, error) {
	var t TrainSummary
	err := r.pool.QueryRow(ctx, `
		SELECT t.id, t.name, t.cargo_num, t.places_in_cargo, tt.name
		FROM trains t
		JOIN train_types tt ON tt.id = t.train_type_id
		WHERE t.id = $1
	`, id).Scan(&t.ID, &t.Name, &t.CargoNum, &t.PlacesInCargo, &t.TrainTypeName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get train: %w", err)
	}
	return &t, nil
}

// ListTrains returns train summaries matching the filter, ordered by
// id, plus the unpaged total
func (r *Repository) ListTrains(ctx context.Context, filter TrainFilter, page Page) ([]TrainSummary, int, error) {
	where, args := buildWhere(
		condition{filter.Name != "", "t.name ILIKE '%%' || $%d || '%%'", escapeLike(filter.Name)},
		condition{filter.CargoNum != nil, "t.cargo_num = $%d", derefInt(filter.CargoNum)},
		condition{filter.PlacesInCargo != "", "t.places_in_cargo = $%d", filter.PlacesInCargo},
		condition{len(filter.TrainTypeIDs) > 0, "t.train_type_id = ANY($%d)", filter.TrainTypeIDs},
	)

	query := fmt.Sprintf(`
		SELECT t.id, t.name, t.cargo_num, t.places_in_cargo, tt.name, COUNT(*) OVER() AS total
		FROM trains t
		JOIN train_types tt ON tt.id = t.train_type_id
		%s
		ORDER BY t.id
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query trains: %w", err)
	}
	defer rows.Close()

	var trains []TrainSummary
	var total int
	for rows.Next() {
		var t TrainSummary
		if err := rows.Scan(&t.ID, &t.Name, &t.CargoNum, &t.PlacesInCargo, &t.TrainTypeName, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan train: %w", err)
		}
		trains = append(trains, t)
	}
	return trains, total, rows.Err()
}

// --- Route Operations ---

// CreateRoute persists a route and assigns its id
func (r *Repository) CreateRoute(ctx context.Context, route *Route) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO routes (source_id, destination_id, distance)
		VALUES ($1, $2, $3)
		RETURNING id
	`, route.SourceID, route.DestinationID, route.Distance).Scan(&route.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create route: %w", err)
	}
	return nil
}

// UpdateRoute overwrites all of a route's fields
func (r *Repository) UpdateRoute(ctx context.Context, route *Route) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE routes
		SET source_id = $1, destination_id = $2, distance = $3
		WHERE id = $4
	`, route.SourceID, route.DestinationID, route.Distance, route.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update route: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRoute removes a route; its journeys and their tickets cascade
func (r *Repository) DeleteRoute(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetRouteByID returns a route with both stations expanded
func (r *Repository) GetRouteByID(ctx context.Context, id int64) (*RouteDetail, error) {
	var d RouteDetail
	err := r.pool.QueryRow(ctx, `
		SELECT r.id, r.distance,
		       src.id, src.name, src.latitude, src.longitude,
		       dst.id, dst.name, dst.latitude, dst.longitude
		FROM routes r
		JOIN stations src ON src.id = r.source_id
		JOIN stations dst ON dst.id = r.destination_id
		WHERE r.id = $1
	`, id).Scan(
		&d.ID, &d.Distance,
		&d.Source.ID, &d.Source.Name, &d.Source.Latitude, &d.Source.Longitude,
		&d.Destination.ID, &d.Destination.Name, &d.Destination.Latitude, &d.Destination.Longitude,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get route: %w", err)
	}
	return &d, nil
}

// ListRoutes returns route summaries matching the filter, ordered by
// id, plus the unpaged total
func (r *Repository) ListRoutes(ctx context.Context, filter RouteFilter, page Page) ([]RouteSummary, int, error) {
	where, args := buildWhere(
		condition{len(filter.SourceIDs) > 0, "r.source_id = ANY($%d)", filter.SourceIDs},
		condition{len(filter.DestinationIDs) > 0, "r.destination_id = ANY($%d)", filter.DestinationIDs},
	)

	query := fmt.Sprintf(`
		SELECT r.id, src.name, dst.name, r.distance, COUNT(*) OVER() AS total
		FROM routes r
		JOIN stations src ON src.id = r.source_id
		JOIN stations dst ON dst.id = r.destination_id
		%s
		ORDER BY r.id
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	var routes []RouteSummary
	var total int
	for rows.Next() {
		var s RouteSummary
		if err := rows.Scan(&s.ID, &s.SourceName, &s.DestinationName, &s.Distance, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan route: %w", err)
		}
		routes = append(routes, s)
	}
	return routes, total, rows.Err()
}

// --- helpers ---

type condition struct {
	apply  bool
	clause string
	arg    any
}

// buildWhere assembles a WHERE clause from the conditions whose apply
// flag is set. Each clause contains one $%d placeholder that gets the
// next positional argument number.
func buildWhere(conds ...condition) (string, []any) {
	var clauses []string
	var args []any
	for _, c := range conds {
		if !c.apply {
			continue
		}
		args = append(args, c.arg)
		clauses = append(clauses, fmt.Sprintf(c.clause, len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLike neutralizes LIKE/ILIKE pattern metacharacters so user
// input matches literally. Postgres treats backslash as the escape
// character by default.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func derefInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}
