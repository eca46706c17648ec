package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// JourneyFilter narrows journey listings. Date filters match on the
// calendar date of the stored timestamp, not the time of day.
type JourneyFilter struct {
	RouteIDs      []int64
	TrainIDs      []int64
	DepartureDate *time.Time
	ArrivalDate   *time.Time
}

// CreateJourney persists a journey and its crew links in one
// transaction and assigns the journey id. Unknown route, train or
// crew ids surface as ErrNotFound.
func (r *Repository) CreateJourney(ctx context.Context, j *Journey) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO journeys (route_id, train_id, departure_time, arrival_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, j.RouteID, j.TrainID, j.DepartureTime, j.ArrivalTime).Scan(&j.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create journey: %w", err)
	}

	for _, crewID := range j.CrewIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO journey_crews (journey_id, crew_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, j.ID, crewID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to assign crew: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// UpdateJourney overwrites a journey and replaces its crew set in one
// transaction
func (r *Repository) UpdateJourney(ctx context.Context, j *Journey) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE journeys
		SET route_id = $1, train_id = $2, departure_time = $3, arrival_time = $4
		WHERE id = $5
	`, j.RouteID, j.TrainID, j.DepartureTime, j.ArrivalTime, j.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update journey: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journey_crews WHERE journey_id = $1`, j.ID); err != nil {
		return fmt.Errorf("failed to clear crew: %w", err)
	}
	for _, crewID := range j.CrewIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO journey_crews (journey_id, crew_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, j.ID, crewID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to assign crew: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// DeleteJourney removes a journey; its crew links and tickets cascade
func (r *Repository) DeleteJourney(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM journeys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete journey: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetJourneyByID returns a journey with its route, stations, train
// and crew fully expanded
func (r *Repository) GetJourneyByID(ctx context.Context, id int64) (*JourneyDetail, error) {
	var d JourneyDetail
	err := r.pool.QueryRow(ctx, `
		SELECT j.id, j.departure_time, j.arrival_time,
		       rt.id, rt.distance,
		       src.id, src.name, src.latitude, src.longitude,
		       dst.id, dst.name, dst.latitude, dst.longitude,
		       t.id, t.name, t.cargo_num, t.places_in_cargo, tt.name
		FROM journeys j
		JOIN routes rt ON rt.id = j.route_id
		JOIN stations src ON src.id = rt.source_id
		JOIN stations dst ON dst.id = rt.destination_id
		JOIN trains t ON t.id = j.train_id
		JOIN train_types tt ON tt.id = t.train_type_id
		WHERE j.id = $1
	`, id).Scan(
		&d.ID, &d.DepartureTime, &d.ArrivalTime,
		&d.Route.ID, &d.Route.Distance,
		&d.Route.Source.ID, &d.Route.Source.Name, &d.Route.Source.Latitude, &d.Route.Source.Longitude,
		&d.Route.Destination.ID, &d.Route.Destination.Name, &d.Route.Destination.Latitude, &d.Route.Destination.Longitude,
		&d.Train.ID, &d.Train.Name, &d.Train.CargoNum, &d.Train.PlacesInCargo, &d.Train.TrainTypeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get journey: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.first_name, c.last_name
		FROM journey_crews jc
		JOIN crews c ON c.id = jc.crew_id
		WHERE jc.journey_id = $1
		ORDER BY c.id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query journey crew: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, fmt.Errorf("failed to scan crew: %w", err)
		}
		d.Crew = append(d.Crew, c)
	}
	return &d, rows.Err()
}

// ListJourneys returns journey summaries matching the filter, ordered
// by id ascending, plus the unpaged total
func (r *Repository) ListJourneys(ctx context.Context, filter JourneyFilter, page Page) ([]JourneySummary, int, error) {
	where, args := buildWhere(
		condition{len(filter.RouteIDs) > 0, "j.route_id = ANY($%d)", filter.RouteIDs},
		condition{len(filter.TrainIDs) > 0, "j.train_id = ANY($%d)", filter.TrainIDs},
		condition{filter.DepartureDate != nil, "j.departure_time::date = $%d::date", derefTime(filter.DepartureDate)},
		condition{filter.ArrivalDate != nil, "j.arrival_time::date = $%d::date", derefTime(filter.ArrivalDate)},
	)

	query := fmt.Sprintf(`
		SELECT j.id, j.departure_time, j.arrival_time,
		       src.name || ' - ' || dst.name AS route,
		       t.id, t.name, t.cargo_num, t.places_in_cargo, tt.name,
		       (SELECT COALESCE(array_agg(jc.crew_id ORDER BY jc.crew_id), '{}')
		        FROM journey_crews jc WHERE jc.journey_id = j.id) AS crew,
		       COUNT(*) OVER() AS total
		FROM journeys j
		JOIN routes rt ON rt.id = j.route_id
		JOIN stations src ON src.id = rt.source_id
		JOIN stations dst ON dst.id = rt.destination_id
		JOIN trains t ON t.id = j.train_id
		JOIN train_types tt ON tt.id = t.train_type_id
		%s
		ORDER BY j.id
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query journeys: %w", err)
	}
	defer rows.Close()

	var journeys []JourneySummary
	var total int
	for rows.Next() {
		var s JourneySummary
		err := rows.Scan(
			&s.ID, &s.DepartureTime, &s.ArrivalTime,
			&s.Route,
			&s.Train.ID, &s.Train.Name, &s.Train.CargoNum, &s.Train.PlacesInCargo, &s.Train.TrainTypeName,
			&s.CrewIDs,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan journey: %w", err)
		}
		journeys = append(journeys, s)
	}
	return journeys, total, rows.Err()
}

func derefTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}
