package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SeatTakenError reports which requested seat collided. It matches
// ErrSeatTaken under errors.Is so handlers can map it to a conflict
// status without losing the offending journey and seat.
type SeatTakenError struct {
	JourneyID int64
	Seat      int
}

func (e *SeatTakenError) Error() string {
	return fmt.Sprintf("seat %d on journey %d is already taken", e.Seat, e.JourneyID)
}

func (e *SeatTakenError) Is(target error) bool {
	return target == ErrSeatTaken
}

// ValidateCargo checks the cargo section index of a ticket request
func ValidateCargo(cargo int) error {
	if cargo < 0 {
		return &ValidationError{Field: "cargo", Message: "cargo must be a non-negative integer"}
	}
	return nil
}

// ValidateSeat checks the seat number of a ticket request
func ValidateSeat(seat int) error {
	if seat < 1 {
		return &ValidationError{Field: "seat", Message: "seat must be greater than or equal to 1"}
	}
	return nil
}

// ValidateTicketSpec runs the range checks a ticket must pass before
// it touches storage, in the order they are reported
func ValidateTicketSpec(spec TicketSpec) error {
	if err := ValidateCargo(spec.Cargo); err != nil {
		return err
	}
	return ValidateSeat(spec.Seat)
}

// allocateTicket validates a ticket request and inserts the ticket
// inside the caller's transaction. It never commits or rolls back:
// the surrounding order transaction owns the scope, so the seat
// existence check and the insert stay inside one isolation boundary.
//
// Seat uniqueness is keyed on (journey, seat) only, ignoring cargo,
// matching the booking rules this system inherited. The unique index
// on tickets(journey_id, seat) backs up the existence check so two
// concurrent transactions cannot both claim a seat.
func allocateTicket(ctx context.Context, tx pgx.Tx, spec TicketSpec, orderID int64) (Ticket, error) {
	if err := ValidateTicketSpec(spec); err != nil {
		return Ticket{}, err
	}

	var taken bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM tickets WHERE journey_id = $1 AND seat = $2)
	`, spec.JourneyID, spec.Seat).Scan(&taken)
	if err != nil {
		return Ticket{}, fmt.Errorf("failed to check seat: %w", err)
	}
	if taken {
		return Ticket{}, &SeatTakenError{JourneyID: spec.JourneyID, Seat: spec.Seat}
	}

	t := Ticket{
		Cargo:     spec.Cargo,
		Seat:      spec.Seat,
		JourneyID: spec.JourneyID,
		OrderID:   orderID,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO tickets (cargo, seat, journey_id, order_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, t.Cargo, t.Seat, t.JourneyID, t.OrderID).Scan(&t.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return Ticket{}, &SeatTakenError{JourneyID: spec.JourneyID, Seat: spec.Seat}
		}
		if isForeignKeyViolation(err) {
			return Ticket{}, ErrNotFound
		}
		return Ticket{}, fmt.Errorf("failed to insert ticket: %w", err)
	}
	return t, nil
}
