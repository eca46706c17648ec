package database

import (
	"context"
	"fmt"
)

// CreateOrder creates an order and all of its tickets in a single
// transaction. Either every requested ticket is persisted or none
// are; a partial order is never observable. Ticket requests are
// allocated in input order so the first invalid one decides the
// reported error.
func (r *Repository) CreateOrder(ctx context.Context, userID int64, specs []TicketSpec) (*Order, error) {
	if len(specs) == 0 {
		return nil, &ValidationError{Field: "tickets", Message: "at least one ticket is required"}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	order := &Order{UserID: userID}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id) VALUES ($1) RETURNING id, created_at
	`, userID).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for i, spec := range specs {
		ticket, err := allocateTicket(ctx, tx, spec, order.ID)
		if err != nil {
			// Name the rejected request so a multi-ticket failure is
			// attributable.
			return nil, fmt.Errorf("ticket %d: %w", i+1, err)
		}
		order.Tickets = append(order.Tickets, ticket)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}
	return order, nil
}

// ListOrders returns the given user's orders newest-first, each with
// its tickets, plus the unpaged total. Other users' orders are never
// visible through this query.
func (r *Repository) ListOrders(ctx context.Context, userID int64, page Page) ([]OrderSummary, int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, created_at, COUNT(*) OVER() AS total
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []OrderSummary
	var total int
	orderIndex := make(map[int64]int)
	for rows.Next() {
		var o OrderSummary
		if err := rows.Scan(&o.ID, &o.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orderIndex[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(orders) == 0 {
		return orders, total, nil
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	ticketRows, err := r.pool.Query(ctx, `
		SELECT tk.id, tk.cargo, tk.seat, src.name || ' - ' || dst.name, tk.order_id
		FROM tickets tk
		JOIN journeys j ON j.id = tk.journey_id
		JOIN routes rt ON rt.id = j.route_id
		JOIN stations src ON src.id = rt.source_id
		JOIN stations dst ON dst.id = rt.destination_id
		WHERE tk.order_id = ANY($1)
		ORDER BY tk.id
	`, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query order tickets: %w", err)
	}
	defer ticketRows.Close()

	for ticketRows.Next() {
		var t TicketSummary
		if err := ticketRows.Scan(&t.ID, &t.Cargo, &t.Seat, &t.JourneyRoute, &t.OrderID); err != nil {
			return nil, 0, fmt.Errorf("failed to scan ticket: %w", err)
		}
		i := orderIndex[t.OrderID]
		orders[i].Tickets = append(orders[i].Tickets, t)
	}
	return orders, total, ticketRows.Err()
}
