package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/tripstack/train-booking-system/internal/database"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pathID extracts the {id} path variable as an integer id
func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// parseIDList parses a comma-separated id list query parameter, e.g.
// ?source=2,5. An empty parameter yields a nil slice (no filter).
func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseDate parses a date filter parameter. Either a plain date or a
// full "2006-01-02 15:04" timestamp is accepted; only the calendar
// date is kept.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &day, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", raw)
}

// parsePage reads ?page= and ?page_size= into limit/offset bounds.
// Page numbering starts at 1; page size defaults to 20, capped at 100.
func parsePage(r *http.Request) (database.Page, error) {
	q := r.URL.Query()

	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return database.Page{}, fmt.Errorf("invalid page %q", raw)
		}
		page = n
	}

	size := defaultPageSize
	if raw := q.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return database.Page{}, fmt.Errorf("invalid page_size %q", raw)
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		size = n
	}

	return database.Page{Limit: size, Offset: (page - 1) * size}, nil
}
