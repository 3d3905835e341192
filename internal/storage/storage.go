// Package storage persists appointment records. Two backends exist:
// the Airtable REST API used by the hosted product and a Postgres
// table for self-hosted installs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrBackendUnavailable marks a failed read or write against the
// persistence backend. The current step fails; the process does not.
var ErrBackendUnavailable = errors.New("backend unavailable")

// Record is the durable appointment artifact. It is created once at
// confirmation and never mutated afterwards.
type Record struct {
	ID       string
	FullName string
	Phone    string
	Services string // comma-joined display names, selection order
	StartsAt time.Time
}

// Store is the narrow persistence interface the booking flow depends on.
type Store interface {
	// ListByDate returns all records whose StartsAt falls on the given
	// calendar date (UTC).
	ListByDate(ctx context.Context, date time.Time) ([]Record, error)
	// Create persists a new record and returns its backend id.
	Create(ctx context.Context, rec Record) (string, error)
}

func backendErr(op string, err error) error {
	return fmt.Errorf("storage: %s: %w: %v", op, ErrBackendUnavailable, err)
}
