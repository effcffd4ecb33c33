package repository

import (
	"context"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/entity"
)

// EventRepository defines the contract for the external time-report backend.
// Every call is a single synchronous request; implementations do not retry.
type EventRepository interface {
	// Create submits a new event.
	Create(ctx context.Context, event *entity.Event) error

	// Delete removes all events for the user on the given date.
	Delete(ctx context.Context, userID, date string) error

	// Lock marks the user's events on the given date as immutable.
	Lock(ctx context.Context, userID, date string) error

	// List returns the user's events for a date, an "A:B" range, or "all".
	// Returns an empty listing if nothing matches.
	List(ctx context.Context, userID, dateOrRange string) (*entity.Listing, error)
}
