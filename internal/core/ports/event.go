package ports

import (
	"context"
	"time"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
)

// EventRepository persists the community event catalog.
type EventRepository interface {
	Insert(ctx context.Context, event *domain.Event) error
	List(ctx context.Context) ([]domain.Event, error)
}

// CreateEventInput carries the fields of a new event listing.
type CreateEventInput struct {
	Title       string
	StartsAt    time.Time
	Location    string
	Description string
}

// EventService exposes the events page operations.
type EventService interface {
	List(ctx context.Context) ([]domain.Event, error)
	Create(ctx context.Context, input CreateEventInput) (*domain.Event, error)
}
