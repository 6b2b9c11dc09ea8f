package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
	"github.com/fetchsocial/fetch-api/internal/core/ports"
)

type eventService struct {
	repo ports.EventRepository
	log  zerolog.Logger
}

// NewEventService returns an EventService over the given catalog repository.
func NewEventService(repo ports.EventRepository, log zerolog.Logger) ports.EventService {
	return &eventService{repo: repo, log: log}
}

func (s *eventService) List(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
	return events, nil
}

func (s *eventService) Create(ctx context.Context, input ports.CreateEventInput) (*domain.Event, error) {
	event := &domain.Event{
		ID:          uuid.NewString(),
		Title:       input.Title,
		StartsAt:    input.StartsAt,
		Location:    input.Location,
		Description: input.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, event); err != nil {
		return nil, err
	}
	s.log.Info().Str("event_id", event.ID).Str("title", event.Title).Msg("event created")
	return event, nil
}

// SeedEvents inserts the default community events when the catalog is empty,
// so a fresh deployment has something on the events page.
func SeedEvents(ctx context.Context, repo ports.EventRepository, log zerolog.Logger) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	defaults := []domain.Event{
		{
			ID:          uuid.NewString(),
			Title:       "Pup Meetup",
			StartsAt:    time.Date(2025, time.August, 30, 18, 0, 0, 0, time.UTC),
			Location:    "Celebration Dog Park, Orlando",
			Description: "A social gathering for pups and handlers to play and connect.",
			CreatedAt:   time.Now().UTC(),
		},
		{
			ID:          uuid.NewString(),
			Title:       "Furry Art Jam",
			StartsAt:    time.Date(2025, time.September, 12, 13, 0, 0, 0, time.UTC),
			Location:    "Columbia Restaurant Patio",
			Description: "Bring your sketchbook and creativity for an afternoon of art and camaraderie.",
			CreatedAt:   time.Now().UTC(),
		},
	}
	for i := range defaults {
		if err := repo.Insert(ctx, &defaults[i]); err != nil {
			return err
		}
	}
	log.Info().Int("count", len(defaults)).Msg("seeded default events")
	return nil
}
