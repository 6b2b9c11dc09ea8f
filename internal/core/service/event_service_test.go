package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
	"github.com/fetchsocial/fetch-api/internal/core/ports"
)

type stubEventRepo struct {
	events []domain.Event
}

func (r *stubEventRepo) Insert(_ context.Context, event *domain.Event) error {
	r.events = append(r.events, *event)
	return nil
}

func (r *stubEventRepo) List(_ context.Context) ([]domain.Event, error) {
	return append([]domain.Event(nil), r.events...), nil
}

func TestEventList_SortedByStart(t *testing.T) {
	repo := &stubEventRepo{events: []domain.Event{
		{ID: "later", StartsAt: time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "sooner", StartsAt: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewEventService(repo, zerolog.Nop())

	events, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if events[0].ID != "sooner" || events[1].ID != "later" {
		t.Fatalf("unexpected order: %s, %s", events[0].ID, events[1].ID)
	}
}

func TestEventCreate(t *testing.T) {
	repo := &stubEventRepo{}
	svc := NewEventService(repo, zerolog.Nop())

	event, err := svc.Create(context.Background(), ports.CreateEventInput{
		Title:    "Moshpit Monday",
		StartsAt: time.Date(2025, time.November, 3, 20, 0, 0, 0, time.UTC),
		Location: "Warehouse 5",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if event.ID == "" || event.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at, got %+v", event)
	}
	if len(repo.events) != 1 || repo.events[0].Title != "Moshpit Monday" {
		t.Fatalf("event not stored: %+v", repo.events)
	}
}

func TestSeedEvents_EmptyCatalog(t *testing.T) {
	repo := &stubEventRepo{}

	if err := SeedEvents(context.Background(), repo, zerolog.Nop()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if len(repo.events) != 2 {
		t.Fatalf("expected 2 seeded events, got %d", len(repo.events))
	}
}

func TestSeedEvents_SkipsNonEmptyCatalog(t *testing.T) {
	repo := &stubEventRepo{events: []domain.Event{{ID: "existing"}}}

	if err := SeedEvents(context.Background(), repo, zerolog.Nop()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected catalog untouched, got %d events", len(repo.events))
	}
}
