package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"compliance-calendar/internal/domain/events"
)

var ErrNotFound = errors.New("not found")

type eventsRepo struct {
	mu   sync.RWMutex
	byID map[string]events.ScheduledEvent
}

func NewEventsRepo() events.Repository {
	return &eventsRepo{
		byID: make(map[string]events.ScheduledEvent),
	}
}

func (r *eventsRepo) CreateEvents(ctx context.Context, rows []events.ScheduledEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range rows {
		if e.ID == "" {
			return errors.New("event id required")
		}
		if _, exists := r.byID[e.ID]; exists {
			return errors.New("event already exists")
		}
	}
	for _, e := range rows {
		r.byID[e.ID] = e
	}
	return nil
}

func (r *eventsRepo) UpdateEvent(ctx context.Context, e events.ScheduledEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[e.ID]; !ok {
		return ErrNotFound
	}
	r.byID[e.ID] = e
	return nil
}

func (r *eventsRepo) DeleteEvent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Borrado idempotente: un id inexistente no es error.
	delete(r.byID, id)
	return nil
}

func (r *eventsRepo) ListByOrg(ctx context.Context, orgID string) ([]events.ScheduledEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]events.ScheduledEvent, 0)
	for _, e := range r.byID {
		if e.OrgID != orgID {
			continue
		}
		out = append(out, e)
	}

	// Orden estable por fecha y hora de inicio
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartMinutes < out[j].StartMinutes
	})

	return out, nil
}
