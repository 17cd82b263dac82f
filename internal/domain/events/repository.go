package events

import "context"

// Repository es la frontera de persistencia para eventos de autoría local.
// La colección en memoria del Store es la autoridad durante la sesión; el
// repo es el respaldo durable.
type Repository interface {
	CreateEvents(ctx context.Context, rows []ScheduledEvent) error
	UpdateEvent(ctx context.Context, e ScheduledEvent) error
	DeleteEvent(ctx context.Context, id string) error

	// ListByOrg recarga los eventos locales persistidos de una org.
	ListByOrg(ctx context.Context, orgID string) ([]ScheduledEvent, error)
}

// Source es la frontera de fetch de eventos externos, keyed por organización
// y rango de fechas inclusivo.
type Source interface {
	FetchEvents(ctx context.Context, orgID, from, to string) ([]ScheduledEvent, error)
}
