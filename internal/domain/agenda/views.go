package agenda

import (
	"sort"
	"time"

	"compliance-calendar/internal/domain/events"
)

// Las vistas de lista operan sobre un set ya pasado por Visible; la única
// excepción es Overdue, que por diseño corre sobre el set completo sin
// filtros (un vencido no puede quedar oculto por la selección del usuario).

// Today devuelve los eventos del día de now, ordenados por hora de inicio.
func Today(items []events.ScheduledEvent, now time.Time) []events.ScheduledEvent {
	today := now.Format(events.DateLayout)
	out := make([]events.ScheduledEvent, 0)
	for _, e := range items {
		if e.Date == today {
			out = append(out, e)
		}
	}
	sortByDateTime(out)
	return out
}

// Upcoming devuelve los próximos n eventos con fecha >= hoy, excluyendo los
// marcados overdue, ordenados por fecha y dentro del día por hora.
func Upcoming(items []events.ScheduledEvent, now time.Time, n int) []events.ScheduledEvent {
	today := now.Format(events.DateLayout)
	out := make([]events.ScheduledEvent, 0)
	for _, e := range items {
		if e.Overdue || e.Date < today {
			continue
		}
		out = append(out, e)
	}
	sortByDateTime(out)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Overdue devuelve los eventos marcados como vencidos, más viejos primero.
// Recibe el set SIN filtrar: los vencidos se muestran siempre.
func Overdue(all []events.ScheduledEvent) []events.ScheduledEvent {
	out := make([]events.ScheduledEvent, 0)
	for _, e := range all {
		if e.Overdue {
			out = append(out, e)
		}
	}
	sortByDateTime(out)
	return out
}

func sortByDateTime(items []events.ScheduledEvent) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		return items[i].StartMinutes < items[j].StartMinutes
	})
}
