package agenda

import (
	"sort"

	"compliance-calendar/internal/domain/events"
)

// Index agrupa un set ya filtrado de eventos por fecha para las vistas de
// calendario. Se construye una vez por render; los buckets por día quedan
// ordenados por hora de inicio.
type Index struct {
	byDate map[string][]events.ScheduledEvent
}

func NewIndex(items []events.ScheduledEvent) *Index {
	idx := &Index{byDate: make(map[string][]events.ScheduledEvent)}
	for _, e := range items {
		idx.byDate[e.Date] = append(idx.byDate[e.Date], e)
	}
	for d := range idx.byDate {
		bucket := idx.byDate[d]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].StartMinutes < bucket[j].StartMinutes
		})
	}
	return idx
}

// ByDate devuelve los eventos de un día (YYYY-MM-DD) ordenados por inicio.
func (idx *Index) ByDate(date string) []events.ScheduledEvent {
	return idx.byDate[date]
}

// ByHour recorta el bucket del día a una hora puntual (0..23).
func (idx *Index) ByHour(date string, hour int) []events.ScheduledEvent {
	out := make([]events.ScheduledEvent, 0)
	for _, e := range idx.byDate[date] {
		if e.StartHour() == hour {
			out = append(out, e)
		}
	}
	return out
}

// DayIndicator resume un día para la grilla mensual: los marcadores diarios
// de operación (temp-check y checklist) se muestran aparte del conteo.
type DayIndicator struct {
	Date         string `json:"date"`
	Total        int    `json:"total"`
	HasTempCheck bool   `json:"has_temp_check"`
	HasChecklist bool   `json:"has_checklist"`
	HasOverdue   bool   `json:"has_overdue"`
}

// Indicators devuelve el resumen por día de todas las fechas con eventos,
// ordenado por fecha.
func (idx *Index) Indicators() []DayIndicator {
	dates := make([]string, 0, len(idx.byDate))
	for d := range idx.byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]DayIndicator, 0, len(dates))
	for _, d := range dates {
		ind := DayIndicator{Date: d}
		for _, e := range idx.byDate[d] {
			ind.Total++
			switch e.Type {
			case events.EventTypeTempCheck:
				ind.HasTempCheck = true
			case events.EventTypeChecklist:
				ind.HasChecklist = true
			}
			if e.Overdue {
				ind.HasOverdue = true
			}
		}
		out = append(out, ind)
	}
	return out
}
