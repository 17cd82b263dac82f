package events

import (
	"time"

	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/schedule"
)

// DateLayout es el formato de fecha de calendario (clave ISO, sin hora).
const DateLayout = "2006-01-02"

// ScheduledEvent es una ocurrencia de cualquier tipo de evento.
//
// Las horas se guardan como minutos desde medianoche: los strings tipo
// "5:00 PM" del sistema anterior eran frágiles para ordenar y parsear.
type ScheduledEvent struct {
	ID    string
	OrgID string

	Title string
	Type  EventType

	Date         string // YYYY-MM-DD
	StartMinutes int    // minutos desde medianoche, [0, 1440)
	EndMinutes   *int   // opcional

	Location    string
	Description string

	VendorID   string
	VendorName string

	// Category y Cadence solo aplican a servicios regulados.
	Category categories.ServiceCategory
	Cadence  schedule.Cadence

	// RecurrenceGroupID lo comparten todas las ocurrencias generadas por
	// una misma solicitud recurrente.
	RecurrenceGroupID string

	Overdue    bool
	Provenance Provenance
}

// DateOf parsea la fecha del evento. Zona UTC: las claves de fecha son
// civiles, no instantes.
func (e ScheduledEvent) DateOf() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

// StartHour es la hora del día (0-23) de inicio, para los índices por hora.
func (e ScheduledEvent) StartHour() int {
	return e.StartMinutes / 60
}

// Editable reporta si este engine puede mutar el evento.
func (e ScheduledEvent) Editable() bool {
	return e.Provenance == ProvenanceLocal
}

// Window delimita el rango de fechas visible de una organización. Bordes
// inclusivos, formato YYYY-MM-DD. La identidad de la ventana protege contra
// respuestas de fetch fuera de orden.
type Window struct {
	OrgID string
	From  string
	To    string
}

func (w Window) Zero() bool {
	return w == Window{}
}
