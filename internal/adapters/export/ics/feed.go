package ics

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"compliance-calendar/internal/domain/events"
)

// Feed serializa eventos agendados como iCalendar para suscripción desde
// clientes de calendario. Implementa agenda.FeedWriter.
type Feed struct {
	// now para DTSTAMP; inyectable en tests.
	now func() time.Time
}

func NewFeed() *Feed {
	return &Feed{now: time.Now}
}

const defaultDurationMinutes = 30

func (f *Feed) WriteFeed(w io.Writer, orgID string, items []events.ScheduledEvent) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//compliance-calendar//EN")
	cal.SetXWRCalName("Compliance Calendar")

	stamp := f.now().UTC()
	for _, e := range items {
		day, err := time.Parse(events.DateLayout, e.Date)
		if err != nil {
			// Un evento con fecha corrupta no voltea el feed completo.
			continue
		}
		start := day.Add(time.Duration(e.StartMinutes) * time.Minute)
		end := start.Add(defaultDurationMinutes * time.Minute)
		if e.EndMinutes != nil && *e.EndMinutes > e.StartMinutes {
			end = day.Add(time.Duration(*e.EndMinutes) * time.Minute)
		}

		ev := cal.AddEvent(fmt.Sprintf("%s@%s", e.ID, orgID))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(e.Title)
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}
		if desc := describe(e); desc != "" {
			ev.SetDescription(desc)
		}
	}

	return cal.SerializeTo(w)
}

func describe(e events.ScheduledEvent) string {
	desc := e.Description
	if e.VendorName != "" {
		if desc != "" {
			desc += "\n"
		}
		desc += "Vendor: " + e.VendorName
	}
	if e.Cadence != "" && e.Cadence != "one-time" {
		if desc != "" {
			desc += "\n"
		}
		desc += "Cadence: " + e.Cadence.Label()
	}
	return desc
}
