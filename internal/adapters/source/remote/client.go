package remote

import (
	"context"
	"fmt"
	"net/url"

	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/events"
	"compliance-calendar/internal/domain/schedule"
	"compliance-calendar/internal/platform/httpclient"
)

// Source trae los eventos persistidos del servicio upstream. Implementa
// events.Source; el store decide cuándo fetchear y qué hacer con el
// resultado.
type Source struct {
	client *httpclient.Client
}

func New(client *httpclient.Client) *Source {
	return &Source{client: client}
}

// eventDTO es el wire format del upstream. Se mapea explícitamente al modelo
// de dominio para no acoplar los tags JSON del upstream al resto del código.
type eventDTO struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Type              string `json:"type"`
	Date              string `json:"date"`
	StartMinutes      int    `json:"start_minutes"`
	EndMinutes        *int   `json:"end_minutes"`
	Location          string `json:"location"`
	Description       string `json:"description"`
	VendorID          string `json:"vendor_id"`
	VendorName        string `json:"vendor_name"`
	Category          string `json:"category"`
	Cadence           string `json:"cadence"`
	RecurrenceGroupID string `json:"recurrence_group_id"`
	Overdue           bool   `json:"overdue"`
}

func (s *Source) FetchEvents(ctx context.Context, orgID, from, to string) ([]events.ScheduledEvent, error) {
	path := fmt.Sprintf("/orgs/%s/events?from=%s&to=%s",
		url.PathEscape(orgID),
		url.QueryEscape(from),
		url.QueryEscape(to),
	)

	var dtos []eventDTO
	if err := s.client.DoJSON(ctx, "GET", path, nil, nil, &dtos); err != nil {
		return nil, fmt.Errorf("remote: fetch events: %w", err)
	}

	out := make([]events.ScheduledEvent, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, events.ScheduledEvent{
			ID:                d.ID,
			OrgID:             orgID,
			Title:             d.Title,
			Type:              events.EventType(d.Type),
			Date:              d.Date,
			StartMinutes:      d.StartMinutes,
			EndMinutes:        d.EndMinutes,
			Location:          d.Location,
			Description:       d.Description,
			VendorID:          d.VendorID,
			VendorName:        d.VendorName,
			Category:          categories.ServiceCategory(d.Category),
			Cadence:           schedule.Cadence(d.Cadence),
			RecurrenceGroupID: d.RecurrenceGroupID,
			Overdue:           d.Overdue,
			// Provenance la estampa el store al aplicar el swap.
		})
	}
	return out, nil
}
