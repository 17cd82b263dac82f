package agenda

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/events"
	"compliance-calendar/internal/middleware"
	"compliance-calendar/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// FeedWriter serializa un set de eventos como feed de calendario. La
// implementación ICS vive en adapters/export.
type FeedWriter interface {
	WriteFeed(w io.Writer, orgID string, items []events.ScheduledEvent) error
}

// RegisterRoutes registra las vistas de lectura bajo /orgs/{orgID}. Las
// mutaciones viven en el módulo events.
func RegisterRoutes(r chi.Router, store *events.Store, feed FeedWriter) {
	r.Get("/events", listEventsHandler(store))
	r.Get("/events/indicators", indicatorsHandler(store))
	r.Get("/calendar.ics", calendarFeedHandler(store, feed))
}

// listEventsHandler godoc
// @Summary Listar eventos visibles
// @Description Devuelve el set combinado (seeded + external + local) pasado por el allow-list del rol y los filtros del usuario. view=today|upcoming|overdue cambia la vista; sin view devuelve todo ordenado por fecha y hora. Los filtros types/locations/categories van separados por coma y se intersecan.
// @Tags agenda
// @Produce json
// @Param orgID path string true "ID de la organización"
// @Param view query string false "today | upcoming | overdue"
// @Param types query string false "tipos de evento separados por coma"
// @Param locations query string false "sedes separadas por coma"
// @Param categories query string false "categorías de servicio separadas por coma"
// @Param limit query int false "máximo de resultados para view=upcoming (default 10)"
// @Success 200 {array} eventResponse
// @Failure 400 {string} string "view desconocida"
// @Failure 401 {string} string "unauthorized"
// @Router /orgs/{orgID}/events [get]
func listEventsHandler(store *events.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, orgID, ok := requireOrg(w, r)
		if !ok {
			return
		}

		all := orgEvents(store, orgID)
		visible := Visible(claims, selectionFromQuery(r), all)

		var out []events.ScheduledEvent
		switch r.URL.Query().Get("view") {
		case "", "all":
			out = visible
			sortByDateTime(out)
		case "today":
			out = Today(visible, time.Now())
		case "upcoming":
			limit := 10
			if v := r.URL.Query().Get("limit"); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil || n < 1 {
					http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
					return
				}
				limit = n
			}
			out = Upcoming(visible, time.Now(), limit)
		case "overdue":
			// Los vencidos ignoran la selección del usuario, pero no el rol
			// ni las sedes del claim.
			out = Overdue(Visible(claims, Selection{}, all))
		default:
			http.Error(w, "unknown view", http.StatusBadRequest)
			return
		}

		resp := make([]eventResponse, 0, len(out))
		for _, e := range out {
			resp = append(resp, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// indicatorsHandler godoc
// @Summary Indicadores por día
// @Description Resumen por día para la grilla mensual: total de eventos y marcadores de operación diaria (temp-check, checklist) más flag de vencidos.
// @Tags agenda
// @Produce json
// @Param orgID path string true "ID de la organización"
// @Success 200 {array} DayIndicator
// @Failure 401 {string} string "unauthorized"
// @Router /orgs/{orgID}/events/indicators [get]
func indicatorsHandler(store *events.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, orgID, ok := requireOrg(w, r)
		if !ok {
			return
		}

		visible := Visible(claims, selectionFromQuery(r), orgEvents(store, orgID))
		writeJSON(w, http.StatusOK, NewIndex(visible).Indicators())
	}
}

// calendarFeedHandler godoc
// @Summary Feed ICS del calendario
// @Description Exporta los eventos visibles para el rol como feed iCalendar, apto para suscribir desde un cliente de calendario.
// @Tags agenda
// @Produce text/calendar
// @Param orgID path string true "ID de la organización"
// @Success 200 {string} string "BEGIN:VCALENDAR ..."
// @Failure 401 {string} string "unauthorized"
// @Router /orgs/{orgID}/calendar.ics [get]
func calendarFeedHandler(store *events.Store, feed FeedWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, orgID, ok := requireOrg(w, r)
		if !ok {
			return
		}
		if feed == nil {
			http.Error(w, "feed not configured", http.StatusNotFound)
			return
		}

		visible := Visible(claims, Selection{}, orgEvents(store, orgID))
		sortByDateTime(visible)

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="compliance-calendar.ics"`)
		if err := feed.WriteFeed(w, orgID, visible); err != nil {
			http.Error(w, "feed serialization failed", http.StatusInternalServerError)
		}
	}
}

func orgEvents(store *events.Store, orgID string) []events.ScheduledEvent {
	all := store.All()
	out := make([]events.ScheduledEvent, 0, len(all))
	for _, e := range all {
		if e.OrgID == orgID {
			out = append(out, e)
		}
	}
	return out
}

func selectionFromQuery(r *http.Request) Selection {
	sel := Selection{}
	for _, v := range splitCSV(r.URL.Query().Get("types")) {
		sel.Types = append(sel.Types, events.EventType(v))
	}
	sel.Locations = splitCSV(r.URL.Query().Get("locations"))
	for _, v := range splitCSV(r.URL.Query().Get("categories")) {
		sel.Categories = append(sel.Categories, categories.ServiceCategory(v))
	}
	return sel
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func requireOrg(w http.ResponseWriter, r *http.Request) (auth.Claims, string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Claims{}, "", false
	}
	orgID := chi.URLParam(r, "orgID")
	if strings.TrimSpace(orgID) == "" {
		http.Error(w, "org required", http.StatusBadRequest)
		return auth.Claims{}, "", false
	}
	if claims.OrgID != "" && claims.OrgID != orgID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return auth.Claims{}, "", false
	}
	return claims, orgID, true
}

type eventResponse struct {
	ID                string `json:"id"`
	OrgID             string `json:"org_id"`
	Title             string `json:"title"`
	Type              string `json:"type"`
	Date              string `json:"date"`
	StartMinutes      int    `json:"start_minutes"`
	EndMinutes        *int   `json:"end_minutes,omitempty"`
	Location          string `json:"location,omitempty"`
	Description       string `json:"description,omitempty"`
	VendorID          string `json:"vendor_id,omitempty"`
	VendorName        string `json:"vendor_name,omitempty"`
	Category          string `json:"category,omitempty"`
	Cadence           string `json:"cadence,omitempty"`
	RecurrenceGroupID string `json:"recurrence_group_id,omitempty"`
	Overdue           bool   `json:"overdue"`
	Provenance        string `json:"provenance"`
}

func toEventResponse(e events.ScheduledEvent) eventResponse {
	return eventResponse{
		ID:                e.ID,
		OrgID:             e.OrgID,
		Title:             e.Title,
		Type:              string(e.Type),
		Date:              e.Date,
		StartMinutes:      e.StartMinutes,
		EndMinutes:        e.EndMinutes,
		Location:          e.Location,
		Description:       e.Description,
		VendorID:          e.VendorID,
		VendorName:        e.VendorName,
		Category:          string(e.Category),
		Cadence:           string(e.Cadence),
		RecurrenceGroupID: e.RecurrenceGroupID,
		Overdue:           e.Overdue,
		Provenance:        string(e.Provenance),
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
