package events

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/governance"
	"compliance-calendar/internal/domain/schedule"
	"compliance-calendar/internal/middleware"
	"compliance-calendar/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registra las mutaciones de eventos bajo /orgs/{orgID}.
// Las vistas de lectura viven en el módulo agenda; acá solo se crea,
// edita, borra y re-fetchea.
func RegisterRoutes(r chi.Router, store *Store, gov *governance.Service, log logger.Logger) {
	if log == nil {
		log = logger.New(logger.Options{})
	}
	r.Post("/events", createEventHandler(store))
	r.Patch("/events/{eventID}", updateEventHandler(store, gov, log))
	r.Delete("/events/{eventID}", deleteEventHandler(store))
	r.Post("/events/refresh", refreshEventsHandler(store))
}

type createEventRequest struct {
	Title        string `json:"title"`
	Type         string `json:"type"`
	Date         string `json:"date"` // YYYY-MM-DD
	StartMinutes int    `json:"start_minutes"`
	EndMinutes   *int   `json:"end_minutes"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	VendorID     string `json:"vendor_id"`
	VendorName   string `json:"vendor_name"`
	Category     string `json:"category"`
	Cadence      string `json:"cadence"` // vacío u one-time = sin recurrencia
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

type updateEventRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Title        *string `json:"title"`
	Type         *string `json:"type"`
	Date         *string `json:"date"`
	StartMinutes *int    `json:"start_minutes"`
	EndMinutes   *int    `json:"end_minutes"`
	Location     *string `json:"location"`
	Description  *string `json:"description"`
	VendorID     *string `json:"vendor_id"`
	VendorName   *string `json:"vendor_name"`
	Cadence      *string `json:"cadence"`

	// Gate de governance: requeridos solo cuando el cambio de cadencia es
	// una reducción de frecuencia sobre una categoría de servicio.
	Acknowledged  bool   `json:"acknowledged"`
	Reason        string `json:"reason"`
	Justification string `json:"justification"`
}

// gateResponse es el 422 que la UI usa para renderear el diálogo de
// confirmación: trae la evaluación completa, incluida la cita normativa
// si la nueva cadencia queda por debajo del mínimo.
type gateResponse struct {
	Error            string `json:"error"`
	Previous         string `json:"previous_cadence"`
	Proposed         string `json:"proposed_cadence"`
	ReductionPercent int    `json:"reduction_percent"`
	BelowMinimum     bool   `json:"below_minimum"`
	Minimum          string `json:"minimum_cadence,omitempty"`
	Citation         string `json:"citation,omitempty"`
}

type refreshRequest struct {
	From string `json:"from"` // YYYY-MM-DD
	To   string `json:"to"`
}

// createEventHandler godoc
// @Summary Crear evento de cumplimiento
// @Description Crea un evento local. Con cadence distinta de one-time expande la serie completa del año; todas las ocurrencias comparten un recurrence_group_id. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags events
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param orgID path string true "ID de la organización"
// @Param payload body createEventRequest true "Datos del evento; date en formato YYYY-MM-DD, horario en minutos desde medianoche"
// @Success 201 {array} eventResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /orgs/{orgID}/events [post]
func createEventHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, ok := requireOrg(w, r)
		if !ok {
			return
		}

		var req createEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		created, err := store.Create(r.Context(), orgID, CreateInput{
			Title:        req.Title,
			Type:         EventType(req.Type),
			Date:         req.Date,
			StartMinutes: req.StartMinutes,
			EndMinutes:   req.EndMinutes,
			Location:     req.Location,
			Description:  req.Description,
			VendorID:     req.VendorID,
			VendorName:   req.VendorName,
			Category:     categories.ServiceCategory(req.Category),
			Cadence:      schedule.Cadence(req.Cadence),
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]eventResponse, 0, len(created))
		for _, e := range created {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// updateEventHandler godoc
// @Summary Editar evento local
// @Description Aplica un PATCH sobre un evento local. Un cambio de cadencia que reduce frecuencia sobre una categoría de servicio exige el gate de governance (acknowledged + reason + justification); sin gate responde 422 con la evaluación. Eventos seeded/external responden 409.
// @Tags events
// @Accept json
// @Produce json
// @Param orgID path string true "ID de la organización"
// @Param eventID path string true "ID del evento"
// @Param payload body updateEventRequest true "Campos a modificar; los ausentes no se tocan"
// @Success 200 {object} eventResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "event not found"
// @Failure 409 {string} string "event not locally owned"
// @Failure 422 {object} gateResponse
// @Router /orgs/{orgID}/events/{eventID} [patch]
func updateEventHandler(store *Store, gov *governance.Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, ok := requireOrg(w, r)
		if !ok {
			return
		}

		eventID := chi.URLParam(r, "eventID")
		current, found := store.Get(eventID)
		if !found || current.OrgID != orgID {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}

		var req updateEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// Gate de governance: se evalúa ANTES de mutar. Si el cambio de
		// cadencia reduce frecuencia y el gate no viene completo, se
		// rechaza con 422 y la mutación no ocurre.
		var eval *governance.Result
		if req.Cadence != nil && current.Category != "" {
			proposed := schedule.Cadence(*req.Cadence)
			if !proposed.Valid() {
				http.Error(w, "invalid cadence", http.StatusBadRequest)
				return
			}
			eval = governance.Evaluate(current.Cadence, proposed, current.Category)
			if eval != nil && !gateSatisfied(req) {
				writeJSON(w, http.StatusUnprocessableEntity, gateResponse{
					Error:            "frequency reduction requires acknowledgement, reason and justification",
					Previous:         string(eval.Previous),
					Proposed:         string(eval.Proposed),
					ReductionPercent: eval.ReductionPercent,
					BelowMinimum:     eval.BelowMinimum,
					Minimum:          string(eval.Minimum),
					Citation:         eval.Citation,
				})
				return
			}
		}

		patch := Patch{
			Title:        req.Title,
			Date:         req.Date,
			StartMinutes: req.StartMinutes,
			EndMinutes:   req.EndMinutes,
			Location:     req.Location,
			Description:  req.Description,
			VendorID:     req.VendorID,
			VendorName:   req.VendorName,
		}
		if req.Type != nil {
			t := EventType(*req.Type)
			patch.Type = &t
		}
		if req.Cadence != nil {
			c := schedule.Cadence(*req.Cadence)
			patch.Cadence = &c
		}

		updated, err := store.Update(r.Context(), eventID, patch)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "event not found", http.StatusNotFound)
			case errors.Is(err, ErrNotLocallyOwned):
				http.Error(w, "event not locally owned", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		// Auditoría best-effort: el gate ya se validó arriba, y el evento ya
		// mutó; un fallo del repo de auditoría se loguea pero no revierte
		// la edición.
		if eval != nil {
			scope := current.Location
			if scope == "" {
				scope = "all"
			}
			if _, aerr := gov.RecordFrequencyChange(r.Context(), orgID, governance.FrequencyChangeInput{
				Category:      current.Category,
				LocationScope: scope,
				Previous:      current.Cadence,
				New:           eval.Proposed,
				Acknowledged:  req.Acknowledged,
				Reason:        governance.FrequencyReason(req.Reason),
				Justification: req.Justification,
			}); aerr != nil {
				log.Warn("events: frequency change audit append failed", map[string]any{
					"event": eventID,
					"org":   orgID,
					"err":   aerr.Error(),
				})
			}
		}

		writeJSON(w, http.StatusOK, toEventResponse(updated))
	}
}

// deleteEventHandler godoc
// @Summary Borrar evento local
// @Description Borra una ocurrencia local. Con ?group=true borra todas las ocurrencias del grupo de recurrencia. Borrar un id inexistente es no-op (204).
// @Tags events
// @Produce json
// @Param orgID path string true "ID de la organización"
// @Param eventID path string true "ID del evento"
// @Param group query bool false "true = cascada al grupo de recurrencia completo"
// @Success 204 {string} string "sin contenido"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "event not found"
// @Failure 409 {string} string "event not locally owned"
// @Router /orgs/{orgID}/events/{eventID} [delete]
func deleteEventHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, ok := requireOrg(w, r)
		if !ok {
			return
		}

		eventID := chi.URLParam(r, "eventID")

		// Un id de otra org no se borra ni se confirma: 404, igual que el
		// PATCH. El no-op 204 queda solo para ids inexistentes.
		if e, found := store.Get(eventID); found && e.OrgID != orgID {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}

		if r.URL.Query().Get("group") == "true" {
			e, found := store.Get(eventID)
			if !found {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			if e.RecurrenceGroupID == "" {
				// Sin grupo: cae al borrado simple.
				if err := store.Delete(r.Context(), eventID); err != nil {
					deleteError(w, err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
			if _, err := store.DeleteGroup(r.Context(), e.RecurrenceGroupID); err != nil {
				deleteError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if err := store.Delete(r.Context(), eventID); err != nil {
			deleteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotLocallyOwned):
		http.Error(w, "event not locally owned", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// refreshEventsHandler godoc
// @Summary Re-fetchear eventos externos
// @Description Fija la ventana activa y reemplaza en bloque los eventos externos con el resultado del fetch. Si la ventana cambia mientras el fetch está en vuelo, el resultado viejo se descarta.
// @Tags events
// @Accept json
// @Produce json
// @Param orgID path string true "ID de la organización"
// @Param payload body refreshRequest true "Ventana from/to en YYYY-MM-DD"
// @Success 204 {string} string "sin contenido"
// @Failure 400 {string} string "ventana inválida"
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {string} string "fetch externo falló; se conserva el último resultado bueno"
// @Router /orgs/{orgID}/events/refresh [post]
func refreshEventsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, ok := requireOrg(w, r)
		if !ok {
			return
		}

		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		err := store.Refresh(r.Context(), Window{OrgID: orgID, From: req.From, To: req.To})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "invalid window", http.StatusBadRequest)
				return
			}
			http.Error(w, "external fetch failed", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func gateSatisfied(req updateEventRequest) bool {
	return req.Acknowledged &&
		governance.FrequencyReason(req.Reason).Valid() &&
		strings.TrimSpace(req.Justification) != ""
}

// requireOrg exige claims autenticados y que la org del path coincida con la
// del claim. Sin claims => 401; org ajena => 403.
func requireOrg(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	orgID := chi.URLParam(r, "orgID")
	if strings.TrimSpace(orgID) == "" {
		http.Error(w, "org required", http.StatusBadRequest)
		return "", false
	}
	if claims.OrgID != "" && claims.OrgID != orgID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return "", false
	}
	return orgID, true
}

func toEventResponse(e ScheduledEvent) eventResponse {
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
