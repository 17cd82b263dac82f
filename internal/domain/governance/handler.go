package governance

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/schedule"
	"compliance-calendar/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// VendorApplier aplica la sustitución de vendor sobre los eventos agendados.
// La implementación real es el store de eventos; el handler no lo importa
// directo para no acoplar los módulos.
type VendorApplier interface {
	// Ambas variantes reciben la org del request: un event_id que no
	// pertenece a esa org cuenta como inexistente.
	ApplyToOccurrence(ctx context.Context, orgID, eventID, vendorID, vendorName string) error
	ApplyToCategory(ctx context.Context, orgID string, cat categories.ServiceCategory, fromDate, vendorID, vendorName string) (int, error)
}

// AuditExporter serializa el registro de auditoría completo de una org. La
// implementación XLSX vive en adapters/export.
type AuditExporter interface {
	WriteAudit(w io.Writer, freq []FrequencyChangeRecord, vendors []VendorChangeRecord) error
}

// RegisterRoutes registra la superficie de governance bajo /orgs/{orgID}.
func RegisterRoutes(r chi.Router, svc *Service, vendors VendorApplier, exporter AuditExporter) {
	r.Post("/governance/frequency-changes/preview", previewFrequencyChangeHandler())
	r.Post("/governance/frequency-changes", recordFrequencyChangeHandler(svc))
	r.Get("/governance/frequency-changes", listFrequencyChangesHandler(svc))
	r.Post("/governance/vendor-changes", recordVendorChangeHandler(svc, vendors))
	r.Get("/governance/vendor-changes", listVendorChangesHandler(svc))
	r.Get("/governance/export.xlsx", exportAuditHandler(svc, exporter))
}

type previewRequest struct {
	Category string `json:"category"`
	Previous string `json:"previous_cadence"`
	Proposed string `json:"proposed_cadence"`
}

type evaluationResponse struct {
	Reduction        bool   `json:"reduction"`
	Previous         string `json:"previous_cadence,omitempty"`
	Proposed         string `json:"proposed_cadence,omitempty"`
	ReductionPercent int    `json:"reduction_percent,omitempty"`
	BelowMinimum     bool   `json:"below_minimum,omitempty"`
	Minimum          string `json:"minimum_cadence,omitempty"`
	Citation         string `json:"citation,omitempty"`
}

type frequencyChangeRequest struct {
	Category      string `json:"category"`
	LocationScope string `json:"location_scope"` // vacío = all
	Previous      string `json:"previous_cadence"`
	New           string `json:"new_cadence"`
	Acknowledged  bool   `json:"acknowledged"`
	Reason        string `json:"reason"`
	Justification string `json:"justification"`
}

type frequencyChangeResponse struct {
	ID               string    `json:"id"`
	OrgID            string    `json:"org_id"`
	Category         string    `json:"category"`
	LocationScope    string    `json:"location_scope"`
	Previous         string    `json:"previous_cadence"`
	New              string    `json:"new_cadence"`
	ReductionPercent int       `json:"reduction_percent"`
	BelowMinimum     bool      `json:"below_minimum"`
	Minimum          string    `json:"minimum_cadence,omitempty"`
	Citation         string    `json:"citation,omitempty"`
	Reason           string    `json:"reason"`
	Justification    string    `json:"justification"`
	RecordedAt       time.Time `json:"recorded_at"`
}

type vendorChangeRequest struct {
	Category       string `json:"category"`
	PreviousVendor string `json:"previous_vendor"`
	NewVendor      string `json:"new_vendor"`
	NewVendorID    string `json:"new_vendor_id"`
	Reason         string `json:"reason"`
	Detail         string `json:"detail"`
	Scope          string `json:"scope"` // occurrence | category

	// Según scope: el evento puntual a tocar, o la fecha desde la cual
	// sustituir en toda la categoría.
	EventID  string `json:"event_id"`
	FromDate string `json:"from_date"` // YYYY-MM-DD
}

type vendorChangeResponse struct {
	ID             string    `json:"id"`
	OrgID          string    `json:"org_id"`
	Category       string    `json:"category"`
	PreviousVendor string    `json:"previous_vendor"`
	NewVendor      string    `json:"new_vendor"`
	Reason         string    `json:"reason"`
	Detail         string    `json:"detail,omitempty"`
	Scope          string    `json:"scope"`
	RecordedAt     time.Time `json:"recorded_at"`
	EventsTouched  int       `json:"events_touched"`
}

// previewFrequencyChangeHandler godoc
// @Summary Evaluar un cambio de cadencia
// @Description Evaluación pura, sin persistencia: la UI la usa para decidir si muestra el diálogo de confirmación antes de guardar. reduction=false significa que el cambio no reduce frecuencia y no requiere gate.
// @Tags governance
// @Accept json
// @Produce json
// @Param orgID path string true "ID de la organización"
// @Param payload body previewRequest true "Cadencia previa y propuesta más la categoría de servicio"
// @Success 200 {object} evaluationResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Router /orgs/{orgID}/governance/frequency-changes/preview [post]
func previewFrequencyChangeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireOrg(w, r); !ok {
			return
		}

		var req previewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res := Evaluate(
			schedule.Cadence(req.Previous),
			schedule.Cadence(req.Proposed),
			categories.ServiceCategory(req.Category),
		)
		if res == nil {
			writeJSON(w, http.StatusOK, evaluationResponse{Reduction: false})
			return
		}
		writeJSON(w, http.StatusOK, evaluationResponse{
			Reduction:        true,
			Previous:         string(res.Previous),
			Proposed:         string(res.Proposed),
			ReductionPercent: res.ReductionPercent,
			BelowMinimum:     res.BelowMinimum,
			Minimum:          string(res.Minimum),
			Citation:         res.Citation,
		})
	}
}

// recordFrequencyChangeHandler godoc
// @Summary Registrar una reducción de cadencia
// @Description Apenda un registro de auditoría por una reducción confirmada. Requiere el gate completo: acknowledged, reason y justification; si falta algo responde 422. Un cambio que no reduce frecuencia responde 422 con "not a frequency reduction".
// @Tags governance
// @Accept json
// @Produce json
// @Param orgID path string true "ID de la organización"
// @Param payload body frequencyChangeRequest true "Cambio de cadencia con el gate completo"
// @Success 201 {object} frequencyChangeResponse
// @Failure 400 {string} string "invalid json / categoría inválida"
// @Failure 401 {string} string "unauthorized"
// @Failure 422 {string} string "gate incompleto o sin reducción"
// @Router /orgs/{orgID}/governance/frequency-changes [post]
func recordFrequencyChangeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, ok := requireOrg(w, r)
		if !ok {
			return
		}

		var req frequencyChangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rec, err := svc.RecordFrequencyChange(r.Context(), orgID, FrequencyChangeInput{
			Category:      categories.ServiceCategory(req.Category),
			LocationScope: req.LocationScope,
			Previous:      schedule.Cadence(req.Previous),
			New:           schedule.Cadence(req.New),
			Acknowledged:  req.Acknowledged,
			Reason:        FrequencyReason(req.Reason),
			Justification: req.Justification,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNoReduction), errors.Is(err, ErrGovernanceGate):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toFrequencyChangeResponse(rec))
	}
}

// listFrequencyChangesHandler godoc
// @Summary Listar reducciones de cadencia
// @Tags governance
// @Produce json
// @Param orgID path string true "ID de la organización"
// @Success 200 {array} frequencyChangeResponse
// @Failure 401 {string} string "unauthorized"
// @Router /orgs/{orgID}/governance/frequency-changes [get]
func listFrequencyChangesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, ok := requireOrg(w, r)
		if !ok {
			return
		}

		items, err := svc.ListFrequencyChanges(r.Context(), orgID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]frequencyChangeResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toFrequencyChangeResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// recordVendorChangeHandler godoc
// @Summary Registrar y aplicar un cambio de vendor
// @Description Apenda el registro de auditoría y aplica la sustitución sobre los eventos agendados: scope=occurrence toca un solo evento (event_id), scope=category toca todos los eventos locales futuros de la categoría desde from_date.
// @Tags governance
// @Accept json
// @Produce json
// @Param orgID path string true "ID de la organización"
// @Param payload body vendorChangeRequest true "Cambio de vendor con reason y scope"
// @Success 201 {object} vendorChangeResponse
// @Failure 400 {string} string "invalid json / vendors faltantes"
// @Failure 401 {string} string "unauthorized"
// @Failure 422 {string} string "reason o scope inválidos"
// @Router /orgs/{orgID}/governance/vendor-changes [post]
func recordVendorChangeHandler(svc *Service, vendors VendorApplier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, ok := requireOrg(w, r)
		if !ok {
			return
		}

		var req vendorChangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		scope := VendorScope(req.Scope)
		if scope == VendorScopeOccurrence && strings.TrimSpace(req.EventID) == "" {
			http.Error(w, "event_id required for occurrence scope", http.StatusBadRequest)
			return
		}
		if scope == VendorScopeCategory && strings.TrimSpace(req.FromDate) == "" {
			http.Error(w, "from_date required for category scope", http.StatusBadRequest)
			return
		}

		rec, err := svc.RecordVendorChange(r.Context(), orgID, VendorChangeInput{
			Category:       categories.ServiceCategory(req.Category),
			PreviousVendor: req.PreviousVendor,
			NewVendor:      req.NewVendor,
			Reason:         VendorReason(req.Reason),
			Detail:         req.Detail,
			Scope:          scope,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrGovernanceGate):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		touched := 0
		if vendors != nil {
			switch scope {
			case VendorScopeOccurrence:
				if err := vendors.ApplyToOccurrence(r.Context(), orgID, req.EventID, req.NewVendorID, req.NewVendor); err != nil {
					http.Error(w, "vendor change recorded but not applied: "+err.Error(), http.StatusConflict)
					return
				}
				touched = 1
			case VendorScopeCategory:
				n, err := vendors.ApplyToCategory(r.Context(), orgID, categories.ServiceCategory(req.Category), req.FromDate, req.NewVendorID, req.NewVendor)
				if err != nil {
					http.Error(w, "vendor change recorded but not applied: "+err.Error(), http.StatusConflict)
					return
				}
				touched = n
			}
		}

		resp := toVendorChangeResponse(rec)
		resp.EventsTouched = touched
		writeJSON(w, http.StatusCreated, resp)
	}
}

// listVendorChangesHandler godoc
// @Summary Listar cambios de vendor
// @Tags governance
// @Produce json
// @Param orgID path string true "ID de la organización"
// @Success 200 {array} vendorChangeResponse
// @Failure 401 {string} string "unauthorized"
// @Router /orgs/{orgID}/governance/vendor-changes [get]
func listVendorChangesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, ok := requireOrg(w, r)
		if !ok {
			return
		}

		items, err := svc.ListVendorChanges(r.Context(), orgID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]vendorChangeResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toVendorChangeResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// exportAuditHandler godoc
// @Summary Exportar la auditoría como XLSX
// @Description Descarga el registro de auditoría completo de la org (reducciones de cadencia y cambios de vendor) como planilla.
// @Tags governance
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param orgID path string true "ID de la organización"
// @Success 200 {string} string "binario XLSX"
// @Failure 401 {string} string "unauthorized"
// @Router /orgs/{orgID}/governance/export.xlsx [get]
func exportAuditHandler(svc *Service, exporter AuditExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, ok := requireOrg(w, r)
		if !ok {
			return
		}
		if exporter == nil {
			http.Error(w, "export not configured", http.StatusNotFound)
			return
		}

		freq, err := svc.ListFrequencyChanges(r.Context(), orgID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		vendors, err := svc.ListVendorChanges(r.Context(), orgID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="governance-audit.xlsx"`)
		if err := exporter.WriteAudit(w, freq, vendors); err != nil {
			http.Error(w, "export serialization failed", http.StatusInternalServerError)
		}
	}
}

func toFrequencyChangeResponse(rec FrequencyChangeRecord) frequencyChangeResponse {
	return frequencyChangeResponse{
		ID:               rec.ID,
		OrgID:            rec.OrgID,
		Category:         string(rec.Category),
		LocationScope:    rec.LocationScope,
		Previous:         string(rec.Previous),
		New:              string(rec.New),
		ReductionPercent: rec.ReductionPercent,
		BelowMinimum:     rec.BelowMinimum,
		Minimum:          string(rec.Minimum),
		Citation:         rec.Citation,
		Reason:           string(rec.Reason),
		Justification:    rec.Justification,
		RecordedAt:       rec.RecordedAt,
	}
}

func toVendorChangeResponse(rec VendorChangeRecord) vendorChangeResponse {
	return vendorChangeResponse{
		ID:             rec.ID,
		OrgID:          rec.OrgID,
		Category:       string(rec.Category),
		PreviousVendor: rec.PreviousVendor,
		NewVendor:      rec.NewVendor,
		Reason:         string(rec.Reason),
		Detail:         rec.Detail,
		Scope:          string(rec.Scope),
		RecordedAt:     rec.RecordedAt,
	}
}

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

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
