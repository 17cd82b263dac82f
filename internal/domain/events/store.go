package events

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/schedule"
	"compliance-calendar/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("event not found")

	// ErrNotLocallyOwned: se intentó mutar un evento seeded o external.
	// Distinto de ErrNotFound para que el caller pueda explicar por qué
	// se rechaza la edición.
	ErrNotLocallyOwned = errors.New("event not locally owned")
)

// Store es la colección unificada de eventos: seeded + external + local.
//
// Toda mutación local pasa por acá, sincrónicamente. El slice external solo
// se reemplaza en bloque vía Refresh; seeded solo vía SeedDemo. La colección
// en memoria es la autoridad de la sesión: los fallos del repo se loguean y
// no bloquean la mutación primaria.
type Store struct {
	repo   Repository
	source Source
	log    logger.Logger
	now    func() time.Time

	mu       sync.RWMutex
	seeded   []ScheduledEvent
	external []ScheduledEvent
	window   Window
	local    []ScheduledEvent
}

func NewStore(repo Repository, source Source, log logger.Logger) *Store {
	if log == nil {
		log = logger.New(logger.Options{})
	}
	return &Store{
		repo:   repo,
		source: source,
		log:    log,
		now:    time.Now,
	}
}

// Load recarga los eventos locales persistidos de una org. Falla solo si el
// repo falla; un resultado vacío es válido.
func (s *Store) Load(ctx context.Context, orgID string) error {
	if strings.TrimSpace(orgID) == "" {
		return ErrInvalidInput
	}
	rows, err := s.repo.ListByOrg(ctx, orgID)
	if err != nil {
		return err
	}
	for i := range rows {
		rows[i].Provenance = ProvenanceLocal
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.local = rows
	return nil
}

type CreateInput struct {
	Title string
	Type  EventType

	Date         string
	StartMinutes int
	EndMinutes   *int

	Location    string
	Description string

	VendorID   string
	VendorName string

	Category categories.ServiceCategory
	Cadence  schedule.Cadence
}

// Create valida el draft y crea los eventos locales. Con cadencia distinta
// de one-time expande la serie completa, todas las ocurrencias compartiendo
// un RecurrenceGroupID nuevo. Devuelve los eventos creados en orden de fecha.
func (s *Store) Create(ctx context.Context, orgID string, in CreateInput) ([]ScheduledEvent, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrInvalidInput
	}
	if !in.Type.Valid() {
		return nil, ErrInvalidInput
	}
	start, err := time.Parse(DateLayout, in.Date)
	if err != nil {
		return nil, ErrInvalidInput
	}
	if in.StartMinutes < 0 || in.StartMinutes >= 24*60 {
		return nil, ErrInvalidInput
	}
	if in.EndMinutes != nil && (*in.EndMinutes < 0 || *in.EndMinutes >= 24*60) {
		return nil, ErrInvalidInput
	}
	if in.Cadence != "" && !in.Cadence.Valid() {
		return nil, ErrInvalidInput
	}
	if in.Category != "" && !in.Category.Valid() {
		return nil, ErrInvalidInput
	}

	dates := []time.Time{start}
	group := ""
	if in.Cadence != "" && in.Cadence != schedule.CadenceOneTime {
		dates = schedule.Expand(start, in.Cadence, in.Cadence.PerYear())
		group = uuid.NewString()
	}

	created := make([]ScheduledEvent, 0, len(dates))
	for _, d := range dates {
		created = append(created, ScheduledEvent{
			ID:                uuid.NewString(),
			OrgID:             orgID,
			Title:             strings.TrimSpace(in.Title),
			Type:              in.Type,
			Date:              d.Format(DateLayout),
			StartMinutes:      in.StartMinutes,
			EndMinutes:        in.EndMinutes,
			Location:          strings.TrimSpace(in.Location),
			Description:       strings.TrimSpace(in.Description),
			VendorID:          strings.TrimSpace(in.VendorID),
			VendorName:        strings.TrimSpace(in.VendorName),
			Category:          in.Category,
			Cadence:           in.Cadence,
			RecurrenceGroupID: group,
			Provenance:        ProvenanceLocal,
		})
	}

	s.mu.Lock()
	s.local = append(s.local, created...)
	s.mu.Unlock()

	// Persistencia best-effort: el fallo no revierte la colección local.
	if err := s.repo.CreateEvents(ctx, created); err != nil {
		s.log.Warn("events: persist create failed", map[string]any{
			"org":   orgID,
			"count": len(created),
			"err":   err.Error(),
		})
	}

	return created, nil
}

type Patch struct {
	Title        *string
	Type         *EventType
	Date         *string
	StartMinutes *int
	EndMinutes   *int
	Location     *string
	Description  *string
	VendorID     *string
	VendorName   *string
	Category     *categories.ServiceCategory
	Cadence      *schedule.Cadence
	Overdue      *bool
}

// Update aplica un patch a un evento local. Sobre eventos seeded/external
// devuelve ErrNotLocallyOwned: el store no hace no-op silencioso aunque la
// UI debería haberlo impedido.
func (s *Store) Update(ctx context.Context, id string, p Patch) (ScheduledEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ScheduledEvent{}, ErrInvalidInput
	}

	s.mu.Lock()
	idx := -1
	for i := range s.local {
		if s.local[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		owned := s.findReadOnlyLocked(id)
		s.mu.Unlock()
		if owned {
			return ScheduledEvent{}, ErrNotLocallyOwned
		}
		return ScheduledEvent{}, ErrNotFound
	}

	e := s.local[idx]
	if err := applyPatch(&e, p); err != nil {
		s.mu.Unlock()
		return ScheduledEvent{}, err
	}
	s.local[idx] = e
	s.mu.Unlock()

	if err := s.repo.UpdateEvent(ctx, e); err != nil {
		s.log.Warn("events: persist update failed", map[string]any{
			"id":  e.ID,
			"err": err.Error(),
		})
	}

	return e, nil
}

func applyPatch(e *ScheduledEvent, p Patch) error {
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return ErrInvalidInput
		}
		e.Title = strings.TrimSpace(*p.Title)
	}
	if p.Type != nil {
		if !p.Type.Valid() {
			return ErrInvalidInput
		}
		e.Type = *p.Type
	}
	if p.Date != nil {
		if _, err := time.Parse(DateLayout, *p.Date); err != nil {
			return ErrInvalidInput
		}
		e.Date = *p.Date
	}
	if p.StartMinutes != nil {
		if *p.StartMinutes < 0 || *p.StartMinutes >= 24*60 {
			return ErrInvalidInput
		}
		e.StartMinutes = *p.StartMinutes
	}
	if p.EndMinutes != nil {
		if *p.EndMinutes < 0 || *p.EndMinutes >= 24*60 {
			return ErrInvalidInput
		}
		e.EndMinutes = p.EndMinutes
	}
	if p.Location != nil {
		e.Location = strings.TrimSpace(*p.Location)
	}
	if p.Description != nil {
		e.Description = strings.TrimSpace(*p.Description)
	}
	if p.VendorID != nil {
		e.VendorID = strings.TrimSpace(*p.VendorID)
	}
	if p.VendorName != nil {
		e.VendorName = strings.TrimSpace(*p.VendorName)
	}
	if p.Category != nil {
		if *p.Category != "" && !p.Category.Valid() {
			return ErrInvalidInput
		}
		e.Category = *p.Category
	}
	if p.Cadence != nil {
		if *p.Cadence != "" && !p.Cadence.Valid() {
			return ErrInvalidInput
		}
		e.Cadence = *p.Cadence
	}
	if p.Overdue != nil {
		e.Overdue = *p.Overdue
	}
	return nil
}

// Delete borra una única ocurrencia local. Un id ya borrado (o nunca
// existente) es no-op sin error: borrar dos veces es seguro. No cascadea al
// grupo de recurrencia; para eso está DeleteGroup.
func (s *Store) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	idx := -1
	for i := range s.local {
		if s.local[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		owned := s.findReadOnlyLocked(id)
		s.mu.Unlock()
		if owned {
			return ErrNotLocallyOwned
		}
		return nil
	}
	s.local = append(s.local[:idx], s.local[idx+1:]...)
	s.mu.Unlock()

	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		s.log.Warn("events: persist delete failed", map[string]any{
			"id":  id,
			"err": err.Error(),
		})
	}
	return nil
}

// DeleteGroup es el cascade explícito: borra todas las ocurrencias locales
// de un grupo de recurrencia y devuelve cuántas eliminó.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) (int, error) {
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return 0, ErrInvalidInput
	}

	s.mu.Lock()
	kept := s.local[:0]
	removed := make([]string, 0)
	for _, e := range s.local {
		if e.RecurrenceGroupID == groupID {
			removed = append(removed, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	s.local = kept
	s.mu.Unlock()

	for _, id := range removed {
		if err := s.repo.DeleteEvent(ctx, id); err != nil {
			s.log.Warn("events: persist group delete failed", map[string]any{
				"id":  id,
				"err": err.Error(),
			})
		}
	}
	return len(removed), nil
}

// SetVendor cambia el vendor de una sola ocurrencia local.
func (s *Store) SetVendor(ctx context.Context, id, vendorID, vendorName string) (ScheduledEvent, error) {
	return s.Update(ctx, id, Patch{VendorID: &vendorID, VendorName: &vendorName})
}

// SetVendorForCategory cambia el vendor en todas las ocurrencias locales
// futuras (fecha >= fromDate) de una categoría. Devuelve cuántas tocó; los
// eventos seeded/external no se tocan.
func (s *Store) SetVendorForCategory(ctx context.Context, orgID string, cat categories.ServiceCategory, fromDate, vendorID, vendorName string) (int, error) {
	if strings.TrimSpace(orgID) == "" || !cat.Valid() {
		return 0, ErrInvalidInput
	}
	if _, err := time.Parse(DateLayout, fromDate); err != nil {
		return 0, ErrInvalidInput
	}

	s.mu.Lock()
	touched := make([]ScheduledEvent, 0)
	for i := range s.local {
		e := &s.local[i]
		if e.OrgID != orgID || e.Category != cat || e.Date < fromDate {
			continue
		}
		e.VendorID = strings.TrimSpace(vendorID)
		e.VendorName = strings.TrimSpace(vendorName)
		touched = append(touched, *e)
	}
	s.mu.Unlock()

	for _, e := range touched {
		if err := s.repo.UpdateEvent(ctx, e); err != nil {
			s.log.Warn("events: persist vendor change failed", map[string]any{
				"id":  e.ID,
				"err": err.Error(),
			})
		}
	}
	return len(touched), nil
}

// Refresh re-fetchea los eventos externos de la ventana y los aplica en un
// solo swap. La ventana activa se fija antes del fetch; si cambió cuando la
// respuesta llega, el resultado viejo se descarta por identidad de ventana
// (las respuestas de red pueden llegar fuera de orden, "latest wins" por
// orden de llegada no alcanza). En fallo se conserva el último slice bueno.
func (s *Store) Refresh(ctx context.Context, w Window) error {
	if strings.TrimSpace(w.OrgID) == "" {
		return ErrInvalidInput
	}
	if _, err := time.Parse(DateLayout, w.From); err != nil {
		return ErrInvalidInput
	}
	if _, err := time.Parse(DateLayout, w.To); err != nil {
		return ErrInvalidInput
	}
	if w.To < w.From {
		return ErrInvalidInput
	}
	if s.source == nil {
		return nil
	}

	s.mu.Lock()
	s.window = w
	s.mu.Unlock()

	fetched, err := s.source.FetchEvents(ctx, w.OrgID, w.From, w.To)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.window != w {
		// Respuesta de una ventana que ya no está activa: descartar.
		return nil
	}
	if err != nil {
		s.log.Warn("events: external fetch failed, keeping last known good", map[string]any{
			"org":  w.OrgID,
			"from": w.From,
			"to":   w.To,
			"err":  err.Error(),
		})
		return err
	}

	for i := range fetched {
		fetched[i].Provenance = ProvenanceExternal
	}
	s.external = fetched
	return nil
}

// ActiveWindow devuelve la ventana externa vigente.
func (s *Store) ActiveWindow() Window {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.window
}

// SeedDemo instala el set determinista de eventos demo para una org,
// reemplazando cualquier seed anterior.
func (s *Store) SeedDemo(orgID string) {
	seeded := DemoEvents(orgID, s.now())
	s.mu.Lock()
	s.seeded = seeded
	s.mu.Unlock()
}

// All devuelve el snapshot combinado: seeded, external, local, en ese orden.
// Ante colisión de id (no debería ocurrir) gana la primera fuente listada.
func (s *Store) All() []ScheduledEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ScheduledEvent, 0, len(s.seeded)+len(s.external)+len(s.local))
	seen := make(map[string]bool, cap(out))
	for _, group := range [][]ScheduledEvent{s.seeded, s.external, s.local} {
		for _, e := range group {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			out = append(out, e)
		}
	}
	return out
}

// Get busca un evento por id en las tres fuentes.
func (s *Store) Get(id string) (ScheduledEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, group := range [][]ScheduledEvent{s.seeded, s.external, s.local} {
		for _, e := range group {
			if e.ID == id {
				return e, true
			}
		}
	}
	return ScheduledEvent{}, false
}

// findReadOnlyLocked reporta si id existe en seeded o external. Caller
// sostiene el lock.
func (s *Store) findReadOnlyLocked(id string) bool {
	for _, group := range [][]ScheduledEvent{s.seeded, s.external} {
		for _, e := range group {
			if e.ID == id {
				return true
			}
		}
	}
	return false
}
