package governance

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/schedule"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoReduction: el cambio propuesto no reduce frecuencia, no hay nada
	// que auditar.
	ErrNoReduction = errors.New("not a frequency reduction")

	// ErrGovernanceGate: falta acknowledgement, reason o justificación para
	// finalizar una reducción de cadencia.
	ErrGovernanceGate = errors.New("governance gate not satisfied")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type FrequencyChangeInput struct {
	Category      categories.ServiceCategory
	LocationScope string

	Previous schedule.Cadence
	New      schedule.Cadence

	Acknowledged  bool
	Reason        FrequencyReason
	Justification string
}

// RecordFrequencyChange valida el gate de governance y apenda exactamente un
// registro de auditoría por reducción confirmada.
//
// El gate se rechaza en el punto de guardado (ErrGovernanceGate), nunca se
// degrada silenciosamente a "sin auditoría". El porcentaje de reducción y el
// flag de mínimo regulatorio los calcula el servicio, no el caller.
func (s *Service) RecordFrequencyChange(ctx context.Context, orgID string, in FrequencyChangeInput) (FrequencyChangeRecord, error) {
	if strings.TrimSpace(orgID) == "" {
		return FrequencyChangeRecord{}, ErrInvalidInput
	}
	if !in.Category.Valid() {
		return FrequencyChangeRecord{}, ErrInvalidInput
	}

	res := Evaluate(in.Previous, in.New, in.Category)
	if res == nil {
		return FrequencyChangeRecord{}, ErrNoReduction
	}

	if !in.Acknowledged {
		return FrequencyChangeRecord{}, ErrGovernanceGate
	}
	if !in.Reason.Valid() {
		return FrequencyChangeRecord{}, ErrGovernanceGate
	}
	if strings.TrimSpace(in.Justification) == "" {
		return FrequencyChangeRecord{}, ErrGovernanceGate
	}

	scope := strings.TrimSpace(in.LocationScope)
	if scope == "" {
		scope = "all"
	}

	rec := FrequencyChangeRecord{
		ID:               uuid.NewString(),
		OrgID:            orgID,
		Category:         in.Category,
		LocationScope:    scope,
		Previous:         res.Previous,
		New:              res.Proposed,
		ReductionPercent: res.ReductionPercent,
		Minimum:          res.Minimum,
		Citation:         res.Citation,
		BelowMinimum:     res.BelowMinimum,
		Acknowledged:     true,
		Reason:           in.Reason,
		Justification:    strings.TrimSpace(in.Justification),
		RecordedAt:       s.now(),
	}

	if err := s.repo.AppendFrequencyChange(ctx, rec); err != nil {
		return FrequencyChangeRecord{}, err
	}
	return rec, nil
}

type VendorChangeInput struct {
	Category categories.ServiceCategory

	PreviousVendor string
	NewVendor      string

	Reason VendorReason
	Detail string
	Scope  VendorScope
}

// RecordVendorChange apenda exactamente un registro por sustitución
// confirmada de vendor.
func (s *Service) RecordVendorChange(ctx context.Context, orgID string, in VendorChangeInput) (VendorChangeRecord, error) {
	if strings.TrimSpace(orgID) == "" {
		return VendorChangeRecord{}, ErrInvalidInput
	}
	if !in.Category.Valid() {
		return VendorChangeRecord{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.PreviousVendor) == "" || strings.TrimSpace(in.NewVendor) == "" {
		return VendorChangeRecord{}, ErrInvalidInput
	}
	if !in.Reason.Valid() || !in.Scope.Valid() {
		return VendorChangeRecord{}, ErrGovernanceGate
	}

	rec := VendorChangeRecord{
		ID:             uuid.NewString(),
		OrgID:          orgID,
		Category:       in.Category,
		PreviousVendor: strings.TrimSpace(in.PreviousVendor),
		NewVendor:      strings.TrimSpace(in.NewVendor),
		Reason:         in.Reason,
		Detail:         strings.TrimSpace(in.Detail),
		Scope:          in.Scope,
		RecordedAt:     s.now(),
	}

	if err := s.repo.AppendVendorChange(ctx, rec); err != nil {
		return VendorChangeRecord{}, err
	}
	return rec, nil
}

func (s *Service) ListFrequencyChanges(ctx context.Context, orgID string) ([]FrequencyChangeRecord, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListFrequencyChanges(ctx, orgID)
}

func (s *Service) ListVendorChanges(ctx context.Context, orgID string) ([]VendorChangeRecord, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListVendorChanges(ctx, orgID)
}
