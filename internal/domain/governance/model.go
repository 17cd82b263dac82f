package governance

import (
	"time"

	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/schedule"
)

// FrequencyChangeRecord es una fila de auditoría append-only: una reducción
// confirmada de cadencia para un servicio regulado. Nunca se actualiza ni se
// borra.
type FrequencyChangeRecord struct {
	ID    string
	OrgID string

	Category      categories.ServiceCategory
	LocationScope string // location afectada, o "all"

	Previous         schedule.Cadence
	New              schedule.Cadence
	ReductionPercent int

	// Minimum es la cadencia mínima regulatoria vigente (vacía si la
	// categoría no define una).
	Minimum      schedule.Cadence
	Citation     string
	BelowMinimum bool

	Acknowledged  bool
	Reason        FrequencyReason
	Justification string

	RecordedAt time.Time
}

// VendorChangeRecord es una fila de auditoría append-only: una sustitución
// confirmada de vendor para una categoría de servicio.
type VendorChangeRecord struct {
	ID    string
	OrgID string

	Category categories.ServiceCategory

	PreviousVendor string
	NewVendor      string

	Reason VendorReason
	Detail string
	Scope  VendorScope

	RecordedAt time.Time
}
