package categories

import "compliance-calendar/internal/domain/schedule"

// ServiceCategory identifica un servicio regulado de la instalación.
type ServiceCategory string

const (
	HoodCleaning     ServiceCategory = "hood_cleaning"
	FireSuppression  ServiceCategory = "fire_suppression"
	FireExtinguisher ServiceCategory = "fire_extinguisher"
	GreaseTrap       ServiceCategory = "grease_trap"
	PestControl      ServiceCategory = "pest_control"
	HVACMaintenance  ServiceCategory = "hvac_maintenance"
)

// Info es data de referencia inmutable por categoría.
// Minimum vacío = la jurisdicción no define cadencia mínima.
type Info struct {
	Label    string
	Minimum  schedule.Cadence
	Citation string
}

var catalog = map[ServiceCategory]Info{
	HoodCleaning: {
		Label:    "Hood & Duct Cleaning",
		Minimum:  schedule.CadenceSemiannual,
		Citation: "NFPA 96 (2024) §11.6 / Table 12.4",
	},
	FireSuppression: {
		Label:    "Fire Suppression System Service",
		Minimum:  schedule.CadenceSemiannual,
		Citation: "NFPA 96 (2024) §10.3 / ANSI/UL 300",
	},
	FireExtinguisher: {
		Label:    "Fire Extinguisher Inspection",
		Minimum:  schedule.CadenceAnnual,
		Citation: "NFPA 10 §7.3",
	},
	GreaseTrap: {
		Label:    "Grease Trap Pumping",
		Minimum:  "", // per schedule, sin mínimo de jurisdicción
		Citation: "Local plumbing code",
	},
	PestControl: {
		Label:    "Pest Control Service",
		Minimum:  schedule.CadenceQuarterly,
		Citation: "Structural pest control regulations",
	},
	HVACMaintenance: {
		Label:    "HVAC / Refrigeration Maintenance",
		Minimum:  "",
		Citation: "Manufacturer recommendation",
	},
}

// Lookup devuelve la info de referencia de una categoría.
func Lookup(c ServiceCategory) (Info, bool) {
	info, ok := catalog[c]
	return info, ok
}

func (c ServiceCategory) Valid() bool {
	_, ok := catalog[c]
	return ok
}

func (c ServiceCategory) Label() string {
	if info, ok := catalog[c]; ok {
		return info.Label
	}
	return string(c)
}

// All lista las categorías en orden estable.
func All() []ServiceCategory {
	return []ServiceCategory{
		HoodCleaning,
		FireSuppression,
		FireExtinguisher,
		GreaseTrap,
		PestControl,
		HVACMaintenance,
	}
}
