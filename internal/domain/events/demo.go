package events

import (
	"fmt"
	"time"

	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/schedule"
)

// DemoEvents genera el set determinista de eventos demo alrededor de la
// fecha actual. Mismo contenido en cada llamada con el mismo now: los ids
// son estables para que el merge no duplique al re-seedear.
func DemoEvents(orgID string, now time.Time) []ScheduledEvent {
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format(DateLayout)
	}
	hm := func(h, m int) int { return h*60 + m }
	end := func(v int) *int { return &v }

	type row struct {
		offset   int
		title    string
		typ      EventType
		start    int
		end      *int
		location string
		desc     string
		vendor   string
		cat      categories.ServiceCategory
		cadence  schedule.Cadence
		overdue  bool
	}

	rows := []row{
		// Hoy
		{0, "Morning Temperature Check", EventTypeTempCheck, hm(6, 0), end(hm(6, 30)), "Downtown Kitchen", "Walk-in coolers, freezers, hot hold stations", "", "", "", false},
		{0, "Opening Checklist", EventTypeChecklist, hm(6, 30), end(hm(7, 0)), "Downtown Kitchen", "Kitchen prep and sanitization verification", "", "", "", false},
		{0, "Midday Temp Check", EventTypeTempCheck, hm(12, 0), end(hm(12, 30)), "Downtown Kitchen", "", "", "", "", false},
		{0, "Evening Checklist", EventTypeChecklist, hm(21, 0), end(hm(21, 30)), "Downtown Kitchen", "Closing procedures and final sanitization", "", "", "", false},
		// Ayer
		{-1, "Health Department Inspection", EventTypeInspection, hm(10, 0), end(hm(12, 0)), "Airport Cafe", "Annual routine health inspection", "", "", "", false},
		{-1, "Morning Temperature Check", EventTypeTempCheck, hm(6, 0), end(hm(6, 30)), "Airport Cafe", "", "", "", "", false},
		// Mañana
		{1, "Hood Cleaning Service", EventTypeVendor, hm(23, 0), end(hm(3, 0)), "Downtown Kitchen", "Quarterly hood and duct cleaning", "ProClean Services", categories.HoodCleaning, schedule.CadenceQuarterly, false},
		{1, "Morning Temperature Check", EventTypeTempCheck, hm(6, 0), end(hm(6, 30)), "University Dining", "", "", "", "", false},
		{1, "Opening Checklist", EventTypeChecklist, hm(6, 30), end(hm(7, 0)), "University Dining", "", "", "", "", false},
		// +2
		{2, "Food Safety Training", EventTypeTraining, hm(14, 0), end(hm(16, 0)), "Downtown Kitchen", "New hire food handler certification training", "", "", "", false},
		{2, "Grease Trap Service", EventTypeVendor, hm(5, 0), end(hm(7, 0)), "Airport Cafe", "Monthly grease trap pumping", "GreenWaste", categories.GreaseTrap, schedule.CadenceMonthly, false},
		// +3
		{3, "Fire Suppression Inspection", EventTypeInspection, hm(9, 0), end(hm(11, 0)), "Downtown Kitchen", "Semi-annual fire suppression system inspection", "", categories.FireSuppression, schedule.CadenceSemiannual, false},
		{3, "HACCP Plan Review", EventTypeChecklist, hm(13, 0), end(hm(15, 0)), "University Dining", "", "", "", "", false},
		// +5
		{5, "ServSafe Certification Renewal", EventTypeCertification, hm(9, 0), end(hm(17, 0)), "Downtown Kitchen", "Manager certification renewal exam", "", "", "", false},
		{5, "Pest Control Service", EventTypeVendor, hm(6, 0), end(hm(8, 0)), "Airport Cafe", "", "ShieldPest", categories.PestControl, schedule.CadenceMonthly, false},
		// +7
		{7, "Equipment Maintenance", EventTypeMaintenance, hm(7, 0), end(hm(10, 0)), "University Dining", "Quarterly refrigeration system maintenance", "", categories.HVACMaintenance, schedule.CadenceQuarterly, false},
		{7, "Allergen Training", EventTypeTraining, hm(15, 0), end(hm(17, 0)), "Downtown Kitchen", "", "", "", "", false},
		// -3
		{-3, "Fire Extinguisher Service", EventTypeVendor, hm(8, 0), end(hm(10, 0)), "Downtown Kitchen", "Annual fire extinguisher inspection and tagging", "FlameGuard", categories.FireExtinguisher, schedule.CadenceAnnual, false},
		{-3, "Morning Temperature Check", EventTypeTempCheck, hm(6, 0), end(hm(6, 30)), "Downtown Kitchen", "", "", "", "", false},
		// -5
		{-5, "HVAC Filter Replacement", EventTypeMaintenance, hm(6, 0), end(hm(8, 0)), "Airport Cafe", "Quarterly HVAC filter replacement", "", categories.HVACMaintenance, schedule.CadenceQuarterly, false},
		{-5, "Food Handler Training", EventTypeTraining, hm(10, 0), end(hm(12, 0)), "University Dining", "", "", "", "", false},
		// +10
		{10, "Health Permit Renewal", EventTypeCertification, hm(9, 0), nil, "Airport Cafe", "", "", "", "", false},
		{10, "Deep Cleaning Service", EventTypeVendor, hm(22, 0), end(hm(4, 0)), "University Dining", "", "", "", "", false},
		// +14
		{14, "Quarterly Compliance Review", EventTypeInspection, hm(10, 0), end(hm(14, 0)), "Downtown Kitchen", "Internal compliance audit across all pillars", "", "", "", false},
		// Vencidos
		{-2, "Recalibrate Freezer Thermometer", EventTypeCorrective, hm(7, 0), nil, "University Dining", "", "", "", "", true},
		{-5, "Fix Walk-in Door Seal", EventTypeCorrective, hm(8, 0), nil, "Airport Cafe", "", "", "", "", true},
	}

	out := make([]ScheduledEvent, 0, len(rows))
	for i, r := range rows {
		out = append(out, ScheduledEvent{
			ID:           fmt.Sprintf("seed-%d", i+1),
			OrgID:        orgID,
			Title:        r.title,
			Type:         r.typ,
			Date:         day(r.offset),
			StartMinutes: r.start,
			EndMinutes:   r.end,
			Location:     r.location,
			Description:  r.desc,
			VendorName:   r.vendor,
			Category:     r.cat,
			Cadence:      r.cadence,
			Overdue:      r.overdue,
			Provenance:   ProvenanceSeeded,
		})
	}
	return out
}
