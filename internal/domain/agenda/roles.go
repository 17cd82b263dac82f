package agenda

import "compliance-calendar/internal/domain/events"

// Roles operativos y qué tipos de evento puede ver cada uno. La tabla es
// estática: el rol viene en los claims y acá solo se resuelve el allow-list.
const (
	RoleOwnerOperator     = "owner_operator"
	RoleKitchenManager    = "kitchen_manager"
	RoleKitchenStaff      = "kitchen_staff"
	RoleFacilities        = "facilities"
	RoleComplianceManager = "compliance_manager"
	RoleExecutive         = "executive"
)

var roleTypes = map[string][]events.EventType{
	RoleKitchenManager: {
		events.EventTypeTempCheck,
		events.EventTypeChecklist,
		events.EventTypeVendor,
		events.EventTypeMeeting,
	},
	RoleKitchenStaff: {
		events.EventTypeTempCheck,
		events.EventTypeChecklist,
	},
	RoleFacilities: {
		events.EventTypeMaintenance,
		events.EventTypeVendor,
		events.EventTypeInspection,
		events.EventTypeCertification,
	},
	RoleComplianceManager: {
		events.EventTypeInspection,
		events.EventTypeCertification,
		events.EventTypeCorrective,
	},
	RoleExecutive: {
		events.EventTypeInspection,
		events.EventTypeCertification,
		events.EventTypeMeeting,
	},
}

// AllowedTypes devuelve los tipos visibles para un rol. owner_operator ve
// todo; un rol desconocido no ve nada (deny por defecto, nunca fail-open).
func AllowedTypes(role string) []events.EventType {
	if role == RoleOwnerOperator {
		return events.AllTypes()
	}
	ts, ok := roleTypes[role]
	if !ok {
		return nil
	}
	out := make([]events.EventType, len(ts))
	copy(out, ts)
	return out
}

// Allows reporta si el rol puede ver un tipo de evento puntual.
func Allows(role string, t events.EventType) bool {
	if role == RoleOwnerOperator {
		return t.Valid()
	}
	for _, a := range roleTypes[role] {
		if a == t {
			return true
		}
	}
	return false
}
