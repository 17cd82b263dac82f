package events

// EventType etiqueta la clase de evento de cumplimiento.
type EventType string

const (
	EventTypeTempCheck     EventType = "temp-check"
	EventTypeChecklist     EventType = "checklist"
	EventTypeVendor        EventType = "vendor"
	EventTypeInspection    EventType = "inspection"
	EventTypeTraining      EventType = "training"
	EventTypeMaintenance   EventType = "maintenance"
	EventTypeCertification EventType = "certification"
	EventTypeMeeting       EventType = "meeting"
	EventTypeCorrective    EventType = "corrective"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeTempCheck, EventTypeChecklist, EventTypeVendor,
		EventTypeInspection, EventTypeTraining, EventTypeMaintenance,
		EventTypeCertification, EventTypeMeeting, EventTypeCorrective:
		return true
	}
	return false
}

// AllTypes lista los tipos en orden estable.
func AllTypes() []EventType {
	return []EventType{
		EventTypeTempCheck,
		EventTypeChecklist,
		EventTypeVendor,
		EventTypeInspection,
		EventTypeTraining,
		EventTypeMaintenance,
		EventTypeCertification,
		EventTypeMeeting,
		EventTypeCorrective,
	}
}

// Provenance indica de cuál de las tres fuentes salió un evento y determina
// su mutabilidad: solo los eventos local se editan o borran desde acá.
type Provenance string

const (
	// ProvenanceSeeded: generado determinísticamente para modo demo.
	ProvenanceSeeded Provenance = "seeded"
	// ProvenanceExternal: traído del store persistido; solo se reemplaza
	// en bloque al re-fetchear.
	ProvenanceExternal Provenance = "external"
	// ProvenanceLocal: creado/editado por el usuario en esta sesión.
	ProvenanceLocal Provenance = "local"
)
