package agenda

import (
	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/events"
	"compliance-calendar/internal/ports/auth"
)

// Selection es el filtro conjuntivo del usuario: cada dimensión vacía
// significa "sin restricción". Las dimensiones se intersecan entre sí.
type Selection struct {
	Types      []events.EventType
	Locations  []string
	Categories []categories.ServiceCategory
}

func (s Selection) matches(e events.ScheduledEvent) bool {
	if len(s.Types) > 0 && !containsType(s.Types, e.Type) {
		return false
	}
	if len(s.Locations) > 0 && !containsString(s.Locations, e.Location) {
		return false
	}
	if len(s.Categories) > 0 && !containsCategory(s.Categories, e.Category) {
		return false
	}
	return true
}

// Visible aplica primero el allow-list del rol (y las sedes de los claims),
// después la selección del usuario. El rol siempre corre antes: el usuario
// no puede ampliar lo que el rol ya recortó.
func Visible(claims auth.Claims, sel Selection, all []events.ScheduledEvent) []events.ScheduledEvent {
	out := make([]events.ScheduledEvent, 0, len(all))
	for _, e := range all {
		if !Allows(claims.Role, e.Type) {
			continue
		}
		if !claims.CanSeeLocation(e.Location) {
			continue
		}
		if !sel.matches(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func containsType(ts []events.EventType, t events.EventType) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}

func containsString(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func containsCategory(cs []categories.ServiceCategory, c categories.ServiceCategory) bool {
	for _, x := range cs {
		if x == c {
			return true
		}
	}
	return false
}
