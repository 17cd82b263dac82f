package auth

// Claims representa la identidad del request: quién es, a qué org pertenece
// y con qué rol opera. Locations acota qué sedes puede ver; AllLocations
// true significa sin restricción de sede.
type Claims struct {
	UserID       string
	OrgID        string
	Role         string
	AllLocations bool
	Locations    []string
}

// CanSeeLocation reporta si el claim alcanza una sede puntual. Un evento sin
// sede asignada es visible para todos.
func (c Claims) CanSeeLocation(location string) bool {
	if c.AllLocations || location == "" {
		return true
	}
	for _, l := range c.Locations {
		if l == location {
			return true
		}
	}
	return false
}
