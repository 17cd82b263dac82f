package governance

import (
	"math"

	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/schedule"
)

// Result es el veredicto de Evaluate sobre un cambio de cadencia propuesto.
// Es data advisoria: quien llama decide si bloquea la acción.
type Result struct {
	Previous schedule.Cadence
	Proposed schedule.Cadence

	// ReductionPercent aproxima la caída relativa de frecuencia anual a
	// partir de los ranks: round((1 - prevRank/propRank) * 100). Es una
	// heurística basada en rank, no un ratio real de ocurrencias por año;
	// se mantiene por compatibilidad de comportamiento.
	ReductionPercent int

	BelowMinimum bool
	// Minimum y Citation solo se rellenan cuando BelowMinimum es true.
	Minimum  schedule.Cadence
	Citation string
}

// Evaluate clasifica un cambio de cadencia para una categoría regulada.
//
// Devuelve nil (sin preocupación de governance) cuando:
//   - no hay cadencia previa,
//   - cualquiera de las dos es one-time,
//   - la propuesta es igual o más frecuente que la previa.
//
// Una reselección de la misma cadencia devuelve nil, no una reducción de 0%:
// la UI distingue "sin cambio" de "confirmado sin cambios".
//
// Pura: sin persistencia, sin errores.
func Evaluate(previous, proposed schedule.Cadence, cat categories.ServiceCategory) *Result {
	if previous == "" || !previous.Valid() || !proposed.Valid() {
		return nil
	}
	if previous == schedule.CadenceOneTime || proposed == schedule.CadenceOneTime {
		return nil
	}
	if proposed.Rank() <= previous.Rank() {
		return nil
	}

	prevRank := float64(previous.Rank())
	propRank := float64(proposed.Rank())
	reduction := int(math.Round((1 - prevRank/propRank) * 100))

	res := &Result{
		Previous:         previous,
		Proposed:         proposed,
		ReductionPercent: reduction,
	}

	if info, ok := categories.Lookup(cat); ok && info.Minimum != "" {
		if proposed.Rank() > info.Minimum.Rank() {
			res.BelowMinimum = true
			res.Minimum = info.Minimum
			res.Citation = info.Citation
		}
	}

	return res
}
