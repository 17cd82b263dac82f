package schedule

// Cadence es la frecuencia de recurrencia de un servicio programado.
// El conjunto es cerrado y totalmente ordenado por Rank().
type Cadence string

const (
	CadenceWeekly     Cadence = "weekly"
	CadenceBiweekly   Cadence = "bi-weekly"
	CadenceMonthly    Cadence = "monthly"
	CadenceBimonthly  Cadence = "bi-monthly"
	CadenceQuarterly  Cadence = "quarterly"
	CadenceSemiannual Cadence = "semi-annual"
	CadenceAnnual     Cadence = "annual"
	CadenceOneTime    Cadence = "one-time"
)

// Rank devuelve la posición en el orden de frecuencia.
// Menor rank = más frecuente. El orden es fijo y total.
func (c Cadence) Rank() int {
	switch c {
	case CadenceWeekly:
		return 1
	case CadenceBiweekly:
		return 2
	case CadenceMonthly:
		return 3
	case CadenceBimonthly:
		return 4
	case CadenceQuarterly:
		return 5
	case CadenceSemiannual:
		return 6
	case CadenceAnnual:
		return 7
	case CadenceOneTime:
		return 8
	default:
		return 0
	}
}

// PerYear es el número canónico de ocurrencias por año.
// Los callers lo usan como maxOccurrences al expandir.
func (c Cadence) PerYear() int {
	switch c {
	case CadenceWeekly:
		return 52
	case CadenceBiweekly:
		return 26
	case CadenceMonthly:
		return 12
	case CadenceBimonthly:
		return 6
	case CadenceQuarterly:
		return 4
	case CadenceSemiannual:
		return 2
	case CadenceAnnual:
		return 1
	case CadenceOneTime:
		return 1
	default:
		return 1
	}
}

func (c Cadence) Valid() bool {
	return c.Rank() != 0
}

// MoreFrequentThan reporta si c implica más ocurrencias anuales que other.
func (c Cadence) MoreFrequentThan(other Cadence) bool {
	return c.Rank() < other.Rank()
}

func (c Cadence) Label() string {
	switch c {
	case CadenceWeekly:
		return "Weekly"
	case CadenceBiweekly:
		return "Bi-Weekly"
	case CadenceMonthly:
		return "Monthly"
	case CadenceBimonthly:
		return "Bi-Monthly"
	case CadenceQuarterly:
		return "Quarterly"
	case CadenceSemiannual:
		return "Semi-Annual"
	case CadenceAnnual:
		return "Annual"
	case CadenceOneTime:
		return "One-Time"
	default:
		return string(c)
	}
}

// All lista las cadencias en orden de frecuencia (más a menos frecuente).
func All() []Cadence {
	return []Cadence{
		CadenceWeekly,
		CadenceBiweekly,
		CadenceMonthly,
		CadenceBimonthly,
		CadenceQuarterly,
		CadenceSemiannual,
		CadenceAnnual,
		CadenceOneTime,
	}
}
