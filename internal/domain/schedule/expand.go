package schedule

import "time"

// Expand genera la serie ordenada de fechas de ocurrencia para una cadencia,
// empezando en start y hasta max fechas. Pura y determinista.
//
// Pasos de calendario: +7d (weekly), +14d (bi-weekly), +1m (monthly),
// +2m (bi-monthly), +3m (quarterly), +6m (semi-annual), +1y (annual).
//
// Para pasos de mes/año se preserva el día-del-mes de start; si el mes
// destino no tiene ese día, se ajusta al último día válido. El ajuste no se
// propaga: cada ocurrencia se calcula desde start, así que Jan 31 mensual da
// Feb 28 y luego Mar 31, no Mar 28.
func Expand(start time.Time, c Cadence, max int) []time.Time {
	if max < 1 {
		max = 1
	}
	if !c.Valid() || c == CadenceOneTime {
		return []time.Time{start}
	}

	out := make([]time.Time, 0, max)
	out = append(out, start)

	days, months := step(c)
	for i := 1; i < max; i++ {
		var next time.Time
		if days > 0 {
			next = out[i-1].AddDate(0, 0, days)
		} else {
			next = addMonthsClamped(start, months*i)
		}
		out = append(out, next)
	}
	return out
}

func step(c Cadence) (days, months int) {
	switch c {
	case CadenceWeekly:
		return 7, 0
	case CadenceBiweekly:
		return 14, 0
	case CadenceMonthly:
		return 0, 1
	case CadenceBimonthly:
		return 0, 2
	case CadenceQuarterly:
		return 0, 3
	case CadenceSemiannual:
		return 0, 6
	case CadenceAnnual:
		return 0, 12
	default:
		return 0, 0
	}
}

// addMonthsClamped avanza delta meses desde base manteniendo el día-del-mes,
// ajustado al último día válido del mes destino. No usa time.AddDate porque
// ese normaliza (Jan 31 + 1 mes = Mar 2/3) en lugar de ajustar.
func addMonthsClamped(base time.Time, delta int) time.Time {
	y, m, d := base.Date()
	month := int(m) - 1 + delta
	y += month / 12
	month = month % 12
	if month < 0 {
		month += 12
		y--
	}
	target := time.Month(month + 1)

	if last := daysIn(y, target); d > last {
		d = last
	}

	h, min, sec := base.Clock()
	return time.Date(y, target, d, h, min, sec, base.Nanosecond(), base.Location())
}

func daysIn(year int, month time.Month) int {
	// Día 0 del mes siguiente = último día de month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
