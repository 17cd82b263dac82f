package governance

import (
	"testing"

	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/schedule"
)

func TestEvaluate_NoPrevious_IsNil(t *testing.T) {
	if res := Evaluate("", schedule.CadenceAnnual, categories.HoodCleaning); res != nil {
		t.Fatalf("expected nil without previous cadence, got %+v", res)
	}
}

func TestEvaluate_OneTime_IsNil(t *testing.T) {
	if res := Evaluate(schedule.CadenceOneTime, schedule.CadenceAnnual, categories.HoodCleaning); res != nil {
		t.Fatalf("expected nil for one-time previous, got %+v", res)
	}
	if res := Evaluate(schedule.CadenceMonthly, schedule.CadenceOneTime, categories.HoodCleaning); res != nil {
		t.Fatalf("expected nil for one-time proposed, got %+v", res)
	}
}

func TestEvaluate_SameCadence_IsNil_ForEveryCadence(t *testing.T) {
	// Reseleccionar la misma cadencia nunca es una reducción, ni de 0%.
	for _, c := range schedule.All() {
		if res := Evaluate(c, c, categories.HoodCleaning); res != nil {
			t.Fatalf("%s: expected nil for rank-equal change, got %+v", c, res)
		}
	}
}

func TestEvaluate_MoreFrequent_IsNil(t *testing.T) {
	if res := Evaluate(schedule.CadenceAnnual, schedule.CadenceMonthly, categories.HoodCleaning); res != nil {
		t.Fatalf("expected nil when increasing frequency, got %+v", res)
	}
}

func TestEvaluate_Reduction_Percent(t *testing.T) {
	// monthly rank 3, annual rank 7: round((1 - 3/7) * 100) = 57.
	res := Evaluate(schedule.CadenceMonthly, schedule.CadenceAnnual, categories.GreaseTrap)
	if res == nil {
		t.Fatalf("expected a reduction result")
	}
	if res.ReductionPercent != 57 {
		t.Fatalf("expected 57%% reduction, got %d", res.ReductionPercent)
	}
	if res.Previous != schedule.CadenceMonthly || res.Proposed != schedule.CadenceAnnual {
		t.Fatalf("result does not carry cadences: %+v", res)
	}
}

func TestEvaluate_BelowMinimum_QuarterlyFloor(t *testing.T) {
	// pest_control tiene mínimo quarterly.
	res := Evaluate(schedule.CadenceMonthly, schedule.CadenceAnnual, categories.PestControl)
	if res == nil {
		t.Fatalf("expected a reduction result")
	}
	if !res.BelowMinimum {
		t.Fatalf("annual is below the quarterly floor, expected BelowMinimum")
	}
	if res.Minimum != schedule.CadenceQuarterly {
		t.Fatalf("expected quarterly minimum, got %s", res.Minimum)
	}
	if res.Citation == "" {
		t.Fatalf("expected citation when below minimum")
	}
}

func TestEvaluate_AtMinimum_NotBelow(t *testing.T) {
	res := Evaluate(schedule.CadenceMonthly, schedule.CadenceQuarterly, categories.PestControl)
	if res == nil {
		t.Fatalf("expected a reduction result")
	}
	if res.BelowMinimum {
		t.Fatalf("quarterly equals the floor, must not flag BelowMinimum")
	}
	if res.Minimum != "" || res.Citation != "" {
		t.Fatalf("minimum fields must be empty when not below: %+v", res)
	}
}

func TestEvaluate_CategoryWithoutMinimum(t *testing.T) {
	res := Evaluate(schedule.CadenceMonthly, schedule.CadenceAnnual, categories.GreaseTrap)
	if res == nil {
		t.Fatalf("expected a reduction result")
	}
	if res.BelowMinimum {
		t.Fatalf("grease_trap has no regulatory minimum")
	}
}

func TestEvaluate_FullCombinationTable(t *testing.T) {
	// Para cualquier par prev/prop válidos, hay resultado sii propRank > prevRank
	// y ninguno es one-time.
	for _, prev := range schedule.All() {
		for _, prop := range schedule.All() {
			res := Evaluate(prev, prop, categories.HoodCleaning)
			expect := prev != schedule.CadenceOneTime &&
				prop != schedule.CadenceOneTime &&
				prop.Rank() > prev.Rank()
			if expect && res == nil {
				t.Fatalf("%s -> %s: expected result, got nil", prev, prop)
			}
			if !expect && res != nil {
				t.Fatalf("%s -> %s: expected nil, got %+v", prev, prop, res)
			}
			if res != nil && res.ReductionPercent <= 0 {
				t.Fatalf("%s -> %s: reduction must be positive, got %d", prev, prop, res.ReductionPercent)
			}
		}
	}
}
