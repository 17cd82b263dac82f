package governance

// FrequencyReason es el motivo declarado para reducir la cadencia de un
// servicio regulado. Lista cerrada.
type FrequencyReason string

const (
	FrequencyReasonCostReduction        FrequencyReason = "cost_reduction"
	FrequencyReasonServiceConsolidation FrequencyReason = "service_consolidation"
	FrequencyReasonReducedOperations    FrequencyReason = "reduced_operations"
	FrequencyReasonVendorRecommendation FrequencyReason = "vendor_recommendation"
	FrequencyReasonOther                FrequencyReason = "other"
)

func (r FrequencyReason) Valid() bool {
	switch r {
	case FrequencyReasonCostReduction,
		FrequencyReasonServiceConsolidation,
		FrequencyReasonReducedOperations,
		FrequencyReasonVendorRecommendation,
		FrequencyReasonOther:
		return true
	}
	return false
}

// VendorReason es el motivo declarado para sustituir un vendor. Lista cerrada.
type VendorReason string

const (
	VendorReasonPricing       VendorReason = "pricing"
	VendorReasonAvailability  VendorReason = "availability"
	VendorReasonQualityIssue  VendorReason = "quality_issue"
	VendorReasonContractEnded VendorReason = "contract_ended"
	VendorReasonConsolidation VendorReason = "consolidation"
	VendorReasonOther         VendorReason = "other"
)

func (r VendorReason) Valid() bool {
	switch r {
	case VendorReasonPricing,
		VendorReasonAvailability,
		VendorReasonQualityIssue,
		VendorReasonContractEnded,
		VendorReasonConsolidation,
		VendorReasonOther:
		return true
	}
	return false
}

// VendorScope indica el alcance de una sustitución de vendor.
type VendorScope string

const (
	// VendorScopeOccurrence aplica solo a una ocurrencia.
	VendorScopeOccurrence VendorScope = "occurrence"
	// VendorScopeCategory aplica a todas las ocurrencias futuras de la categoría.
	VendorScopeCategory VendorScope = "category"
)

func (s VendorScope) Valid() bool {
	return s == VendorScopeOccurrence || s == VendorScopeCategory
}
