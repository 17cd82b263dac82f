package governance

import "context"

// Repository es el log de auditoría durable. Solo append y lectura: no
// existen update ni delete para estos tipos de registro.
type Repository interface {
	AppendFrequencyChange(ctx context.Context, rec FrequencyChangeRecord) error
	AppendVendorChange(ctx context.Context, rec VendorChangeRecord) error

	ListFrequencyChanges(ctx context.Context, orgID string) ([]FrequencyChangeRecord, error)
	ListVendorChanges(ctx context.Context, orgID string) ([]VendorChangeRecord, error)
}
