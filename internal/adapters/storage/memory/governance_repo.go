package memory

import (
	"context"
	"errors"
	"sync"

	"compliance-calendar/internal/domain/governance"
)

// governanceRepo es append-only: los registros de auditoría nunca se editan
// ni se borran, solo se agregan y se listan en orden de inserción.
type governanceRepo struct {
	mu      sync.RWMutex
	freq    []governance.FrequencyChangeRecord
	vendors []governance.VendorChangeRecord
}

func NewGovernanceRepo() governance.Repository {
	return &governanceRepo{}
}

func (r *governanceRepo) AppendFrequencyChange(ctx context.Context, rec governance.FrequencyChangeRecord) error {
	if rec.ID == "" {
		return errors.New("record id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.freq = append(r.freq, rec)
	return nil
}

func (r *governanceRepo) AppendVendorChange(ctx context.Context, rec governance.VendorChangeRecord) error {
	if rec.ID == "" {
		return errors.New("record id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vendors = append(r.vendors, rec)
	return nil
}

func (r *governanceRepo) ListFrequencyChanges(ctx context.Context, orgID string) ([]governance.FrequencyChangeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]governance.FrequencyChangeRecord, 0)
	for _, rec := range r.freq {
		if rec.OrgID == orgID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *governanceRepo) ListVendorChanges(ctx context.Context, orgID string) ([]governance.VendorChangeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]governance.VendorChangeRecord, 0)
	for _, rec := range r.vendors {
		if rec.OrgID == orgID {
			out = append(out, rec)
		}
	}
	return out, nil
}
