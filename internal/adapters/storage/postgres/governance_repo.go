package postgres

import (
	"context"
	"database/sql"

	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/governance"
	"compliance-calendar/internal/domain/schedule"
)

// GovernanceRepo persiste el registro de auditoría. Solo INSERT y SELECT:
// las tablas no tienen UPDATE ni DELETE desde la aplicación.
type GovernanceRepo struct {
	db *sql.DB
}

func NewGovernanceRepo(db *sql.DB) *GovernanceRepo {
	return &GovernanceRepo{db: db}
}

func (r *GovernanceRepo) AppendFrequencyChange(ctx context.Context, rec governance.FrequencyChangeRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO frequency_changes (
			id, org_id,
			category, location_scope,
			previous_cadence, new_cadence,
			reduction_percent,
			minimum_cadence, citation, below_minimum,
			acknowledged, reason, justification,
			recorded_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		rec.ID,
		rec.OrgID,
		string(rec.Category),
		rec.LocationScope,
		string(rec.Previous),
		string(rec.New),
		rec.ReductionPercent,
		string(rec.Minimum),
		rec.Citation,
		rec.BelowMinimum,
		rec.Acknowledged,
		string(rec.Reason),
		rec.Justification,
		rec.RecordedAt,
	)
	return err
}

func (r *GovernanceRepo) AppendVendorChange(ctx context.Context, rec governance.VendorChangeRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vendor_changes (
			id, org_id,
			category,
			previous_vendor, new_vendor,
			reason, detail, scope,
			recorded_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		rec.ID,
		rec.OrgID,
		string(rec.Category),
		rec.PreviousVendor,
		rec.NewVendor,
		string(rec.Reason),
		rec.Detail,
		string(rec.Scope),
		rec.RecordedAt,
	)
	return err
}

func (r *GovernanceRepo) ListFrequencyChanges(ctx context.Context, orgID string) ([]governance.FrequencyChangeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, org_id,
			category, location_scope,
			previous_cadence, new_cadence,
			reduction_percent,
			minimum_cadence, citation, below_minimum,
			acknowledged, reason, justification,
			recorded_at
		FROM frequency_changes
		WHERE org_id = $1
		ORDER BY recorded_at
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]governance.FrequencyChangeRecord, 0)
	for rows.Next() {
		var rec governance.FrequencyChangeRecord
		var category, previous, next, minimum, reason string
		if err := rows.Scan(
			&rec.ID,
			&rec.OrgID,
			&category,
			&rec.LocationScope,
			&previous,
			&next,
			&rec.ReductionPercent,
			&minimum,
			&rec.Citation,
			&rec.BelowMinimum,
			&rec.Acknowledged,
			&reason,
			&rec.Justification,
			&rec.RecordedAt,
		); err != nil {
			return nil, err
		}
		rec.Category = categories.ServiceCategory(category)
		rec.Previous = schedule.Cadence(previous)
		rec.New = schedule.Cadence(next)
		rec.Minimum = schedule.Cadence(minimum)
		rec.Reason = governance.FrequencyReason(reason)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *GovernanceRepo) ListVendorChanges(ctx context.Context, orgID string) ([]governance.VendorChangeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, org_id,
			category,
			previous_vendor, new_vendor,
			reason, detail, scope,
			recorded_at
		FROM vendor_changes
		WHERE org_id = $1
		ORDER BY recorded_at
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]governance.VendorChangeRecord, 0)
	for rows.Next() {
		var rec governance.VendorChangeRecord
		var category, reason, scope string
		if err := rows.Scan(
			&rec.ID,
			&rec.OrgID,
			&category,
			&rec.PreviousVendor,
			&rec.NewVendor,
			&reason,
			&rec.Detail,
			&scope,
			&rec.RecordedAt,
		); err != nil {
			return nil, err
		}
		rec.Category = categories.ServiceCategory(category)
		rec.Reason = governance.VendorReason(reason)
		rec.Scope = governance.VendorScope(scope)
		out = append(out, rec)
	}
	return out, rows.Err()
}
