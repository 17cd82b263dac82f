package postgres

import (
	"context"
	"database/sql"

	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/events"
	"compliance-calendar/internal/domain/schedule"
)

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

func (r *EventsRepo) CreateEvents(ctx context.Context, rows []events.ScheduledEvent) error {
	if len(rows) == 0 {
		return nil
	}

	// Una serie recurrente se inserta completa o no se inserta.
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO scheduled_events (
				id, org_id,
				title, type,
				date, start_minutes, end_minutes,
				location, description,
				vendor_id, vendor_name,
				category, cadence, recurrence_group_id,
				overdue
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		`,
			e.ID,
			e.OrgID,
			e.Title,
			string(e.Type),
			e.Date,
			e.StartMinutes,
			nullableInt(e.EndMinutes),
			e.Location,
			e.Description,
			e.VendorID,
			e.VendorName,
			string(e.Category),
			string(e.Cadence),
			e.RecurrenceGroupID,
			e.Overdue,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *EventsRepo) UpdateEvent(ctx context.Context, e events.ScheduledEvent) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE scheduled_events SET
			title = $2,
			type = $3,
			date = $4,
			start_minutes = $5,
			end_minutes = $6,
			location = $7,
			description = $8,
			vendor_id = $9,
			vendor_name = $10,
			category = $11,
			cadence = $12,
			overdue = $13
		WHERE id = $1
	`,
		e.ID,
		e.Title,
		string(e.Type),
		e.Date,
		e.StartMinutes,
		nullableInt(e.EndMinutes),
		e.Location,
		e.Description,
		e.VendorID,
		e.VendorName,
		string(e.Category),
		string(e.Cadence),
		e.Overdue,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventsRepo) DeleteEvent(ctx context.Context, id string) error {
	// Borrado idempotente: cero filas afectadas no es error.
	_, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_events WHERE id = $1`, id)
	return err
}

func (r *EventsRepo) ListByOrg(ctx context.Context, orgID string) ([]events.ScheduledEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, org_id,
			title, type,
			date, start_minutes, end_minutes,
			location, description,
			vendor_id, vendor_name,
			category, cadence, recurrence_group_id,
			overdue
		FROM scheduled_events
		WHERE org_id = $1
		ORDER BY date, start_minutes
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.ScheduledEvent, 0)
	for rows.Next() {
		var e events.ScheduledEvent
		var typ, category, cadence string
		var endMinutes sql.NullInt64
		if err := rows.Scan(
			&e.ID,
			&e.OrgID,
			&e.Title,
			&typ,
			&e.Date,
			&e.StartMinutes,
			&endMinutes,
			&e.Location,
			&e.Description,
			&e.VendorID,
			&e.VendorName,
			&category,
			&cadence,
			&e.RecurrenceGroupID,
			&e.Overdue,
		); err != nil {
			return nil, err
		}
		e.Type = events.EventType(typ)
		e.Category = categories.ServiceCategory(category)
		e.Cadence = schedule.Cadence(cadence)
		if endMinutes.Valid {
			v := int(endMinutes.Int64)
			e.EndMinutes = &v
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
