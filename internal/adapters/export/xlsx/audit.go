package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"compliance-calendar/internal/domain/governance"
)

// Exporter arma la planilla de auditoría: una hoja por tipo de registro.
// Implementa governance.AuditExporter.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

const (
	sheetFrequency = "Frequency Changes"
	sheetVendors   = "Vendor Changes"

	timeLayout = "2006-01-02 15:04:05"
)

func (x *Exporter) WriteAudit(w io.Writer, freq []governance.FrequencyChangeRecord, vendors []governance.VendorChangeRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := writeFrequencySheet(f, freq); err != nil {
		return err
	}
	if err := writeVendorSheet(f, vendors); err != nil {
		return err
	}

	// La hoja default "Sheet1" sobra una vez creadas las propias.
	_ = f.DeleteSheet("Sheet1")

	return f.Write(w)
}

func writeFrequencySheet(f *excelize.File, recs []governance.FrequencyChangeRecord) error {
	if _, err := f.NewSheet(sheetFrequency); err != nil {
		return err
	}

	headers := []string{
		"Recorded At", "Category", "Location Scope",
		"Previous Cadence", "New Cadence", "Reduction %",
		"Below Minimum", "Minimum Cadence", "Citation",
		"Reason", "Justification",
	}
	if err := writeRow(f, sheetFrequency, 1, toAny(headers)); err != nil {
		return err
	}

	for i, rec := range recs {
		row := []any{
			rec.RecordedAt.Format(timeLayout),
			string(rec.Category),
			rec.LocationScope,
			rec.Previous.Label(),
			rec.New.Label(),
			rec.ReductionPercent,
			rec.BelowMinimum,
			rec.Minimum.Label(),
			rec.Citation,
			string(rec.Reason),
			rec.Justification,
		}
		if err := writeRow(f, sheetFrequency, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeVendorSheet(f *excelize.File, recs []governance.VendorChangeRecord) error {
	if _, err := f.NewSheet(sheetVendors); err != nil {
		return err
	}

	headers := []string{
		"Recorded At", "Category",
		"Previous Vendor", "New Vendor",
		"Reason", "Detail", "Scope",
	}
	if err := writeRow(f, sheetVendors, 1, toAny(headers)); err != nil {
		return err
	}

	for i, rec := range recs {
		row := []any{
			rec.RecordedAt.Format(timeLayout),
			string(rec.Category),
			rec.PreviousVendor,
			rec.NewVendor,
			string(rec.Reason),
			rec.Detail,
			string(rec.Scope),
		}
		if err := writeRow(f, sheetVendors, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("xlsx: cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("xlsx: set cell %s: %w", cell, err)
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
