package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/governance"
	"compliance-calendar/internal/domain/schedule"
)

func TestWriteAudit_RoundTrip(t *testing.T) {
	recordedAt := time.Date(2026, time.April, 10, 15, 30, 0, 0, time.UTC)
	freq := []governance.FrequencyChangeRecord{
		{
			ID:               "f-1",
			OrgID:            "org-1",
			Category:         categories.PestControl,
			LocationScope:    "Downtown Kitchen",
			Previous:         schedule.CadenceMonthly,
			New:              schedule.CadenceAnnual,
			ReductionPercent: 57,
			BelowMinimum:     true,
			Minimum:          schedule.CadenceQuarterly,
			Citation:         "Structural pest control regulations",
			Acknowledged:     true,
			Reason:           governance.FrequencyReasonCostReduction,
			Justification:    "budget cut for Q3",
			RecordedAt:       recordedAt,
		},
	}
	vendors := []governance.VendorChangeRecord{
		{
			ID:             "v-1",
			OrgID:          "org-1",
			Category:       categories.HoodCleaning,
			PreviousVendor: "ProClean Services",
			NewVendor:      "Summit Hood Care",
			Reason:         governance.VendorReasonPricing,
			Scope:          governance.VendorScopeCategory,
			RecordedAt:     recordedAt,
		},
	}

	var buf bytes.Buffer
	if err := NewExporter().WriteAudit(&buf, freq, vendors); err != nil {
		t.Fatalf("WriteAudit error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %v", sheets)
	}

	got, err := f.GetCellValue(sheetFrequency, "B2")
	if err != nil || got != "pest_control" {
		t.Fatalf("frequency category cell: %q, err %v", got, err)
	}
	got, _ = f.GetCellValue(sheetFrequency, "I2")
	if got != "Structural pest control regulations" {
		t.Fatalf("citation cell: %q", got)
	}

	got, _ = f.GetCellValue(sheetVendors, "D2")
	if got != "Summit Hood Care" {
		t.Fatalf("vendor cell: %q", got)
	}
}

func TestWriteAudit_EmptyAuditStillValidWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExporter().WriteAudit(&buf, nil, nil); err != nil {
		t.Fatalf("WriteAudit error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	got, _ := f.GetCellValue(sheetFrequency, "A1")
	if got != "Recorded At" {
		t.Fatalf("header row missing: %q", got)
	}
}
