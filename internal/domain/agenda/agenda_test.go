package agenda

import (
	"testing"
	"time"

	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/events"
	"compliance-calendar/internal/ports/auth"
)

func ev(id string, t events.EventType, date string, startMin int) events.ScheduledEvent {
	return events.ScheduledEvent{
		ID:           id,
		OrgID:        "org-1",
		Title:        string(t) + " " + id,
		Type:         t,
		Date:         date,
		StartMinutes: startMin,
	}
}

func fixedNow() time.Time {
	return time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC)
}

func TestAllowedTypes_OwnerSeesEverything(t *testing.T) {
	got := AllowedTypes(RoleOwnerOperator)
	if len(got) != len(events.AllTypes()) {
		t.Fatalf("owner_operator must see all types, got %d", len(got))
	}
}

func TestAllowedTypes_UnknownRoleDenied(t *testing.T) {
	if got := AllowedTypes("janitor"); got != nil {
		t.Fatalf("unknown role must see nothing, got %v", got)
	}
	if Allows("janitor", events.EventTypeTempCheck) {
		t.Fatalf("unknown role must not pass Allows")
	}
}

func TestVisible_KitchenStaffScenario(t *testing.T) {
	all := []events.ScheduledEvent{
		ev("a", events.EventTypeTempCheck, "2026-04-10", 6*60),
		ev("b", events.EventTypeChecklist, "2026-04-10", 6*60+30),
		ev("c", events.EventTypeVendor, "2026-04-10", 14*60),
		ev("d", events.EventTypeInspection, "2026-04-11", 10*60),
	}
	claims := auth.Claims{Role: RoleKitchenStaff, AllLocations: true}

	got := Visible(claims, Selection{}, all)
	if len(got) != 2 {
		t.Fatalf("kitchen_staff expects temp-check+checklist only, got %d", len(got))
	}
	for _, e := range got {
		if e.Type != events.EventTypeTempCheck && e.Type != events.EventTypeChecklist {
			t.Fatalf("unexpected type %s for kitchen_staff", e.Type)
		}
	}
}

func TestVisible_SelectionCannotWidenRole(t *testing.T) {
	all := []events.ScheduledEvent{
		ev("a", events.EventTypeInspection, "2026-04-10", 10*60),
	}
	claims := auth.Claims{Role: RoleKitchenStaff, AllLocations: true}
	sel := Selection{Types: []events.EventType{events.EventTypeInspection}}

	if got := Visible(claims, sel, all); len(got) != 0 {
		t.Fatalf("user selection must not bypass the role allow-list")
	}
}

func TestVisible_ConjunctiveFilters(t *testing.T) {
	a := ev("a", events.EventTypeVendor, "2026-04-10", 10*60)
	a.Location = "Downtown Kitchen"
	a.Category = categories.HoodCleaning
	b := ev("b", events.EventTypeVendor, "2026-04-10", 11*60)
	b.Location = "Airport Cafe"
	b.Category = categories.HoodCleaning
	c := ev("c", events.EventTypeVendor, "2026-04-10", 12*60)
	c.Location = "Downtown Kitchen"
	c.Category = categories.PestControl

	claims := auth.Claims{Role: RoleOwnerOperator, AllLocations: true}
	sel := Selection{
		Locations:  []string{"Downtown Kitchen"},
		Categories: []categories.ServiceCategory{categories.HoodCleaning},
	}

	got := Visible(claims, sel, []events.ScheduledEvent{a, b, c})
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("conjunctive filter expected only 'a', got %v", got)
	}
}

func TestVisible_LocationClaims(t *testing.T) {
	a := ev("a", events.EventTypeVendor, "2026-04-10", 10*60)
	a.Location = "Downtown Kitchen"
	b := ev("b", events.EventTypeVendor, "2026-04-10", 11*60)
	b.Location = "Airport Cafe"
	noLoc := ev("c", events.EventTypeVendor, "2026-04-10", 12*60)

	claims := auth.Claims{Role: RoleOwnerOperator, Locations: []string{"Downtown Kitchen"}}
	got := Visible(claims, Selection{}, []events.ScheduledEvent{a, b, noLoc})
	if len(got) != 2 {
		t.Fatalf("expected own location plus unassigned, got %d", len(got))
	}
	for _, e := range got {
		if e.ID == "b" {
			t.Fatalf("other location leaked through claims")
		}
	}
}

func TestIndex_ByDateSortedByStart(t *testing.T) {
	idx := NewIndex([]events.ScheduledEvent{
		ev("late", events.EventTypeVendor, "2026-04-10", 15*60),
		ev("early", events.EventTypeTempCheck, "2026-04-10", 6*60),
		ev("other", events.EventTypeChecklist, "2026-04-11", 6*60),
	})

	day := idx.ByDate("2026-04-10")
	if len(day) != 2 {
		t.Fatalf("expected 2 events on 04-10, got %d", len(day))
	}
	if day[0].ID != "early" || day[1].ID != "late" {
		t.Fatalf("bucket not sorted by start: %s, %s", day[0].ID, day[1].ID)
	}
	if got := idx.ByDate("2026-04-12"); len(got) != 0 {
		t.Fatalf("empty day must return empty slice")
	}
}

func TestIndex_ByHour(t *testing.T) {
	idx := NewIndex([]events.ScheduledEvent{
		ev("a", events.EventTypeTempCheck, "2026-04-10", 6*60),
		ev("b", events.EventTypeChecklist, "2026-04-10", 6*60+30),
		ev("c", events.EventTypeVendor, "2026-04-10", 14*60),
	})

	six := idx.ByHour("2026-04-10", 6)
	if len(six) != 2 {
		t.Fatalf("hour 6 expects 2 events, got %d", len(six))
	}
	if got := idx.ByHour("2026-04-10", 7); len(got) != 0 {
		t.Fatalf("hour 7 expects none, got %d", len(got))
	}
}

func TestIndicators_DailyMarkers(t *testing.T) {
	o := ev("o", events.EventTypeCorrective, "2026-04-09", 10*60)
	o.Overdue = true
	idx := NewIndex([]events.ScheduledEvent{
		ev("a", events.EventTypeTempCheck, "2026-04-10", 6*60),
		ev("b", events.EventTypeVendor, "2026-04-10", 14*60),
		ev("c", events.EventTypeChecklist, "2026-04-11", 6*60),
		o,
	})

	inds := idx.Indicators()
	if len(inds) != 3 {
		t.Fatalf("expected 3 days, got %d", len(inds))
	}
	if inds[0].Date != "2026-04-09" || !inds[0].HasOverdue {
		t.Fatalf("04-09 must flag overdue: %+v", inds[0])
	}
	if !inds[1].HasTempCheck || inds[1].HasChecklist || inds[1].Total != 2 {
		t.Fatalf("04-10 indicator wrong: %+v", inds[1])
	}
	if inds[2].HasTempCheck || !inds[2].HasChecklist {
		t.Fatalf("04-11 indicator wrong: %+v", inds[2])
	}
}

func TestToday_OnlyCurrentDate(t *testing.T) {
	got := Today([]events.ScheduledEvent{
		ev("a", events.EventTypeTempCheck, "2026-04-10", 6*60),
		ev("b", events.EventTypeVendor, "2026-04-11", 10*60),
	}, fixedNow())
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("Today expected only 'a', got %v", got)
	}
}

func TestUpcoming_ExcludesOverdueAndPast(t *testing.T) {
	past := ev("past", events.EventTypeVendor, "2026-04-01", 10*60)
	od := ev("od", events.EventTypeCorrective, "2026-04-12", 10*60)
	od.Overdue = true
	items := []events.ScheduledEvent{
		past,
		od,
		ev("c", events.EventTypeVendor, "2026-04-15", 10*60),
		ev("b", events.EventTypeInspection, "2026-04-12", 9*60),
		ev("a", events.EventTypeTempCheck, "2026-04-10", 6*60),
	}

	got := Upcoming(items, fixedNow(), 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 upcoming, got %d", len(got))
	}
	wantOrder := []string{"a", "b", "c"}
	for i, w := range wantOrder {
		if got[i].ID != w {
			t.Fatalf("order[%d]: expected %s, got %s", i, w, got[i].ID)
		}
	}

	if got := Upcoming(items, fixedNow(), 2); len(got) != 2 {
		t.Fatalf("limit not applied, got %d", len(got))
	}
}

func TestOverdue_UsesUnfilteredSet(t *testing.T) {
	od := ev("od", events.EventTypeCorrective, "2026-04-01", 10*60)
	od.Overdue = true
	od2 := ev("od2", events.EventTypeCorrective, "2026-03-20", 9*60)
	od2.Overdue = true

	got := Overdue([]events.ScheduledEvent{
		ev("a", events.EventTypeTempCheck, "2026-04-10", 6*60),
		od,
		od2,
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 overdue, got %d", len(got))
	}
	if got[0].ID != "od2" || got[1].ID != "od" {
		t.Fatalf("overdue must sort oldest first: %s, %s", got[0].ID, got[1].ID)
	}
}
